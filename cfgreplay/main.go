// Command cfgreplay replays recorded configuration-bus stimulus against a
// cycle-level device and reports a pass/fail verdict.
package main

import (
	"github.com/sarchlab/cfgreplay/cfgreplay/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	atexit.Exit(cmd.Execute())
}
