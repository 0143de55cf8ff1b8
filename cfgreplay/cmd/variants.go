package cmd

import (
	"fmt"

	"github.com/sarchlab/cfgreplay/config"
	"github.com/spf13/cobra"
)

func newVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the workload variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range config.VariantNames() {
				v, err := config.LookupVariant(name)
				if err != nil {
					return err
				}

				reads := ""
				if v.EnableReads {
					reads = " (reads)"
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s%s\n",
					name, v.Description, reads)
			}

			return nil
		},
	}
}
