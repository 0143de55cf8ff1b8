package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/cfgreplay/stimulus"
)

// ErrUnknownVariant is returned for a workload name that is not in the
// variant table.
var ErrUnknownVariant = errors.New("unknown workload variant")

// Variant is a named workload: where its stimulus lives, how it is laid out
// and which optional sequencer behaviors it uses.
type Variant struct {
	Name        string
	Description string

	Format stimulus.Format
	Layout stimulus.Layout

	EnableReads  bool
	CompareReads bool

	// WritesStats makes the run produce the statistics file.
	WritesStats bool
}

// DefaultVariant is used when no workload is named.
const DefaultVariant = "conv_validation"

var variants = map[string]Variant{
	"conv_validation": {
		Name: "conv_validation",
		Description: "conv_validation - 100 different single convolution " +
			"workloads",
		Format: stimulus.FormatSplit,
		Layout: stimulus.LayoutPerTest,
	},
	"bmk_small": {
		Name:        "bmk_small",
		Description: "bmk_small - 4 large convolutions with tiling",
		Format:      stimulus.FormatSplit,
		Layout:      stimulus.LayoutPerTest,
	},
	"bmk_torture": {
		Name:        "bmk_torture",
		Description: "bmk_torture - 40 large convolutions with tiling",
		Format:      stimulus.FormatSplit,
		Layout:      stimulus.LayoutPerTest,
	},
	"cfg_test": {
		Name:        "cfg_test",
		Description: "cfg_test - register read/write test",
		Format:      stimulus.FormatCombined,
		Layout:      stimulus.LayoutGlobal,
		EnableReads: true,
		WritesStats: true,
	},
}

// LookupVariant returns the variant with the given name.
func LookupVariant(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}

	return v, nil
}

// VariantNames returns the names of all variants, sorted.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
