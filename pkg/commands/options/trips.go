package options

import (
	"github.com/spf13/cobra"
)

// TripsOptions
type TripsOptions struct {
	Match  string
	Shared bool
}

func AddTripsArgs(cmd *cobra.Command, o *TripsOptions) {
	cmd.Flags().StringVarP(&o.Match, "match", "m", "",
		"Fuzzy match trips by title, place or owner.")
	cmd.Flags().BoolVar(&o.Shared, "shared", false,
		"Only show trips shared with you.")
}

// GazetteerOptions
type GazetteerOptions struct {
	Builtin bool
}

func AddBuiltinArg(cmd *cobra.Command, o *GazetteerOptions) {
	cmd.Flags().BoolVar(&o.Builtin, "builtin", false,
		"List the built-in cities instead of your overrides.")
}

// FocusOptions
type FocusOptions struct {
	Radius float64
}

func AddFocusArg(cmd *cobra.Command, o *FocusOptions) {
	cmd.Flags().Float64Var(&o.Radius, "radius", 0,
		"Degrees around a city when a trip has no geocoded locations. Defaults to focus_radius from the config.")
}

// RadiusOr returns the flag value, or fallback when it was not set.
func (o *FocusOptions) RadiusOr(fallback float64) float64 {
	if o.Radius > 0 {
		return o.Radius
	}
	return fallback
}
