package options

import (
	"github.com/spf13/cobra"
)

// BackendOptions
type BackendOptions struct {
	Demo bool
}

func AddBackendArgs(cmd *cobra.Command, o *BackendOptions) {
	cmd.Flags().BoolVar(&o.Demo, "demo", false,
		"Use built-in sample trips instead of the backend.")
}
