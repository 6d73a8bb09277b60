package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tripmap/pkg/commands/options"
	"tableflip.dev/tripmap/pkg/runner/ui"
	"tableflip.dev/tripmap/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	bo := &options.BackendOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
tripmap ui
tripmap ui --demo
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return err
			}
			defer env.close()

			overrides, err := store.Load(env.cfg)
			if err != nil {
				return err
			}
			i := ui.UI{
				Config:    env.cfg,
				Overrides: overrides,
				Logger:    env.logger,
				Demo:      bo.Demo,
			}
			return i.Do(context.Background())
		},
	}

	options.AddBackendArgs(cmd, bo)
	topLevel.AddCommand(cmd)
}
