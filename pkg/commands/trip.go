package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tripmap/pkg/commands/options"
	"tableflip.dev/tripmap/pkg/runner/show"
	"tableflip.dev/tripmap/pkg/runner/ui"
	"tableflip.dev/tripmap/pkg/store"
)

func addTrip(topLevel *cobra.Command) {
	topLevel.AddCommand(showCommand("trip <id>", "show a trip with its locations and map focus", false, `
tripmap trip 1
tripmap trip 1 --yaml
`))
}

func addBounds(topLevel *cobra.Command) {
	topLevel.AddCommand(showCommand("bounds <id>", "print the region the map focuses on for a trip", true, `
tripmap bounds 4
tripmap bounds 4 --json
`))
}

func showCommand(use, short string, boundsOnly bool, example string) *cobra.Command {
	bo := &options.BackendOptions{}
	io := &options.TripIDOptions{}
	oo := &options.OutputOptions{}
	fo := &options.FocusOptions{}

	cmd := &cobra.Command{
		Use:               use,
		Short:             short,
		Example:           example,
		ValidArgsFunction: tripCompletions,
		Args: func(cmd *cobra.Command, args []string) error {
			return io.Parse(args)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			defer env.close()

			overrides, err := store.Load(env.cfg)
			if err != nil {
				return oo.HandleError(err)
			}
			s := show.Show{
				Backend:    ui.NewBackend(env.cfg, bo.Demo).Backend,
				TripID:     io.ID,
				Gazetteer:  store.Gazetteer(overrides),
				Radius:     fo.RadiusOr(env.cfg.FocusRadius()),
				BoundsOnly: boundsOnly,
				Format:     oo.Format(),
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddBackendArgs(cmd, bo)
	options.AddFocusArg(cmd, fo)
	options.AddOutputArg(cmd, oo)
	return cmd
}
