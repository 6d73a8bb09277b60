package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tripmap/pkg/commands/options"
	"tableflip.dev/tripmap/pkg/runner/trips"
	"tableflip.dev/tripmap/pkg/runner/ui"
)

func addTrips(topLevel *cobra.Command) {
	bo := &options.BackendOptions{}
	to := &options.TripsOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "trips",
		Short: "list trips",
		Example: `
tripmap trips
tripmap trips --match kyoto
tripmap trips --shared --json
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			defer env.close()

			s := trips.Trips{
				Backend: ui.NewBackend(env.cfg, bo.Demo).Backend,
				Match:   to.Match,
				Shared:  to.Shared,
				Format:  oo.Format(),
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddBackendArgs(cmd, bo)
	options.AddTripsArgs(cmd, to)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
