package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tripmap/pkg/printers"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tripmap",
		Short: base.Wrap80("Browse trips, their locations and photos, and where the map should look."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			printers.DisableColorUnlessTerminal()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addTrips(topLevel)
	addTrip(topLevel)
	addBounds(topLevel)
	addGazetteer(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
