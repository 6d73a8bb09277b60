package commands

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/tripmap/pkg/runner/ui"
	"tableflip.dev/tripmap/pkg/store"
)

const completionTimeout = 2 * time.Second

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(tripmap completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(tripmap completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// tripCompletions offers trip ids, described by title.
func tripCompletions(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	demo, _ := cmd.Flags().GetBool("demo")

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()
	trips, err := ui.NewBackend(cfg, demo).Trips(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(trips))
	for _, t := range trips {
		out = append(out, strconv.FormatInt(t.ID, 10)+"\t"+t.Title)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
