package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/commands/options"
	"tableflip.dev/tripmap/pkg/runner/gazetteer"
	"tableflip.dev/tripmap/pkg/store"
)

func addGazetteer(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "gazetteer",
		Short: "manage city coordinates used when a trip has no geotagged locations",
		Long: base.Wrap80(`Trips without geotagged locations are framed around their city. ` +
			`Cities come from a built-in table; overrides added here take precedence and are ` +
			`picked up by a running UI.`),
	}

	addGazetteerAdd(cmd)
	addGazetteerList(cmd)
	addGazetteerLookup(cmd)
	addGazetteerRemove(cmd)
	topLevel.AddCommand(cmd)
}

func loadGazetteer(oo *options.OutputOptions) (*gazetteer.Gazetteer, *environment, error) {
	env, err := setup()
	if err != nil {
		return nil, nil, err
	}
	overrides, err := store.Load(env.cfg)
	if err != nil {
		env.close()
		return nil, nil, err
	}
	return &gazetteer.Gazetteer{Overrides: overrides, Format: oo.Format()}, env, nil
}

// cityArgs splits "city [country]".
func cityArgs(args []string) (string, string) {
	city := strings.TrimSpace(args[0])
	country := ""
	if len(args) > 1 {
		country = strings.TrimSpace(args[1])
	}
	return city, country
}

func addGazetteerAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add <city> <country> <longitude> <latitude>",
		Short: "add or replace a city override",
		Example: `
tripmap gazetteer add Porto Portugal -8.6291 41.1579
`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[2])
			}
			lat, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[3])
			}
			g, env, err := loadGazetteer(&options.OutputOptions{})
			if err != nil {
				return err
			}
			defer env.close()

			city, country := cityArgs(args)
			return g.Add(context.Background(), bounds.Entry{
				City:    city,
				Country: country,
				Point:   bounds.Point{Longitude: lon, Latitude: lat},
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addGazetteerList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	gzo := &options.GazetteerOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list city overrides",
		Example: `
tripmap gazetteer list
tripmap gazetteer list --builtin --yaml
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			g, env, err := loadGazetteer(oo)
			if err != nil {
				return oo.HandleError(err)
			}
			defer env.close()
			return oo.HandleError(g.List(context.Background(), gzo.Builtin))
		},
	}

	options.AddBuiltinArg(cmd, gzo)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGazetteerLookup(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	fo := &options.FocusOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <city> [country]",
		Short: "show the coordinate and focus box for a city",
		Example: `
tripmap gazetteer lookup Paris France
`,
		Args: cobra.RangeArgs(1, 2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			g, env, err := loadGazetteer(oo)
			if err != nil {
				return oo.HandleError(err)
			}
			defer env.close()
			city, country := cityArgs(args)
			return oo.HandleError(g.Lookup(context.Background(), city, country, fo.RadiusOr(env.cfg.FocusRadius())))
		},
	}

	options.AddFocusArg(cmd, fo)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGazetteerRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "remove <city> [country]",
		Aliases: []string{"rm"},
		Short:   "remove a city override",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, env, err := loadGazetteer(&options.OutputOptions{})
			if err != nil {
				return err
			}
			defer env.close()
			city, country := cityArgs(args)
			return g.Remove(context.Background(), city, country)
		},
	}
	topLevel.AddCommand(cmd)
}
