// Package commands defines the babywords command tree.
package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"babywords/internal/cli/app"
	"babywords/internal/cli/config"
)

// New returns the root command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "babywords",
		Short: "Track a baby's first words from the command line.",
		Example: `
babywords login --email me@example.com
babywords babies add Ada
babywords words add mama --category family
babywords words list --category family
babywords stats
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(color.Output)

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches every subcommand to topLevel
func AddCommands(topLevel *cobra.Command) {
	addLogin(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
	addBabies(topLevel)
	addWords(topLevel)
	addBrowse(topLevel)
	addStats(topLevel)
	addDigest(topLevel)
	addCategories(topLevel)
}

type appRunE func(cmd *cobra.Command, a *app.App, args []string) error

// withApp loads the config and opens the app before running fn
func withApp(fn appRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a, err := app.Open(cfg)
		if err != nil {
			return err
		}
		return fn(cmd, a, args)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", raw)
	}
	return id, nil
}
