package commands

import (
	"github.com/spf13/cobra"

	"babywords/internal/cli/app"
	"babywords/internal/cli/browse"
)

func addBrowse(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and categorize words interactively",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			sc, err := a.Session(ctx)
			if err != nil {
				return err
			}
			return browse.Run(ctx, a.Report(), sc)
		}),
	}

	topLevel.AddCommand(cmd)
}
