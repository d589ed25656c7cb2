package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"babywords/internal/cli/app"
	"babywords/internal/cli/options"
	"babywords/internal/cli/printers"
)

func addStats(topLevel *cobra.Command) {
	o := &options.StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard for the selected baby",
		Example: `
babywords stats
babywords stats --start 2024-01-01 --end 2024-01-31 --category food
`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			sc, err := a.Session(ctx)
			if err != nil {
				return err
			}

			m := a.Stats()
			if o.Start != "" || o.End != "" {
				w := m.Window()
				if o.Start != "" {
					w.Start = o.Start
				}
				if o.End != "" {
					w.End = o.End
				}
				if err := m.SetWindow(w.Start, w.End); err != nil {
					return err
				}
			}
			m.SelectCategory(o.Category)

			if err := m.LoadSummary(ctx, sc); err != nil {
				return err
			}
			if !m.HasData() {
				fmt.Fprintf(out, "No dashboard data yet for %s. Add a word with `babywords words add`.\n", sc.Profile.Name)
				return nil
			}
			if err := m.LoadSeries(ctx, sc); err != nil {
				return err
			}

			w := m.Window()
			fmt.Fprintf(out, "%s\n\n", sc.Profile.Name)
			printers.Cards(out, m.Cards())
			fmt.Fprintln(out, "\nTop categories")
			printers.Slices(out, m.Slices())

			title := "All words"
			if cat := m.Category(); cat != "" {
				title = "Category " + cat
			}
			fmt.Fprintf(out, "\n%s, %s to %s\n", title, w.Start, w.End)
			printers.Series(out, m.Series().Data)
			return nil
		}),
	}
	options.AddStatsArgs(cmd, o)

	topLevel.AddCommand(cmd)
}

func addDigest(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Email this week's word digest for the selected baby",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			sc, err := a.Session(ctx)
			if err != nil {
				return err
			}
			sent, err := a.Client.SendDigest(ctx, sc.ProfileID(), sc.UserID())
			if err != nil {
				return err
			}
			if !sent {
				fmt.Fprintln(cmd.OutOrStdout(), "Email delivery is not configured on the server.")
				return nil
			}
			printers.Success(cmd.OutOrStdout(), "Digest sent to %s", sc.User.Email)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}
