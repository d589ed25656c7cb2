package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"babywords/internal/category"
	"babywords/internal/cli/app"
	"babywords/internal/cli/options"
	"babywords/internal/cli/printers"
	"babywords/internal/viewmodel/report"
)

func addWords(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "words",
		Aliases: []string{"word"},
		Short:   "Record and review spoken words",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addWordsAdd(cmd)
	addWordsList(cmd)
	addWordsCategorize(cmd)
	addWordsDelete(cmd)

	topLevel.AddCommand(cmd)
}

func addWordsAdd(topLevel *cobra.Command) {
	o := &options.WordAddOptions{}

	cmd := &cobra.Command{
		Use:   "add WORD",
		Short: "Record a new word for the selected baby",
		Example: `
babywords words add mama --category family
babywords words add "night night" --date 2024-03-01
`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			sc, err := a.Session(ctx)
			if err != nil {
				return err
			}

			word := strings.Join(args, " ")
			if err := a.Report().AddWord(ctx, sc, word, o.Date, o.Category); err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Added %q for %s on %s", word, sc.Profile.Name, o.Date)
			return nil
		}),
	}
	options.AddWordAddArgs(cmd, o)

	topLevel.AddCommand(cmd)
}

func addWordsList(topLevel *cobra.Command) {
	o := &options.WordListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the word report for the selected baby",
		Example: `
babywords words list
babywords words list --category animal --asc
`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			sc, err := a.Session(ctx)
			if err != nil {
				return err
			}

			m := a.Report()
			m.SetFilter(category.Normalize(o.Category))
			if o.Asc {
				err = m.ToggleSort(ctx, sc)
			} else {
				err = m.Load(ctx, sc)
			}
			if err != nil {
				return err
			}
			printers.Words(cmd.OutOrStdout(), m.State(), m.Visible(), m.Filter())
			return nil
		}),
	}
	options.AddWordListArgs(cmd, o)

	topLevel.AddCommand(cmd)
}

// loadReport loads the selected baby's words for a single edit
func loadReport(cmd *cobra.Command, a *app.App) (*report.Model, error) {
	sc, err := a.Session(cmd.Context())
	if err != nil {
		return nil, err
	}
	m := a.Report()
	if err := m.Load(cmd.Context(), sc); err != nil {
		return nil, err
	}
	return m, nil
}

func addWordsCategorize(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "categorize ID CATEGORY",
		Short: "Change the category of a word",
		Example: `
babywords words categorize 12 animal
babywords words categorize 12 ""
`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := loadReport(cmd, a)
			if err != nil {
				return err
			}

			if err := m.BeginEdit(id); err != nil {
				return err
			}
			if err := m.SetDraft(args[1]); err != nil {
				return err
			}
			if err := m.CommitEdit(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			info := category.Lookup(category.Normalize(args[1]))
			printers.Success(cmd.OutOrStdout(), "Saved word %d as %s %s", id, info.Emoji, info.Label)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addWordsDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a word",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := loadReport(cmd, a)
			if err != nil {
				return err
			}
			if err := m.Remove(cmd.Context(), id); err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Deleted word %d", id)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addCategories(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the word categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printers.Categories(cmd.OutOrStdout())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
