package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"babywords/internal/appctx"
	"babywords/internal/cli/app"
	"babywords/internal/cli/options"
	"babywords/internal/cli/printers"
	"babywords/internal/models"
	"babywords/internal/viewmodel/selection"
)

func addBabies(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "babies",
		Aliases: []string{"baby"},
		Short:   "List, add and select baby profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addBabiesList(cmd)
	addBabiesAdd(cmd)
	addBabiesEdit(cmd)
	addBabiesSelect(cmd)
	addBabiesUse(cmd)

	topLevel.AddCommand(cmd)
}

// activeID resolves the selection, treating "no profiles" as none selected
func activeID(cmd *cobra.Command, a *app.App, user *appctx.User) (int64, error) {
	p, err := a.Selection.Resolve(cmd.Context(), user)
	if errors.Is(err, selection.ErrNoProfiles) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func addBabiesList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your babies; * marks the selected one",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			user, err := a.User(cmd.Context())
			if err != nil {
				return err
			}
			babies, err := a.Client.ListBabies(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			active, err := activeID(cmd, a, user)
			if err != nil {
				return err
			}
			printers.Babies(cmd.OutOrStdout(), babies, active)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addBabiesAdd(topLevel *cobra.Command) {
	o := &options.BabyOptions{}

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a baby",
		Example: `
babywords babies add Ada --photo https://example.com/ada.jpg
`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			user, err := a.User(ctx)
			if err != nil {
				return err
			}
			baby, err := a.Client.CreateBaby(ctx, user.ID, strings.Join(args, " "), o.Photo)
			if err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Added %s (ID %d)", baby.Name, baby.ID)

			// The first baby becomes the selected one
			if active, err := activeID(cmd, a, user); err == nil && active == 0 {
				return a.Selection.Select(profileOf(baby))
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&o.Photo, "photo", "", "Photo URL.")

	topLevel.AddCommand(cmd)
}

func addBabiesEdit(topLevel *cobra.Command) {
	o := &options.BabyOptions{}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a baby's name or photo",
		Example: `
babywords babies edit 4 --name "Ada Rose"
babywords babies edit 4 --photo https://example.com/new.jpg
`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := a.User(ctx)
			if err != nil {
				return err
			}
			current, err := a.Client.GetBaby(ctx, user.ID, id)
			if err != nil {
				return err
			}

			name, photo := current.Name, current.PhotoURL
			if cmd.Flags().Changed("name") {
				name = o.Name
			}
			if cmd.Flags().Changed("photo") {
				photo = o.Photo
			}
			baby, err := a.Client.UpdateBaby(ctx, user.ID, id, name, photo)
			if err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Updated %s", baby.Name)

			if active, err := activeID(cmd, a, user); err == nil && active == baby.ID {
				return a.Selection.Select(profileOf(baby))
			}
			return nil
		}),
	}
	options.AddBabyArgs(cmd, o)

	topLevel.AddCommand(cmd)
}

func addBabiesSelect(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "select NAME|ID",
		Short: "Select one of your babies by name or ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			user, err := a.User(ctx)
			if err != nil {
				return err
			}
			babies, err := a.Client.ListBabies(ctx, user.ID)
			if err != nil {
				return err
			}

			baby, ok := matchBaby(babies, strings.Join(args, " "))
			if !ok {
				return fmt.Errorf("no baby named %q", strings.Join(args, " "))
			}
			if err := a.Selection.Select(profileOf(&baby)); err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Now tracking %s", baby.Name)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addBabiesUse(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "use ID",
		Short: "Look up a baby by ID and select it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := a.User(ctx)
			if err != nil {
				return err
			}
			p, err := a.Selection.UseID(ctx, user, id)
			if errors.Is(err, selection.ErrNotFound) {
				printers.Failure(cmd.OutOrStdout(), "Baby ID not found!")
				return err
			}
			if err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Now tracking %s", p.Name)
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

// matchBaby finds a baby by exact ID or case-insensitive name
func matchBaby(babies []models.Baby, query string) (models.Baby, bool) {
	for _, b := range babies {
		if strconv.FormatInt(b.ID, 10) == query || strings.EqualFold(b.Name, query) {
			return b, true
		}
	}
	return models.Baby{}, false
}

func profileOf(b *models.Baby) appctx.Profile {
	return appctx.Profile{ID: b.ID, Name: b.Name, PhotoURL: b.PhotoURL}
}
