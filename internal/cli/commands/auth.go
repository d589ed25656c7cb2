package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"babywords/internal/appctx"
	"babywords/internal/cli/app"
	"babywords/internal/cli/options"
	"babywords/internal/cli/printers"
	"babywords/internal/viewmodel/selection"
)

const providerLoginTimeout = 5 * time.Minute

func addLogin(topLevel *cobra.Command) {
	o := &options.LoginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Baby Words",
		Example: `
babywords login --email me@example.com
babywords login --email me@example.com --register --name Sam
babywords login --provider google
`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var (
				user *appctx.User
				err  error
			)
			switch {
			case o.Provider != "":
				ctx, cancel := context.WithTimeout(ctx, providerLoginTimeout)
				defer cancel()
				user, err = a.SignInWithProvider(ctx, o.Provider, func(url string) error {
					_, err := fmt.Fprintf(out, "Open this link in your browser to sign in:\n\n  %s\n\n", url)
					return err
				})
			case o.Email == "":
				return errors.New("--email or --provider is required")
			default:
				password := o.Password
				if password == "" {
					if password, err = readLine(cmd, "Password: "); err != nil {
						return err
					}
				}
				if o.Register {
					user, err = a.Register(ctx, o.Email, password, o.Name)
				} else {
					user, err = a.SignIn(ctx, o.Email, password)
				}
			}
			if err != nil {
				return err
			}

			printers.Success(out, "Signed in as %s", user.Email)
			if _, err := a.Selection.Resolve(ctx, user); errors.Is(err, selection.ErrNoProfiles) {
				fmt.Fprintln(out, "Add your first baby with `babywords babies add NAME`.")
			}
			return nil
		}),
	}
	options.AddLoginArgs(cmd, o)

	topLevel.AddCommand(cmd)
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the selected baby",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			if err := a.SignOut(cmd.Context()); err != nil {
				return err
			}
			printers.Success(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and the selected baby",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
			out := cmd.OutOrStdout()
			sc, err := a.Session(cmd.Context())
			if sc.User == nil {
				return err
			}

			fmt.Fprintf(out, "User:  %s\n", sc.User.Email)
			switch {
			case sc.Profile != nil:
				fmt.Fprintf(out, "Baby:  %s (ID %d)\n", sc.Profile.Name, sc.Profile.ID)
				fmt.Fprintf(out, "Photo: %s\n", sc.Profile.Photo())
			case errors.Is(err, selection.ErrNoProfiles):
				fmt.Fprintln(out, "Baby:  none yet")
			default:
				return err
			}
			return nil
		}),
	}

	topLevel.AddCommand(cmd)
}
