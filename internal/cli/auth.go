package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/itemdesk/internal/model"
	"github.com/idilsaglam/itemdesk/internal/session"
	"github.com/idilsaglam/itemdesk/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out, show the current user",
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthWhoamiCmd(app))
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Remember a user id for later commands",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uid := model.ParseID(id)
			if uid.IsZero() {
				return usagef("login: --id is required")
			}
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := session.Save(ctx, st, uid, name); err != nil {
				return err
			}

			who := uid.String()
			if n := strings.TrimSpace(name); n != "" {
				who = fmt.Sprintf("%s (%s)", n, uid)
			}
			ui.OK(cmd.OutOrStdout(), "signed in as "+who)
			if env := strings.TrimSpace(os.Getenv(session.EnvUserID)); env != "" && model.ParseID(env) != uid {
				app.log.Warn("environment overrides the saved user", "env", session.EnvUserID, "user", env)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "user id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := session.Clear(ctx, st); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newAuthWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			id, ok := sess.Identity()
			if !ok {
				return errNotLoggedIn
			}
			name := id.Name
			if name == "" {
				name = "(no name)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", id.ID, name, ui.Current().Muted.Render("from "+id.Source))
			return nil
		},
	}
}
