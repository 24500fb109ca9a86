package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/itemdesk/internal/logging"
	"github.com/idilsaglam/itemdesk/internal/tui"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive item browser (default)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, app)
		},
	}
}

func runBrowse(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	c, err := app.client()
	if err != nil {
		return err
	}
	sess, err := app.session(ctx)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal; log to a file instead.
	l, closer, err := logging.ToFile(app.cfg.LogPath(), app.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()
	logging.Verbose(l, app.Verbose)
	l.Info("browse", "api", app.cfg.APIURL, "signed_in", sess.Authenticated())

	router := tui.NewRouter()
	b := app.newBrowser(ctx, c, router, sess, l)
	return tui.Run(ctx, tui.New(ctx, b, c, router))
}
