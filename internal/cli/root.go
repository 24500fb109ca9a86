package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/itemdesk/internal/api"
	"github.com/idilsaglam/itemdesk/internal/browser"
	"github.com/idilsaglam/itemdesk/internal/config"
	"github.com/idilsaglam/itemdesk/internal/localstore"
	"github.com/idilsaglam/itemdesk/internal/logging"
	"github.com/idilsaglam/itemdesk/internal/session"
	"github.com/idilsaglam/itemdesk/internal/ui"
)

// App holds root flag values and what PersistentPreRunE derives from them.
type App struct {
	ConfigPath string
	APIURL     string
	Theme      string
	Verbose    bool
	NoColor    bool

	cfg config.Config
	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "itemdesk",
		Short:         "Browse, filter and manage shared items",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		Example: strings.TrimSpace(`
  # Start the interactive browser
  itemdesk

  # Scriptable commands
  itemdesk items ls --category 2
  itemdesk auth login --id 5 --name Ada
  itemdesk items rm 10
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, app)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&app.ConfigPath, "config", "", "config file (default ~/.itemdesk/config.yaml)")
	f.StringVar(&app.APIURL, "api", "", "API base URL (overrides config and "+config.EnvAPIURL+")")
	f.StringVar(&app.Theme, "theme", "", "color theme: classic, neon or mono")
	f.BoolVarP(&app.Verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVar(&app.NoColor, "no-color", false, "disable colors")

	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	return cmd
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.APIURL != "" {
		cfg.APIURL = a.APIURL
		if err := cfg.Validate(); err != nil {
			return usagef("--api: %v", err)
		}
	}
	if a.Theme != "" {
		cfg.Theme = a.Theme
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	ui.SetColor(a.NoColor)

	a.log = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	logging.Verbose(a.log, a.Verbose)
	a.log.Debug("config loaded", "path", cfg.Path(), "api", cfg.APIURL)
	return nil
}

func (a *App) client() (*api.Client, error) {
	return api.New(a.cfg.APIURL, api.WithTimeout(a.cfg.Timeout))
}

func (a *App) openStore(ctx context.Context) (*localstore.Store, error) {
	return localstore.Open(ctx, a.cfg.StorePath())
}

// session resolves the signed-in identity. The store is held only for the
// lookup.
func (a *App) session(ctx context.Context) (session.Session, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return session.Session{}, err
	}
	defer st.Close()
	sess, err := session.Load(ctx, st)
	if err != nil {
		return session.Session{}, err
	}
	if id, ok := sess.Identity(); ok {
		a.log.Debug("session", "user", id.ID, "source", id.Source)
	}
	return sess, nil
}

func (a *App) newBrowser(ctx context.Context, remote browser.Remote, nav browser.Navigator, sess session.Session, l *log.Logger) *browser.Browser {
	opts := browser.Options{Logger: l}
	if a.cfg.FilterOnReload == config.FilterReset {
		opts.ReloadFilter = browser.ResetFilter
	}
	return browser.New(ctx, remote, nav, sess, opts)
}

// loginRedirect turns the browser's navigation to the login route into
// errNotLoggedIn.
type loginRedirect struct{ hit bool }

func (r *loginRedirect) Navigate(rt browser.Route) {
	if rt.Kind == browser.RouteLogin {
		r.hit = true
	}
}

func (r *loginRedirect) err() error {
	if r.hit {
		return errNotLoggedIn
	}
	return nil
}

func requireLogin(sess session.Session) error {
	if !sess.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

func outcomeErr(o browser.Outcome) error {
	if o.Status == browser.Failed {
		return fmt.Errorf("%s: %w", o.Op, o.Err)
	}
	return nil
}
