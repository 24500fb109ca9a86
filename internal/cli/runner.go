package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/itemdesk/internal/ui"
)

// Exit codes returned by Run.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitNotLoggedIn = 3
)

// errNotLoggedIn is what a redirect to the login route becomes on the
// command line.
var errNotLoggedIn = errors.New("not logged in: run `itemdesk auth login --id <user-id>`")

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage, 3 not logged in).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, err.Error())
	code := exitCode(err)
	if code == ExitUsage {
		fmt.Fprintln(stderr, ui.Current().Muted.Render("Run `itemdesk --help` for usage."))
	}
	return code
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case errors.Is(err, errNotLoggedIn):
		return ExitNotLoggedIn
	case errors.As(err, &ue):
		return ExitUsage
	}
	return ExitError
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}
