package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.cfg.Marshal()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# %s\n", app.cfg.Path())
			_, err = w.Write(b)
			return err
		},
	})
	return cmd
}
