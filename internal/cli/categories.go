package cli

import "github.com/spf13/cobra"

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
	}

	var fmtFlag string
	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List categories",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(fmtFlag)
			if err != nil {
				return err
			}
			c, err := app.client()
			if err != nil {
				return err
			}
			cats, err := c.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return writeCategories(cmd.OutOrStdout(), f, cats)
		},
	}
	ls.Flags().StringVarP(&fmtFlag, "format", "o", "table", "output format: table, json or yaml")
	cmd.AddCommand(ls)
	return cmd
}
