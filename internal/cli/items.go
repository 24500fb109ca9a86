package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/itemdesk/internal/api"
	"github.com/idilsaglam/itemdesk/internal/browser"
	"github.com/idilsaglam/itemdesk/internal/model"
	"github.com/idilsaglam/itemdesk/internal/ui"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List and manage items",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsRmCmd(app))
	return cmd
}

// loadAll fetches items and categories concurrently through b. A category
// failure is logged and names fall back to ids; an item failure is returned.
func loadAll(app *App, b *browser.Browser) error {
	runItems, runCats := b.StartLoadItems(), b.StartLoadCategories()
	var (
		items browser.ItemsResult
		cats  browser.CategoriesResult
		g     errgroup.Group
	)
	g.Go(func() error {
		items = runItems()
		return items.Err
	})
	// Categories are optional: a failure stays in cats and is only logged.
	g.Go(func() error {
		cats = runCats()
		return nil
	})
	err := g.Wait()

	if o := b.ApplyCategories(cats); o.Status == browser.Failed {
		app.log.Warn("categories unavailable", "err", o.Err)
	}
	b.ApplyItems(items)
	if err != nil {
		return fmt.Errorf("%s: %w", browser.OpLoadItems, err)
	}
	return nil
}

func newItemsListCmd(app *App) *cobra.Command {
	var category, fmtFlag string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items, optionally in one category",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(fmtFlag)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := app.client()
			if err != nil {
				return err
			}
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}

			b := app.newBrowser(ctx, c, nil, sess, app.log)
			defer b.Close()
			if err := loadAll(app, b); err != nil {
				return err
			}
			if id := model.ParseID(category); !id.IsZero() {
				b.SelectCategory(id)
			}
			return writeItems(cmd.OutOrStdout(), f, b.Visible(), b.Categories(), sess)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only items in this category id")
	cmd.Flags().StringVarP(&fmtFlag, "format", "o", "table", "output format: table, json or yaml")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	var fmtFlag string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item with its full description",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(fmtFlag)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := app.client()
			if err != nil {
				return err
			}
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			it, err := getItem(ctx, c, model.ParseID(args[0]))
			if err != nil {
				return err
			}
			cats, err := c.ListCategories(ctx)
			if err != nil {
				app.log.Warn("categories unavailable", "err", err)
			}
			return writeItem(cmd.OutOrStdout(), f, it, cats, sess)
		},
	}
	cmd.Flags().StringVarP(&fmtFlag, "format", "o", "table", "output format: table, json or yaml")
	return cmd
}

func getItem(ctx context.Context, c *api.Client, id model.ID) (model.Item, error) {
	if id.IsZero() {
		return model.Item{}, usagef("empty item id")
	}
	it, err := c.GetItem(ctx, id)
	if api.IsNotFound(err) {
		return model.Item{}, fmt.Errorf("item %s not found", id)
	}
	return it, err
}

func newItemsAddCmd(app *App) *cobra.Command {
	var in model.ItemInput
	var category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item as the signed-in user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Title = strings.TrimSpace(in.Title)
			if in.Title == "" {
				return usagef("add: --title is required")
			}
			in.CategoryID = model.ParseID(category)

			ctx := cmd.Context()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			if err := requireLogin(sess); err != nil {
				return err
			}
			c, err := app.client()
			if err != nil {
				return err
			}
			it, err := c.CreateItem(ctx, sess.UserID(), in)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %s (#%s)", it.Title, it.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "item title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "description (markdown)")
	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	var title, category, description string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an item you own",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			if err := requireLogin(sess); err != nil {
				return err
			}
			c, err := app.client()
			if err != nil {
				return err
			}
			it, err := getItem(ctx, c, model.ParseID(args[0]))
			if err != nil {
				return err
			}
			if !sess.Owns(it) {
				return fmt.Errorf("edit %s: %w", it.ID, browser.ErrNotOwner)
			}

			in := model.ItemInput{Title: it.Title, CategoryID: it.CategoryID, Description: it.Description}
			fl := cmd.Flags()
			if fl.Changed("title") {
				in.Title = strings.TrimSpace(title)
			}
			if fl.Changed("category") {
				in.CategoryID = model.ParseID(category)
			}
			if fl.Changed("description") {
				in.Description = description
			}
			if in.Title == "" {
				return usagef("edit: title cannot be empty")
			}

			updated, err := c.UpdateItem(ctx, sess.UserID(), it.ID, in)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("saved %s (#%s)", updated.Title, it.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description (markdown)")
	return cmd
}

// newItemsRmCmd deletes through the browser so the command line gets the same
// login redirect and delete-then-reload behavior as the TUI.
func newItemsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item you own",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ParseID(args[0])
			if id.IsZero() {
				return usagef("empty item id")
			}
			ctx := cmd.Context()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			c, err := app.client()
			if err != nil {
				return err
			}

			nav := &loginRedirect{}
			b := app.newBrowser(ctx, c, nav, sess, app.log)
			defer b.Close()

			if sess.Authenticated() {
				if err := outcomeErr(b.LoadItems()); err != nil {
					return err
				}
				it, ok := model.FindItem(b.Items(), id)
				if !ok {
					return fmt.Errorf("item %s not found", id)
				}
				if !b.CanModify(it) {
					return fmt.Errorf("delete %s: %w", id, browser.ErrNotOwner)
				}
			}

			o := b.Delete(id)
			if err := nav.err(); err != nil {
				return err
			}
			if err := outcomeErr(o); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("deleted #%s (%d items left)", id, len(b.Items())))
			return nil
		},
	}
	return cmd
}
