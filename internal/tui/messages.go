package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/itemdesk/internal/browser"
	"github.com/idilsaglam/itemdesk/internal/model"
)

type (
	itemsLoadedMsg      struct{ res browser.ItemsResult }
	categoriesLoadedMsg struct{ res browser.CategoriesResult }
	deletedMsg          struct{ res browser.DeleteResult }

	// itemFetchedMsg fills the edit form when the item is not in the local list.
	itemFetchedMsg struct {
		item model.Item
		err  error
	}

	savedMsg struct {
		item    model.Item
		editing bool
		err     error
	}
)

// The Start* call happens here, on the update loop, so request sequence
// numbers follow the order the user asked for them.

func loadItemsCmd(b *browser.Browser) tea.Cmd {
	run := b.StartLoadItems()
	return func() tea.Msg { return itemsLoadedMsg{res: run()} }
}

func loadCategoriesCmd(b *browser.Browser) tea.Cmd {
	run := b.StartLoadCategories()
	return func() tea.Msg { return categoriesLoadedMsg{res: run()} }
}

func deleteCmd(run func() browser.DeleteResult) tea.Cmd {
	return func() tea.Msg { return deletedMsg{res: run()} }
}

func fetchItemCmd(ctx context.Context, ed Editor, id model.ID) tea.Cmd {
	return func() tea.Msg {
		it, err := ed.GetItem(ctx, id)
		return itemFetchedMsg{item: it, err: err}
	}
}

func saveCmd(ctx context.Context, ed Editor, userID, id model.ID, in model.ItemInput) tea.Cmd {
	return func() tea.Msg {
		if id.IsZero() {
			it, err := ed.CreateItem(ctx, userID, in)
			return savedMsg{item: it, err: err}
		}
		it, err := ed.UpdateItem(ctx, userID, id, in)
		return savedMsg{item: it, editing: true, err: err}
	}
}
