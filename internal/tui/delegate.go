package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/itemdesk/internal/model"
	"github.com/idilsaglam/itemdesk/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	model.Item
	category string
	owned    bool
}

func (i listItem) FilterValue() string { return i.Title }

// itemDelegate renders two lines per item: the title row and a short preview
// of the description.
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 2 }
func (d itemDelegate) Spacing() int                        { return 1 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	th := ui.Current()

	prefix := "  "
	title := it.Title
	if index == m.Index() {
		prefix = th.Selected.Render(th.SymCursor)
		title = th.Selected.Render(title)
	}
	meta := th.Muted.Render(fmt.Sprintf("%s · %s", it.category, ui.Timestamp(it.Timestamp)))
	if it.owned {
		meta += " " + th.Owner.Render(th.SymOwner)
	}

	width := m.Width()
	fmt.Fprintln(w, ui.Truncate(prefix+title+"  "+meta, width))
	fmt.Fprint(w, ui.Truncate("   "+th.Muted.Render(ui.Preview(it.Description)), width))
}
