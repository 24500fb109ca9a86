// Package tui is the interactive item browser: a Bubble Tea program drawn
// over browser.Browser.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/itemdesk/internal/browser"
	"github.com/idilsaglam/itemdesk/internal/model"
)

// Editor creates and updates items for the add/edit form.
type Editor interface {
	GetItem(ctx context.Context, id model.ID) (model.Item, error)
	CreateItem(ctx context.Context, userID model.ID, in model.ItemInput) (model.Item, error)
	UpdateItem(ctx context.Context, userID, id model.ID, in model.ItemInput) (model.Item, error)
}

type screen int

const (
	screenList screen = iota
	screenDetail
	screenConfirmDelete
	screenForm
	screenLogin
)

// Model is the Bubble Tea model. Build one with New.
type Model struct {
	ctx    context.Context
	b      *browser.Browser
	editor Editor
	router *Router

	list     list.Model
	viewport viewport.Model
	spinner  spinner.Model
	form     itemForm

	screen    screen
	back      screen   // where the delete confirmation returns to
	catCursor int      // 0 is "All", i is categories[i-1]
	pending   model.ID // item awaiting delete confirmation
	loading   int
	status    string
	statusErr bool

	width, height int
}

// New builds the model. router must be the Navigator b was created with.
func New(ctx context.Context, b *browser.Browser, ed Editor, router *Router) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Items"
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	// h/l and f/d belong to the category bar and delete.
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"))
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:      ctx,
		b:        b,
		editor:   ed,
		router:   router,
		list:     l,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		loading:  2,
		width:    80,
		height:   24,
	}
}

// Init loads items and categories concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadItemsCmd(m.b), loadCategoriesCmd(m.b), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsLoadedMsg:
		m.done()
		m.report(m.b.ApplyItems(msg.res))
		return m.synced(), nil

	case categoriesLoadedMsg:
		m.done()
		m.report(m.b.ApplyCategories(msg.res))
		if n := len(m.b.Categories()); m.catCursor > n {
			m.catCursor = n
		}
		return m.synced(), nil

	case deletedMsg:
		m.done()
		o := m.b.ApplyDelete(msg.res)
		if o.OK() {
			m.setStatus("deleted", false)
		} else {
			m.report(o)
		}
		return m.synced(), nil

	case itemFetchedMsg:
		m.done()
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("load item failed: %v", msg.err), true)
			m.toList()
			return m, nil
		}
		it := msg.item
		m.form = newItemForm(&it, "")
		m.screen = screenForm
		return m, nil

	case savedMsg:
		m.done()
		if msg.err != nil {
			m.form.err = msg.err.Error()
			return m, nil
		}
		m.toList()
		if msg.editing {
			m.setStatus("saved "+msg.item.Title, false)
		} else {
			m.setStatus("added "+msg.item.Title, false)
		}
		m.loading++
		return m, loadItemsCmd(m.b)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenForm:
			return m.updateForm(msg)
		case screenLogin:
			m.toList()
			return m, nil
		case screenConfirmDelete:
			return m.updateConfirm(msg)
		case screenDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.screen == screenList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := m.b.Categories()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextCat):
		m.catCursor = (m.catCursor + 1) % (len(cats) + 1)
		return m, nil
	case key.Matches(msg, keys.PrevCat):
		m.catCursor = (m.catCursor + len(cats)) % (len(cats) + 1)
		return m, nil
	case key.Matches(msg, keys.Toggle):
		m.b.SelectCategory(m.categoryAtCursor(cats))
		return m.synced(), nil
	case key.Matches(msg, keys.All):
		m.catCursor = 0
		m.b.SelectCategory("")
		return m.synced(), nil
	case key.Matches(msg, keys.Open):
		if it, ok := m.current(); ok {
			m.openDetail(it)
		}
		return m, nil
	case key.Matches(msg, keys.Add):
		m.report(m.b.RequestAdd())
		return m.follow()
	case key.Matches(msg, keys.Edit):
		if it, ok := m.current(); ok {
			return m.requestEdit(it)
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if it, ok := m.current(); ok {
			return m.askDelete(it)
		}
		return m, nil
	case key.Matches(msg, keys.Reload):
		m.loading += 2
		return m, tea.Batch(loadItemsCmd(m.b), loadCategoriesCmd(m.b))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	it, ok := m.b.Detail()
	switch {
	case !ok, key.Matches(msg, keys.Close):
		m.toList()
		return m, nil
	case key.Matches(msg, keys.Edit):
		return m.requestEdit(it)
	case key.Matches(msg, keys.Delete):
		return m.askDelete(it)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		id := m.pending
		m.pending = ""
		m.screen = m.back
		run := m.b.StartDelete(id)
		if run == nil {
			return m.follow()
		}
		m.loading++
		return m, deleteCmd(run)
	case key.Matches(msg, keys.Cancel):
		m.pending = ""
		m.screen = m.back
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.toList()
		return m, nil
	case key.Matches(msg, keys.Submit),
		msg.String() == "enter" && m.form.focus == fieldDescription:
		in, ok := m.form.input()
		if !ok {
			return m, nil
		}
		m.loading++
		return m, saveCmd(m.ctx, m.editor, m.b.Session().UserID(), m.form.id, in)
	case msg.String() == "enter", key.Matches(msg, keys.NextField):
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case key.Matches(msg, keys.PrevField):
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// askDelete starts the delete flow. Anonymous users go straight to login
// without a confirmation or any request.
func (m Model) askDelete(it model.Item) (tea.Model, tea.Cmd) {
	if !m.b.Session().Authenticated() {
		m.b.StartDelete(it.ID)
		return m.follow()
	}
	if !m.b.CanModify(it) {
		m.setStatus(browser.ErrNotOwner.Error(), true)
		return m, nil
	}
	m.pending = it.ID
	m.back = m.screen
	m.screen = screenConfirmDelete
	return m, nil
}

func (m Model) requestEdit(it model.Item) (tea.Model, tea.Cmd) {
	m.report(m.b.RequestEdit(it))
	return m.follow()
}

// follow switches screens for the navigation requests the browser made.
func (m Model) follow() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, rt := range m.router.drain() {
		switch rt.Kind {
		case browser.RouteLogin:
			m.screen = screenLogin
		case browser.RouteAddItem:
			sel, _ := m.b.SelectedCategory()
			m.form = newItemForm(nil, sel)
			m.screen = screenForm
		case browser.RouteEditItem:
			if it, ok := model.FindItem(m.b.Items(), rt.ItemID); ok {
				m.form = newItemForm(&it, "")
				m.screen = screenForm
				continue
			}
			m.loading++
			cmd = fetchItemCmd(m.ctx, m.editor, rt.ItemID)
		}
	}
	return m, cmd
}

func (m *Model) openDetail(it model.Item) {
	m.b.OpenDetail(it)
	m.screen = screenDetail
	m.viewport.SetContent(m.detailContent(it))
	m.viewport.GotoTop()
}

func (m Model) current() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.Item, true
}

func (m Model) categoryAtCursor(cats []model.Category) model.ID {
	if m.catCursor <= 0 || m.catCursor > len(cats) {
		return ""
	}
	return cats[m.catCursor-1].ID
}

// synced rebuilds the list rows from the browser and follows the detail
// selection, which a reload may have refreshed or removed.
func (m Model) synced() Model {
	cats := m.b.Categories()
	vis := m.b.Visible()
	rows := make([]list.Item, 0, len(vis))
	for _, it := range vis {
		rows = append(rows, listItem{
			Item:     it,
			category: model.CategoryName(cats, it.CategoryID),
			owned:    m.b.CanModify(it),
		})
	}
	m.list.SetItems(rows)

	if m.screen == screenDetail {
		if it, ok := m.b.Detail(); ok {
			m.viewport.SetContent(m.detailContent(it))
		} else {
			m.screen = screenList
		}
	}
	return m
}

func (m *Model) resize() {
	m.list.SetSize(m.width-4, m.bodyHeight())
	m.viewport.Width = m.width - 4
	m.viewport.Height = m.bodyHeight()
	if it, ok := m.b.Detail(); ok {
		m.viewport.SetContent(m.detailContent(it))
	}
}

// bodyHeight leaves room for the panel border, header, category bar and
// footer.
func (m Model) bodyHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

// toList returns to the item list. The detail selection goes with the detail
// screen so it never outlives it.
func (m *Model) toList() {
	m.b.CloseDetail()
	m.screen = screenList
}

func (m *Model) done() {
	if m.loading > 0 {
		m.loading--
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// report surfaces failures in the status line. Stale and post-close results
// are silent.
func (m *Model) report(o browser.Outcome) {
	if o.Status != browser.Failed {
		return
	}
	msg := fmt.Sprintf("%s failed", o.Op)
	if o.Err != nil && !errors.Is(o.Err, browser.ErrClosed) {
		msg += ": " + o.Err.Error()
	}
	m.setStatus(msg, true)
}
