package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/itemdesk/internal/model"
	"github.com/idilsaglam/itemdesk/internal/ui"
)

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenDetail:
		body = m.viewport.View()
	case screenConfirmDelete:
		body = m.confirmView()
	case screenForm:
		body = m.formView()
	case screenLogin:
		body = loginView()
	default:
		body = m.list.View()
	}

	parts := []string{m.header(), m.categoryBar(), body, m.footer()}
	return panelString(strings.Join(parts, "\n"), m.width)
}

func (m Model) header() string {
	th := ui.Current()
	who := th.Muted.Render("not signed in")
	if m.b.Session().Authenticated() {
		who = "Welcome, " + th.Accent.Render(m.b.Session().DisplayName())
	}
	left := th.Title.Render("Items") + fmt.Sprintf("  %d shown / %d", len(m.b.Visible()), len(m.b.Items()))
	if m.loading > 0 {
		left += " " + m.spinner.View()
	}
	return left + "   " + who
}

// categoryBar lists "All" and every category. The active filter is
// highlighted and the cursor is underlined.
func (m Model) categoryBar() string {
	th := ui.Current()
	sel, _ := m.b.SelectedCategory()
	cats := m.b.Categories()

	chip := func(i int, label string, active bool) string {
		st := th.Muted
		if active {
			st = th.Selected
		}
		if i == m.catCursor {
			st = st.Underline(true)
		}
		return st.Render(" " + label + " ")
	}

	chips := []string{chip(0, "All", sel.IsZero())}
	for i, c := range cats {
		chips = append(chips, chip(i+1, c.Name, c.ID == sel))
	}
	return ui.Truncate(strings.Join(chips, " "), m.width-4)
}

func (m Model) footer() string {
	th := ui.Current()
	var help string
	switch m.screen {
	case screenDetail:
		help = helpLine(keys.Close, keys.Edit, keys.Delete)
	case screenConfirmDelete:
		help = helpLine(keys.Confirm, keys.Cancel)
	case screenForm:
		help = helpLine(keys.NextField, keys.Submit) + " • esc: cancel"
	case screenLogin:
		help = "any key: back"
	default:
		help = helpLine(keys.NextCat, keys.Toggle, keys.All, keys.Open, keys.Add, keys.Edit, keys.Delete, keys.Reload, keys.Quit)
	}

	line := th.Muted.Render(help)
	if m.status != "" {
		st := th.Success
		if m.statusErr {
			st = th.Error
		}
		line = st.Render(m.status) + "\n" + line
	}
	return line
}

// detailContent is the expanded view of an item.
func (m Model) detailContent(it model.Item) string {
	th := ui.Current()
	var b strings.Builder
	b.WriteString(th.Title.Render(it.Title) + "\n")
	meta := fmt.Sprintf("%s · %s", model.CategoryName(m.b.Categories(), it.CategoryID), ui.Timestamp(it.Timestamp))
	if m.b.CanModify(it) {
		meta += " · " + th.Owner.Render(th.SymOwner+" yours")
	}
	b.WriteString(th.Muted.Render(meta) + "\n\n")
	if desc := renderMarkdown(it.Description, m.viewport.Width); desc != "" {
		b.WriteString(desc)
	} else {
		b.WriteString(th.Muted.Render("No description."))
	}
	return b.String()
}

func (m Model) confirmView() string {
	th := ui.Current()
	title := m.pending.String()
	if it, ok := model.FindItem(m.b.Items(), m.pending); ok {
		title = it.Title
	}
	return th.Error.Render(fmt.Sprintf("Delete %q?", title)) + " (y/n)"
}

func (m Model) formView() string {
	th := ui.Current()
	heading := "Add new item"
	if m.form.editing() {
		heading = "Edit item"
	}
	if m.form.err != "" {
		heading += "  " + th.Error.Render(m.form.err)
	}
	lines := []string{heading}
	for _, in := range m.form.inputs {
		lines = append(lines, in.View())
	}
	bar := lipgloss.NewStyle().Border(th.Border).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	return bar.Render(strings.Join(lines, "\n"))
}

func loginView() string {
	th := ui.Current()
	return strings.Join([]string{
		th.Title.Render("Sign in required"),
		"",
		"Adding, editing and deleting items needs a signed-in user.",
		"Quit and run:",
		"",
		th.Accent.Render("  itemdesk auth login --id <user-id> --name <name>"),
	}, "\n")
}

func panelString(inner string, width int) string {
	th := ui.Current()
	st := lipgloss.NewStyle().
		Border(th.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	if width > 2 {
		st = st.Width(width - 2)
	}
	return st.Render(inner)
}
