package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/itemdesk/internal/model"
)

const (
	fieldTitle = iota
	fieldCategory
	fieldDescription
	fieldCount
)

// itemForm is the inline add/edit form. id is empty when adding.
type itemForm struct {
	id     model.ID
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newItemForm(it *model.Item, category model.ID) itemForm {
	var f itemForm
	placeholders := [fieldCount]string{"Title", "Category id", "Description (markdown)"}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		f.inputs[i] = ti
	}
	f.inputs[fieldDescription].CharLimit = 2000

	if it != nil {
		f.id = it.ID
		f.inputs[fieldTitle].SetValue(it.Title)
		f.inputs[fieldCategory].SetValue(it.CategoryID.String())
		f.inputs[fieldDescription].SetValue(it.Description)
	} else {
		f.inputs[fieldCategory].SetValue(category.String())
	}
	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f itemForm) editing() bool { return !f.id.IsZero() }

func (f *itemForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// input validates the form values.
func (f *itemForm) input() (model.ItemInput, bool) {
	in := model.ItemInput{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		CategoryID:  model.ParseID(f.inputs[fieldCategory].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
	}
	switch {
	case in.Title == "":
		f.err = "Title cannot be empty"
		return in, false
	case in.CategoryID.IsZero():
		f.err = "Category cannot be empty"
		return in, false
	}
	f.err = ""
	return in, true
}

func (f itemForm) update(msg tea.Msg) (itemForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}
