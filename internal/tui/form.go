package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/monkblog/internal/blog"
)

const (
	fieldTitle = iota
	fieldCategories
	fieldCover
	fieldDescription
	fieldContent
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Categories (comma separated)",
	"Cover Image URL",
	"Description",
	"Content",
}

// createForm is the "Create New Blog" dialog body.
type createForm struct {
	title       textinput.Model
	categories  textinput.Model
	cover       textinput.Model
	description textarea.Model
	content     textarea.Model

	focus   int
	pending bool
	hint    string
}

func newCreateForm(width, contentRows int) *createForm {
	f := &createForm{
		title:       newInput(fieldLabels[fieldTitle]),
		categories:  newInput(fieldLabels[fieldCategories]),
		cover:       newInput(fieldLabels[fieldCover]),
		description: newArea(fieldLabels[fieldDescription], 3),
		content:     newArea(fieldLabels[fieldContent], contentRows),
	}
	f.resize(width, contentRows)
	return f
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "› "
	return in
}

func newArea(placeholder string, rows int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(rows)
	return ta
}

func (f *createForm) resize(width, contentRows int) {
	if width < 20 {
		width = 20
	}
	if contentRows < 3 {
		contentRows = 3
	}
	f.content.SetHeight(contentRows)
	f.title.Width = width - 3
	f.categories.Width = width - 3
	f.cover.Width = width - 3
	f.description.SetWidth(width)
	f.content.SetWidth(width)
}

// Focus puts the cursor on the first field.
func (f *createForm) Focus() tea.Cmd {
	f.blurAll()
	f.focus = fieldTitle
	return f.focusCurrent()
}

func (f *createForm) blurAll() {
	f.title.Blur()
	f.categories.Blur()
	f.cover.Blur()
	f.description.Blur()
	f.content.Blur()
}

func (f *createForm) focusCurrent() tea.Cmd {
	switch f.focus {
	case fieldTitle:
		return f.title.Focus()
	case fieldCategories:
		return f.categories.Focus()
	case fieldCover:
		return f.cover.Focus()
	case fieldDescription:
		return f.description.Focus()
	default:
		return f.content.Focus()
	}
}

func (f *createForm) move(delta int) tea.Cmd {
	f.blurAll()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCurrent()
}

// Update forwards input to the focused field.
func (f *createForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldCategories:
		f.categories, cmd = f.categories.Update(msg)
	case fieldCover:
		f.cover, cmd = f.cover.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	default:
		f.content, cmd = f.content.Update(msg)
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		f.hint = ""
	}
	return cmd
}

// Draft reads the fields into a creation payload stamped with now.
func (f *createForm) Draft(now time.Time) blog.Draft {
	return blog.NewDraft(
		f.title.Value(),
		f.categories.Value(),
		f.description.Value(),
		f.cover.Value(),
		f.content.Value(),
		now,
	)
}

// Reset clears every field and returns focus to the title.
func (f *createForm) Reset() {
	f.title.Reset()
	f.categories.Reset()
	f.cover.Reset()
	f.description.Reset()
	f.content.Reset()
	f.pending = false
	f.hint = ""
	f.blurAll()
	f.focus = fieldTitle
}

func (f *createForm) values() [fieldCount]string {
	return [fieldCount]string{
		f.title.Value(),
		f.categories.Value(),
		f.cover.Value(),
		f.description.Value(),
		f.content.Value(),
	}
}

func (f *createForm) empty() bool {
	for _, v := range f.values() {
		if v != "" {
			return false
		}
	}
	return true
}

func (f *createForm) View(st styles) string {
	views := [fieldCount]string{
		f.title.View(),
		f.categories.View(),
		f.cover.View(),
		f.description.View(),
		f.content.View(),
	}
	var b strings.Builder
	b.WriteString(st.dialogTitle.Render("Create New Blog"))
	b.WriteString("\n")
	for i, v := range views {
		label := st.muted
		if i == f.focus {
			label = st.accent
		}
		b.WriteString("\n" + label.Render(fieldLabels[i]) + "\n" + v + "\n")
	}
	if f.hint != "" {
		b.WriteString("\n" + st.errText.Render(f.hint) + "\n")
	}
	button := "Create Blog"
	if f.pending {
		button = "Creating..."
	}
	b.WriteString("\n" + st.button.Render(button))
	return b.String()
}
