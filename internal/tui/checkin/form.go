package checkin

import (
	"strings"
	"sync"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
)

// field is one labelled text input.
type field struct {
	key   string
	label string
	input textinput.Model
}

func newField(key, label, placeholder string, limit int) field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return field{key: key, label: label, input: ti}
}

// form is a vertical list of fields with tab/arrow focus cycling.
//
// Validators run off the update loop, so the field values they read are
// published as an immutable snapshot after every update.
type form struct {
	fields []field
	focus  int
	errs   registration.FieldErrors
	width  int

	mu     sync.RWMutex
	values map[string]string
}

func newForm(fields ...field) *form {
	f := &form{fields: fields, errs: registration.FieldErrors{}, width: 50}
	if len(fields) > 0 {
		f.fields[0].input.Focus()
	}
	f.publish()
	return f
}

// publish replaces the snapshot read by Value.
func (f *form) publish() {
	values := make(map[string]string, len(f.fields))
	for _, fd := range f.fields {
		values[fd.key] = strings.TrimSpace(fd.input.Value())
	}
	f.mu.Lock()
	f.values = values
	f.mu.Unlock()
}

// Value returns the trimmed value of a field. Safe for concurrent use.
func (f *form) Value(key string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[key]
}

// SetValue replaces a field's value.
func (f *form) SetValue(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
		}
	}
	f.publish()
}

func (f *form) Focused() string {
	return f.fields[f.focus].key
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *form) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case tea.KeyPressMsg:
		switch m.String() {
		case "tab", "down":
			return f.move(1)
		case "shift+tab", "up":
			return f.move(-1)
		}
		// Editing a field clears its error
		delete(f.errs, f.fields[f.focus].key)

	case tea.PasteMsg:
		msg = tea.PasteMsg{Content: sanitizePaste(m.Content)}
		delete(f.errs, f.fields[f.focus].key)
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	f.publish()
	return cmd
}

// SetErrors shows errs next to their fields until the field is edited and
// focuses the first offending field.
func (f *form) SetErrors(errs registration.FieldErrors) tea.Cmd {
	f.errs = errs
	if f.errs == nil {
		f.errs = registration.FieldErrors{}
	}
	for i, fd := range f.fields {
		if _, bad := errs[fd.key]; bad {
			if i == f.focus {
				return nil
			}
			return f.move(i - f.focus)
		}
	}
	return nil
}

func (f *form) Errors() registration.FieldErrors {
	return f.errs
}

func (f *form) SetWidth(width int) {
	f.width = width
	for i := range f.fields {
		f.fields[i].input.SetWidth(max(width-4, 10))
	}
}

func (f *form) View() string {
	s := theme.Current().S()

	var b strings.Builder
	for i, fd := range f.fields {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Label.Render(fd.label))
		b.WriteString("\n")

		box := s.Input
		if i == f.focus {
			box = s.InputFocused
		}
		b.WriteString(box.Width(f.width).Render(fd.input.View()))

		if msg, bad := f.errs[fd.key]; bad {
			b.WriteString("\n")
			b.WriteString(s.Error.Render("✗ " + msg))
		}
	}
	return b.String()
}
