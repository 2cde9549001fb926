// Package testfixtures provides shared helpers, fixtures and mocks for TUI tests.
package testfixtures

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

// Initialize test environment
func init() {
	// Ascii profile keeps rendered assertions free of color codes
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 100
	TestTermHeight = 40
)

// Collect runs cmd and every command it batches, returning the messages
// they produce. Nil messages are dropped.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, Collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// Find returns the first message of type T in msgs.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Key builds a key press for a named key ("enter", "esc", "tab",
// "shift+tab", "up", "down", "ctrl+c", "ctrl+e") or a single printable rune.
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case "ctrl+e":
		return tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// Type returns one key press per rune of s.
func Type(s string) []tea.KeyPressMsg {
	keys := make([]tea.KeyPressMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return keys
}

// Render draws content onto a canonical-size screen buffer and returns the
// rendered screen.
func Render(t *testing.T, content string) string {
	t.Helper()
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: TestTermWidth, Y: TestTermHeight},
	})
	return canvas.Render()
}
