package checkin

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	tuiwizard "github.com/mark3labs/frontdesk/internal/tui/wizard"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

// NotesEditedMsg is sent when the external editor returns.
type NotesEditedMsg struct {
	Notes string
	Err   error
}

// CompanionsStep collects the party size and free-form notes.
type CompanionsStep struct {
	form         *form
	maxOccupancy int

	mu    sync.RWMutex
	notes string
}

// NewCompanionsStep creates the companions step. maxOccupancy <= 0 means no
// limit.
func NewCompanionsStep(maxOccupancy int) *CompanionsStep {
	s := &CompanionsStep{
		form: newForm(
			newField(registration.FieldAdults, "Adults", "1", 2),
			newField(registration.FieldChildren, "Children", "0", 2),
		),
		maxOccupancy: maxOccupancy,
	}
	s.form.SetValue(registration.FieldAdults, "1")
	s.form.SetValue(registration.FieldChildren, "0")
	return s
}

func (s *CompanionsStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *CompanionsStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tuiwizard.StepRejectedMsg:
		if msg.Step == StepCompanions {
			_, errs := s.party()
			return s.form.SetErrors(errs)
		}
		return nil

	case NotesEditedMsg:
		if msg.Err != nil {
			logger.Warn("Notes editor failed: %v", msg.Err)
			return nil
		}
		s.SetNotes(msg.Notes)
		return nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+e" && os.Getenv("EDITOR") != "" {
			return s.openEditor()
		}
	}
	return s.form.Update(msg)
}

// party parses the counts and checks them against the occupancy limit.
func (s *CompanionsStep) party() (*registration.Registration, registration.FieldErrors) {
	r := &registration.Registration{}
	errs := registration.FieldErrors{}

	adults, err := strconv.Atoi(s.form.Value(registration.FieldAdults))
	if err != nil {
		errs[registration.FieldAdults] = "Enter a number"
	}
	children := 0
	if v := s.form.Value(registration.FieldChildren); v != "" {
		if children, err = strconv.Atoi(v); err != nil {
			errs[registration.FieldChildren] = "Enter a number"
		}
	}
	if len(errs) > 0 {
		return r, errs
	}

	r.Adults, r.Children = adults, children
	return r, r.ValidateParty(s.maxOccupancy)
}

// Fill copies the step's values into r. Unparsable counts are left as zero.
func (s *CompanionsStep) Fill(r *registration.Registration) {
	p, _ := s.party()
	r.Adults = p.Adults
	r.Children = p.Children
	r.Notes = s.Notes()
}

// Validator resolves false unless the counts are numeric, include an adult
// and fit the occupancy limit.
func (s *CompanionsStep) Validator() wizard.Validator {
	return func(ctx context.Context) (bool, error) {
		_, errs := s.party()
		return len(errs) == 0, nil
	}
}

// Notes returns the current notes. Safe for concurrent use.
func (s *CompanionsStep) Notes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes
}

func (s *CompanionsStep) SetNotes(notes string) {
	s.mu.Lock()
	s.notes = strings.TrimSpace(notes)
	s.mu.Unlock()
}

// openEditor launches $EDITOR on a temp file seeded with the notes.
func (s *CompanionsStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "frontdesk_notes_*.md")
	if err != nil {
		return nil
	}
	path := tmpfile.Name()

	if _, err := tmpfile.WriteString(s.Notes()); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(path)
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("frontdesk", path)
	if err != nil {
		_ = os.Remove(path)
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(path) }()
		if err != nil {
			return NotesEditedMsg{Err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return NotesEditedMsg{Err: err}
		}
		return NotesEditedMsg{Notes: string(data)}
	})
}

func (s *CompanionsStep) SetSize(width, height int) {
	s.form.SetWidth(min(width, 30))
}

func (s *CompanionsStep) View() string {
	t := theme.Current()
	st := t.S()

	intro := "Who is staying?"
	if s.maxOccupancy > 0 {
		intro = fmt.Sprintf("Who is staying? Up to %d guests per room.", s.maxOccupancy)
	}
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgSubtle)).
		MarginBottom(1).
		Render(intro)

	notes := s.Notes()
	if notes == "" {
		notes = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Italic(true).Render("No notes")
	}
	notesBlock := st.Label.Render("Notes") + "\n" + notes

	var hints string
	if os.Getenv("EDITOR") != "" {
		hints = tuiwizard.RenderHintBar("tab", "next field", "ctrl+e", "edit notes")
	} else {
		hints = tuiwizard.RenderHintBar("tab", "next field")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, s.form.View(), "", notesBlock, "", hints)
}
