package checkin

import (
	"context"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	tuiwizard "github.com/mark3labs/frontdesk/internal/tui/wizard"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

const duplicateMessage = "This document is already checked in today"

// DuplicateChecker looks up whether a document was already registered today.
type DuplicateChecker interface {
	ExistsToday(ctx context.Context, document string) (bool, error)
}

// PersonalStep collects the guest's name, document and email.
type PersonalStep struct {
	form *form
}

// NewPersonalStep creates the personal info step.
func NewPersonalStep() *PersonalStep {
	return &PersonalStep{
		form: newForm(
			newField(registration.FieldName, "Full name", "e.g. Ada Lovelace", 100),
			newField(registration.FieldDocument, "Document", "Passport or ID number", 32),
			newField(registration.FieldEmail, "Email", "guest@example.com", 254),
		),
	}
}

func (s *PersonalStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *PersonalStep) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tuiwizard.StepRejectedMsg); ok {
		if msg.Step != StepPersonal {
			return nil
		}
		errs := s.draft().ValidatePersonal()
		if len(errs) == 0 {
			// Fields are fine, so the store lookup rejected it
			errs = registration.FieldErrors{registration.FieldDocument: duplicateMessage}
		}
		return s.form.SetErrors(errs)
	}
	return s.form.Update(msg)
}

func (s *PersonalStep) SetSize(width, height int) {
	s.form.SetWidth(min(width, 70))
}

func (s *PersonalStep) View() string {
	t := theme.Current()
	intro := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgSubtle)).
		MarginBottom(1).
		Render("Who is checking in?")
	hints := tuiwizard.RenderHintBar("tab", "next field", "shift+tab", "previous field")
	return lipgloss.JoinVertical(lipgloss.Left, intro, s.form.View(), "", hints)
}

func (s *PersonalStep) draft() *registration.Registration {
	r := &registration.Registration{}
	s.Fill(r)
	return r
}

// Fill copies the step's values into r.
func (s *PersonalStep) Fill(r *registration.Registration) {
	r.Name = s.form.Value(registration.FieldName)
	r.Document = s.form.Value(registration.FieldDocument)
	r.Email = s.form.Value(registration.FieldEmail)
}

// Validator checks the fields and then asks store whether the document is
// already registered today. A store failure is reported as an error, not as
// a rejection.
func (s *PersonalStep) Validator(store DuplicateChecker) wizard.Validator {
	return func(ctx context.Context) (bool, error) {
		r := s.draft()
		if errs := r.ValidatePersonal(); len(errs) > 0 {
			return false, nil
		}
		if store == nil {
			return true, nil
		}

		exists, err := store.ExistsToday(ctx, r.Document)
		if err != nil {
			return false, err
		}
		if exists {
			logger.Info("Rejected duplicate check-in for document %s", registration.NormalizeDocument(r.Document))
			return false, nil
		}
		return true, nil
	}
}
