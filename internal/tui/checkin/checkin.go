// Package checkin is the guest check-in flow: three wizard steps (personal
// info, companions, confirmation) and the program that saves the result.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/frontdesk/internal/config"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	tuiwizard "github.com/mark3labs/frontdesk/internal/tui/wizard"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

// Step keys.
const (
	StepPersonal   = "personal"
	StepCompanions = "companions"
	StepConfirm    = "confirm"
)

// ErrCancelled is returned by Run when the user quits before completing.
var ErrCancelled = errors.New("check-in cancelled")

// Store persists registrations and answers duplicate lookups.
type Store interface {
	DuplicateChecker
	Save(ctx context.Context, r *registration.Registration) (string, error)
}

// PublishFunc hands a saved registration to downstream systems.
type PublishFunc func(ctx context.Context, r *registration.Registration) error

// Options configures the check-in flow.
type Options struct {
	Config  *config.Config
	Store   Store
	Publish PublishFunc // Optional
}

// Result describes a completed check-in.
type Result struct {
	Registration *registration.Registration
	Path         string
	PublishErr   error // Set when the registration was saved but not published
}

type savedMsg struct {
	result *Result
	err    error
}

// Model is the root bubbletea model of the check-in program.
type Model struct {
	ctx  context.Context
	opts Options

	personal   *PersonalStep
	companions *CompanionsStep
	confirm    *ConfirmStep
	wizard     *tuiwizard.Model

	saving    bool
	saveErr   error
	result    *Result
	cancelled bool

	width  int
	height int
}

// New builds the check-in model. ctx bounds validators and saving.
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Store == nil {
		return nil, errors.New("check-in requires a registration store")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
		opts.Config = cfg
	}

	m := &Model{
		ctx:        ctx,
		opts:       opts,
		personal:   NewPersonalStep(),
		companions: NewCompanionsStep(cfg.MaxOccupancy),
	}
	m.confirm = NewConfirmStep(m.Draft)

	steps := []tuiwizard.Step{
		{Key: StepPersonal, Label: "Guest", Content: m.personal},
		{Key: StepCompanions, Label: "Party", Content: m.companions},
		{Key: StepConfirm, Label: "Confirm", Content: m.confirm},
	}
	validators := map[string]wizard.Validator{
		StepPersonal:   m.personal.Validator(opts.Store),
		StepCompanions: m.companions.Validator(),
	}

	w, err := tuiwizard.New(steps, tuiwizard.Options{
		DefaultStep: cfg.DefaultStep,
		Animation: tuiwizard.AnimationConfig{
			Enabled: cfg.Animation,
			Exit:    cfg.ExitDuration,
			Enter:   cfg.EnterDuration,
		},
		Title:    "Guest check-in",
		Controls: tuiwizard.ButtonControls{FinishLabel: "Check in"},
		Advancer: tuiwizard.Gated(ctx, validators),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build check-in wizard: %w", err)
	}
	m.wizard = w
	return m, nil
}

// Run starts the check-in program and blocks until it exits.
func Run(ctx context.Context, opts Options) (*Result, error) {
	m, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("check-in failed: %w", err)
	}

	final, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return final.Result()
}

// Draft assembles a registration from the current step values.
func (m *Model) Draft() *registration.Registration {
	r := &registration.Registration{}
	m.personal.Fill(r)
	m.companions.Fill(r)
	return r
}

// Result returns the completed check-in, or ErrCancelled.
func (m *Model) Result() (*Result, error) {
	if m.result == nil {
		return nil, ErrCancelled
	}
	return m.result, nil
}

// Wizard exposes the embedded wizard shell.
func (m *Model) Wizard() *tuiwizard.Model {
	return m.wizard
}

func (m *Model) Init() tea.Cmd {
	return m.wizard.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			m.wizard.Close()
			return m, tea.Quit
		}
		if m.saving {
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.wizard.SetSize(min(msg.Width, 100), msg.Height)
		return m, nil

	case tuiwizard.CompletedMsg:
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.saveErr = nil
		return m, tea.Batch(m.wizard.Update(msg), m.save(m.Draft()))

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			logger.Error("Failed to save registration: %v", msg.err)
			m.saveErr = msg.err
			return m, nil
		}
		m.result = msg.result
		m.wizard.Close()
		return m, tea.Quit
	}

	return m, m.wizard.Update(msg)
}

// save writes r to the store and publishes it. A publish failure does not
// undo the save.
func (m *Model) save(r *registration.Registration) tea.Cmd {
	ctx, store, publish := m.ctx, m.opts.Store, m.opts.Publish
	return func() tea.Msg {
		path, err := store.Save(ctx, r)
		if err != nil {
			return savedMsg{err: err}
		}
		logger.Info("Registration %s saved to %s", r.ID, path)

		res := &Result{Registration: r, Path: path}
		if publish != nil {
			if err := publish(ctx, r); err != nil {
				logger.Warn("Registration %s saved but not published: %v", r.ID, err)
				res.PublishErr = err
			}
		}
		return savedMsg{result: res}
	}
}

// body renders the modal: the wizard plus save status.
func (m *Model) body() string {
	s := theme.Current().S()

	sections := []string{m.wizard.View()}
	switch {
	case m.saving:
		sections = append(sections, "", s.Warning.Render("Saving registration…"))
	case m.saveErr != nil:
		sections = append(sections, "", s.Error.Render("✗ Could not save: "+m.saveErr.Error()+" (enter to retry)"))
	}
	return s.ModalContainer.Render(strings.Join(sections, "\n"))
}

func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.body())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, canvas.Bounds())

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}
