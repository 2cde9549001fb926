package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

// Options configures the wizard shell.
type Options struct {
	DefaultStep string          // Starting step; first step when empty or unknown
	Animation   AnimationConfig // Transition policy
	Title       string          // Modal title prefix; omitted when empty

	Progress ProgressRenderer // Defaults to BreadcrumbProgress
	Controls ControlsRenderer // Defaults to ButtonControls
	Advancer AdvancerFactory  // Defaults to Ungated
}

// Model wires a step controller, an advancer and a transition coordinator
// to the progress and controls slots. It holds no flow state of its own.
type Model struct {
	steps    []Step
	ctrl     *wizard.Controller
	coord    *Coordinator
	advancer Advancer
	progress ProgressRenderer
	controls ControlsRenderer
	title    string

	spinner Spinner
	notice  string
	width   int
	height  int
}

// New creates a wizard over steps. Step keys must be unique and non-empty.
func New(steps []Step, opts Options) (*Model, error) {
	keys := make([]string, len(steps))
	for i, s := range steps {
		if s.Content == nil {
			return nil, &wizard.ConfigurationError{Reason: "step has no content", Key: s.Key}
		}
		keys[i] = s.Key
	}

	ctrl, err := wizard.NewController(keys, opts.DefaultStep,
		wizard.WithDirectionTracking(opts.Animation.Enabled))
	if err != nil {
		return nil, err
	}

	m := &Model{
		steps:    append([]Step(nil), steps...),
		ctrl:     ctrl,
		coord:    NewCoordinator(opts.Animation),
		progress: opts.Progress,
		controls: opts.Controls,
		title:    opts.Title,
		spinner:  NewDefaultSpinner(),
		width:    60,
	}
	if m.progress == nil {
		m.progress = BreadcrumbProgress{}
	}
	if m.controls == nil {
		m.controls = ButtonControls{}
	}
	factory := opts.Advancer
	if factory == nil {
		factory = Ungated
	}
	m.advancer = factory(ctrl)

	return m, nil
}

// Init shows the starting step.
func (m *Model) Init() tea.Cmd {
	step := m.currentStep()
	m.sizeContent(step.Content)
	return m.coord.Show(step.Key, step.Content)
}

// Update routes a message to the coordinator, the advancer, the slots or
// the step content, in that order.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil

	case StepRejectedMsg:
		m.notice = "Please review the highlighted fields."
		return m.forward(msg)

	case StepErrorMsg:
		m.notice = fmt.Sprintf("Could not validate this step: %v", errorCause(msg.Err))
		return m.forward(msg)

	case CompletedMsg:
		m.notice = ""
		return nil
	}

	if cmd, ok := m.coord.Update(msg); ok {
		return cmd
	}
	if cmd, ok := m.advancer.Resolve(msg); ok {
		return tea.Batch(cmd, m.sync())
	}

	if m.advancer.Pending() {
		cmd := m.spinner.Update(msg)
		if _, ok := msg.(tea.KeyPressMsg); ok {
			// Input is frozen while validators read step state.
			return nil
		}
		return tea.Batch(cmd, m.forward(msg))
	}

	if key, ok := msg.(tea.KeyPressMsg); ok {
		if cmd, ok := m.progress.HandleProgressKey(key, m.progressProps()); ok {
			return cmd
		}
		if cmd, ok := m.controls.HandleControlsKey(key, m.controlsProps()); ok {
			return cmd
		}
		if c := m.coord.Displayed(); c != nil {
			return c.Update(msg)
		}
		return nil
	}

	return m.forward(msg)
}

// forward delivers a non-key message to the displayed content and to the
// content being mounted off-screen.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if c := m.coord.Displayed(); c != nil {
		cmds = append(cmds, c.Update(msg))
	}
	if p := m.coord.Pending(); p != nil && p != m.coord.Displayed() {
		cmds = append(cmds, p.Update(msg))
	}
	return tea.Batch(cmds...)
}

// sync points the coordinator at the controller's current step.
func (m *Model) sync() tea.Cmd {
	step := m.currentStep()
	m.sizeContent(step.Content)
	return m.coord.Transition(step.Key, step.Content, m.ctrl.LastDirection())
}

// GoNext asks the advancer to move forward.
func (m *Model) GoNext() tea.Cmd {
	m.notice = ""
	cmd := m.advancer.Next()
	if m.advancer.Pending() {
		return tea.Batch(cmd, m.spinner.Tick())
	}
	return tea.Batch(cmd, m.sync())
}

// GoBack moves one step back. It is never validated.
func (m *Model) GoBack() tea.Cmd {
	if !m.ctrl.GoBack() {
		return nil
	}
	m.notice = ""
	return m.sync()
}

// GoToStep jumps directly to key without validation.
func (m *Model) GoToStep(key string) tea.Cmd {
	if !m.ctrl.GoToStep(key) {
		return nil
	}
	m.notice = ""
	return m.sync()
}

func (m *Model) progressProps() ProgressProps {
	entries := m.ctrl.Progress()
	items := make([]ProgressItem, len(entries))
	for i, e := range entries {
		items[i] = ProgressItem{Key: e.Key, Label: m.steps[i].DisplayLabel(), Status: e.Status}
	}
	return ProgressProps{Steps: items, GoToStep: m.GoToStep}
}

func (m *Model) controlsProps() ControlsProps {
	return ControlsProps{
		IsFirst: m.ctrl.IsFirst(),
		IsLast:  m.ctrl.IsLast(),
		Pending: m.advancer.Pending(),
		GoBack:  m.GoBack,
		GoNext:  m.GoNext,
	}
}

// SetSize updates the available space and resizes every step's content.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	for _, s := range m.steps {
		m.sizeContent(s.Content)
	}
}

func (m *Model) contentSize() (int, int) {
	// Reserve space for modal container (padding, borders, title, progress, buttons)
	w := m.width - 10
	h := m.height - 12
	if w < 40 {
		w = 40
	}
	if h < 8 {
		h = 8
	}
	return w, h
}

func (m *Model) sizeContent(c Content) {
	if s, ok := c.(Sizer); ok {
		s.SetSize(m.contentSize())
	}
}

func (m *Model) currentStep() Step {
	return m.steps[m.ctrl.CurrentIndex()]
}

// View renders the wizard body: title, progress, step content, notice and
// controls. The host places it on screen.
func (m *Model) View() string {
	s := theme.Current().S()
	width, _ := m.contentSize()

	var sections []string
	if m.title != "" {
		step := m.currentStep()
		title := fmt.Sprintf("%s - Step %d of %d: %s",
			m.title, m.ctrl.CurrentIndex()+1, m.ctrl.Len(), step.DisplayLabel())
		sections = append(sections, s.ModalTitle.Render(title), "")
	}

	sections = append(sections, m.progress.RenderProgress(m.progressProps(), width), "")
	sections = append(sections, m.coord.View(), "")

	switch {
	case m.advancer.Pending():
		sections = append(sections, m.spinner.View()+" Checking…")
	case m.notice != "":
		sections = append(sections, s.Error.Render("✗ "+m.notice))
	}

	sections = append(sections, m.controls.RenderControls(m.controlsProps(), width))
	return strings.Join(sections, "\n")
}

// Controller exposes the step controller for read-only queries.
func (m *Model) Controller() *wizard.Controller { return m.ctrl }

// Coordinator exposes the transition coordinator for styling hooks.
func (m *Model) Coordinator() *Coordinator { return m.coord }

// Notice returns the current one-line notice, if any.
func (m *Model) Notice() string { return m.notice }

// Close stops transition timers.
func (m *Model) Close() {
	logger.Debug("Closing wizard at step %s", m.ctrl.Current())
	m.coord.Stop()
}

func errorCause(err error) error {
	var v *wizard.ValidationError
	if errors.As(err, &v) && v.Err != nil {
		return v.Err
	}
	return err
}
