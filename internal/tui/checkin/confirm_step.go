package checkin

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/mark3labs/frontdesk/internal/registration"
	tuiwizard "github.com/mark3labs/frontdesk/internal/tui/wizard"
)

// summaryRenderedMsg carries a rendered summary back to the step. seq ties
// it to the Init that requested it.
type summaryRenderedMsg struct {
	seq     int
	content string
}

// ConfirmStep shows the registration summary rendered as markdown. The
// rendering runs as a command, so the step reports itself mounted only once
// the summary is in place.
type ConfirmStep struct {
	draft    func() *registration.Registration
	viewport viewport.Model
	width    int
	height   int

	seq      int
	markdown string
	rendered bool
	ready    tea.Cmd
}

// NewConfirmStep creates the confirmation step. draft is called on the
// update loop each time the step is entered.
func NewConfirmStep(draft func() *registration.Registration) *ConfirmStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &ConfirmStep{
		draft:    draft,
		viewport: vp,
		width:    60,
		height:   12,
	}
}

// renderMarkdown renders markdown with glamour, falling back to plain text
// if rendering fails.
func renderMarkdown(content string, width int) string {
	if width > 100 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// Init snapshots the draft and starts rendering it.
func (s *ConfirmStep) Init() tea.Cmd {
	s.seq++
	s.rendered = false
	s.markdown = s.draft().Markdown()

	seq, md, width := s.seq, s.markdown, s.width
	return func() tea.Msg {
		return summaryRenderedMsg{seq: seq, content: renderMarkdown(md, width)}
	}
}

// Mount holds ready until the summary has been rendered.
func (s *ConfirmStep) Mount(ready tea.Cmd) tea.Cmd {
	if s.rendered {
		return ready
	}
	s.ready = ready
	return nil
}

func (s *ConfirmStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case summaryRenderedMsg:
		if msg.seq != s.seq {
			return nil
		}
		s.viewport.SetContent(msg.content)
		s.viewport.GotoTop()
		s.rendered = true
		ready := s.ready
		s.ready = nil
		return ready

	case tuiwizard.StepRejectedMsg, tuiwizard.StepErrorMsg:
		return nil
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// Rendered reports whether the current summary is on screen.
func (s *ConfirmStep) Rendered() bool {
	return s.rendered
}

func (s *ConfirmStep) SetSize(width, height int) {
	resized := width != s.width
	s.width = width
	s.height = height

	s.viewport.SetWidth(width)
	s.viewport.SetHeight(max(height-2, 5))

	if resized && s.rendered {
		s.viewport.SetContent(renderMarkdown(s.markdown, width))
	}
}

func (s *ConfirmStep) View() string {
	if !s.rendered {
		return "Preparing summary…"
	}
	hints := tuiwizard.RenderHintBar("↑↓", "scroll", "alt+1", "edit guest", "alt+2", "edit party")
	return s.viewport.View() + "\n\n" + hints
}
