package wizard

import (
	"strings"

	"github.com/mark3labs/frontdesk/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("enter", "next", "esc", "back")
// Returns: "enter next • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.StepSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// RenderHintBar is the exported form of renderHintBar for step content.
func RenderHintBar(pairs ...string) string {
	return renderHintBar(pairs...)
}
