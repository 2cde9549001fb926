package checkin

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// sanitizePaste cleans pasted content for a single-line field: escape
// sequences and control characters are dropped and line breaks collapse to
// a single space.
func sanitizePaste(content string) string {
	content = ansi.Strip(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var b strings.Builder
	for _, r := range content {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 32 || r == 127:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(collapseNewlines(b.String()))
}

var newlinePattern = regexp.MustCompile(`[\n\t]+`)

func collapseNewlines(content string) string {
	return newlinePattern.ReplaceAllString(content, " ")
}
