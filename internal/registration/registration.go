// Package registration holds the guest registration record produced by the
// check-in flow and the file store it is persisted to.
package registration

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Registration is a completed guest check-in.
type Registration struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Document  string    `yaml:"document" json:"document"`
	Email     string    `yaml:"email" json:"email"`
	Adults    int       `yaml:"adults" json:"adults"`
	Children  int       `yaml:"children" json:"children"`
	Notes     string    `yaml:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// FieldErrors maps a field name to a message suitable for display next to it.
type FieldErrors map[string]string

// Field names used in FieldErrors.
const (
	FieldName     = "name"
	FieldDocument = "document"
	FieldEmail    = "email"
	FieldAdults   = "adults"
	FieldChildren = "children"
)

// Stamp assigns an id and creation time if they are not set yet.
func (r *Registration) Stamp(now time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}

// ShortID returns the first eight characters of the id.
func (r *Registration) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Guests returns the total party size.
func (r *Registration) Guests() int {
	return r.Adults + r.Children
}

// ValidatePersonal checks the guest's name, document and email.
func (r *Registration) ValidatePersonal() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		errs[FieldName] = "Name is required"
	}
	switch doc := NormalizeDocument(r.Document); {
	case doc == "":
		errs[FieldDocument] = "Document is required"
	case len(doc) < 5:
		errs[FieldDocument] = "Document looks too short"
	}
	if email := strings.TrimSpace(r.Email); email == "" {
		errs[FieldEmail] = "Email is required"
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs[FieldEmail] = "Email is not valid"
	}
	return errs
}

// ValidateParty checks the party size against maxOccupancy. A
// non-positive maxOccupancy disables the upper bound.
func (r *Registration) ValidateParty(maxOccupancy int) FieldErrors {
	errs := FieldErrors{}
	if r.Adults < 1 {
		errs[FieldAdults] = "At least one adult is required"
	}
	if r.Children < 0 {
		errs[FieldChildren] = "Children cannot be negative"
	}
	if maxOccupancy > 0 && r.Guests() > maxOccupancy {
		errs[FieldChildren] = fmt.Sprintf("Party of %d exceeds the room limit of %d", r.Guests(), maxOccupancy)
	}
	return errs
}

// NormalizeDocument uppercases a document id and drops separators so that
// "ab-123.45" and "AB12345" compare equal.
func NormalizeDocument(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Markdown renders the registration as a summary for review.
func (r *Registration) Markdown() string {
	var b strings.Builder
	b.WriteString("# Registration summary\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Name | %s |\n", escapeCell(r.Name))
	fmt.Fprintf(&b, "| Document | %s |\n", escapeCell(r.Document))
	fmt.Fprintf(&b, "| Email | %s |\n", escapeCell(r.Email))
	fmt.Fprintf(&b, "| Adults | %d |\n", r.Adults)
	fmt.Fprintf(&b, "| Children | %d |\n", r.Children)
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

// Escape pipes for markdown table cells
func escapeCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", "\\|")
}
