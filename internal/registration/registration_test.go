package registration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePersonal(t *testing.T) {
	tests := []struct {
		name   string
		reg    Registration
		fields []string
	}{
		{"valid", Registration{Name: "Ada Lovelace", Document: "AB-12345", Email: "ada@example.com"}, nil},
		{"all missing", Registration{}, []string{FieldName, FieldDocument, FieldEmail}},
		{"short document", Registration{Name: "Ada", Document: "12", Email: "ada@example.com"}, []string{FieldDocument}},
		{"bad email", Registration{Name: "Ada", Document: "AB12345", Email: "ada@"}, []string{FieldEmail}},
		{"display name email", Registration{Name: "Ada", Document: "AB12345", Email: "Ada <ada@example.com>"}, []string{FieldEmail}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.reg.ValidatePersonal()
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidateParty(t *testing.T) {
	assert.Empty(t, (&Registration{Adults: 2, Children: 2}).ValidateParty(4))
	assert.Contains(t, (&Registration{Adults: 0, Children: 1}).ValidateParty(4), FieldAdults)
	assert.Contains(t, (&Registration{Adults: 3, Children: 2}).ValidateParty(4), FieldChildren)
	assert.Empty(t, (&Registration{Adults: 9}).ValidateParty(0), "no limit when max is unset")
}

func TestNormalizeDocument(t *testing.T) {
	assert.Equal(t, "AB12345", NormalizeDocument(" ab-123.45 "))
	assert.Empty(t, NormalizeDocument("-- ."))
}

func TestStampAndShortID(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	r := &Registration{}
	r.Stamp(now)
	assert.Len(t, r.ID, 36)
	assert.Len(t, r.ShortID(), 8)
	assert.Equal(t, now, r.CreatedAt)

	id := r.ID
	r.Stamp(now.Add(time.Hour))
	assert.Equal(t, id, r.ID, "stamping is idempotent")
	assert.Equal(t, now, r.CreatedAt)
}

func TestMarkdown(t *testing.T) {
	r := &Registration{Name: "Ada | L", Document: "AB12345", Email: "ada@example.com", Adults: 2, Notes: "Late arrival"}
	md := r.Markdown()
	assert.Contains(t, md, "| Name | Ada \\| L |")
	assert.Contains(t, md, "| Adults | 2 |")
	assert.Contains(t, md, "## Notes")

	r.Notes = "  "
	assert.NotContains(t, r.Markdown(), "## Notes")
}

func newTestStore(t *testing.T, now time.Time) *FileStore {
	s := NewFileStore(filepath.Join(t.TempDir(), "registrations"))
	s.now = func() time.Time { return now }
	return s
}

func TestFileStore_SaveAndList(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := newTestStore(t, day)

	first := &Registration{Name: "Ada Lovelace", Document: "AB12345", Email: "ada@example.com", Adults: 1}
	path, err := s.Save(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14-ada-lovelace-"+first.ShortID()+".yaml", filepath.Base(path))
	assert.FileExists(t, path)

	s.now = func() time.Time { return day.Add(time.Hour) }
	second := &Registration{Name: "Grace Hopper", Document: "CD67890", Email: "grace@example.com", Adults: 2}
	_, err = s.Save(ctx, second)
	require.NoError(t, err)

	regs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, first.ID, regs[0].ID)
	assert.Equal(t, "Grace Hopper", regs[1].Name)
	assert.Equal(t, 2, regs[1].Adults)
}

func TestFileStore_FileNameFallback(t *testing.T) {
	r := &Registration{ID: "12345678-aaaa", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2026-01-02-guest-12345678.yaml", FileName(r))
}

func TestFileStore_Exists(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := newTestStore(t, day)

	exists, err := s.ExistsToday(ctx, "AB12345")
	require.NoError(t, err)
	assert.False(t, exists, "missing directory is an empty store")

	_, err = s.Save(ctx, &Registration{Name: "Ada", Document: "ab-123.45", Adults: 1})
	require.NoError(t, err)

	exists, err = s.ExistsToday(ctx, "AB12345")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "AB12345", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, exists, "only the same day counts")

	exists, err = s.ExistsToday(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileStore_SkipsMalformedFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Now())
	require.NoError(t, os.MkdirAll(s.Dir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "2026-01-01-bad.yaml"), []byte("name: [unclosed"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "README.md"), []byte("ignored"), 0644))

	regs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestStore(t, time.Now())

	_, err := s.Save(ctx, &Registration{Name: "Ada"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_ReadDirError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewFileStore(file).List(context.Background())
	assert.Error(t, err)
}
