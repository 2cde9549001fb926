package registration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/frontdesk/internal/logger"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// FileStore keeps one YAML file per registration in a directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Dir returns the directory registrations are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// FileName returns the file name a registration is saved under:
// <date>-<slug(name)>-<id8>.yaml
func FileName(r *Registration) string {
	name := slug.Make(r.Name)
	if name == "" {
		name = "guest"
	}
	return fmt.Sprintf("%s-%s-%s.yaml", r.CreatedAt.Format(dateLayout), name, r.ShortID())
}

// Save stamps r and writes it to the store. Returns the path written.
func (s *FileStore) Save(ctx context.Context, r *Registration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.Stamp(s.now())

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create registration directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal registration: %w", err)
	}

	path := filepath.Join(s.dir, FileName(r))
	logger.Debug("Writing registration %s to %s", r.ID, path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write registration: %w", err)
	}
	return path, nil
}

// Exists reports whether a registration for document was already saved on
// the same calendar day as day.
func (s *FileStore) Exists(ctx context.Context, document string, day time.Time) (bool, error) {
	want := NormalizeDocument(document)
	if want == "" {
		return false, nil
	}

	regs, err := s.load(ctx, day.Format(dateLayout)+"-")
	if err != nil {
		return false, err
	}
	for _, r := range regs {
		if NormalizeDocument(r.Document) == want {
			return true, nil
		}
	}
	return false, nil
}

// ExistsToday is Exists for the store's current day.
func (s *FileStore) ExistsToday(ctx context.Context, document string) (bool, error) {
	return s.Exists(ctx, document, s.now())
}

// List returns every saved registration, oldest first.
func (s *FileStore) List(ctx context.Context) ([]*Registration, error) {
	regs, err := s.load(ctx, "")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].CreatedAt.Before(regs[j].CreatedAt)
	})
	return regs, nil
}

// load reads registrations whose file name starts with prefix. A missing
// directory is an empty store.
func (s *FileStore) load(ctx context.Context, prefix string) ([]*Registration, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read registration directory: %w", err)
	}

	var regs []*Registration
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") || !strings.HasPrefix(name, prefix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var r Registration
		if err := yaml.Unmarshal(data, &r); err != nil {
			// Skip malformed files rather than failing the whole listing
			logger.Warn("Skipping malformed registration %s: %v", name, err)
			continue
		}
		regs = append(regs, &r)
	}
	return regs, nil
}
