package testfixtures

import (
	"context"
	"sync"

	"github.com/mark3labs/frontdesk/internal/registration"
)

// MockStore is an in-memory registration store for testing.
// It is safe for use from validator goroutines.
type MockStore struct {
	mu sync.Mutex

	// Documents already registered today
	Documents map[string]bool
	// Error to return from ExistsToday
	ExistsError error
	// Error to return from Save
	SaveError error

	// Saved registrations are recorded here
	Saved []*registration.Registration

	// Counters for verification
	ExistsCalls int
	SaveCalls   int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{Documents: map[string]bool{}}
}

// ExistsToday reports whether document was registered today.
func (m *MockStore) ExistsToday(ctx context.Context, document string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExistsCalls++
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	return m.Documents[registration.NormalizeDocument(document)], nil
}

// Save records r and returns a fake path.
func (m *MockStore) Save(ctx context.Context, r *registration.Registration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveError != nil {
		return "", m.SaveError
	}
	r.Stamp(FixedTime)
	m.Saved = append(m.Saved, r)
	m.Documents[registration.NormalizeDocument(r.Document)] = true
	return "registrations/" + registration.FileName(r), nil
}

// MockPublisher records published registrations.
type MockPublisher struct {
	mu        sync.Mutex
	Published []*registration.Registration
	Error     error
}

// Publish records r and returns the configured error.
func (m *MockPublisher) Publish(ctx context.Context, r *registration.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Error != nil {
		return m.Error
	}
	m.Published = append(m.Published, r)
	return nil
}

// Calls returns how many registrations were published.
func (m *MockPublisher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}
