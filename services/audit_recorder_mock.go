package services

import (
	"context"
	"sync"
)

// MockAuditRecorder is an in-memory AuditRecorder for testing
type MockAuditRecorder struct {
	entries []AuditEntry
	err     error
	mu      sync.RWMutex
}

// NewMockAuditRecorder creates an empty mock recorder
func NewMockAuditRecorder() *MockAuditRecorder {
	return &MockAuditRecorder{}
}

// SetAsMockForTesting sets this mock as the global audit recorder
func (m *MockAuditRecorder) SetAsMockForTesting() {
	SetAuditRecorder(m)
}

// FailWith makes every subsequent Log call return err without recording
func (m *MockAuditRecorder) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Log records the entry
func (m *MockAuditRecorder) Log(ctx context.Context, entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of every recorded entry
func (m *MockAuditRecorder) Entries() []AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]AuditEntry(nil), m.entries...)
}

// Clear removes all recorded entries
func (m *MockAuditRecorder) Clear() {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
}
