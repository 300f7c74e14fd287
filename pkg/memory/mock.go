package memory

import (
	"context"
	"sync"
)

// NoopRecorder satisfies Recorder while recording nothing
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(ctx context.Context, rec Interaction) error { return nil }
func (n *NoopRecorder) Enabled() bool                                     { return false }
func (n *NoopRecorder) Close() error                                      { return nil }

// MockRecorder is a Recorder for tests. It captures records and can be
// scripted to fail.
type MockRecorder struct {
	mu      sync.Mutex
	records []Interaction

	// Error injection for testing
	RecordError error
	Disabled    bool
	Closed      bool
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{records: []Interaction{}}
}

func (m *MockRecorder) Record(ctx context.Context, rec Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordError != nil {
		return m.RecordError
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *MockRecorder) Enabled() bool {
	return !m.Disabled
}

func (m *MockRecorder) Close() error {
	m.Closed = true
	return nil
}

// Records returns a copy of the captured interactions
func (m *MockRecorder) Records() []Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Interaction, len(m.records))
	copy(out, m.records)
	return out
}

var _ Recorder = (*NoopRecorder)(nil)
var _ Recorder = (*MockRecorder)(nil)
