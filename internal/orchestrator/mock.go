package orchestrator

import (
	"context"
	"sync"
)

// MockCall records one command dispatched to the mock client
type MockCall struct {
	Method   string
	JobID    uint
	Settings StartSettings
}

// MockClient is an in-memory Client for tests. It records every call and
// can be configured to fail.
type MockClient struct {
	mu    sync.Mutex
	calls []MockCall
	err   error
}

var _ Client = &MockClient{}

// NewMockClient creates a new mock orchestrator client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// SetErr configures the error returned from every command; nil clears it
func (m *MockClient) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// StartJob records a start command
func (m *MockClient) StartJob(_ context.Context, jobID uint, settings StartSettings) error {
	return m.record(MockCall{Method: "start", JobID: jobID, Settings: settings})
}

// CancelJob records a cancel command
func (m *MockClient) CancelJob(_ context.Context, jobID uint) error {
	return m.record(MockCall{Method: "cancel", JobID: jobID})
}

// RestartJob records a restart command
func (m *MockClient) RestartJob(_ context.Context, jobID uint) error {
	return m.record(MockCall{Method: "restart", JobID: jobID})
}

// Calls returns a copy of the recorded calls
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClient) record(call MockCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.err
}
