package generation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Mock returns a predefined sequence of responses for testing.
type Mock struct {
	mu        sync.Mutex
	responses []Response
	errs      []error
	index     int
	requests  []Request
}

// NewMock creates a mock client with the given responses.
func NewMock(responses ...Response) *Mock {
	return &Mock{responses: responses}
}

// FailWith queues an error before the remaining responses. Errors are
// consumed first, in order.
func (m *Mock) FailWith(errs ...error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
	return m
}

// Complete returns the next queued error or response. When the script
// is exhausted it returns a terminal empty-text response.
func (m *Mock) Complete(_ context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return Response{}, err
	}

	if m.index >= len(m.responses) {
		return Response{ID: uuid.NewString(), Text: "done"}, nil
	}
	resp := m.responses[m.index]
	m.index++
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	return resp, nil
}

// Name returns the client name.
func (m *Mock) Name() string { return "mock" }

// Requests returns every request seen so far.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns how many times Complete was invoked.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Reset rewinds the response sequence and clears recorded requests.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
	m.errs = nil
	m.requests = nil
}
