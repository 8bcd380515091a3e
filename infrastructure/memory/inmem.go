// Package memory provides memory manager implementations.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vigil-agent/vigil/domain/memory"
)

// InMem is a process-local memory manager. Conversation history is a
// bounded ring; long-term entries live in a plain map.
type InMem struct {
	mu      sync.RWMutex
	history []memory.Message
	limit   int
	kv      map[string]string
	now     func() time.Time
}

// NewInMem creates an in-memory manager keeping at most limit history
// entries. Non-positive limits fall back to 50.
func NewInMem(limit int) *InMem {
	if limit <= 0 {
		limit = 50
	}
	return &InMem{
		limit: limit,
		kv:    make(map[string]string),
		now:   time.Now,
	}
}

// Write stores a long-term entry.
func (m *InMem) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

// Read retrieves a long-term entry.
func (m *InMem) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	return v, ok, nil
}

// Append adds a message to the conversation history, evicting the
// oldest entry once the limit is reached.
func (m *InMem) Append(_ context.Context, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, memory.Message{
		Role:    role,
		Content: content,
		At:      m.now(),
	})
	if len(m.history) > m.limit {
		m.history = m.history[len(m.history)-m.limit:]
	}
	return nil
}

// Recent returns up to limit of the newest history entries, oldest
// first.
func (m *InMem) Recent(_ context.Context, limit int) ([]memory.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]memory.Message, limit)
	copy(out, m.history[len(m.history)-limit:])
	return out, nil
}

// Snapshot returns the recent history plus the sorted long-term keys.
func (m *InMem) Snapshot(ctx context.Context) (memory.Snapshot, error) {
	recent, err := m.Recent(ctx, 0)
	if err != nil {
		return memory.Snapshot{}, err
	}

	m.mu.RLock()
	keys := make([]string, 0, len(m.kv))
	for k := range m.kv {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	return memory.Snapshot{Recent: recent, LongTermKeys: keys}, nil
}

var _ memory.Manager = (*InMem)(nil)
