package protocol

import (
	"strings"
	"sync"
)

// Library stores protocols keyed by name and resolves the protocol
// queries that states carry. Registration is an upsert.
type Library struct {
	mu        sync.RWMutex
	protocols map[string]*Protocol
	order     []string
}

// NewLibrary creates an empty protocol library.
func NewLibrary() *Library {
	return &Library{protocols: make(map[string]*Protocol)}
}

// Register adds or replaces a protocol.
func (l *Library) Register(p *Protocol) {
	if p == nil || p.Name == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.protocols[p.Name]; !exists {
		l.order = append(l.order, p.Name)
	}
	l.protocols[p.Name] = p
}

// Get returns a protocol by exact name.
func (l *Library) Get(name string) (*Protocol, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.protocols[name]
	return p, ok
}

// Remove deletes a protocol, reporting whether it existed.
func (l *Library) Remove(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.protocols[name]; !ok {
		return false
	}
	delete(l.protocols, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Query returns the protocols whose name contains the query,
// case-insensitive, in registration order. An empty query matches
// nothing.
func (l *Library) Query(query string) []*Protocol {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*Protocol
	for _, name := range l.order {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, l.protocols[name])
		}
	}
	return out
}

// Names returns all registered protocol names in registration order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}
