// Package memory defines the contract for the agent's memory
// collaborator: a key-value store for long-term facts plus a bounded
// conversation history. Implementations live in infrastructure.
package memory

import (
	"context"
	"time"
)

// Message is one conversation turn kept in short-term history.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Snapshot is the memory contribution handed to context assembly.
type Snapshot struct {
	Recent       []Message `json:"recent"`
	LongTermKeys []string  `json:"long_term_keys"`
}

// Manager is the memory collaborator contract.
type Manager interface {
	// Write stores a long-term value under key, replacing any prior value.
	Write(ctx context.Context, key, value string) error

	// Read returns the value for key; ok is false when absent.
	Read(ctx context.Context, key string) (value string, ok bool, err error)

	// Append adds a turn to the bounded conversation history.
	Append(ctx context.Context, role, content string) error

	// Recent returns up to limit of the newest history turns, oldest
	// first.
	Recent(ctx context.Context, limit int) ([]Message, error)

	// Snapshot returns the contribution for context assembly.
	Snapshot(ctx context.Context) (Snapshot, error)
}
