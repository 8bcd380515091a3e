// Package sources provides event source implementations for the
// reactive loop.
package sources

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigil-agent/vigil/domain/event"
)

// Inbox is an in-memory inbox source. Delivered messages are returned
// by Poll exactly once, in arrival order.
type Inbox struct {
	mu     sync.Mutex
	name   string
	unread []*event.Email
	sent   []SentMail
	now    func() time.Time
}

// SentMail records an outbound message.
type SentMail struct {
	To      string
	Subject string
	Body    string
	At      time.Time
}

// NewInbox creates an inbox source, optionally pre-seeded with unread
// messages.
func NewInbox(seed ...*event.Email) *Inbox {
	return &Inbox{
		name:   "inbox",
		unread: seed,
		now:    time.Now,
	}
}

// Name returns the source name.
func (s *Inbox) Name() string { return s.name }

// Deliver adds an unread message. A missing thread ID gets a generated
// one so the event keeps a stable identity.
func (s *Inbox) Deliver(mail *event.Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mail.ThreadID == "" {
		mail.ThreadID = uuid.NewString()
	}
	if mail.ReceivedAt.IsZero() {
		mail.ReceivedAt = s.now()
	}
	s.unread = append(s.unread, mail)
}

// Poll drains the unread messages in arrival order.
func (s *Inbox) Poll(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]event.Event, len(s.unread))
	for i, m := range s.unread {
		out[i] = m
	}
	s.unread = nil
	return out, nil
}

// Send records an outbound message. Invoked only through tool calls,
// never by the orchestrator directly.
func (s *Inbox) Send(to, subject, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentMail{To: to, Subject: subject, Body: body, At: s.now()})
}

// Sent returns every outbound message recorded so far.
func (s *Inbox) Sent() []SentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMail, len(s.sent))
	copy(out, s.sent)
	return out
}

var _ event.Source = (*Inbox)(nil)
