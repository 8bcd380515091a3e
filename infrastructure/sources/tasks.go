package sources

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigil-agent/vigil/domain/event"
)

// TaskBoard is an in-memory task source. Poll reports tasks that need
// attention (overdue, or open with urgency 4+), each at most once until
// its status changes.
type TaskBoard struct {
	mu       sync.Mutex
	name     string
	tasks    map[string]*event.Task
	order    []string
	notified map[string]bool
	now      func() time.Time
}

// NewTaskBoard creates a task source, optionally pre-seeded.
func NewTaskBoard(seed ...*event.Task) *TaskBoard {
	b := &TaskBoard{
		name:     "tasks",
		tasks:    make(map[string]*event.Task),
		notified: make(map[string]bool),
		now:      time.Now,
	}
	for _, t := range seed {
		b.add(t)
	}
	return b
}

// Name returns the source name.
func (b *TaskBoard) Name() string { return b.name }

func (b *TaskBoard) add(t *event.Task) {
	if t.TaskID == "" {
		t.TaskID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = b.now()
	}
	if t.Status == "" {
		t.Status = event.TaskPending
	}
	if _, exists := b.tasks[t.TaskID]; !exists {
		b.order = append(b.order, t.TaskID)
	}
	b.tasks[t.TaskID] = t
}

// Create adds a task. Invoked only through tool calls.
func (b *TaskBoard) Create(t *event.Task) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.add(t)
	return t.TaskID
}

// UpdateStatus changes a task's status. A status change re-arms the
// attention notification. Returns false for unknown IDs.
func (b *TaskBoard) UpdateStatus(id string, status event.TaskStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	if !ok {
		return false
	}
	if t.Status != status {
		t.Status = status
		delete(b.notified, id)
	}
	return true
}

// Get returns a task by ID.
func (b *TaskBoard) Get(id string) (*event.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	return t, ok
}

func (b *TaskBoard) open(t *event.Task) bool {
	return t.Status == event.TaskPending || t.Status == event.TaskInProgress || t.Status == event.TaskBlocked
}

func (b *TaskBoard) overdue(t *event.Task) bool {
	if t.DueDate == "" {
		return false
	}
	due, err := time.Parse("2006-01-02", t.DueDate)
	if err != nil {
		return false
	}
	return b.now().After(due.Add(24 * time.Hour))
}

// Poll returns the open tasks that need attention, in creation order,
// each at most once per status.
func (b *TaskBoard) Poll(ctx context.Context) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var out []event.Event
	for _, id := range b.order {
		t := b.tasks[id]
		if b.notified[id] || !b.open(t) {
			continue
		}
		if b.overdue(t) || t.Priority() >= 4 {
			out = append(out, t)
			b.notified[id] = true
		}
	}
	return out, nil
}

var _ event.Source = (*TaskBoard)(nil)
