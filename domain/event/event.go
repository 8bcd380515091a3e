// Package event provides the closed set of event kinds the reactive
// loop can observe, and the contract for pollable event sources.
package event

import (
	"fmt"
	"time"
)

// Kind classifies an event. The set is closed: orchestration code
// dispatches with an exhaustive type switch, not runtime inspection of
// free-form payloads.
type Kind string

const (
	KindEmail Kind = "email"
	KindTask  Kind = "task"
)

// Event is the tagged variant over the known event kinds. ID is the
// stable identity used for deduplication across polls. The unexported
// method seals the interface to this package.
type Event interface {
	// Kind returns the event's discriminator.
	Kind() Kind

	// ID returns the stable deduplication identity.
	ID() string

	// Priority returns the event's urgency on a 1 (lowest) to 5
	// (highest) scale.
	Priority() int

	// OccurredAt returns when the event was observed.
	OccurredAt() time.Time

	// Describe renders the event's fields as seed text for a reasoning
	// cycle.
	Describe() string

	sealed()
}

// Email is an inbox event.
type Email struct {
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	Snippet    string    `json:"snippet"`
	Urgent     bool      `json:"urgent"`
	ThreadID   string    `json:"thread_id"`
	ReceivedAt time.Time `json:"received_at"`
}

func (e *Email) Kind() Kind { return KindEmail }

func (e *Email) ID() string { return string(KindEmail) + ":" + e.ThreadID }

func (e *Email) Priority() int {
	if e.Urgent {
		return 5
	}
	return 2
}

func (e *Email) OccurredAt() time.Time { return e.ReceivedAt }

func (e *Email) Describe() string {
	return fmt.Sprintf("New email received. Subject: %s. From: %s. Preview: %s",
		e.Subject, e.Sender, e.Snippet)
}

func (e *Email) sealed() {}

// TaskStatus enumerates the task lifecycle.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
	TaskBlocked    TaskStatus = "blocked"
)

// Task is a task-tracker event.
type Task struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	DueDate     string     `json:"due_date,omitempty"` // ISO date
	Urgency     int        `json:"priority"`           // 1..5
	Status      TaskStatus `json:"status"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (e *Task) Kind() Kind { return KindTask }

func (e *Task) ID() string { return string(KindTask) + ":" + e.TaskID }

func (e *Task) Priority() int {
	if e.Urgency < 1 {
		return 1
	}
	if e.Urgency > 5 {
		return 5
	}
	return e.Urgency
}

func (e *Task) OccurredAt() time.Time { return e.CreatedAt }

func (e *Task) Describe() string {
	return fmt.Sprintf("Task requires attention. Title: %s. Priority: %d. Status: %s",
		e.Title, e.Priority(), e.Status)
}

func (e *Task) sealed() {}
