package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vigil-agent/vigil/domain/event"
)

func TestInboxPollDrains(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inbox := NewInbox(
		&event.Email{Subject: "urgent: server down", Sender: "ops@example.com", Urgent: true, ThreadID: "th-1"},
	)
	inbox.Deliver(&event.Email{Subject: "lunch?", Sender: "sam@example.com", ThreadID: "th-2"})

	events, err := inbox.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].ID() != "email:th-1" || events[1].ID() != "email:th-2" {
		t.Errorf("order = [%s %s]", events[0].ID(), events[1].ID())
	}

	// Second poll returns nothing.
	events, err = inbox.Poll(ctx)
	if err != nil || len(events) != 0 {
		t.Errorf("second Poll() = %v, %v", events, err)
	}
}

func TestInboxDeliverFillsIdentity(t *testing.T) {
	t.Parallel()

	inbox := NewInbox()
	inbox.Deliver(&event.Email{Subject: "no thread"})

	events, _ := inbox.Poll(context.Background())
	if len(events) != 1 {
		t.Fatal("message not delivered")
	}
	if events[0].ID() == "email:" {
		t.Error("Deliver() did not assign a thread ID")
	}
	if events[0].OccurredAt().IsZero() {
		t.Error("Deliver() did not stamp the arrival time")
	}
}

func TestInboxSend(t *testing.T) {
	t.Parallel()

	inbox := NewInbox()
	inbox.Send("kai@example.com", "re: server down", "restarted, monitoring")

	sent := inbox.Sent()
	if len(sent) != 1 || sent[0].To != "kai@example.com" {
		t.Errorf("Sent() = %+v", sent)
	}
}

func TestTaskBoardPollAttention(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	board := NewTaskBoard(
		&event.Task{TaskID: "t-1", Title: "file taxes", Urgency: 5},
		&event.Task{TaskID: "t-2", Title: "water plants", Urgency: 1},
		&event.Task{TaskID: "t-3", Title: "renew passport", Urgency: 2, DueDate: "2020-01-01"},
	)

	events, err := board.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (urgent and overdue)", len(events))
	}
	if events[0].ID() != "task:t-1" || events[1].ID() != "task:t-3" {
		t.Errorf("order = [%s %s]", events[0].ID(), events[1].ID())
	}

	// Already-notified tasks are not re-reported.
	events, _ = board.Poll(ctx)
	if len(events) != 0 {
		t.Errorf("second Poll() reported %d events", len(events))
	}
}

func TestTaskBoardStatusChangeRearms(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	board := NewTaskBoard(&event.Task{TaskID: "t-1", Title: "deploy fix", Urgency: 5})

	if events, _ := board.Poll(ctx); len(events) != 1 {
		t.Fatal("first poll did not report the task")
	}

	if !board.UpdateStatus("t-1", event.TaskBlocked) {
		t.Fatal("UpdateStatus() = false for known task")
	}
	if events, _ := board.Poll(ctx); len(events) != 1 {
		t.Error("status change did not re-arm the notification")
	}

	board.UpdateStatus("t-1", event.TaskCompleted)
	if events, _ := board.Poll(ctx); len(events) != 0 {
		t.Error("completed task still reported")
	}

	if board.UpdateStatus("ghost", event.TaskPending) {
		t.Error("UpdateStatus() = true for unknown task")
	}
}

func TestTaskBoardCreate(t *testing.T) {
	t.Parallel()

	board := NewTaskBoard()
	id := board.Create(&event.Task{Title: "call bank", Urgency: 4})
	if id == "" {
		t.Fatal("Create() returned empty ID")
	}
	task, ok := board.Get(id)
	if !ok || task.Status != event.TaskPending {
		t.Errorf("Get(%s) = %+v, %v", id, task, ok)
	}
}

func TestMaildirPicksUpMessages(t *testing.T) {
	dir := t.TempDir()

	// A message present before the watcher starts.
	writeMessage(t, dir, "msg-1", "Subject: pre-existing\nFrom: a@example.com\n\nhello there\n")

	src, err := NewMaildir(dir)
	if err != nil {
		t.Fatalf("NewMaildir() error = %v", err)
	}
	defer src.Close()

	events, err := src.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	mail, ok := events[0].(*event.Email)
	if !ok {
		t.Fatalf("event is %T, want *event.Email", events[0])
	}
	if mail.Subject != "pre-existing" || mail.Sender != "a@example.com" || mail.Snippet != "hello there" {
		t.Errorf("parsed mail = %+v", mail)
	}

	// A message dropped while watching.
	writeMessage(t, dir, "msg-2", "Subject: incoming\nUrgent: true\n\nact now\n")

	deadline := time.Now().Add(5 * time.Second)
	for {
		events, err = src.Poll(context.Background())
		if err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		if len(events) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never surfaced the new message")
		}
		time.Sleep(20 * time.Millisecond)
	}
	mail = events[0].(*event.Email)
	if mail.Subject != "incoming" || !mail.Urgent {
		t.Errorf("parsed mail = %+v", mail)
	}
	if mail.Priority() != 5 {
		t.Errorf("Priority() = %d, want 5", mail.Priority())
	}
}

func TestMaildirCloseIdempotent(t *testing.T) {
	src, err := NewMaildir(t.TempDir())
	if err != nil {
		t.Fatalf("NewMaildir() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func writeMessage(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
