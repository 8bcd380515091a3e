package memory

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemReadWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewInMem(10)

	if _, ok, err := m.Read(ctx, "missing"); err != nil || ok {
		t.Errorf("Read(missing) = %v, %v", ok, err)
	}

	if err := m.Write(ctx, "event:email:th-1", "handled urgent email"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	v, ok, err := m.Read(ctx, "event:email:th-1")
	if err != nil || !ok || v != "handled urgent email" {
		t.Errorf("Read() = %q, %v, %v", v, ok, err)
	}

	// Overwrite replaces the value.
	if err := m.Write(ctx, "event:email:th-1", "updated"); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := m.Read(ctx, "event:email:th-1"); v != "updated" {
		t.Errorf("Read() after overwrite = %q", v)
	}
}

func TestInMemHistoryBounded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewInMem(3)

	for i := 0; i < 5; i++ {
		if err := m.Append(ctx, "user", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	recent, err := m.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3", len(recent))
	}
	// Oldest first, newest entries survive eviction.
	for i, want := range []string{"message 2", "message 3", "message 4"} {
		if recent[i].Content != want {
			t.Errorf("recent[%d].Content = %q, want %q", i, recent[i].Content, want)
		}
	}

	limited, err := m.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].Content != "message 3" {
		t.Errorf("Recent(2) = %+v", limited)
	}
}

func TestInMemSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewInMem(10)
	m.Write(ctx, "b", "2")
	m.Write(ctx, "a", "1")
	m.Append(ctx, "assistant", "hello")

	snap, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(snap.Recent) != 1 || snap.Recent[0].Role != "assistant" {
		t.Errorf("Recent = %+v", snap.Recent)
	}
	if len(snap.LongTermKeys) != 2 || snap.LongTermKeys[0] != "a" || snap.LongTermKeys[1] != "b" {
		t.Errorf("LongTermKeys = %v, want sorted [a b]", snap.LongTermKeys)
	}
}
