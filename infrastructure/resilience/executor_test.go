package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vigil-agent/vigil/domain/tool"
	"github.com/vigil-agent/vigil/infrastructure/generation"
)

func countingTool(t *testing.T, name string, retrySafe bool, failures int32, calls *atomic.Int32) tool.Tool {
	t.Helper()

	b := tool.NewBuilder(name).
		WithDescription("test tool").
		WithHandler(func(_ context.Context, args json.RawMessage) (tool.Result, error) {
			n := calls.Add(1)
			if n <= failures {
				return tool.Result{}, errors.New("transient failure")
			}
			return tool.NewResult(args), nil
		})
	if retrySafe {
		b = b.Idempotent()
	}
	return b.MustBuild()
}

func testExecutor() *Executor {
	return NewExecutorWithOptions(
		WithRetryAttempts(3),
		WithRetryDelay(time.Millisecond),
		WithTimeout(time.Second),
	)
}

func TestExecuteSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	tl := countingTool(t, "echo", false, 0, &calls)

	res, err := testExecutor().Execute(context.Background(), tl, json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.OutputString() != `{"x":1}` {
		t.Errorf("OutputString() = %q", res.OutputString())
	}
	if res.Duration <= 0 {
		t.Error("Duration not recorded")
	}
	if calls.Load() != 1 {
		t.Errorf("handler invoked %d times, want 1", calls.Load())
	}
}

func TestExecuteRetriesIdempotent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	tl := countingTool(t, "lookup", true, 2, &calls)

	res, err := testExecutor().Execute(context.Background(), tl, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.OutputString() != `{}` {
		t.Errorf("OutputString() = %q", res.OutputString())
	}
	if calls.Load() != 3 {
		t.Errorf("handler invoked %d times, want 3", calls.Load())
	}
}

func TestExecuteNoRetryForUnsafe(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	tl := countingTool(t, "send", false, 1, &calls)

	if _, err := testExecutor().Execute(context.Background(), tl, json.RawMessage(`{}`)); err == nil {
		t.Fatal("Execute() = nil error, want failure")
	}
	if calls.Load() != 1 {
		t.Errorf("handler invoked %d times, want 1", calls.Load())
	}
}

func TestRetrierRecovers(t *testing.T) {
	t.Parallel()

	provErr := &generation.Error{Provider: "mock", Err: errors.New("flaky")}
	mock := generation.NewMock(generation.Response{Text: "answer"}).FailWith(provErr, provErr)

	r := NewRetrier(mock, RetrierConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffMultiplier: 2})
	resp, err := r.Complete(context.Background(), generation.Request{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "answer" {
		t.Errorf("Text = %q", resp.Text)
	}
	if mock.CallCount() != 3 {
		t.Errorf("CallCount() = %d, want 3", mock.CallCount())
	}
	if r.Name() != "mock" {
		t.Errorf("Name() = %q", r.Name())
	}
}

func TestRetrierExhausts(t *testing.T) {
	t.Parallel()

	provErr := &generation.Error{Provider: "mock", Err: errors.New("down")}
	mock := generation.NewMock().FailWith(provErr, provErr)

	r := NewRetrier(mock, RetrierConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, BackoffMultiplier: 2})
	if _, err := r.Complete(context.Background(), generation.Request{}); !errors.Is(err, generation.ErrGeneration) {
		t.Errorf("Complete() error = %v, want ErrGeneration", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", mock.CallCount())
	}
}
