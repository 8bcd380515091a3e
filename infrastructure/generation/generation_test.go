package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMockSequence(t *testing.T) {
	t.Parallel()

	m := NewMock(
		Response{Text: "", ToolCalls: []ToolCall{{ID: "tc-1", Name: "check_inbox", Arguments: json.RawMessage(`{}`)}}},
		Response{Text: "inbox is clear"},
	)

	first, err := m.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if first.Final() {
		t.Error("first response should request a tool call")
	}

	second, err := m.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !second.Final() || second.Text != "inbox is clear" {
		t.Errorf("second response = %+v", second)
	}

	// Exhausted scripts degrade to a terminal answer.
	third, err := m.Complete(context.Background(), Request{})
	if err != nil || !third.Final() {
		t.Errorf("exhausted Complete() = %+v, %v", third, err)
	}

	if m.CallCount() != 3 {
		t.Errorf("CallCount() = %d, want 3", m.CallCount())
	}
}

func TestMockFailWith(t *testing.T) {
	t.Parallel()

	provErr := &Error{Provider: "mock", Err: errors.New("flaky")}
	m := NewMock(Response{Text: "recovered"}).FailWith(provErr)

	if _, err := m.Complete(context.Background(), Request{}); !errors.Is(err, ErrGeneration) {
		t.Errorf("first Complete() error = %v, want ErrGeneration", err)
	}
	resp, err := m.Complete(context.Background(), Request{})
	if err != nil || resp.Text != "recovered" {
		t.Errorf("second Complete() = %+v, %v", resp, err)
	}
}

func TestScriptedExpectations(t *testing.T) {
	t.Parallel()

	s := NewScripted(
		ScriptStep{ExpectContains: "THINKING", Response: Response{Text: "ok"}},
		ScriptStep{Err: errors.New("scripted failure")},
	)

	resp, err := s.Complete(context.Background(), Request{System: "state: THINKING"})
	if err != nil || resp.Text != "ok" {
		t.Fatalf("Complete() = %+v, %v", resp, err)
	}

	if _, err := s.Complete(context.Background(), Request{}); err == nil {
		t.Error("scripted error step returned nil error")
	}
	if !s.Done() {
		t.Error("Done() = false after consuming all steps")
	}

	var exhausted *ScriptExhaustedError
	if _, err := s.Complete(context.Background(), Request{}); !errors.As(err, &exhausted) {
		t.Errorf("exhausted Complete() error = %v, want ScriptExhaustedError", err)
	}

	s.Reset()
	if _, err := s.Complete(context.Background(), Request{System: "state: IDLE"}); err == nil {
		t.Error("mismatched expectation returned nil error")
	}
}

func TestOpenAIComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Authorization header not set")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("Messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4o",
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{"id": "tc-1", "function": {"name": "check_inbox", "arguments": "{}"}}]
				},
				"finish_reason": "tool_calls"
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"})
	resp, err := client.Complete(context.Background(), Request{
		System:   "state: THINKING",
		Messages: []Message{{Role: "user", Content: "check my inbox"}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Final() {
		t.Error("Final() = true for a tool-call response")
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Name != "check_inbox" {
		t.Errorf("ToolCalls = %+v", resp.ToolCalls)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
}

func TestOpenAICompleteProviderFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("Complete() error = %v, want ErrGeneration", err)
	}
}

func TestOpenAICompleteAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": {"type": "rate_limit", "message": "slow down", "code": "429"}}`))
	}))
	defer server.Close()

	client := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("Complete() error = %v, want ErrGeneration", err)
	}
	var genErr *Error
	if !errors.As(err, &genErr) {
		t.Fatalf("error is not *Error: %v", err)
	}
	var apiErr *APIError
	if !errors.As(genErr.Cause(), &apiErr) || apiErr.Type != "rate_limit" {
		t.Errorf("Cause() = %v", genErr.Cause())
	}
}
