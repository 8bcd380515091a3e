// Package generation provides text-generation clients for the agent's
// reasoning cycle.
package generation

import (
	"context"
	"encoding/json"
)

// Client is the contract the orchestrator consumes for text generation.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req Request) (Response, error)

	// Name returns the client name for logging.
	Name() string
}

// Request is a completion request.
type Request struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"` // system, user, assistant, tool
	Content string `json:"content,omitempty"`
	// ToolCallID links a tool-role message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Response is a completion response. A response either carries final
// text or requests tool invocations; when ToolCalls is non-empty the
// cycle executes them and feeds results back.
type Response struct {
	ID        string     `json:"id"`
	Model     string     `json:"model"`
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Usage     Usage      `json:"usage"`
}

// Final reports whether the response is a terminal answer rather than a
// tool request.
func (r Response) Final() bool { return len(r.ToolCalls) == 0 }

// Usage contains token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
