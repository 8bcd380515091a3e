package tool

import (
	"encoding/json"
	"time"
)

// Result contains the output of a tool invocation.
type Result struct {
	// Output is the primary result data.
	Output json.RawMessage `json:"output"`

	// Duration is how long the invocation took.
	Duration time.Duration `json:"duration"`
}

// NewResult creates a result with the given output.
func NewResult(output json.RawMessage) Result {
	return Result{Output: output}
}

// TextResult creates a result wrapping plain text as a JSON string.
func TextResult(text string) Result {
	data, _ := json.Marshal(text)
	return Result{Output: data}
}

// OutputString returns the output as a string for convenience.
func (r Result) OutputString() string {
	return string(r.Output)
}
