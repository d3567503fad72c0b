package trelly

import (
	"context"
	"encoding/json"
	"time"
)

// Tool is the contract for a host-callable operation. Tools are synchronous:
// one call, one JSON result. They are provider-agnostic (no knowledge of the
// host protocol that invokes them).
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map (the host presents it to the model).
	Parameters() map[string]any
	// Execute parses and validates argsJSON, runs the operation, and returns
	// its result as a JSON document.
	Execute(ctx context.Context, argsJSON []byte) (json.RawMessage, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides optional per-tool
// settings. Registry uses Timeout() to override the default execution timeout when set.
// Other methods expose tags, version, and the dangerous flag for orchestration or discovery.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
	Version() string
	IsDangerous() bool
}

// ToolCall is a single execution request (as produced by the host).
type ToolCall struct {
	ID       string
	ToolName string
	Args     json.RawMessage // JSON payload of arguments
}

// ToolResult is the outcome of one execution. Exactly one of Result and Error
// is meaningful: Result holds the tool's JSON document on success, Error the
// failure otherwise.
type ToolResult struct {
	CallID   string
	ToolName string
	Result   json.RawMessage
	Error    error
}
