// Package trelly provides a type-safe engine for registering, describing, and
// safely executing the tools this server exposes to a tool-invocation host.
//
// # Overview
//
// Hosts produce tool calls as JSON. This package turns that JSON into concrete
// Go function calls: unmarshal → validate (against the same JSON Schema shown
// to the host) → execute → marshal the result or return a clear error for
// self-correction.
//
// Pipeline: Go function + argument struct → NewTool (reflection + schema) →
// Tool → Registry → Execute (unmarshal, validate, call, marshal) → ToolResult.
//
// # Key concepts
//
//   - Single Source of Truth: one set of struct tags drives both the schema
//     sent to the host and the validation of incoming JSON.
//   - Partial Success: ExecuteBatch collects all results; one failure does not
//     cancel others.
//   - Self-Correction: ClientError carries human-readable messages back to the
//     host so the model can fix its arguments and retry.
//
// See Tool, ToolCall, ToolResult for the core types, and NewTool / NewRegistry
// for setup. The Trello-specific tools built on this engine live in the
// boardtools package; the MCP stdio surface lives in mcpserver.
package trelly
