// Package mcpserver exposes a trelly.Registry over the Model Context
// Protocol, using the official MCP Go SDK. Tools are defined once in the
// registry; this package only translates between the two surfaces: registry
// schemas become MCP input schemas, and tool results become text content.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skosovsky/trelly"
)

// Server bridges a trelly.Registry to an MCP server.
type Server struct {
	registry *trelly.Registry
	mcp      *mcp.Server
}

// New builds an MCP server exposing every tool currently registered on reg.
// Tools registered after New are not picked up.
func New(name, version string, reg *trelly.Registry) (*Server, error) {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	for _, t := range reg.GetAllTools() {
		schema, err := toSchema(t.Parameters())
		if err != nil {
			return nil, fmt.Errorf("mcpserver: schema for tool %s: %w", t.Name(), err)
		}
		srv.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: schema,
		}, handler(reg, t.Name()))
	}
	return &Server{registry: reg, mcp: srv}, nil
}

// Run serves MCP over stdio until ctx is cancelled or the host disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport (tests use the SDK's
// in-memory pair) and returns the live session.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

// handler adapts one registry tool to the SDK's handler signature. All
// failures travel back in-band as IsError results, per the protocol's rule
// that tool execution errors belong in the result, not the transport.
// ClientError messages are safe to show verbatim so the model can correct
// its arguments; other errors already render without internal detail.
func handler(reg *trelly.Registry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := reg.Execute(ctx, trelly.ToolCall{
			ID:       name,
			ToolName: name,
			Args:     rawArguments(req.Params.Arguments),
		})
		if res.Error != nil {
			return textResult(res.Error.Error(), true), nil
		}
		return textResult(string(res.Result), false), nil
	}
}

func textResult(text string, isErr bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isErr,
	}
}

// rawArguments normalizes the SDK's argument payload: raw JSON passes
// through, absent arguments become an empty object, anything else is
// re-marshaled.
func rawArguments(v any) json.RawMessage {
	switch a := v.(type) {
	case nil:
		return json.RawMessage(`{}`)
	case json.RawMessage:
		if len(a) == 0 {
			return json.RawMessage(`{}`)
		}
		return a
	default:
		b, err := json.Marshal(a)
		if err != nil {
			return json.RawMessage(`{}`)
		}
		return b
	}
}

// toSchema converts the registry's schema map into the SDK's schema type.
func toSchema(m map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
