package trelly

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestToolCall_ToolResult(t *testing.T) {
	call := ToolCall{ID: "call_1", ToolName: "get_cards", Args: []byte(`{"list_id":"l1"}`)}
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "get_cards", call.ToolName)
	assert.JSONEq(t, `{"list_id":"l1"}`, string(call.Args))

	res := ToolResult{CallID: call.ID, ToolName: call.ToolName, Result: []byte(`[]`)}
	assert.Equal(t, "call_1", res.CallID)
	assert.Equal(t, "get_cards", res.ToolName)
	assert.NoError(t, res.Error)
	assert.Equal(t, json.RawMessage(`[]`), res.Result)
}

// Ensure the Tool interface is satisfied by a minimal impl (used in tests below).
type minTool struct {
	name, desc string
	params     map[string]any
	execute    func(context.Context, []byte) (json.RawMessage, error)
}

func (m minTool) Name() string               { return m.name }
func (m minTool) Description() string        { return m.desc }
func (m minTool) Parameters() map[string]any { return m.params }
func (m minTool) Execute(ctx context.Context, args []byte) (json.RawMessage, error) {
	if m.execute != nil {
		return m.execute(ctx, args)
	}
	return json.RawMessage(`{}`), nil
}

func TestMinTool_ImplementsTool(_ *testing.T) {
	var _ Tool = minTool{}
}

func ExampleRegistry_Execute() {
	type Args struct {
		X int `json:"x"`
	}
	type Out struct {
		Y int `json:"y"`
	}
	tool, err := NewTool("add_one", "Add one", func(_ context.Context, a Args) (Out, error) {
		return Out{Y: a.X + 1}, nil
	})
	if err != nil {
		return
	}
	reg := NewRegistry()
	reg.Register(tool)
	res := reg.Execute(context.Background(), ToolCall{
		ID: "1", ToolName: "add_one", Args: []byte(`{"x": 5}`),
	})
	if res.Error != nil {
		panic(res.Error)
	}
	fmt.Println(string(res.Result))
	// Output: {"y":6}
}
