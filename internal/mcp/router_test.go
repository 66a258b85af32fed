package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/internal/tools"
	"github.com/honeycarbs/splitwise-mcp/internal/tools/toolstest"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

func newRouter(t *testing.T, api tools.API, opts ...tools.Option) *Router {
	t.Helper()
	catalog, err := tools.NewCatalog(api, opts...)
	require.NoError(t, err)
	return NewRouter(catalog, logging.Nop(), metrics.New())
}

func request(t *testing.T, raw string) *Request {
	t.Helper()
	req, resp := Parse([]byte(raw))
	require.Nil(t, resp, "parse failed: %+v", resp)
	return req
}

// roundTrip encodes resp the way a transport would and decodes it generically.
func roundTrip(t *testing.T, resp *Response) map[string]any {
	t.Helper()
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestInitialize(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	out := roundTrip(t, r.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
	assert.Equal(t, float64(1), out["id"])

	result := out["result"].(map[string]any)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	assert.Equal(t, map[string]any{"tools": map[string]any{}}, result["capabilities"])
	assert.Equal(t, map[string]any{"name": "splitwise-mcp-server", "version": "1.0.0"}, result["serverInfo"])
}

func TestPingAndInitializedProduceNoResponse(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	assert.Nil(t, r.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":"p1","method":"ping"}`)))
	assert.Nil(t, r.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)))

	assert.True(t, Unanswered(MethodPing))
	assert.True(t, Unanswered(MethodInitialized))
	assert.False(t, Unanswered(MethodInitialize))
	assert.False(t, Unanswered(MethodToolsCall))
}

func TestToolsListIsDeterministic(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	names := func() []string {
		out := roundTrip(t, r.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))
		list := out["result"].(map[string]any)["tools"].([]any)
		var n []string
		for _, item := range list {
			tool := item.(map[string]any)
			assert.Contains(t, tool, "inputSchema")
			assert.Contains(t, tool, "description")
			n = append(n, tool["name"].(string))
		}
		return n
	}

	first := names()
	require.Len(t, first, 27)
	assert.Equal(t, first, names())
}

func TestToolsCallWrapsResultAsText(t *testing.T) {
	fake := toolstest.New(`{"user":{"id":7,"first_name":"Ann","default_currency":"USD"}}`)
	r := newRouter(t, fake)

	out := roundTrip(t, r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"splitwise_get_current_user"}}`)))
	require.NotContains(t, out, "error")

	content := out["result"].(map[string]any)["content"].([]any)
	require.Len(t, content, 1)
	block := content[0].(map[string]any)
	assert.Equal(t, "text", block["type"])

	text := block["text"].(string)
	assert.Contains(t, text, "\n  \"user\": {")

	var decoded, original any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	require.NoError(t, json.Unmarshal(fake.Response, &original))
	assert.Equal(t, original, decoded)
}

func TestToolsCallPassesThroughContentShape(t *testing.T) {
	fake := toolstest.New(`{"content":[{"type":"text","text":"already wrapped"}]}`)
	r := newRouter(t, fake)

	out := roundTrip(t, r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"splitwise_get_groups","arguments":{}}}`)))

	assert.Equal(t, map[string]any{
		"content": []any{map[string]any{"type": "text", "text": "already wrapped"}},
	}, out["result"])
}

func TestToolsCallMissingName(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	for _, raw := range []string{
		`{"jsonrpc":"2.0","id":5,"method":"tools/call"}`,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"arguments":{}}}`,
	} {
		resp := r.Handle(context.Background(), request(t, raw))
		require.NotNil(t, resp.Error)
		assert.Equal(t, CodeInvalidParams, resp.Error.Code)
		assert.Equal(t, "Missing tool name", resp.Error.Message)
		assert.Nil(t, resp.Result)
	}
}

func TestToolsCallMalformedArguments(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	resp := r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"splitwise_get_user","arguments":[1,2]}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestToolsCallUnknownTool(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	resp := r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"splitwise_not_a_tool"}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "splitwise_not_a_tool")
}

func TestToolsCallInvalidArgumentsNeverReachClient(t *testing.T) {
	fake := toolstest.New(`{}`)
	r := newRouter(t, fake)

	resp := r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"splitwise_get_user","arguments":{"id":"abc"}}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
	assert.Empty(t, fake.Calls())
}

func TestToolsCallUpstreamErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		code   int
		prefix string
	}{
		{status: 401, code: CodeUnauthorized, prefix: "Authentication failed"},
		{status: 403, code: CodeForbidden, prefix: "Access forbidden"},
		{status: 404, code: CodeNotFound, prefix: "Resource not found"},
		{status: 500, code: CodeInternalError, prefix: "Tool execution failed"},
		{status: 0, code: CodeInternalError, prefix: "Tool execution failed"},
	}

	for _, tc := range cases {
		fake := toolstest.New(`{}`)
		fake.Err = &splitwise.APIError{StatusCode: tc.status, Body: "nope", Err: errors.New("boom")}
		r := newRouter(t, fake)

		resp := r.Handle(context.Background(), request(t,
			`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"splitwise_get_friends"}}`))
		require.NotNil(t, resp.Error, "status %d", tc.status)
		assert.Equal(t, tc.code, resp.Error.Code, "status %d", tc.status)
		assert.Contains(t, resp.Error.Message, tc.prefix)
		assert.Nil(t, resp.Result)
	}
}

func TestToolsCallWithoutToken(t *testing.T) {
	r := newRouter(t, nil, tools.WithClientError(splitwise.ErrMissingToken))

	resp := r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"splitwise_get_current_user"}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "SPLITWISE_ACCESS_TOKEN")
}

func TestExactlyOneOfResultOrError(t *testing.T) {
	fake := toolstest.New(`{"ok":true}`)
	r := newRouter(t, fake)

	for _, d := range tools.All() {
		args := map[string]any{}
		for _, req := range d.InputSchema.Required {
			switch d.InputSchema.Properties[req].Type {
			case "integer":
				args[req] = float64(1)
			case "array":
				args[req] = []any{map[string]any{"email": "a@x.com"}}
			default:
				args[req] = "x"
			}
		}
		params, err := json.Marshal(CallToolParams{Name: d.Name, Arguments: args})
		require.NoError(t, err)

		resp := r.Handle(context.Background(), &Request{
			JSONRPC: JSONRPCVersion,
			ID:      json.RawMessage(`1`),
			Method:  MethodToolsCall,
			Params:  params,
		})
		require.NotNil(t, resp, d.Name)
		assert.True(t, (resp.Result == nil) != (resp.Error == nil), d.Name)
		assert.Nil(t, resp.Error, d.Name)
	}
}

func TestUnknownMethod(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	resp := r.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":11,"method":"resources/list"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Unknown method: resources/list", resp.Error.Message)
}

func TestNotificationsNeverRespond(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	for _, raw := range []string{
		`{"jsonrpc":"2.0","method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"tools/list"}`,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"nope"}}`,
		`{"jsonrpc":"2.0","method":"does/not/exist"}`,
	} {
		assert.Nil(t, r.Handle(context.Background(), request(t, raw)), raw)
	}
}

func TestNullIDIsARequest(t *testing.T) {
	r := newRouter(t, toolstest.New(`{}`))

	resp := r.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":null,"method":"initialize"}`))
	require.NotNil(t, resp)
	out := roundTrip(t, resp)
	assert.Contains(t, out, "id")
	assert.Nil(t, out["id"])
}

type panicCatalog struct{}

func (panicCatalog) List() []tools.Descriptor { return nil }

func (panicCatalog) Call(context.Context, string, map[string]any) (json.RawMessage, error) {
	panic(errors.New("catalog exploded"))
}

func TestPanicBecomesInternalError(t *testing.T) {
	r := NewRouter(panicCatalog{}, logging.Nop(), nil)

	resp := r.Handle(context.Background(), request(t,
		`{"jsonrpc":"2.0","id":12,"method":"tools/call","params":{"name":"anything"}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.Equal(t, "catalog exploded", resp.Error.Message)
}
