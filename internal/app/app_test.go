package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/splitwise-mcp/internal/config"
	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/server"
	"github.com/honeycarbs/splitwise-mcp/internal/transport/stdio"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

func testConfig(mode config.Mode) config.Config {
	cfg := config.Config{Mode: mode, Host: "127.0.0.1", LogLevel: "info"}
	cfg.Splitwise.BaseURL = config.DefaultBaseURL
	cfg.Adapter.BackendURL = config.DefaultBackendURL
	cfg.Adapter.Port = config.DefaultAdapterPort
	return cfg
}

func TestInitializeAppWithoutToken(t *testing.T) {
	a, err := InitializeApp(testConfig(config.ModeStdio), logging.Nop())
	require.NoError(t, err)

	list := a.Router.Handle(context.Background(), &mcp.Request{
		JSONRPC: mcp.JSONRPCVersion, ID: json.RawMessage(`1`), Method: mcp.MethodToolsList,
	})
	require.NotNil(t, list)
	assert.Len(t, list.Result.(mcp.ListToolsResult).Tools, 27)

	params, _ := json.Marshal(mcp.CallToolParams{Name: "splitwise_get_current_user"})
	call := a.Router.Handle(context.Background(), &mcp.Request{
		JSONRPC: mcp.JSONRPCVersion, ID: json.RawMessage(`2`), Method: mcp.MethodToolsCall, Params: params,
	})
	require.NotNil(t, call.Error)
	assert.Equal(t, mcp.CodeInvalidRequest, call.Error.Code)
}

func TestInitializeAppWithToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user":{"id":42}}`))
	}))
	defer upstream.Close()

	cfg := testConfig(config.ModeStdio)
	cfg.Splitwise.AccessToken = "secret"
	cfg.Splitwise.BaseURL = upstream.URL

	a, err := InitializeApp(cfg, logging.Nop())
	require.NoError(t, err)

	in := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"splitwise_get_current_user"}}` + "\n"
	var out bytes.Buffer
	svc := a.Service(strings.NewReader(in), &out)
	require.IsType(t, &stdio.Server{}, svc)
	require.NoError(t, svc.Run(context.Background()))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	text := resp["result"].(map[string]any)["content"].([]any)[0].(map[string]any)["text"].(string)
	assert.JSONEq(t, `{"user":{"id":42}}`, text)
}

func TestServiceSelection(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeHTTP, config.ModeWebSocket} {
		a, err := InitializeApp(testConfig(mode), logging.Nop())
		require.NoError(t, err)

		svc := a.Service(nil, nil)
		require.IsType(t, &server.Server{}, svc, mode)
	}

	httpApp, _ := InitializeApp(testConfig(config.ModeHTTP), logging.Nop())
	assert.Equal(t, "127.0.0.1:4000", httpApp.Service(nil, nil).(*server.Server).Addr())

	wsApp, _ := InitializeApp(testConfig(config.ModeWebSocket), logging.Nop())
	assert.Equal(t, "127.0.0.1:4001", wsApp.Service(nil, nil).(*server.Server).Addr())
}

func TestInitializeAdapter(t *testing.T) {
	a, err := InitializeAdapter(testConfig(config.ModeWebSocket), logging.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Adapter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "127.0.0.1:4000", a.Service().(*server.Server).Addr())
}
