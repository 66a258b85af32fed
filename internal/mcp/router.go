package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/internal/tools"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// Catalog is the tool registry the router dispatches tools/* methods to.
type Catalog interface {
	List() []tools.Descriptor
	Call(ctx context.Context, name string, args map[string]any) (json.RawMessage, error)
}

// Dispatcher is what every transport binding composes.
type Dispatcher interface {
	Handle(ctx context.Context, req *Request) *Response
}

// ListToolsResult enumerates every tool visible to the client
type ListToolsResult struct {
	Tools []tools.Descriptor `json:"tools"`
}

// Router is the transport-agnostic JSON-RPC method table.
type Router struct {
	catalog Catalog
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewRouter builds a router over catalog. m may be nil.
func NewRouter(catalog Catalog, logger *logging.Logger, m *metrics.Metrics) *Router {
	return &Router{
		catalog: catalog,
		logger:  logger.Named("rpc"),
		metrics: m,
	}
}

// Handle dispatches one request. It returns nil for notifications and for
// methods that produce no response body.
func (r *Router) Handle(ctx context.Context, req *Request) (resp *Response) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("panic during dispatch", "method", req.Method, "panic", p)
			resp = NewError(req.ID, CodeInternalError, fmt.Sprint(p), nil)
		}

		r.metrics.ObserveRPC(methodLabel(req.Method), outcome(resp), time.Since(start))

		if req.IsNotification() {
			if resp != nil && resp.Error != nil {
				r.logger.Warn("notification failed", "method", req.Method, "err", resp.Error.Message)
			}
			resp = nil
		}
	}()

	r.logger.Debug("dispatch", "method", req.Method, "id", string(req.ID))

	switch req.Method {
	case MethodInitialize:
		return NewResult(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    Capabilities{Tools: &ToolsCapability{}},
			ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
		})
	case MethodPing, MethodInitialized:
		return nil
	case MethodToolsList:
		return NewResult(req.ID, ListToolsResult{Tools: r.catalog.List()})
	case MethodToolsCall:
		return r.callTool(ctx, req)
	default:
		return NewError(req.ID, CodeMethodNotFound, fmt.Sprintf("Unknown method: %s", req.Method), nil)
	}
}

func (r *Router) callTool(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if len(req.Params) > 0 && !bytes.Equal(req.Params, []byte("null")) {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewError(req.ID, CodeInvalidParams, fmt.Sprintf("Invalid params: %v", err), nil)
		}
	}

	if params.Name == "" {
		return NewError(req.ID, CodeInvalidParams, "Missing tool name", nil)
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	raw, err := r.catalog.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		rpcErr := toolError(params.Name, err)
		r.logger.Warn("tool call failed", "tool", params.Name, "code", rpcErr.Code, "err", err)
		return &Response{JSONRPC: JSONRPCVersion, ID: req.ID, Error: rpcErr}
	}

	return NewResult(req.ID, wrapResult(raw))
}

// wrapResult passes through results that already carry an MCP content array
// and wraps everything else as indented JSON text.
func wrapResult(raw json.RawMessage) any {
	var probe struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil {
		trimmed := bytes.TrimSpace(probe.Content)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			return raw
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}

	return CallToolResult{
		Content: []Content{{Type: "text", Text: buf.String()}},
	}
}

func methodLabel(method string) string {
	switch method {
	case MethodInitialize, MethodPing, MethodToolsList, MethodToolsCall, MethodInitialized:
		return method
	default:
		return "other"
	}
}

func outcome(resp *Response) string {
	switch {
	case resp == nil:
		return "empty"
	case resp.Error != nil:
		return "error"
	default:
		return "ok"
	}
}
