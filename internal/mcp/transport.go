package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	JSONRPCVersion = "2.0"

	// ProtocolVersion is what initialize advertises.
	ProtocolVersion = "2024-11-05"

	ServerName    = "splitwise-mcp-server"
	ServerVersion = "1.0.0"
)

// SupportedProtocolVersions is the MCP-Protocol-Version allow-list.
var SupportedProtocolVersions = []string{"2024-11-05", "2025-03-26", "2025-06-18"}

// IsSupportedProtocolVersion reports whether v is in the allow-list.
func IsSupportedProtocolVersion(v string) bool {
	for _, s := range SupportedProtocolVersions {
		if s == v {
			return true
		}
	}
	return false
}

// JSON-RPC and server-defined error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// upstream failures, reported in the invalid-request family
	CodeUnauthorized = -32001
	CodeForbidden    = -32002
	CodeNotFound     = -32003
)

// Method names
const (
	MethodInitialize  = "initialize"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
	MethodInitialized = "notifications/initialized"
)

// Unanswered reports whether the router produces no response for method,
// even when the request carries an id.
func Unanswered(method string) bool {
	return method == MethodPing || method == MethodInitialized
}

// Request represents a JSON-RPC 2.0 request. A nil ID marks a notification;
// an explicit JSON null is kept as the literal "null".
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// UnmarshalJSON records whether id was present at all.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	p.ID = nil
	if id, ok := fields["id"]; ok {
		p.ID = json.RawMessage(bytes.TrimSpace(id))
	}

	*r = Request(p)
	return nil
}

// IsNotification reports whether no response must be produced.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

func (r *Request) validID() bool {
	if r.ID == nil {
		return true
	}
	switch r.ID[0] {
	case '"', 'n', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is set; use NewResult and NewError to build one.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error conveys JSON-RPC error information
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func NewResult(id json.RawMessage, result any) *Response {
	if result == nil {
		result = struct{}{}
	}
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

func NewError(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: message, Data: data},
	}
}

// Parse decodes one message at a transport boundary. On failure the returned
// response is what the transport should send back.
func Parse(data []byte) (*Request, *Response) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, NewError(nil, CodeParseError, "Parse error", nil)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, NewError(nil, CodeInvalidRequest, "Invalid JSON-RPC request", nil)
	}

	if !req.validID() {
		return nil, NewError(nil, CodeInvalidRequest, "Invalid JSON-RPC request", nil)
	}

	if req.JSONRPC != JSONRPCVersion || req.Method == "" {
		return nil, NewError(req.ID, CodeInvalidRequest, "Invalid JSON-RPC request", nil)
	}

	return &req, nil
}

// InitializeResult describes server capabilities returned to the MCP client
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ServerInfo provides metadata about this MCP server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Capabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

type ToolsCapability struct{}

// CallToolParams is the payload for tool execution
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallToolResult is the MCP content envelope wrapped around tool output.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
