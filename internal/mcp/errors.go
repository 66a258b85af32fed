package mcp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/honeycarbs/splitwise-mcp/internal/tools"
	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

// toolError classifies a catalog failure into a JSON-RPC error. Upstream
// failures switch on the HTTP status carried by *splitwise.APIError.
func toolError(name string, err error) *Error {
	var (
		argErr      *tools.ArgumentError
		unavailable *tools.UnavailableError
		apiErr      *splitwise.APIError
	)

	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return &Error{Code: CodeInternalError, Message: fmt.Sprintf("Unknown tool: %s", name)}
	case errors.As(err, &argErr):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	case errors.As(err, &unavailable):
		return &Error{Code: CodeInvalidRequest, Message: err.Error()}
	case errors.As(err, &apiErr):
		return apiError(apiErr)
	default:
		return &Error{Code: CodeInternalError, Message: fmt.Sprintf("Tool execution failed: %v", err)}
	}
}

func apiError(err *splitwise.APIError) *Error {
	data := map[string]any{"status": err.StatusCode}

	switch err.StatusCode {
	case http.StatusUnauthorized:
		return &Error{
			Code:    CodeUnauthorized,
			Message: fmt.Sprintf("Authentication failed: %v. Please check your SPLITWISE_ACCESS_TOKEN.", err),
			Data:    data,
		}
	case http.StatusForbidden:
		return &Error{
			Code:    CodeForbidden,
			Message: fmt.Sprintf("Access forbidden: %v. You may not have permission to access this resource.", err),
			Data:    data,
		}
	case http.StatusNotFound:
		return &Error{
			Code:    CodeNotFound,
			Message: fmt.Sprintf("Resource not found: %v", err),
			Data:    data,
		}
	default:
		return &Error{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("Tool execution failed: %v", err),
			Data:    data,
		}
	}
}
