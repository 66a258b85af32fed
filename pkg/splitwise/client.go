package splitwise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://secure.splitwise.com/api/v3.0"

	maxErrorBody = 4096
)

// NewClient instantiates a Splitwise API client
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, ErrMissingToken
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("splitwise: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		token:      cfg.AccessToken,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// BaseURL is the normalized API root requests are issued against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// User endpoints

func (c *Client) GetCurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/get_current_user", nil)
}

func (c *Client) GetUser(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, withID("/get_user", id), nil)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, body Body) (json.RawMessage, error) {
	return c.post(ctx, withID("/update_user", id), body)
}

// Group endpoints

func (c *Client) GetGroups(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/get_groups", nil)
}

func (c *Client) GetGroup(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, withID("/get_group", id), nil)
}

func (c *Client) CreateGroup(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/create_group", body)
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.post(ctx, withID("/delete_group", id), nil)
}

func (c *Client) UndeleteGroup(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.post(ctx, withID("/undelete_group", id), nil)
}

func (c *Client) AddUserToGroup(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/add_user_to_group", body)
}

func (c *Client) RemoveUserFromGroup(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/remove_user_from_group", body)
}

// Friend endpoints

func (c *Client) GetFriends(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/get_friends", nil)
}

func (c *Client) GetFriend(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, withID("/get_friend", id), nil)
}

func (c *Client) CreateFriend(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/create_friend", body)
}

func (c *Client) CreateFriends(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/create_friends", body)
}

func (c *Client) DeleteFriend(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.post(ctx, withID("/delete_friend", id), nil)
}

// Expense endpoints

func (c *Client) GetExpenses(ctx context.Context, params Params) (json.RawMessage, error) {
	return c.get(ctx, "/get_expenses", params)
}

func (c *Client) GetExpense(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, withID("/get_expense", id), nil)
}

func (c *Client) CreateExpense(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/create_expense", body)
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, body Body) (json.RawMessage, error) {
	return c.post(ctx, withID("/update_expense", id), body)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.post(ctx, withID("/delete_expense", id), nil)
}

func (c *Client) UndeleteExpense(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.post(ctx, withID("/undelete_expense", id), nil)
}

// Comment endpoints

func (c *Client) GetComments(ctx context.Context, expenseID int64) (json.RawMessage, error) {
	return c.get(ctx, "/get_comments", Params{"expense_id": expenseID})
}

func (c *Client) CreateComment(ctx context.Context, body Body) (json.RawMessage, error) {
	return c.post(ctx, "/create_comment", body)
}

func (c *Client) DeleteComment(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.post(ctx, withID("/delete_comment", id), nil)
}

// Notification endpoints

func (c *Client) GetNotifications(ctx context.Context, params Params) (json.RawMessage, error) {
	return c.get(ctx, "/get_notifications", params)
}

// Utility endpoints

func (c *Client) GetCurrencies(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/get_currencies", nil)
}

func (c *Client) GetCategories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/get_categories", nil)
}

func (c *Client) get(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *Client) post(ctx context.Context, path string, body Body) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// do performs one API call. Every failure, including network errors, comes
// back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, params Params, body Body) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("splitwise: client is nil")
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + encodeParams(params)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("splitwise: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("splitwise: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
			Err:        fmt.Errorf("%s %s: %s", method, path, resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(data) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), maxErrorBody),
			Err:        fmt.Errorf("decode response: invalid JSON"),
		}
	}

	return json.RawMessage(data), nil
}

func withID(path string, id int64) string {
	return path + "/" + strconv.FormatInt(id, 10)
}

func encodeParams(params Params) string {
	values := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		values.Set(k, formatValue(v))
	}
	return values.Encode()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
