package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

// ErrUnknownTool is returned by Call for names the catalog does not hold.
var ErrUnknownTool = errors.New("unknown tool")

// API is the subset of the Splitwise client the catalog dispatches to.
type API interface {
	GetCurrentUser(ctx context.Context) (json.RawMessage, error)
	GetUser(ctx context.Context, id int64) (json.RawMessage, error)
	UpdateUser(ctx context.Context, id int64, body splitwise.Body) (json.RawMessage, error)

	GetGroups(ctx context.Context) (json.RawMessage, error)
	GetGroup(ctx context.Context, id int64) (json.RawMessage, error)
	CreateGroup(ctx context.Context, body splitwise.Body) (json.RawMessage, error)
	DeleteGroup(ctx context.Context, id int64) (json.RawMessage, error)
	UndeleteGroup(ctx context.Context, id int64) (json.RawMessage, error)
	AddUserToGroup(ctx context.Context, body splitwise.Body) (json.RawMessage, error)
	RemoveUserFromGroup(ctx context.Context, body splitwise.Body) (json.RawMessage, error)

	GetFriends(ctx context.Context) (json.RawMessage, error)
	GetFriend(ctx context.Context, id int64) (json.RawMessage, error)
	CreateFriend(ctx context.Context, body splitwise.Body) (json.RawMessage, error)
	CreateFriends(ctx context.Context, body splitwise.Body) (json.RawMessage, error)
	DeleteFriend(ctx context.Context, id int64) (json.RawMessage, error)

	GetExpenses(ctx context.Context, params splitwise.Params) (json.RawMessage, error)
	GetExpense(ctx context.Context, id int64) (json.RawMessage, error)
	CreateExpense(ctx context.Context, body splitwise.Body) (json.RawMessage, error)
	UpdateExpense(ctx context.Context, id int64, body splitwise.Body) (json.RawMessage, error)
	DeleteExpense(ctx context.Context, id int64) (json.RawMessage, error)
	UndeleteExpense(ctx context.Context, id int64) (json.RawMessage, error)

	GetComments(ctx context.Context, expenseID int64) (json.RawMessage, error)
	CreateComment(ctx context.Context, body splitwise.Body) (json.RawMessage, error)
	DeleteComment(ctx context.Context, id int64) (json.RawMessage, error)

	GetNotifications(ctx context.Context, params splitwise.Params) (json.RawMessage, error)

	GetCurrencies(ctx context.Context) (json.RawMessage, error)
	GetCategories(ctx context.Context) (json.RawMessage, error)
}

// Descriptor is what tools/list advertises for one tool.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// MarshalJSON always emits inputSchema.properties, even for tools without
// arguments.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	schema, err := json.Marshal(d.InputSchema)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(schema, &fields); err == nil && fields != nil {
		if _, ok := fields["properties"]; !ok {
			fields["properties"] = json.RawMessage(`{}`)
			if schema, err = json.Marshal(fields); err != nil {
				return nil, err
			}
		}
	}

	return json.Marshal(struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		InputSchema json.RawMessage `json:"inputSchema"`
	}{d.Name, d.Description, schema})
}

type callFunc func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error)

// Tool pairs a descriptor with the client call it maps to.
type Tool struct {
	Descriptor
	call callFunc
}

type entry struct {
	Tool
	resolved *jsonschema.Resolved
}

// ArgumentError reports arguments rejected before reaching the upstream API.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// UnavailableError is returned for every call when the upstream client could
// not be built, typically because no access token is configured.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("Failed to initialize Splitwise client: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClientError marks the upstream client as unavailable.
func WithClientError(err error) Option {
	return func(c *Catalog) {
		c.clientErr = err
	}
}

// Catalog is the ordered, immutable tool registry.
type Catalog struct {
	entries   []*entry
	index     map[string]*entry
	api       API
	clientErr error
}

// All returns every tool grouped by category in a stable order.
func All() []Tool {
	var out []Tool
	out = append(out, userTools()...)
	out = append(out, groupTools()...)
	out = append(out, friendTools()...)
	out = append(out, expenseTools()...)
	out = append(out, commentTools()...)
	out = append(out, notificationTools()...)
	out = append(out, utilityTools()...)
	return out
}

// NewCatalog registers All() against api. api may be nil when paired with
// WithClientError.
func NewCatalog(api API, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		index: make(map[string]*entry),
		api:   api,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	for _, tool := range All() {
		if err := c.register(tool); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) register(tool Tool) error {
	if _, ok := c.index[tool.Name]; ok {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}

	resolved, err := tool.InputSchema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("tool %q: resolve schema: %w", tool.Name, err)
	}

	e := &entry{Tool: tool, resolved: resolved}
	c.entries = append(c.entries, e)
	c.index[tool.Name] = e
	return nil
}

// List returns descriptors in registration order.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Descriptor)
	}
	return out
}

// Call validates args against the tool's schema and performs the upstream call.
func (c *Catalog) Call(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	e, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}

	if err := e.validate(args); err != nil {
		return nil, &ArgumentError{Tool: name, Err: err}
	}

	if c.clientErr != nil {
		return nil, &UnavailableError{Err: c.clientErr}
	}
	if c.api == nil {
		return nil, &UnavailableError{Err: errors.New("client not configured")}
	}

	return e.call(ctx, c.api, args)
}

func (e *entry) validate(args map[string]any) error {
	var unknown []string
	for k := range args {
		if _, ok := e.InputSchema.Properties[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown argument %q", unknown[0])
	}

	if err := e.resolved.Validate(args); err != nil {
		return err
	}
	return checkIntegers(e.InputSchema, args)
}
