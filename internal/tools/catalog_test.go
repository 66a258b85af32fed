package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/splitwise-mcp/internal/tools/toolstest"
	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

var (
	_ API = (*splitwise.Client)(nil)
	_ API = (*toolstest.Fake)(nil)
)

func newCatalog(t *testing.T, api API, opts ...Option) *Catalog {
	t.Helper()
	c, err := NewCatalog(api, opts...)
	require.NoError(t, err)
	return c
}

// decodeArgs mirrors what the JSON-RPC layer hands the catalog.
func decodeArgs(t *testing.T, raw string) map[string]any {
	t.Helper()
	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &args))
	return args
}

func TestListIsStableAndOrdered(t *testing.T) {
	c := newCatalog(t, toolstest.New(`{}`))

	first := c.List()
	second := c.List()
	require.Len(t, first, 27)
	assert.Equal(t, first, second)

	assert.Equal(t, "splitwise_get_current_user", first[0].Name)
	assert.Equal(t, "splitwise_get_groups", first[3].Name)
	assert.Equal(t, "splitwise_get_categories", first[len(first)-1].Name)

	seen := map[string]bool{}
	for _, d := range first {
		assert.False(t, seen[d.Name], "duplicate tool %s", d.Name)
		seen[d.Name] = true
		assert.NotEmpty(t, d.Description)
		require.NotNil(t, d.InputSchema)
		assert.Equal(t, "object", d.InputSchema.Type)
	}
}

func TestDescriptorJSONShape(t *testing.T) {
	c := newCatalog(t, toolstest.New(`{}`))

	data, err := json.Marshal(c.List()[1])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "splitwise_get_user", decoded["name"])
	schema, ok := decoded["inputSchema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"id"}, schema["required"])

	id := schema["properties"].(map[string]any)["id"].(map[string]any)
	assert.Equal(t, float64(1), id["minimum"])
	assert.Equal(t, float64(1<<53-1), id["maximum"])
}

func TestDescriptorWithoutArgumentsHasEmptyProperties(t *testing.T) {
	c := newCatalog(t, toolstest.New(`{}`))

	for _, d := range c.List() {
		data, err := json.Marshal(d)
		require.NoError(t, err)

		var decoded struct {
			InputSchema map[string]json.RawMessage `json:"inputSchema"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Contains(t, decoded.InputSchema, "properties", d.Name)
		assert.JSONEq(t, `"object"`, string(decoded.InputSchema["type"]), d.Name)
	}

	data, err := json.Marshal(c.List()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "splitwise_get_current_user",
		"description": "`+c.List()[0].Description+`",
		"inputSchema": {"type": "object", "properties": {}}
	}`, string(data))
}

func TestFlattenUsers(t *testing.T) {
	args := decodeArgs(t, `{"users":[{"email":"a@x.com"},{"email":"b@y.com"}]}`)

	got := flattenUsers(args["users"].([]any), "users")
	assert.Equal(t, map[string]any{
		"users__0__email": "a@x.com",
		"users__1__email": "b@y.com",
	}, got)
}

func TestFlattenUsersKeepsDuplicatesAndAllProperties(t *testing.T) {
	args := decodeArgs(t, `{"users":[
		{"user_id":1,"paid_share":"10.00","owed_share":"5.00"},
		{"user_id":1,"paid_share":"0.00","owed_share":"5.00"}
	]}`)

	got := flattenUsers(args["users"].([]any), "users")
	assert.Len(t, got, 6)
	assert.Equal(t, float64(1), got["users__1__user_id"])
	assert.Equal(t, "10.00", got["users__0__paid_share"])
}

func TestCreateGroupFlattensUsers(t *testing.T) {
	fake := toolstest.New(`{"group":{"id":5}}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_create_group", decodeArgs(t, `{
		"name":"Trip",
		"group_type":"trip",
		"users":[{"email":"a@x.com","first_name":"A"}]
	}`))
	require.NoError(t, err)

	last := fake.Last()
	assert.Equal(t, "CreateGroup", last.Method)
	assert.Equal(t, splitwise.Body{
		"name":                 "Trip",
		"group_type":           "trip",
		"users__0__email":      "a@x.com",
		"users__0__first_name": "A",
	}, last.Body)
}

func TestUpdateExpenseExtractsID(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_update_expense", decodeArgs(t, `{
		"id":42,
		"cost":"12.50",
		"users":[{"user_id":7,"paid_share":"12.50","owed_share":"0"}]
	}`))
	require.NoError(t, err)

	last := fake.Last()
	assert.Equal(t, "UpdateExpense", last.Method)
	assert.Equal(t, int64(42), last.ID)
	assert.NotContains(t, last.Body, "id")
	assert.NotContains(t, last.Body, "users")
	assert.Equal(t, "12.50", last.Body["cost"])
	assert.Equal(t, float64(7), last.Body["users__0__user_id"])
}

func TestUpdateUserExtractsID(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_update_user", decodeArgs(t, `{"id":3,"first_name":"Ann"}`))
	require.NoError(t, err)

	last := fake.Last()
	assert.Equal(t, int64(3), last.ID)
	assert.Equal(t, splitwise.Body{"first_name": "Ann"}, last.Body)
}

func TestAddFriendsFlattensUsers(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_add_friends", decodeArgs(t, `{"users":[{"email":"a@x.com"},{"email":"b@y.com"}]}`))
	require.NoError(t, err)

	assert.Equal(t, splitwise.Body{
		"users__0__email": "a@x.com",
		"users__1__email": "b@y.com",
	}, fake.Last().Body)
}

func TestGetCommentsUsesExpenseID(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_get_comments", decodeArgs(t, `{"expense_id":9}`))
	require.NoError(t, err)
	assert.Equal(t, toolstest.Call{Method: "GetComments", ID: 9}, fake.Last())
}

func TestGetExpensesPassesFilters(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_get_expenses", decodeArgs(t, `{"group_id":1,"limit":5}`))
	require.NoError(t, err)
	assert.Equal(t, splitwise.Params{"group_id": float64(1), "limit": float64(5)}, fake.Last().Params)
}

func TestCallUnknownTool(t *testing.T) {
	c := newCatalog(t, toolstest.New(`{}`))

	_, err := c.Call(context.Background(), "splitwise_fly_to_moon", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Contains(t, err.Error(), "splitwise_fly_to_moon")
}

func TestCallRejectsInvalidArguments(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	cases := map[string]struct {
		tool string
		args string
	}{
		"missing required": {tool: "splitwise_get_user", args: `{}`},
		"wrong type":       {tool: "splitwise_get_user", args: `{"id":"seven"}`},
		"fractional id":    {tool: "splitwise_delete_group", args: `{"id":1.5}`},
		"bad enum":         {tool: "splitwise_create_group", args: `{"name":"x","group_type":"castle"}`},
		"unknown argument": {tool: "splitwise_get_groups", args: `{"verbose":true}`},
		"users not array":  {tool: "splitwise_add_friends", args: `{"users":"a@x.com"}`},
		"member missing":   {tool: "splitwise_add_friends", args: `{"users":[{"first_name":"A"}]}`},
		"id overflows":     {tool: "splitwise_get_user", args: `{"id":1e20}`},
		"negative id":      {tool: "splitwise_get_user", args: `{"id":-5}`},
		"zero id":          {tool: "splitwise_delete_expense", args: `{"id":0}`},
		"negative offset":  {tool: "splitwise_get_expenses", args: `{"offset":-1}`},
		"nested user id":   {tool: "splitwise_create_group", args: `{"name":"x","users":[{"user_id":-3}]}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Call(context.Background(), tc.tool, decodeArgs(t, tc.args))
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, tc.tool, argErr.Tool)
		})
	}

	assert.Empty(t, fake.Calls())
}

func TestCheckIntegers(t *testing.T) {
	schema := idOnly("id")

	assert.NoError(t, checkIntegers(schema, map[string]any{"id": float64(42)}))
	assert.NoError(t, checkIntegers(schema, map[string]any{"id": float64(maxSafeInteger)}))
	assert.Error(t, checkIntegers(schema, map[string]any{"id": 1e20}))
	assert.Error(t, checkIntegers(schema, map[string]any{"id": 2.5}))
}

func TestCallRejectsInvalidArgumentsAsInvalidParams(t *testing.T) {
	fake := toolstest.New(`{}`)
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_get_user", decodeArgs(t, `{"id":1e20}`))
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)

	raw, err := c.Call(context.Background(), "splitwise_get_user", decodeArgs(t, `{"id":9007199254740991}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
	require.Len(t, fake.Calls(), 1)
	assert.Equal(t, int64(maxSafeInteger), fake.Last().ID)
}

func TestCallWithUnavailableClient(t *testing.T) {
	c := newCatalog(t, nil, WithClientError(splitwise.ErrMissingToken))

	assert.Len(t, c.List(), 27)

	_, err := c.Call(context.Background(), "splitwise_get_current_user", nil)
	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.True(t, errors.Is(err, splitwise.ErrMissingToken))
	assert.Contains(t, err.Error(), "Failed to initialize Splitwise client")
}

func TestCallPropagatesClientError(t *testing.T) {
	fake := toolstest.New(`{}`)
	fake.Err = &splitwise.APIError{StatusCode: 404, Body: `{"errors":{"base":["Not found"]}}`}
	c := newCatalog(t, fake)

	_, err := c.Call(context.Background(), "splitwise_get_expense", decodeArgs(t, `{"id":1}`))
	var apiErr *splitwise.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
}
