// Package toolstest provides an in-memory tools.API for tests.
package toolstest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

// Call records one client invocation.
type Call struct {
	Method string
	ID     int64
	Body   splitwise.Body
	Params splitwise.Params
}

// Fake answers every call with Response, or Err when set.
type Fake struct {
	Response json.RawMessage
	Err      error

	mu    sync.Mutex
	calls []Call
}

func New(response string) *Fake {
	return &Fake{Response: json.RawMessage(response)}
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Last returns the most recent invocation.
func (f *Fake) Last() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *Fake) record(c Call) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if f.Response == nil {
		return json.RawMessage(`{}`), nil
	}
	return f.Response, nil
}

func (f *Fake) GetCurrentUser(context.Context) (json.RawMessage, error) {
	return f.record(Call{Method: "GetCurrentUser"})
}

func (f *Fake) GetUser(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "GetUser", ID: id})
}

func (f *Fake) UpdateUser(_ context.Context, id int64, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "UpdateUser", ID: id, Body: body})
}

func (f *Fake) GetGroups(context.Context) (json.RawMessage, error) {
	return f.record(Call{Method: "GetGroups"})
}

func (f *Fake) GetGroup(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "GetGroup", ID: id})
}

func (f *Fake) CreateGroup(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "CreateGroup", Body: body})
}

func (f *Fake) DeleteGroup(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "DeleteGroup", ID: id})
}

func (f *Fake) UndeleteGroup(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "UndeleteGroup", ID: id})
}

func (f *Fake) AddUserToGroup(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "AddUserToGroup", Body: body})
}

func (f *Fake) RemoveUserFromGroup(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "RemoveUserFromGroup", Body: body})
}

func (f *Fake) GetFriends(context.Context) (json.RawMessage, error) {
	return f.record(Call{Method: "GetFriends"})
}

func (f *Fake) GetFriend(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "GetFriend", ID: id})
}

func (f *Fake) CreateFriend(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "CreateFriend", Body: body})
}

func (f *Fake) CreateFriends(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "CreateFriends", Body: body})
}

func (f *Fake) DeleteFriend(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "DeleteFriend", ID: id})
}

func (f *Fake) GetExpenses(_ context.Context, params splitwise.Params) (json.RawMessage, error) {
	return f.record(Call{Method: "GetExpenses", Params: params})
}

func (f *Fake) GetExpense(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "GetExpense", ID: id})
}

func (f *Fake) CreateExpense(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "CreateExpense", Body: body})
}

func (f *Fake) UpdateExpense(_ context.Context, id int64, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "UpdateExpense", ID: id, Body: body})
}

func (f *Fake) DeleteExpense(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "DeleteExpense", ID: id})
}

func (f *Fake) UndeleteExpense(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "UndeleteExpense", ID: id})
}

func (f *Fake) GetComments(_ context.Context, expenseID int64) (json.RawMessage, error) {
	return f.record(Call{Method: "GetComments", ID: expenseID})
}

func (f *Fake) CreateComment(_ context.Context, body splitwise.Body) (json.RawMessage, error) {
	return f.record(Call{Method: "CreateComment", Body: body})
}

func (f *Fake) DeleteComment(_ context.Context, id int64) (json.RawMessage, error) {
	return f.record(Call{Method: "DeleteComment", ID: id})
}

func (f *Fake) GetNotifications(_ context.Context, params splitwise.Params) (json.RawMessage, error) {
	return f.record(Call{Method: "GetNotifications", Params: params})
}

func (f *Fake) GetCurrencies(context.Context) (json.RawMessage, error) {
	return f.record(Call{Method: "GetCurrencies"})
}

func (f *Fake) GetCategories(context.Context) (json.RawMessage, error) {
	return f.record(Call{Method: "GetCategories"})
}
