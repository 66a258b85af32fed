package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

func friendTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_friends",
				Description: "List all friends of the current user, including balance information.",
				InputSchema: object(nil, nil),
			},
			call: func(ctx context.Context, api API, _ map[string]any) (json.RawMessage, error) {
				return api.GetFriends(ctx)
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_friend",
				Description: "Get detailed information about a specific friend, including shared groups and balances.",
				InputSchema: idOnly("The friend user ID"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetFriend(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_add_friend",
				Description: "Add a new friend. If the user exists, first_name and last_name are ignored. If creating a new user, first_name is required.",
				InputSchema: object([]string{"user_email"}, map[string]*jsonschema.Schema{
					"user_email":      str("Email address of the friend"),
					"user_first_name": str("First name (required if user does not exist)"),
					"user_last_name":  str("Last name"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.CreateFriend(ctx, without(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_add_friends",
				Description: "Add multiple friends at once. Provide users array with email/first_name/last_name for each.",
				InputSchema: object([]string{"users"}, map[string]*jsonschema.Schema{
					"users": array(
						"Array of user objects with email, first_name, and last_name",
						object([]string{"email"}, map[string]*jsonschema.Schema{
							"email":      str(""),
							"first_name": str(""),
							"last_name":  str(""),
						}),
					),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.CreateFriends(ctx, bodyWithUsers(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_remove_friend",
				Description: "Remove a friend connection. This breaks off the friendship between the current user and the specified user.",
				InputSchema: idOnly("The friend user ID to remove"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.DeleteFriend(ctx, intArg(args, "id"))
			},
		},
	}
}
