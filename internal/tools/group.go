package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

var groupTypes = []string{"home", "trip", "couple", "other", "apartment", "house"}

func groupMember() *jsonschema.Schema {
	return object(nil, map[string]*jsonschema.Schema{
		"user_id":    idField(""),
		"email":      str(""),
		"first_name": str(""),
		"last_name":  str(""),
	})
}

func groupTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_groups",
				Description: "List all groups for the current user. Groups represent collections of users who share expenses together (e.g., household, trip, etc.).",
				InputSchema: object(nil, nil),
			},
			call: func(ctx context.Context, api API, _ map[string]any) (json.RawMessage, error) {
				return api.GetGroups(ctx)
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_group",
				Description: "Get detailed information about a specific group, including members, balances, and settings.",
				InputSchema: idOnly("The group ID"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetGroup(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_create_group",
				Description: "Create a new group. Can add users by providing their email/name or user_id. Users are sent to Splitwise as users__0__email, users__0__first_name, etc.",
				InputSchema: object([]string{"name"}, map[string]*jsonschema.Schema{
					"name":                str("Name of the group"),
					"group_type":          enum("Type of group: home, trip, couple, other, apartment, or house", groupTypes...),
					"simplify_by_default": boolean("Whether to simplify debts by default"),
					"users": array(
						"Array of user objects to add to the group. Each user should have either user_id OR (email and optionally first_name/last_name)",
						groupMember(),
					),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.CreateGroup(ctx, bodyWithUsers(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_delete_group",
				Description: "Delete a group. This destroys all associated records including expenses.",
				InputSchema: idOnly("The group ID to delete"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.DeleteGroup(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_restore_group",
				Description: "Restore a deleted group.",
				InputSchema: idOnly("The group ID to restore"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.UndeleteGroup(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_add_user_to_group",
				Description: "Add a user to an existing group. Provide either user_id or email/first_name/last_name.",
				InputSchema: object([]string{"group_id"}, map[string]*jsonschema.Schema{
					"group_id":   idField("The group ID"),
					"user_id":    idField("ID of existing user to add"),
					"email":      str("Email of user to add"),
					"first_name": str("First name of user to add"),
					"last_name":  str("Last name of user to add"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.AddUserToGroup(ctx, without(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_remove_user_from_group",
				Description: "Remove a user from a group. Note: This only succeeds if the user has a zero balance in the group.",
				InputSchema: object([]string{"group_id", "user_id"}, map[string]*jsonschema.Schema{
					"group_id": idField("The group ID"),
					"user_id":  idField("The user ID to remove"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.RemoveUserFromGroup(ctx, without(args))
			},
		},
	}
}
