package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

func commentTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_comments",
				Description: "Get all comments for a specific expense.",
				InputSchema: object([]string{"expense_id"}, map[string]*jsonschema.Schema{
					"expense_id": idField("The expense ID to get comments for"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetComments(ctx, intArg(args, "expense_id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_add_comment",
				Description: "Add a comment to an expense.",
				InputSchema: object([]string{"expense_id", "content"}, map[string]*jsonschema.Schema{
					"expense_id": idField("The expense ID to comment on"),
					"content":    str("The comment text"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.CreateComment(ctx, without(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_delete_comment",
				Description: "Delete a comment from an expense.",
				InputSchema: idOnly("The comment ID to delete"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.DeleteComment(ctx, intArg(args, "id"))
			},
		},
	}
}
