package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

func notificationTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_notifications",
				Description: "Get recent notifications/activity for the user account. Returns expenses added/updated/deleted, comments, group changes, friend changes, etc.",
				InputSchema: object(nil, map[string]*jsonschema.Schema{
					"updated_after": str("Only return notifications after this time (ISO 8601 format)"),
					"limit":         integer("Maximum number of notifications to return (0 for maximum)"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetNotifications(ctx, params(args))
			},
		},
	}
}
