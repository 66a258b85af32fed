package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

func userTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_current_user",
				Description: "Get information about the currently authenticated Splitwise user, including their ID, name, email, notification settings, and default currency.",
				InputSchema: object(nil, nil),
			},
			call: func(ctx context.Context, api API, _ map[string]any) (json.RawMessage, error) {
				return api.GetCurrentUser(ctx)
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_user",
				Description: "Get information about another Splitwise user by their user ID.",
				InputSchema: idOnly("The user ID to fetch information for"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetUser(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_update_user",
				Description: "Update information for a Splitwise user. Can update first name, last name, email, password, locale, and default currency.",
				InputSchema: object([]string{"id"}, map[string]*jsonschema.Schema{
					"id":               idField("The user ID to update"),
					"first_name":       str("New first name"),
					"last_name":        str("New last name"),
					"email":            str("New email address"),
					"password":         str("New password"),
					"locale":           str(`Locale setting (e.g., "en")`),
					"default_currency": str(`Default currency code (e.g., "USD")`),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.UpdateUser(ctx, intArg(args, "id"), without(args, "id"))
			},
		},
	}
}
