package tools

import (
	"context"
	"encoding/json"
)

func utilityTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_currencies",
				Description: "Get a list of all currencies supported by Splitwise. Returns ISO 4217 currency codes.",
				InputSchema: object(nil, nil),
			},
			call: func(ctx context.Context, api API, _ map[string]any) (json.RawMessage, error) {
				return api.GetCurrencies(ctx)
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_categories",
				Description: "Get a list of all expense categories supported by Splitwise. Use subcategory IDs when creating expenses.",
				InputSchema: object(nil, nil),
			},
			call: func(ctx context.Context, api API, _ map[string]any) (json.RawMessage, error) {
				return api.GetCategories(ctx)
			},
		},
	}
}
