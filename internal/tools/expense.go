package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

var repeatIntervals = []string{"never", "weekly", "fortnightly", "monthly", "yearly"}

func expenseShare(paidDesc, owedDesc string) *jsonschema.Schema {
	return object(nil, map[string]*jsonschema.Schema{
		"user_id":    idField(""),
		"email":      str(""),
		"first_name": str(""),
		"last_name":  str(""),
		"paid_share": str(paidDesc),
		"owed_share": str(owedDesc),
	})
}

func expenseTools() []Tool {
	return []Tool{
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_expenses",
				Description: "List expenses with optional filters. Can filter by group, friend, date range, or update time.",
				InputSchema: object(nil, map[string]*jsonschema.Schema{
					"group_id":       integer("Filter by group ID"),
					"friend_id":      idField("Filter by friend user ID"),
					"dated_after":    str("Filter expenses dated after this date (ISO 8601 format)"),
					"dated_before":   str("Filter expenses dated before this date (ISO 8601 format)"),
					"updated_after":  str("Filter expenses updated after this time (ISO 8601 format)"),
					"updated_before": str("Filter expenses updated before this time (ISO 8601 format)"),
					"limit":          integer("Maximum number of expenses to return (default: 20)"),
					"offset":         integer("Offset for pagination (default: 0)"),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetExpenses(ctx, params(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_get_expense",
				Description: "Get detailed information about a specific expense, including all users involved and their shares.",
				InputSchema: idOnly("The expense ID"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.GetExpense(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_create_expense",
				Description: "Create a new expense. Can split equally among group members or specify custom shares for each user. For custom shares, provide users array with paid_share and owed_share for each user.",
				InputSchema: object([]string{"cost", "description"}, map[string]*jsonschema.Schema{
					"cost":            str(`Total cost as a decimal string (e.g., "25.00")`),
					"description":     str("Short description of the expense"),
					"details":         str("Additional notes about the expense"),
					"date":            str("Date of expense (ISO 8601 format). Defaults to now."),
					"repeat_interval": enum("Repeat frequency", repeatIntervals...),
					"currency_code":   str(`Currency code (e.g., "USD")`),
					"category_id":     integer("Category ID from get_categories"),
					"group_id":        integer("Group ID (0 for expenses outside a group)"),
					"split_equally":   boolean("Whether to split equally among group members"),
					"users": array(
						"Array of user share objects (required if not splitting equally). Each must have paid_share, owed_share, and either user_id or email/first_name/last_name",
						expenseShare("Amount this user paid", "Amount this user owes"),
					),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.CreateExpense(ctx, bodyWithUsers(args))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_update_expense",
				Description: "Update an existing expense. Only include fields that are changing. If users array is provided, all shares will be overwritten.",
				InputSchema: object([]string{"id"}, map[string]*jsonschema.Schema{
					"id":              idField("The expense ID to update"),
					"cost":            str("Total cost as a decimal string"),
					"description":     str("Short description of the expense"),
					"details":         str("Additional notes about the expense"),
					"date":            str("Date of expense (ISO 8601 format)"),
					"repeat_interval": enum("Repeat frequency", repeatIntervals...),
					"currency_code":   str("Currency code"),
					"category_id":     integer("Category ID"),
					"group_id":        integer("Group ID"),
					"users": array(
						"Array of user share objects to update. If provided, replaces all existing shares.",
						expenseShare("", ""),
					),
				}),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.UpdateExpense(ctx, intArg(args, "id"), bodyWithUsers(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_delete_expense",
				Description: "Delete an expense permanently.",
				InputSchema: idOnly("The expense ID to delete"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.DeleteExpense(ctx, intArg(args, "id"))
			},
		},
		{
			Descriptor: Descriptor{
				Name:        "splitwise_restore_expense",
				Description: "Restore a deleted expense.",
				InputSchema: idOnly("The expense ID to restore"),
			},
			call: func(ctx context.Context, api API, args map[string]any) (json.RawMessage, error) {
				return api.UndeleteExpense(ctx, intArg(args, "id"))
			},
		},
	}
}
