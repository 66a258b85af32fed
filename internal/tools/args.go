package tools

import (
	"fmt"
	"math"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

// flattenUsers turns an ordered list of member objects into the
// prefix__index__property keys the Splitwise API expects.
func flattenUsers(users []any, prefix string) map[string]any {
	out := make(map[string]any)
	for i, u := range users {
		member, ok := u.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range member {
			out[fmt.Sprintf("%s__%d__%s", prefix, i, k)] = v
		}
	}
	return out
}

// bodyWithUsers copies args minus the omitted keys and merges a flattened
// users list when present.
func bodyWithUsers(args map[string]any, omit ...string) splitwise.Body {
	body := without(args, append(omit, "users")...)
	if users, ok := args["users"].([]any); ok {
		for k, v := range flattenUsers(users, "users") {
			body[k] = v
		}
	}
	return body
}

func without(args map[string]any, omit ...string) splitwise.Body {
	body := make(splitwise.Body, len(args))
	for k, v := range args {
		body[k] = v
	}
	for _, k := range omit {
		delete(body, k)
	}
	return body
}

func params(args map[string]any) splitwise.Params {
	out := make(splitwise.Params, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}

// intArg reads an integer argument; validate has already checked presence, type and range.
func intArg(args map[string]any, key string) int64 {
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	if props == nil {
		props = map[string]*jsonschema.Schema{}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// maxSafeInteger is the largest integer a JSON number carries without loss.
const maxSafeInteger = 1<<53 - 1

// integer is a non-negative count, offset or optional reference where 0 is meaningful.
func integer(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: desc,
		Minimum:     jsonschema.Ptr[float64](0),
		Maximum:     jsonschema.Ptr[float64](maxSafeInteger),
	}
}

// idField is a Splitwise resource id.
func idField(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: desc,
		Minimum:     jsonschema.Ptr[float64](1),
		Maximum:     jsonschema.Ptr[float64](maxSafeInteger),
	}
}

// checkIntegers rejects integer arguments that would not survive the
// conversion to int64 intact.
func checkIntegers(schema *jsonschema.Schema, args map[string]any) error {
	for k, v := range args {
		prop, ok := schema.Properties[k]
		if !ok || prop.Type != "integer" {
			continue
		}
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if f != math.Trunc(f) || math.Abs(f) > maxSafeInteger {
			return fmt.Errorf("argument %q: %v is not a valid integer", k, f)
		}
	}
	return nil
}

func str(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func boolean(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

func enum(desc string, values ...string) *jsonschema.Schema {
	s := str(desc)
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

func array(desc string, items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: desc, Items: items}
}

func idOnly(desc string) *jsonschema.Schema {
	return object([]string{"id"}, map[string]*jsonschema.Schema{"id": idField(desc)})
}
