package beacon

import (
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONSchema exports the rule table as a JSON Schema object. Cross-field
// checks have no JSON Schema equivalent and are described in the schema
// description instead.
func (s Schema) JSONSchema() *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for _, r := range s.Rules {
		props.Set(r.Field, r.jsonSchema())
		if r.Required {
			required = append(required, r.Field)
		}
	}
	out := &jsonschema.Schema{
		Type:                 "object",
		Title:                s.Name,
		Properties:           props,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
	if len(s.Checks) > 0 {
		out.Description = "Additional cross-field constraints apply (team_size_min <= team_size_max)."
	}
	return out
}

// PayloadJSONSchema returns the JSON Schema of a complete payload for t.
func PayloadJSONSchema(t ProjectType) (*jsonschema.Schema, bool) {
	typed, ok := SchemaFor(t)
	if !ok {
		return nil, false
	}
	root := BaseSchema.JSONSchema()
	root.Version = jsonschema.Version
	root.Title = "beacon:" + string(t)

	root.Properties.Set("project_type", &jsonschema.Schema{
		Type:  "string",
		Const: string(t),
	})
	root.Properties.Set("type_specific_data", typed.JSONSchema())
	root.Properties.Set("status", &jsonschema.Schema{
		Type: "string",
		Enum: []any{StatusDraft},
	})
	root.Required = append(root.Required, "project_type", "type_specific_data")
	return root, true
}

func (r Rule) jsonSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{
		Title:       r.Label,
		Description: r.Help,
	}
	switch r.Kind {
	case KindString, KindText:
		out.Type = "string"
		out.MinLength = uintPtr(r.MinLen)
		out.MaxLength = uintPtr(r.MaxLen)
	case KindURL:
		out.Type = "string"
		out.Format = "uri"
		out.MaxLength = uintPtr(r.MaxLen)
	case KindEnum:
		out.Type = "string"
		for _, v := range r.Enum {
			out.Enum = append(out.Enum, v)
		}
	case KindInt:
		out.Type = "integer"
		out.Minimum = json.Number(strconv.Itoa(r.Min))
		if r.Max > 0 {
			out.Maximum = json.Number(strconv.Itoa(r.Max))
		}
	case KindBool:
		out.Type = "boolean"
	case KindList:
		out.Type = "array"
		out.Items = &jsonschema.Schema{
			Type:      "string",
			MinLength: uintPtr(1),
			MaxLength: uintPtr(r.MaxLen),
		}
		out.MinItems = uintPtr(r.MinItems)
		out.MaxItems = uintPtr(r.MaxItems)
	}
	return out
}

// uintPtr returns nil for non-positive n so unset bounds are omitted.
func uintPtr(n int) *uint64 {
	if n <= 0 {
		return nil
	}
	u := uint64(n)
	return &u
}
