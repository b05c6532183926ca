package beacon

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// StatusDraft marks a payload handed to the draft-save collaborator.
const StatusDraft = "draft"

// Payload is the complete beacon handed to the submit and draft-save
// collaborators: the base fields, the selected project type and that type's
// field set.
type Payload struct {
	BaseFields       `yaml:",inline" mapstructure:",squash"`
	ProjectType      ProjectType `json:"project_type" yaml:"project_type" mapstructure:"project_type"`
	TypeSpecificData FieldSet    `json:"type_specific_data" yaml:"type_specific_data" mapstructure:"-"`
	Status           string      `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
}

// IsDraft reports whether the payload carries the draft marker.
func (p Payload) IsDraft() bool {
	return p.Status == StatusDraft
}

// Fields flattens the payload into a single record: base fields merged with
// the type-specific fields. Type-specific names never collide with base names.
func (p Payload) Fields() (Fields, error) {
	out, err := ToFields(p.BaseFields)
	if err != nil {
		return nil, err
	}
	if p.TypeSpecificData != nil {
		ts, err := ToFields(p.TypeSpecificData)
		if err != nil {
			return nil, err
		}
		maps.Copy(out, ts)
	}
	return out, nil
}

// Validate checks the whole payload against the union of the base schema and
// the schema of its project type.
func (p Payload) Validate() Issues {
	schema, ok := SchemaFor(p.ProjectType)
	if !ok {
		return Issues{{Field: "project_type", Message: "is not a known project type"}}
	}
	if p.TypeSpecificData == nil {
		return Issues{{Field: "type_specific_data", Message: "is required"}}
	}
	if p.TypeSpecificData.ProjectType() != p.ProjectType {
		return Issues{{
			Field:   "type_specific_data",
			Message: fmt.Sprintf("holds %s fields but project type is %s", p.TypeSpecificData.ProjectType(), p.ProjectType),
		}}
	}
	f, err := p.Fields()
	if err != nil {
		return Issues{{Field: "payload", Message: err.Error()}}
	}
	return BaseSchema.Union(schema).Validate(f)
}

// DecodePayload builds a payload from a generic record such as a parsed YAML
// or JSON document or MCP tool arguments. Unknown keys are rejected. The
// payload is not validated.
func DecodePayload(raw map[string]any) (Payload, error) {
	rest := maps.Clone(raw)
	if rest == nil {
		rest = map[string]any{}
	}

	typeRaw, _ := rest["project_type"].(string)
	delete(rest, "project_type")
	t, err := ParseProjectType(typeRaw)
	if err != nil {
		return Payload{}, err
	}

	var status string
	if s, ok := rest["status"]; ok {
		switch v := s.(type) {
		case nil:
		case string:
			if v != "" && v != StatusDraft {
				return Payload{}, fmt.Errorf("status must be empty or %q, got %q", StatusDraft, v)
			}
			status = v
		default:
			return Payload{}, fmt.Errorf("status must be a string, got %T", s)
		}
		delete(rest, "status")
	}

	var tsRaw Fields
	if v, ok := rest["type_specific_data"]; ok {
		switch m := v.(type) {
		case map[string]any:
			tsRaw = m
		case Fields:
			tsRaw = m
		case nil:
		default:
			return Payload{}, fmt.Errorf("type_specific_data must be an object, got %T", v)
		}
		delete(rest, "type_specific_data")
	}

	base, err := Merge(BaseFields{}, rest)
	if err != nil {
		return Payload{}, fmt.Errorf("base fields: %w", err)
	}
	fs, err := DecodeFieldSet(t, tsRaw)
	if err != nil {
		return Payload{}, fmt.Errorf("type_specific_data: %w", err)
	}

	return Payload{
		BaseFields:       base,
		ProjectType:      t,
		TypeSpecificData: fs,
		Status:           status,
	}, nil
}

// UnmarshalJSON decodes a payload strictly through DecodePayload so the
// type-specific data gets the concrete field set of its project type.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := DecodePayload(raw)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Markdown renders a human-readable summary of the payload.
func (p Payload) Markdown() string {
	var b strings.Builder

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Untitled beacon"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**%s** · %s · %s\n\n", p.ProjectType.Label(), orDash(p.Category), orDash(p.Difficulty))

	if d := strings.TrimSpace(p.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}

	b.WriteString("## Team\n\n")
	fmt.Fprintf(&b, "- Size: %d to %d people\n", p.TeamSizeMin, p.TeamSizeMax)
	fmt.Fprintf(&b, "- Remote: %s\n", yesNo(p.IsRemote))
	fmt.Fprintf(&b, "- Paid: %s\n", yesNo(p.IsPaid))
	if p.RepositoryURL != "" {
		fmt.Fprintf(&b, "- Repository: %s\n", p.RepositoryURL)
	}
	if p.DemoURL != "" {
		fmt.Fprintf(&b, "- Demo: %s\n", p.DemoURL)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "- Tags: %s\n", strings.Join(p.Tags, ", "))
	}

	schema, ok := SchemaFor(p.ProjectType)
	if !ok || p.TypeSpecificData == nil {
		return b.String()
	}
	f, err := ToFields(p.TypeSpecificData)
	if err != nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\n## %s details\n", p.ProjectType.Label())
	for _, r := range schema.Rules {
		if r.Kind == KindList {
			continue
		}
		fmt.Fprintf(&b, "\n- %s: %s", r.Label, scalarString(f[r.Field]))
	}
	b.WriteString("\n")
	for _, r := range schema.Rules {
		if r.Kind != KindList {
			continue
		}
		items, _ := asList(f[r.Field])
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", r.Label)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}

	return b.String()
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return orDash(x)
	case int:
		if x == 0 {
			return "-"
		}
		return fmt.Sprintf("%d", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
