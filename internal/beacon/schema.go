package beacon

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Kind is the structural type of a schema field.
type Kind int

const (
	KindString Kind = iota // single-line string
	KindText               // multi-line string
	KindInt                // bounded integer
	KindBool               // flag
	KindEnum               // string restricted to Enum
	KindURL                // optional absolute http(s) URL
	KindList               // ordered list of strings
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindURL:
		return "url"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Rule is the structural contract for one field.
//
// For strings MinLen/MaxLen bound the trimmed rune count. For lists
// MinItems/MaxItems bound the cardinality and MaxLen bounds each item.
type Rule struct {
	Field    string
	Label    string
	Kind     Kind
	Required bool
	MinLen   int
	MaxLen   int
	Min      int
	Max      int
	MinItems int
	MaxItems int
	Enum     []string
	Help     string
}

// Check is a cross-field constraint. It returns nil when satisfied.
type Check func(Fields) *Issue

// Schema is a named, ordered set of field rules plus cross-field checks.
type Schema struct {
	Name   string
	Rules  []Rule
	Checks []Check
}

// Issue is a single validation failure attached to a field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Issues collects validation failures. A non-empty Issues is an error.
type Issues []Issue

// Error implements error.
func (is Issues) Error() string {
	parts := make([]string, len(is))
	for i, issue := range is {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no issues.
func (is Issues) Err() error {
	if len(is) == 0 {
		return nil
	}
	return is
}

// For returns the issues attached to field.
func (is Issues) For(field string) Issues {
	var out Issues
	for _, issue := range is {
		if issue.Field == field {
			out = append(out, issue)
		}
	}
	return out
}

// Rule returns the rule for field.
func (s Schema) Rule(field string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

// Union returns a schema that enforces the rules and checks of both s and o.
func (s Schema) Union(o Schema) Schema {
	return Schema{
		Name:   s.Name + "+" + o.Name,
		Rules:  append(slices.Clone(s.Rules), o.Rules...),
		Checks: append(slices.Clone(s.Checks), o.Checks...),
	}
}

// Valid reports whether v satisfies the schema.
func (s Schema) Valid(v Fields) bool {
	return len(s.Validate(v)) == 0
}

// Validate checks v against every rule and check of the schema and returns all
// failures in rule order. It never panics on missing or mistyped values; a
// value of the wrong type is reported as an issue.
func (s Schema) Validate(v Fields) Issues {
	var issues Issues
	for _, r := range s.Rules {
		if msg := r.check(v[r.Field]); msg != "" {
			issues = append(issues, Issue{Field: r.Field, Message: msg})
		}
	}
	for _, c := range s.Checks {
		if issue := c(v); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// check validates a single value and returns an empty string when it passes.
func (r Rule) check(val any) string {
	switch r.Kind {
	case KindString, KindText:
		s, ok := asString(val)
		if !ok {
			return "must be text"
		}
		return r.checkString(s)

	case KindURL:
		s, ok := asString(val)
		if !ok {
			return "must be text"
		}
		s = strings.TrimSpace(s)
		if s == "" {
			if r.Required {
				return "is required"
			}
			return ""
		}
		if r.MaxLen > 0 && utf8.RuneCountInString(s) > r.MaxLen {
			return fmt.Sprintf("too long (max %d characters)", r.MaxLen)
		}
		if !isHTTPURL(s) {
			return "must be an http or https URL"
		}
		return ""

	case KindEnum:
		s, ok := asString(val)
		if !ok {
			return "must be text"
		}
		if s == "" {
			if r.Required {
				return "is required"
			}
			return ""
		}
		if !slices.Contains(r.Enum, s) {
			return "must be one of " + strings.Join(r.Enum, ", ")
		}
		return ""

	case KindInt:
		n, ok := asInt(val)
		if !ok {
			return "must be a whole number"
		}
		if n == 0 && r.Required {
			return "is required"
		}
		if n == 0 && !r.Required {
			return ""
		}
		if n < r.Min || (r.Max > 0 && n > r.Max) {
			return fmt.Sprintf("must be between %d and %d", r.Min, r.Max)
		}
		return ""

	case KindBool:
		if val == nil {
			return ""
		}
		if _, ok := val.(bool); !ok {
			return "must be true or false"
		}
		return ""

	case KindList:
		items, ok := asList(val)
		if !ok {
			return "must be a list"
		}
		return r.checkList(items)
	}
	return ""
}

func (r Rule) checkString(s string) string {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n == 0 {
		if r.Required {
			return "is required"
		}
		return ""
	}
	if r.MinLen > 0 && n < r.MinLen {
		return fmt.Sprintf("must be at least %d characters", r.MinLen)
	}
	if r.MaxLen > 0 && n > r.MaxLen {
		return fmt.Sprintf("too long (max %d characters)", r.MaxLen)
	}
	return ""
}

func (r Rule) checkList(items []string) string {
	minItems := r.MinItems
	if r.Required && minItems == 0 {
		minItems = 1
	}
	if len(items) < minItems {
		if minItems == 1 {
			return "needs at least one item"
		}
		return fmt.Sprintf("needs at least %d items", minItems)
	}
	if r.MaxItems > 0 && len(items) > r.MaxItems {
		return fmt.Sprintf("too many items (max %d)", r.MaxItems)
	}
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return fmt.Sprintf("item %d is blank", i+1)
		}
		if r.MaxLen > 0 && utf8.RuneCountInString(item) > r.MaxLen {
			return fmt.Sprintf("item %d too long (max %d characters)", i+1, r.MaxLen)
		}
	}
	return ""
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	}
	return "", false
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func asList(v any) ([]string, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
