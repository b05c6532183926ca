package form

import (
	"slices"
	"strings"

	"github.com/mark3labs/beacon/internal/beacon"
)

// FieldArray equips a field set with list operations. Every operation builds a
// new list and hands it to onUpdate as a single-key partial; the field set
// itself is never modified.
type FieldArray[F beacon.FieldSet] struct {
	current  func() F
	onUpdate func(beacon.Fields)
}

// WithFieldArray wraps a snapshot of data.
func WithFieldArray[F beacon.FieldSet](data F, onUpdate func(beacon.Fields)) FieldArray[F] {
	return FieldArray[F]{
		current:  func() F { return data },
		onUpdate: onUpdate,
	}
}

// BindFieldArray wraps the live slot of m's selected type. Each operation
// reads the slot afresh, so consecutive calls compose. It returns false when
// the selected type does not hold an F.
func BindFieldArray[F beacon.FieldSet](m *Machine) (FieldArray[F], bool) {
	if _, ok := m.State().FormData.TypeSpecific().(F); !ok {
		return FieldArray[F]{}, false
	}
	return FieldArray[F]{
		current: func() F {
			fs, _ := m.State().FormData.TypeSpecific().(F)
			return fs
		},
		onUpdate: m.UpdateTypeFields,
	}, true
}

// Items returns the current list at field.
func (a FieldArray[F]) Items(field beacon.ListField[F]) []string {
	if a.current == nil {
		return nil
	}
	return field.Get(a.current())
}

// MaxItems returns the declared maximum cardinality of field, or 0 if none.
func (a FieldArray[F]) MaxItems(field beacon.ListField[F]) int {
	var zero F
	if any(zero) == nil {
		return 0
	}
	schema, ok := beacon.SchemaFor(zero.ProjectType())
	if !ok {
		return 0
	}
	rule, ok := schema.Rule(field.Name)
	if !ok {
		return 0
	}
	return rule.MaxItems
}

// AddItem appends the trimmed item. Blank items and additions past the
// declared maximum are ignored. It reports whether the list changed.
func (a FieldArray[F]) AddItem(field beacon.ListField[F], item string) bool {
	item = strings.TrimSpace(item)
	if item == "" {
		return false
	}
	cur := a.Items(field)
	if limit := a.MaxItems(field); limit > 0 && len(cur) >= limit {
		return false
	}
	next := make([]string, 0, len(cur)+1)
	next = append(next, cur...)
	next = append(next, item)
	a.update(field, next)
	return true
}

// RemoveItem removes the item at index. An out-of-range index is ignored.
func (a FieldArray[F]) RemoveItem(field beacon.ListField[F], index int) bool {
	cur := a.Items(field)
	if index < 0 || index >= len(cur) {
		return false
	}
	a.update(field, slices.Delete(slices.Clone(cur), index, index+1))
	return true
}

// UpdateArray replaces the list at field.
func (a FieldArray[F]) UpdateArray(field beacon.ListField[F], values []string) {
	a.update(field, slices.Clone(values))
}

func (a FieldArray[F]) update(field beacon.ListField[F], values []string) {
	if values == nil {
		values = []string{}
	}
	if a.onUpdate != nil {
		a.onUpdate(beacon.Fields{field.Name: values})
	}
}
