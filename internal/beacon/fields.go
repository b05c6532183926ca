package beacon

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// Fields is a partial record keyed by wire field names. It is the unit of
// every update applied to base fields or field sets.
type Fields map[string]any

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	return slices.Sorted(maps.Keys(f))
}

// Merge shallow-merges partial into cur and returns the result. Keys absent
// from partial keep their current value. The merge is all-or-nothing: an
// unknown key or a value of the wrong type rejects the whole partial and cur
// is returned unchanged together with the error.
//
// The returned value never shares slices with cur or partial.
func Merge[T any](cur T, partial Fields) (T, error) {
	if len(partial) == 0 {
		return clone(cur)
	}

	overlay, err := ToFields(cur)
	if err != nil {
		return cur, err
	}
	for k, v := range partial {
		overlay[k] = v
	}

	var next T
	if err := decodeStrict(overlay, &next); err != nil {
		return cur, err
	}
	return next, nil
}

// ToFields converts a base-field or field-set struct into a Fields record
// keyed by wire names.
func ToFields(v any) (Fields, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, fmt.Errorf("converting %T to fields: %w", v, err)
	}
	for k, val := range out {
		if list, ok := val.([]string); ok {
			out[k] = slices.Clone(list)
		}
	}
	return Fields(out), nil
}

// decodeStrict decodes input into out, rejecting keys out does not declare.
func decodeStrict(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
		DecodeHook:  mapstructure.DecodeHookFuncType(rejectFractions),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decoding fields: %w", err)
	}
	return nil
}

// rejectFractions stops mapstructure from truncating a float with a
// fractional part into an integer field.
func rejectFractions(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v must be a whole number", f)
	}
	return data, nil
}

func clone[T any](v T) (T, error) {
	f, err := ToFields(v)
	if err != nil {
		return v, err
	}
	var out T
	if err := decodeStrict(f, &out); err != nil {
		return v, err
	}
	return out, nil
}
