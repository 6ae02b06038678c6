package search

import (
	"cmp"
	"encoding/json"
	"fmt"
	"reflect"
)

func compare(value any, c Comparison) (bool, error) {
	switch c.Op {
	case OpEq:
		return equal(value, c.Value), nil
	case OpNe:
		return !equal(value, c.Value), nil
	case OpGt, OpLt, OpGte, OpLte:
		order, err := ordering(value, c.Value)
		if err != nil {
			return false, err
		}
		switch c.Op {
		case OpGt:
			return order > 0, nil
		case OpLt:
			return order < 0, nil
		case OpGte:
			return order >= 0, nil
		default:
			return order <= 0, nil
		}
	case OpIn, OpNotIn:
		list, ok := listOf(c.Value)
		if !ok {
			return false, fmt.Errorf("%w: operator %q needs a list, got %T", ErrInvalidQuery, c.Op, c.Value)
		}
		found := false
		for _, item := range list {
			if equal(value, item) {
				found = true
				break
			}
		}
		return found == (c.Op == OpIn), nil
	default:
		return false, fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, c.Op)
	}
}

// equal treats all numeric kinds as one type, so a decoded 30.0 equals a literal 30.
func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func ordering(a, b any) (int, error) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb), nil
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return cmp.Compare(sa, sb), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot order %T against %T", ErrTypeMismatch, a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case bool, string, nil:
		return 0, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func listOf(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

// normalize rewrites numbers to float64 and typed slices/maps to their generic
// forms so decoded JSON compares equal to Go literals.
func normalize(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	if _, ok := v.(string); ok {
		return v
	}
	if list, ok := listOf(v); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = normalize(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}
