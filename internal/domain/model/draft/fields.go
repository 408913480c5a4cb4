package draft

import (
	"encoding/json"
	"reflect"
)

// FieldMap is a form's field name → value mapping. Values are limited
// to what the host form itself holds; the engine never interprets
// them beyond structural comparison.
type FieldMap map[string]any

// Clone returns a deep copy so that stored snapshots can never alias
// the host form's live state.
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return nil
	}
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	case FieldMap:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports structural equality between two field mappings.
// Values are normalized through their JSON form first, so a snapshot
// read back from storage compares equal to the in-memory value it was
// written from (e.g. int 42 vs float64 42).
func (m FieldMap) Equal(other FieldMap) bool {
	if len(m) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(m.normalize(), other.normalize())
}

// Dirty is the dirty check: true iff current differs structurally
// from baseline. It is recomputed from its inputs on every call;
// there is no cached flag to drift out of sync.
func Dirty(current, baseline FieldMap) bool {
	return !current.Equal(baseline)
}

// normalize round-trips the mapping through JSON so that equivalent
// values with different Go dynamic types compare equal.
func (m FieldMap) normalize() FieldMap {
	data, err := json.Marshal(m)
	if err != nil {
		// Non-serializable values: fall back to the raw mapping.
		return m
	}
	var out FieldMap
	if err := json.Unmarshal(data, &out); err != nil {
		return m
	}
	return out
}
