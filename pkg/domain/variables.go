package domain

import (
	"fmt"
	"strconv"
)

// Variables is the session-scoped value bag mutated by condition actions.
// Values are numeric or string; an absent key reads as numeric zero.
type Variables map[string]any

// NewVariables returns an empty store.
func NewVariables() Variables {
	return make(Variables)
}

// Clone returns an independent copy so a resolver call can mutate freely.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Lookup returns the raw value and whether the key exists.
func (v Variables) Lookup(name string) (any, bool) {
	val, ok := v[name]
	return val, ok
}

// String renders the value for comparison purposes. Missing keys render
// as "0" so numeric comparisons against unset variables behave as if
// the variable were zero.
func (v Variables) String(name string) string {
	val, ok := v[name]
	if !ok {
		return "0"
	}
	switch t := val.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Number returns the numeric reading of a variable, and whether the
// stored value parses as a number. Missing keys are numeric zero.
func (v Variables) Number(name string) (float64, bool) {
	val, ok := v[name]
	if !ok {
		return 0, true
	}
	switch t := val.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Set assigns a raw value, creating the key if needed.
func (v Variables) Set(name string, value any) {
	v[name] = value
}

// Add accumulates delta onto the numeric reading of the variable.
// Non-numeric current values are treated as zero, matching the lenient
// evaluation contract.
func (v Variables) Add(name string, delta int) {
	cur, _ := v.Number(name)
	v[name] = cur + float64(delta)
}
