package model

import (
	"encoding/json"
	"math"
)

// Value is a series entry that may be undefined, e.g. during an indicator's
// warm-up. Undefined values encode as JSON null.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a defined Value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid || math.IsNaN(v.V) || math.IsInf(v.V, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Series is a date-aligned sequence of optional values.
type Series []Value

// Full wraps a fully defined slice.
func Full(values []float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Some(v)
	}
	return s
}

// Aligned places values at positions [offset, offset+len(values)) of a
// series of length n; everything else is undefined.
func Aligned(values []float64, offset, n int) Series {
	s := make(Series, n)
	for i, v := range values {
		if j := offset + i; j >= 0 && j < n {
			s[j] = Some(v)
		}
	}
	return s
}
