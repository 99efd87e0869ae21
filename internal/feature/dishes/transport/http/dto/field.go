package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Field records whether a JSON key was present and whether it was null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Ptr returns the value, or nil when the field is absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Set || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// NullableInt is an integer field as sent by HTML forms: a number, a numeric
// string, an empty string or null. Empty string and null both mean "no value".
type NullableInt struct {
	Set   bool
	Valid bool
	Value int
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableInt) UnmarshalJSON(b []byte) error {
	n.Set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return fmt.Errorf("invalid integer %q", raw)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("integer %q out of range", raw)
	}
	n.Valid = true
	n.Value = int(f)
	return nil
}

// Ptr returns the value, or nil when the field is absent, null or blank.
func (n NullableInt) Ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
