package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the scalar values a variable may take.
// Only String, Int and Bool implement it. Every implementation is
// comparable, so values can key maps and compare with ==.
// There is no float type (floats break byte-stable fixtures).
type Value interface {
	irValue() // Sealed - only these types implement it
}

// String is a string value.
type String string

func (String) irValue() {}

// Int is an integer value. Always int64, never float64.
type Int int64

func (Int) irValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) irValue() {}

// Format returns the display form of a value.
// Used for diagnostics and for matching HCL block labels to values.
func Format(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Bool:
		return strconv.FormatBool(bool(val))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FromAny converts a decoded Go scalar into a Value.
//
// Accepts string, bool, the signed integer kinds, json.Number and float64
// values that hold an exact integer (what encoding/json and yaml.v3 produce
// for whole numbers). Fractional numbers, null and composites are rejected.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden: only string, int, bool allowed")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden: %s", s)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", s)
		}
		return Int(n), nil
	case float64:
		if val != math.Trunc(val) || val >= math.MaxInt64 || val < math.MinInt64 {
			return nil, fmt.Errorf("floats are forbidden: %v", val)
		}
		return Int(int64(val)), nil
	case float32:
		return nil, fmt.Errorf("floats are forbidden: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// Vals converts each argument with FromAny and panics on failure.
// Intended for tests and fixture construction:
//
//	s.AddValues("length", ir.Vals(66, 72)...)
func Vals(vals ...any) []Value {
	out := make([]Value, len(vals))
	for i, v := range vals {
		iv, err := FromAny(v)
		if err != nil {
			panic(fmt.Sprintf("ir.Vals[%d]: %v", i, err))
		}
		out[i] = iv
	}
	return out
}

// Config is one flattened configuration: variable name to chosen value.
type Config map[string]Value

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a different order.
func (c Config) SortedKeys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// Equal reports whether both configs bind exactly the same keys to equal values.
func (c Config) Equal(other Config) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// String renders the config as canonical JSON.
func (c Config) String() string {
	data, err := MarshalCanonical(c)
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler using canonical key order.
func (c Config) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(c)
}

// UnmarshalJSON implements json.Unmarshaler.
// Only flat objects of scalars are accepted. Floats and null are rejected.
func (c *Config) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("config must be a JSON object")
	}

	*c = make(Config, len(raw))
	for k, v := range raw {
		val, err := FromAny(v)
		if err != nil {
			return fmt.Errorf("config key %q: %w", k, err)
		}
		(*c)[k] = val
	}
	return nil
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// Shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
