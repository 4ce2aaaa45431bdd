package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	// KindNull is an empty or unresolved value.
	KindNull ValueKind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a float64 value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// ParseValueKind parses "text", "number" or "bool" (case-insensitive).
func ParseValueKind(s string) (ValueKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string":
		return KindText, true
	case "number", "numeric", "float":
		return KindNumber, true
	case "bool", "boolean":
		return KindBool, true
	}
	return KindNull, false
}

// Value is a resolved scalar: null, text, number or boolean.
//
// Value is comparable and two values are == exactly when they are equal
// under the type-aware lookup rules, so it can key a map directly.
// Construct values with the helpers below to keep that property.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Number returns a numeric value. Negative zero is normalized to zero.
func Number(f float64) Value {
	if f == 0 {
		f = 0
	}
	return Value{Kind: KindNumber, Num: f}
}

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsBlank reports whether v is null or empty text.
func (v Value) IsBlank() bool {
	return v.Kind == KindNull || (v.Kind == KindText && v.Str == "")
}

// Equal reports type-aware equality: numbers compare numerically, text
// compares case-sensitively and values of different kinds never match.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	default:
		return true
	}
}

// String returns the display text of v. Integral numbers carry no decimals.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindNumber:
		return FormatNumber(v.Num)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Interface returns v as nil, string, float64 or bool.
func (v Value) Interface() any {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

// MarshalJSON encodes v as a JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// FormatNumber renders f the way a spreadsheet displays a general number.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
