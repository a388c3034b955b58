package models

import (
	"fmt"
	"math"
	"strconv"
)

// Stringify renders a scalar value as text. JSON numbers decode as float64,
// so integral floats are printed without an exponent or trailing fraction —
// numeric identifiers must round-trip as the digits the source sent.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// IsEmptyValue reports whether a flattened value counts as "empty" for
// collection purposes: nil, empty string, or empty slice.
func IsEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	}
	return false
}
