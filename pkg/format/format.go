// Package format converts raw metric values into display strings.
//
// Render is pure and total: every (value, kind) pair yields a string
// and never fails. Malformed input is defaulted, not rejected, so a
// card with a partially filled metric row still renders.
package format

import (
	"fmt"
	"math"
	"strconv"
)

// Kind selects how a raw metric value becomes display text. The set is
// fixed; there is deliberately no registration point.
type Kind int

const (
	// String renders the value as-is; nil renders as "".
	String Kind = iota
	// Percent renders two decimals plus "%", suppressing exact zero.
	Percent
	// Decimal renders two decimals with no affixes.
	Decimal
	// Dollar renders "$X.X" with K/M scaling at 1e3/1e6.
	Dollar
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Percent:
		return "PERCENT"
	case Decimal:
		return "DECIMAL"
	case Dollar:
		return "DOLLAR"
	default:
		return "STRING"
	}
}

// ParseKind maps a wire string to a Kind. Anything unrecognized,
// including the empty string, falls back to String passthrough; an
// unknown kind is a display default, not an error.
func ParseKind(s string) Kind {
	switch s {
	case "PERCENT":
		return Percent
	case "DECIMAL":
		return Decimal
	case "DOLLAR":
		return Dollar
	default:
		return String
	}
}

// Render formats value according to kind. nil coerces to 0 for the
// numeric kinds and to "" for String.
func Render(value any, kind Kind) string {
	switch kind {
	case Percent:
		v := toFloat(value)
		if v == 0 {
			// Zero is suppressed rather than shown as "0.00%". This
			// conflates "no data" with a legitimate zero, but the
			// behavior is intentional display policy.
			return ""
		}
		return strconv.FormatFloat(v, 'f', 2, 64) + "%"
	case Decimal:
		return strconv.FormatFloat(toFloat(value), 'f', 2, 64)
	case Dollar:
		return dollar(toFloat(value))
	default:
		return asText(value)
	}
}

// dollar scales by thousands/millions with one decimal. The threshold
// test uses the absolute value so the sign of v is preserved in the
// output.
func dollar(v float64) string {
	if v == 0 {
		return "$0.0"
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	default:
		return fmt.Sprintf("$%.1f", v)
	}
}

// Number reports the numeric interpretation of a raw metric value:
// numbers convert directly, numeric strings parse, booleans map to
// 0/1. ok is false for nil and anything non-numeric.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toFloat coerces a raw metric value to float64, defaulting everything
// non-numeric (nil included) to 0.
func toFloat(value any) float64 {
	f, _ := Number(value)
	return f
}

// asText is the String-kind passthrough.
func asText(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	if f, ok := value.(float64); ok {
		// JSON numbers arrive as float64; keep integral values free of
		// a trailing ".0" so "42" round-trips as "42".
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}
