package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"STRING", String},
		{"PERCENT", Percent},
		{"DECIMAL", Decimal},
		{"DOLLAR", Dollar},
		{"", String},
		{"percent", String}, // wire names are case-sensitive
		{"CURRENCY", String},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderPercent(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"zero suppressed", 0.0, ""},
		{"nil suppressed", nil, ""},
		{"two decimals", 4.5, "4.50%"},
		{"rounded", 1.005, "1.00%"}, // binary repr of 1.005 is just below
		{"int input", 12, "12.00%"},
		{"numeric string", "7.25", "7.25%"},
		{"garbage string suppressed", "n/a", ""},
		{"negative", -3.2, "-3.20%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.value, Percent); got != tt.want {
				t.Fatalf("Render(%v, Percent) = %q; want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderDecimal(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"zero is shown", 0.0, "0.00"}, // unlike Percent, zero is not suppressed
		{"nil", nil, "0.00"},
		{"two decimals", 0.035, "0.04"},
		{"int input", 3, "3.00"},
		{"negative", -1.5, "-1.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.value, Decimal); got != tt.want {
				t.Fatalf("Render(%v, Decimal) = %q; want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderDollar(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"zero literal", 0.0, "$0.0"},
		{"nil", nil, "$0.0"},
		{"small", 250.0, "$250.0"},
		{"thousands", 1500.0, "$1.5K"},
		{"exact thousand", 1000.0, "$1.0K"},
		{"millions", 2_500_000.0, "$2.5M"},
		{"exact million", 1_000_000.0, "$1.0M"},
		{"negative thousands keep sign", -50_000.0, "$-50.0K"},
		{"negative small", -12.34, "$-12.3"},
		{"numeric string", "2000", "$2.0K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.value, Dollar); got != tt.want {
				t.Fatalf("Render(%v, Dollar) = %q; want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderString(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil is empty", nil, ""},
		{"passthrough", "Hedged Equity", "Hedged Equity"},
		{"integral float has no decimal tail", 42.0, "42"},
		{"fractional float", 1.25, "1.25"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.value, String); got != tt.want {
				t.Fatalf("Render(%v, String) = %q; want %q", tt.value, got, tt.want)
			}
		})
	}
}

// Property: Percent output for a non-zero value is always the two
// decimal fixed form with a "%" suffix, and zero is always empty.
func TestRenderPercentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1e9, 1e9).Draw(t, "v")
		got := Render(v, Percent)
		if v == 0 {
			if got != "" {
				t.Fatalf("Render(0, Percent) = %q; want empty", got)
			}
			return
		}
		want := strconv.FormatFloat(v, 'f', 2, 64) + "%"
		if got != want {
			t.Fatalf("Render(%v, Percent) = %q; want %q", v, got, want)
		}
	})
}

// Property: Dollar output picks the M/K suffix from the magnitude and
// keeps the sign of the original value.
func TestRenderDollarProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1e10, 1e10).Draw(t, "v")
		got := Render(v, Dollar)

		abs := math.Abs(v)
		switch {
		case v == 0:
			if got != "$0.0" {
				t.Fatalf("Render(0, Dollar) = %q; want $0.0", got)
			}
		case abs >= 1_000_000:
			if !strings.HasSuffix(got, "M") {
				t.Fatalf("Render(%v, Dollar) = %q; want M suffix", v, got)
			}
		case abs >= 1_000:
			if !strings.HasSuffix(got, "K") {
				t.Fatalf("Render(%v, Dollar) = %q; want K suffix", v, got)
			}
		default:
			if strings.HasSuffix(got, "K") || strings.HasSuffix(got, "M") {
				t.Fatalf("Render(%v, Dollar) = %q; want no suffix", v, got)
			}
		}
		if v < 0 && !strings.HasPrefix(got, "$-") {
			t.Fatalf("Render(%v, Dollar) = %q; negative sign lost", v, got)
		}
	})
}

// Property: Render is total over arbitrary inputs for every kind.
func TestRenderNeverPanics(t *testing.T) {
	values := []any{nil, "", "x", 0, 0.0, -1, math.Inf(1), math.Inf(-1), math.NaN(), true, []int{1}, map[string]int{"a": 1}, struct{ X int }{1}}
	kinds := []Kind{String, Percent, Decimal, Dollar, Kind(99)}
	for _, v := range values {
		for _, k := range kinds {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("Render(%v, %v) panicked: %v", v, k, r)
					}
				}()
				_ = Render(v, k)
			}()
		}
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range []Kind{String, Percent, Decimal, Dollar} {
		if got := ParseKind(k.String()); got != k {
			t.Errorf("ParseKind(%v.String()) = %v", k, got)
		}
	}
	if got := fmt.Sprint(Kind(99)); got != "STRING" {
		t.Errorf("unknown kind renders as %q; want STRING", got)
	}
}
