package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Fixed visual constants for the card widget
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultWidth is the fixed card width in cells, the terminal
	// equivalent of the original 375px fixed-width card.
	DefaultWidth = 38

	// headerLines is the clamp for the title block: longer titles wrap
	// to at most this many lines and are then truncated.
	headerLines = 2

	// DefaultColor is the base hue used when a card carries none.
	DefaultColor = "#3B82F6"

	// pastelAlpha is the body tint opacity. The original derived the
	// body background by appending an alpha byte of 0x26 to the base
	// hex color over a white page.
	pastelAlpha = 0x26

	// BadgeFilled and BadgeOutline are the two recommendation badge
	// glyphs.
	BadgeFilled  = "★"
	BadgeOutline = "☆"
)

var (
	colorTitle      = lipgloss.Color("#FFFFFF")
	colorBadgeOn    = lipgloss.Color("#FACC15")
	colorBadgeOff   = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#666666"}
	colorLabel      = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#C3C8D1"}
	colorValue      = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F2F4F8"}
	colorRowDivider = lipgloss.AdaptiveColor{Light: "#D9D9D9", Dark: "#3A3D4D"}
)

// Styles holds the precomputed lipgloss styles for one renderer.
// Styles that depend on per-card data (header background, body tint)
// are derived at mount time.
type Styles struct {
	Renderer *lipgloss.Renderer

	Title      lipgloss.Style
	BadgeOn    lipgloss.Style
	BadgeOff   lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	RowDivider lipgloss.Style
	Frame      lipgloss.Style
}

// NewStyles builds the style set for a renderer. Pass the renderer of
// the enclosing program so color degradation matches the host
// terminal.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Renderer:   r,
		Title:      r.NewStyle().Bold(true).Foreground(colorTitle),
		BadgeOn:    r.NewStyle().Foreground(colorBadgeOn),
		BadgeOff:   r.NewStyle().Foreground(colorBadgeOff),
		Label:      r.NewStyle().Foreground(colorLabel),
		Value:      r.NewStyle().Foreground(colorValue),
		RowDivider: r.NewStyle().Foreground(colorRowDivider),
		Frame:      r.NewStyle().Border(lipgloss.RoundedBorder()),
	}
}

// BaseColor normalizes a card's base hue, falling back to the default
// blue when absent or unparseable.
func BaseColor(hex string) string {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return DefaultColor
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Pastel derives the lighter body tint from a base color: the base
// blended over white at pastelAlpha opacity, matching the original
// color+"26" 8-digit hex.
func Pastel(hex string) string {
	r, g, b, err := parseHex(hex)
	if err != nil {
		r, g, b, _ = parseHex(DefaultColor)
	}
	blend := func(c int) int {
		return (c*pastelAlpha + 255*(255-pastelAlpha)) / 255
	}
	return fmt.Sprintf("#%02X%02X%02X", blend(r), blend(g), blend(b))
}

// parseHex accepts #RGB and #RRGGBB forms.
func parseHex(s string) (r, g, b int, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, fmt.Errorf("color %q: want #RGB or #RRGGBB", s)
	}
	v, perr := strconv.ParseUint(s, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("color %q: %w", s, perr)
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), nil
}
