// Package card renders one interactive metric card: a titled header
// with a recommendation badge over the card's base color, and a list
// of formatted metric rows over a derived pastel tint. A card is
// mounted once into a host.Document, reacts to pointer and keyboard
// activation by emitting a persistent "selected" update and a one-shot
// "clicked" trigger, and is torn down exactly once by the host.
package card

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/carddeck/pkg/format"
	"github.com/vanderheijden86/carddeck/pkg/host"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// Signal names on the host bridge.
const (
	SignalSelected = "selected"
	SignalClicked  = "clicked"
)

// Callbacks carries the two outbound channels. Both fire on every
// activation with the same selection token; they differ only in how
// the host consumes them (durable state vs edge event).
type Callbacks struct {
	OnPersist func(name, value string)
	OnTrigger func(name, value string)
}

// row is a metric row after formatting. Rendering keeps input order;
// there is no reordering or deduplication.
type row struct {
	label string
	value string
}

// Instance is one mounted card. It has exactly two states, mounted and
// unmounted, with a single one-way transition via Teardown.
type Instance struct {
	data      model.Card
	scopedKey string
	doc       *host.Document
	cb        Callbacks

	base string
	tint string
	rows []row

	st       Styles
	title    lipgloss.Style
	badge    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	divider  lipgloss.Style
	headerBg lipgloss.Style
	bodyBg   lipgloss.Style

	unmounted bool
}

// ScopedKey derives the document-unique handle for an instance key.
// Uniqueness across concurrent instances is the host's obligation; the
// prefix only namespaces cards away from other node kinds.
func ScopedKey(instanceKey string) string {
	return "card-" + instanceKey
}

// Mount formats the metric rows, composes the visual tree, and
// attaches it to doc under the key's scoped handle. A nil document or
// a colliding key fails the mount; there is no partial state and no
// retry.
func Mount(data model.Card, instanceKey string, doc *host.Document, st Styles, cb Callbacks) (*Instance, error) {
	base := BaseColor(data.Color)
	tint := Pastel(base)

	rows := make([]row, 0, len(data.Metrics))
	for _, m := range data.Metrics {
		rows = append(rows, row{
			label: m.Label,
			value: format.Render(m.Value, format.ParseKind(m.Format)),
		})
	}

	if st.Renderer == nil {
		st = NewStyles(nil)
	}

	badgeStyle := st.BadgeOff
	if data.Recommended {
		badgeStyle = st.BadgeOn
	}

	inst := &Instance{
		data:      data,
		scopedKey: ScopedKey(instanceKey),
		doc:       doc,
		cb:        cb,
		base:      base,
		tint:      tint,
		rows:      rows,
		st:        st,
		// The per-card backgrounds are layered onto the shared
		// foreground styles so the region color survives the inner
		// resets.
		title:    st.Title.Background(lipgloss.Color(base)),
		badge:    badgeStyle.Background(lipgloss.Color(base)),
		label:    st.Label.Background(lipgloss.Color(tint)),
		value:    st.Value.Background(lipgloss.Color(tint)),
		divider:  st.RowDivider.Background(lipgloss.Color(tint)),
		headerBg: st.Renderer.NewStyle().Background(lipgloss.Color(base)),
		bodyBg:   st.Renderer.NewStyle().Background(lipgloss.Color(tint)),
	}

	if err := doc.Attach(&host.Node{Key: inst.scopedKey, View: inst.View}); err != nil {
		return nil, fmt.Errorf("mount card %q: %w", instanceKey, err)
	}
	return inst, nil
}

// Key returns the document-scoped handle of this instance.
func (i *Instance) Key() string { return i.scopedKey }

// Rows returns the formatted metric rows in input order.
func (i *Instance) Rows() int { return len(i.rows) }

// BaseColor returns the resolved header color.
func (i *Instance) BaseColor() string { return i.base }

// Tint returns the derived body background.
func (i *Instance) Tint() string { return i.tint }

// Activate emits the selection. Every activation, including repeat
// activation of an already-selected card, fires both channels with
// the same token.
func (i *Instance) Activate() {
	token := i.data.SelectionToken()
	if i.cb.OnPersist != nil {
		i.cb.OnPersist(SignalSelected, token)
	}
	if i.cb.OnTrigger != nil {
		i.cb.OnTrigger(SignalClicked, token)
	}
}

// HandleKey processes keyboard activation. Enter and Space activate
// the card and are reported as consumed so the enclosing program does
// not also act on them.
func (i *Instance) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", " ":
		i.Activate()
		return true
	}
	return false
}

// Teardown detaches this instance's subtree from the document. The
// host calls it exactly once, after a successful mount; a second call
// reports the violated contract instead of guessing.
func (i *Instance) Teardown() error {
	if i.unmounted {
		return fmt.Errorf("teardown %q: %w", i.scopedKey, host.ErrNotMounted)
	}
	i.unmounted = true
	return i.doc.Detach(i.scopedKey)
}

// View renders the card at the given total width. Layout only; all
// formatting decisions were fixed at mount time.
func (i *Instance) View(width int) string {
	return i.render(width, i.st.Frame)
}

// ViewFocused renders like View but with a thick border so keyboard
// focus is visible without touching the card content.
func (i *Instance) ViewFocused(width int) string {
	return i.render(width, i.st.Renderer.NewStyle().Border(lipgloss.ThickBorder()))
}

func (i *Instance) render(width int, frame lipgloss.Style) string {
	if width < 12 {
		width = DefaultWidth
	}
	content := width - 4 // frame border + region padding

	var lines []string

	// Header: title clamped to two lines, badge on the first line.
	badge := BadgeOutline
	if i.data.Recommended {
		badge = BadgeFilled
	}
	titleWidth := content - runewidth.StringWidth(badge) - 1
	titleLines := clampLines(i.data.Name, titleWidth, headerLines)
	for n, tl := range titleLines {
		left := i.title.Render(padRight(tl, titleWidth))
		right := i.badge.Render(badge)
		if n > 0 {
			right = i.headerBg.Render(strings.Repeat(" ", runewidth.StringWidth(badge)))
		}
		lines = append(lines, left+i.headerBg.Render(" ")+right)
	}

	// Body: one line per metric, a divider between rows and none after
	// the last.
	for n, rw := range i.rows {
		lbl := truncateCell(rw.label, content-1)
		gap := content - runewidth.StringWidth(lbl) - runewidth.StringWidth(rw.value)
		if gap < 1 {
			lbl = truncateCell(lbl, content-runewidth.StringWidth(rw.value)-1)
			gap = content - runewidth.StringWidth(lbl) - runewidth.StringWidth(rw.value)
		}
		line := i.label.Render(lbl) + i.bodyBg.Render(strings.Repeat(" ", max(gap, 1))) + i.value.Render(rw.value)
		lines = append(lines, line)
		if n < len(i.rows)-1 {
			lines = append(lines, i.divider.Render(strings.Repeat("─", content)))
		}
	}

	inner := make([]string, 0, len(lines))
	for n, l := range lines {
		if n < len(titleLines) {
			inner = append(inner, i.headerBg.Render(" ")+l+i.headerBg.Render(" "))
		} else {
			inner = append(inner, i.bodyBg.Render(" ")+l+i.bodyBg.Render(" "))
		}
	}
	return frame.Render(strings.Join(inner, "\n"))
}

// clampLines word-wraps s to at most maxLines lines of the given cell
// width, ellipsizing the final line on overflow.
func clampLines(s string, width, maxLines int) []string {
	if width < 1 {
		width = 1
	}
	words := strings.Fields(s)
	lines := []string{""}
	for wi := 0; wi < len(words); wi++ {
		w := words[wi]
		cur := lines[len(lines)-1]
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if runewidth.StringWidth(candidate) <= width {
			lines[len(lines)-1] = candidate
			continue
		}
		if cur == "" {
			// Single word wider than the line.
			lines[len(lines)-1] = truncateCell(w, width)
			if len(lines) == maxLines {
				return lines
			}
			lines = append(lines, "")
			continue
		}
		if len(lines) < maxLines {
			lines = append(lines, "")
			wi-- // retry the word on the fresh line
			continue
		}
		// Out of lines: mark the overflow and stop.
		lines[len(lines)-1] = truncateCell(candidate, width)
		return lines
	}
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// truncateCell truncates to a cell width, appending an ellipsis when
// anything was cut. Wide runes are handled by go-runewidth.
func truncateCell(s string, width int) string {
	if width < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return strings.TrimRight(runewidth.Truncate(s, width-1, ""), " ") + "…"
}

// padRight pads s with spaces to the given cell width.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
