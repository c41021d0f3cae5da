// Package ui is the deck viewer: a responsive grid of mounted card
// instances with sorting, incremental pagination, a detail modal, and
// live reload when the deck file changes on disk.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/carddeck/pkg/card"
	"github.com/vanderheijden86/carddeck/pkg/format"
	"github.com/vanderheijden86/carddeck/pkg/host"
	"github.com/vanderheijden86/carddeck/pkg/metrics"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// Layout constants.
const (
	cardGap      = 1 // columns between cards
	headerHeight = 2 // title line + blank line above the grid
)

// Messages.
type (
	// watchChangedMsg reports that the watched deck file changed.
	watchChangedMsg struct{}
	// deckLoadedMsg carries a freshly loaded deck (or the load error).
	deckLoadedMsg struct {
		cards []model.Card
		err   error
	}
)

// Options configures a viewer model.
type Options struct {
	Cards        []model.Card
	CardsPerLoad int
	Sort         SortMode
	Renderer     *lipgloss.Renderer
	// Reload re-reads the deck from its source; nil disables the
	// reload key and live reload.
	Reload func() ([]model.Card, error)
	// Watch delivers one signal per debounced deck-file change.
	Watch <-chan struct{}
	// Export writes a snapshot of one card and returns the output
	// path; nil disables the export key.
	Export func(c model.Card) (string, error)
}

// Model is the bubbletea model for the deck grid.
type Model struct {
	keys   KeyMap
	styles card.Styles

	doc    *host.Document
	bridge *host.Bridge

	deck      []model.Card // host-owned order, never mutated
	sorted    []model.Card // current sort applied
	instances []*card.Instance

	sortMode SortMode
	perLoad  int
	shown    int
	cursor   int

	width  int
	height int

	pager      paginator.Model
	detail     viewport.Model
	showDetail bool

	reload func() ([]model.Card, error)
	watch  <-chan struct{}
	export func(c model.Card) (string, error)

	status string
}

// New builds the viewer and mounts the first page of cards.
func New(opts Options) *Model {
	if opts.CardsPerLoad <= 0 {
		opts.CardsPerLoad = 20
	}
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = opts.CardsPerLoad

	m := &Model{
		keys:     DefaultKeyMap(),
		styles:   card.NewStyles(opts.Renderer),
		bridge:   host.NewBridge(),
		doc:      host.NewDocument(),
		deck:     opts.Cards,
		sortMode: opts.Sort,
		perLoad:  opts.CardsPerLoad,
		shown:    opts.CardsPerLoad,
		width:    80,
		height:   24,
		pager:    p,
		detail:   viewport.New(76, 20),
		reload:   opts.Reload,
		watch:    opts.Watch,
		export:   opts.Export,
	}
	m.remount()
	return m
}

// Bridge exposes the host channels, mainly for the embedding program
// and tests.
func (m *Model) Bridge() *host.Bridge { return m.bridge }

// Document exposes the mount target.
func (m *Model) Document() *host.Document { return m.doc }

// Shown returns how many cards are currently mounted.
func (m *Model) Shown() int { return len(m.instances) }

// Cursor returns the focused card index.
func (m *Model) Cursor() int { return m.cursor }

// SortMode returns the active sort mode.
func (m *Model) SortMode() SortMode { return m.sortMode }

// remount tears down every mounted instance and mounts the visible
// prefix of the sorted deck. Mount keys combine position and token the
// way the embedding host namespaces concurrent cards.
func (m *Model) remount() {
	defer metrics.Timer(metrics.CardMount)()
	for _, inst := range m.instances {
		_ = inst.Teardown()
	}
	m.instances = m.instances[:0]

	m.sorted = SortCards(m.deck, m.sortMode)
	if m.shown > len(m.sorted) {
		m.shown = len(m.sorted)
	}
	if m.shown < m.perLoad {
		m.shown = min(m.perLoad, len(m.sorted))
	}

	cb := card.Callbacks{
		OnPersist: m.bridge.SetStateValue,
		OnTrigger: m.bridge.SetTriggerValue,
	}
	for i := 0; i < m.shown; i++ {
		c := m.sorted[i]
		inst, err := card.Mount(c, fmt.Sprintf("%03d-%s", i, c.SelectionToken()), m.doc, m.styles, cb)
		if err != nil {
			m.status = fmt.Sprintf("mount failed: %v", err)
			continue
		}
		m.instances = append(m.instances, inst)
	}
	if m.cursor >= len(m.instances) {
		m.cursor = max(0, len(m.instances)-1)
	}
	m.pager.SetTotalPages(max(1, len(m.sorted)))
	m.pager.Page = 0
	if m.perLoad > 0 && m.shown > 0 {
		m.pager.Page = (m.shown - 1) / m.perLoad
	}
}

// cols returns the column count the current width allows.
func (m *Model) cols() int {
	c := (m.width + cardGap) / (card.DefaultWidth + cardGap)
	return max(1, c)
}

// Init arms the live-reload wait.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watch
	return func() tea.Msg {
		<-ch
		return watchChangedMsg{}
	}
}

func (m *Model) reloadCmd() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	load := m.reload
	return func() tea.Msg {
		cards, err := load()
		return deckLoadedMsg{cards: cards, err: err}
	}
}

// Update is the single event dispatch point; every handler runs to
// completion before the next message is processed.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail = viewport.New(min(m.width-4, 100), max(4, m.height-6))
		return m, nil

	case watchChangedMsg:
		return m, tea.Batch(m.reloadCmd(), m.waitForChange())

	case deckLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("reload failed: %v", msg.err)
			return m, nil
		}
		m.deck = msg.cards
		m.remount()
		m.status = fmt.Sprintf("deck reloaded: %d cards", len(msg.cards))
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showDetail {
		if key.Matches(msg, m.keys.Close) {
			m.showDetail = false
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	// The focused card consumes its own activation keys so they never
	// fall through to the grid bindings below.
	if key.Matches(msg, m.keys.Activate) {
		if m.cursor < len(m.instances) && m.instances[m.cursor].HandleKey(msg) {
			m.consumeClick(m.sorted[m.cursor])
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.cols())
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.cols())

	case key.Matches(msg, m.keys.Sort):
		m.sortMode = m.sortMode.Next()
		m.cursor = 0
		m.remount()
		m.status = "sorted by " + m.sortMode.String()

	case key.Matches(msg, m.keys.More):
		if m.shown < len(m.sorted) {
			m.shown = min(m.shown+m.perLoad, len(m.sorted))
			m.remount()
		}

	case key.Matches(msg, m.keys.Yank):
		if m.cursor < len(m.sorted) {
			token := m.sorted[m.cursor].SelectionToken()
			if err := clipboard.WriteAll(token); err != nil {
				m.status = fmt.Sprintf("yank failed: %v", err)
			} else {
				m.status = fmt.Sprintf("yanked %q", token)
			}
		}

	case key.Matches(msg, m.keys.Export):
		if m.export != nil && m.cursor < len(m.sorted) {
			path, err := m.export(m.sorted[m.cursor])
			if err != nil {
				m.status = fmt.Sprintf("export failed: %v", err)
			} else {
				m.status = "exported " + path
			}
		}

	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	}
	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if idx, ok := m.hitTest(msg.X, msg.Y); ok {
		m.cursor = idx
		m.instances[idx].Activate()
		m.consumeClick(m.sorted[idx])
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.instances) {
		return
	}
	m.cursor = next
}

// consumeClick drains the one-shot channel and opens the detail modal
// for the card that was just activated. The activated card is passed
// in directly: selection tokens are not unique (two cards may both
// lack an id and a name), so the trigger value alone cannot recover
// the card. The persistent "selected" value stays on the bridge for
// the embedding host to replay.
func (m *Model) consumeClick(c model.Card) {
	if _, ok := m.bridge.TakeTrigger(card.SignalClicked); !ok {
		return
	}
	m.openDetail(c)
}

func (m *Model) openDetail(c model.Card) {
	var md strings.Builder
	title := c.Name
	if title == "" {
		title = "(unnamed)"
	}
	fmt.Fprintf(&md, "# %s\n\n", title)
	if c.Recommended {
		md.WriteString("**★ Recommended**\n\n")
	}
	if c.Description != "" {
		md.WriteString(c.Description + "\n\n")
	}
	if len(c.Metrics) > 0 {
		md.WriteString("| Metric | Value |\n|---|---|\n")
		for _, mt := range c.Metrics {
			fmt.Fprintf(&md, "| %s | %s |\n", mt.Label, formatMetric(mt))
		}
	}

	content := md.String()
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.detail.Width),
	); err == nil {
		if rendered, err := r.Render(content); err == nil {
			content = rendered
		}
	}
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.showDetail = true
}

// formatMetric runs a metric through the same formatter the card rows
// use, so the modal and the card never disagree.
func formatMetric(m model.Metric) string {
	return format.Render(m.Value, format.ParseKind(m.Format))
}

// hitTest maps terminal coordinates to a mounted card index. The grid
// layout here must mirror View exactly.
func (m *Model) hitTest(x, y int) (int, bool) {
	if y < headerHeight || len(m.instances) == 0 {
		return 0, false
	}
	cols := m.cols()
	col := x / (card.DefaultWidth + cardGap)
	if col >= cols || x%(card.DefaultWidth+cardGap) >= card.DefaultWidth {
		return 0, false
	}

	rowTop := headerHeight
	for start := 0; start < len(m.instances); start += cols {
		end := min(start+cols, len(m.instances))
		h := 0
		for i := start; i < end; i++ {
			h = max(h, lipgloss.Height(m.instances[i].View(card.DefaultWidth)))
		}
		if y < rowTop+h {
			idx := start + col
			if idx >= end {
				return 0, false
			}
			return idx, true
		}
		rowTop += h
	}
	return 0, false
}

// View renders the whole frame: header, grid (or detail), footer.
func (m *Model) View() string {
	defer metrics.Timer(metrics.UIRender)()
	r := m.styles.Renderer
	titleStyle := r.NewStyle().Bold(true)
	dimStyle := r.NewStyle().Faint(true)

	header := titleStyle.Render("carddeck") +
		dimStyle.Render(fmt.Sprintf("  •  %s  •  showing %d of %d", m.sortMode, len(m.instances), len(m.sorted)))

	if m.showDetail {
		hint := dimStyle.Render("esc close • ↑/↓ scroll")
		return header + "\n\n" + m.detail.View() + "\n" + hint
	}

	cols := m.cols()
	var rows []string
	for start := 0; start < len(m.instances); start += cols {
		end := min(start+cols, len(m.instances))
		views := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			v := m.instances[i].View(card.DefaultWidth)
			if i == m.cursor {
				v = m.instances[i].ViewFocused(card.DefaultWidth)
			}
			views = append(views, v)
		}
		row := views[0]
		for _, v := range views[1:] {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, strings.Repeat(" ", cardGap), v)
		}
		rows = append(rows, row)
	}
	grid := strings.Join(rows, "\n")
	if len(m.instances) == 0 {
		grid = dimStyle.Render("no cards match the current deck")
	}

	footer := dimStyle.Render(DeckSummary(m.sorted)) + "  " + m.pager.View()
	if m.shown < len(m.sorted) {
		footer += dimStyle.Render("  m: load more")
	}
	if m.status != "" {
		footer += "\n" + dimStyle.Render(m.status)
	}

	return header + "\n\n" + grid + "\n" + footer
}
