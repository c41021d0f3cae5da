package ui

import (
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/carddeck/pkg/card"
	"github.com/vanderheijden86/carddeck/pkg/model"
	"github.com/vanderheijden86/carddeck/pkg/testutil"
)

func testModel(cards []model.Card, perLoad int) *Model {
	return New(Options{
		Cards:        cards,
		CardsPerLoad: perLoad,
		Renderer:     lipgloss.NewRenderer(io.Discard),
	})
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewMountsFirstPage(t *testing.T) {
	m := testModel(deck(), 2)

	if m.Shown() != 2 {
		t.Fatalf("Shown = %d; want 2 (pagination)", m.Shown())
	}
	// Default sort puts the recommended card first.
	if m.sorted[0].ID != "c" {
		t.Errorf("first card = %s; want c", m.sorted[0].ID)
	}
	if m.Document().Len() != 2 {
		t.Errorf("document holds %d nodes; want 2", m.Document().Len())
	}
}

func TestLoadMoreMountsRest(t *testing.T) {
	m := testModel(deck(), 2)

	m.Update(keyMsg("m"))
	if m.Shown() != 3 {
		t.Fatalf("Shown after load more = %d; want 3", m.Shown())
	}
	// No trailing page: further presses are a no-op.
	m.Update(keyMsg("m"))
	if m.Shown() != 3 {
		t.Fatalf("Shown = %d; want 3", m.Shown())
	}
}

func TestPaginationOverLargeDeck(t *testing.T) {
	cards := testutil.New(testutil.DefaultConfig()).Deck(50)
	m := testModel(cards, 20)

	if m.Shown() != 20 {
		t.Fatalf("Shown = %d; want 20", m.Shown())
	}
	m.Update(keyMsg("m"))
	m.Update(keyMsg("m"))
	if m.Shown() != 50 {
		t.Fatalf("Shown after two loads = %d; want 50", m.Shown())
	}
	if m.Document().Len() != 50 {
		t.Fatalf("document holds %d nodes; want 50", m.Document().Len())
	}
}

func TestCursorNavigation(t *testing.T) {
	m := testModel(deck(), 20)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 50}) // everything on one row

	if m.Cursor() != 0 {
		t.Fatalf("initial cursor = %d", m.Cursor())
	}
	m.Update(keyMsg("l"))
	if m.Cursor() != 1 {
		t.Fatalf("cursor after l = %d; want 1", m.Cursor())
	}
	m.Update(keyMsg("h"))
	if m.Cursor() != 0 {
		t.Fatalf("cursor after h = %d; want 0", m.Cursor())
	}
	// Clamped at the edges.
	m.Update(keyMsg("h"))
	if m.Cursor() != 0 {
		t.Fatalf("cursor underflowed: %d", m.Cursor())
	}
}

func TestEnterActivatesAndOpensDetail(t *testing.T) {
	m := testModel(deck(), 20)

	m.Update(keyMsg("enter"))

	// The activation reached the bridge: durable state set, one-shot
	// trigger already consumed by the modal.
	if v, ok := m.Bridge().State(card.SignalSelected); !ok || v != "c" {
		t.Fatalf("selected state = %q, %v; want c", v, ok)
	}
	if n := m.Bridge().PendingTriggers(card.SignalClicked); n != 0 {
		t.Fatalf("pending triggers = %d; want 0 (consumed)", n)
	}
	if !m.showDetail {
		t.Fatal("detail modal not open after activation")
	}

	m.Update(keyMsg("esc"))
	if m.showDetail {
		t.Fatal("detail modal still open after esc")
	}
}

func TestSpaceAlsoActivates(t *testing.T) {
	m := testModel(deck(), 20)
	m.Update(keyMsg("space"))
	if v, _ := m.Bridge().State(card.SignalSelected); v != "c" {
		t.Fatalf("selected state = %q; want c", v)
	}
}

func TestActivationRoutesThroughKeyBinding(t *testing.T) {
	m := testModel(deck(), 20)
	m.keys.Activate.SetEnabled(false)

	m.Update(keyMsg("enter"))
	if _, ok := m.Bridge().State(card.SignalSelected); ok {
		t.Fatal("disabled activation binding still activated the card")
	}
	if m.showDetail {
		t.Fatal("disabled activation binding opened the detail modal")
	}
}

func TestDetailOpensForActivatedCardWithDuplicateTokens(t *testing.T) {
	// Neither card has an id or a name, so both share the "" token; the
	// modal must still show the card that was actually activated.
	cards := []model.Card{
		{Description: "the first anonymous strategy"},
		{Description: "the second anonymous strategy"},
	}
	m := testModel(cards, 20)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})

	m.Update(keyMsg("l"))
	m.Update(keyMsg("enter"))

	if !m.showDetail {
		t.Fatal("detail modal not open after activation")
	}
	got := m.detail.View()
	if !strings.Contains(got, "second anonymous") {
		t.Errorf("detail shows the wrong card:\n%s", got)
	}
	if strings.Contains(got, "first anonymous") {
		t.Errorf("detail shows the other card sharing the token:\n%s", got)
	}
}

func TestRepeatActivationFiresAgain(t *testing.T) {
	m := testModel(deck(), 20)

	m.Update(keyMsg("enter"))
	m.Update(keyMsg("esc"))
	m.Update(keyMsg("enter"))

	// Still selected, and the second click was its own edge event
	// (opened the modal a second time).
	if v, _ := m.Bridge().State(card.SignalSelected); v != "c" {
		t.Fatalf("selected state = %q; want c", v)
	}
	if !m.showDetail {
		t.Fatal("second activation did not reopen detail")
	}
}

func TestMouseClickActivates(t *testing.T) {
	m := testModel(deck(), 20)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})

	// Second card in the grid: one card slot to the right, inside the
	// grid region below the header.
	x := card.DefaultWidth + cardGap + 2
	m.Update(tea.MouseMsg{X: x, Y: headerHeight + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if m.Cursor() != 1 {
		t.Fatalf("cursor after click = %d; want 1", m.Cursor())
	}
	// Default sort: c, a, b — second card is "a".
	if v, _ := m.Bridge().State(card.SignalSelected); v != "a" {
		t.Fatalf("selected state = %q; want a", v)
	}
}

func TestMouseClickOutsideGridIsIgnored(t *testing.T) {
	m := testModel(deck(), 20)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})

	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.Bridge().State(card.SignalSelected); ok {
		t.Fatal("header click selected a card")
	}
}

func TestSortCycleRemounts(t *testing.T) {
	m := testModel(deck(), 20)

	m.Update(keyMsg("o"))
	if m.SortMode() != SortNameAsc {
		t.Fatalf("sort mode = %v; want SortNameAsc", m.SortMode())
	}
	if m.sorted[0].ID != "a" {
		t.Errorf("first card after sort = %s; want a", m.sorted[0].ID)
	}
	if m.Document().Len() != 3 {
		t.Errorf("document holds %d nodes after remount; want 3", m.Document().Len())
	}
}

func TestDeckReload(t *testing.T) {
	m := testModel(deck(), 20)

	fresh := []model.Card{{ID: "z", Name: "Zulu"}}
	m.Update(deckLoadedMsg{cards: fresh})

	if m.Shown() != 1 {
		t.Fatalf("Shown after reload = %d; want 1", m.Shown())
	}
	if m.sorted[0].ID != "z" {
		t.Errorf("card after reload = %s; want z", m.sorted[0].ID)
	}
	if !strings.Contains(m.status, "reloaded") {
		t.Errorf("status = %q; want reload notice", m.status)
	}
}

func TestDeckReloadErrorKeepsDeck(t *testing.T) {
	m := testModel(deck(), 20)

	m.Update(deckLoadedMsg{err: errors.New("disk gone")})
	if m.Shown() != 3 {
		t.Fatalf("Shown after failed reload = %d; want 3", m.Shown())
	}
	if !strings.Contains(m.status, "reload failed") {
		t.Errorf("status = %q; want failure notice", m.status)
	}
}

func TestExportKeyUsesExporter(t *testing.T) {
	var exported []string
	m := New(Options{
		Cards:    deck(),
		Renderer: lipgloss.NewRenderer(io.Discard),
		Export: func(c model.Card) (string, error) {
			exported = append(exported, c.SelectionToken())
			return "/tmp/out.svg", nil
		},
	})

	m.Update(keyMsg("e"))
	if len(exported) != 1 || exported[0] != "c" {
		t.Fatalf("exported = %v; want [c]", exported)
	}
	if !strings.Contains(m.status, "/tmp/out.svg") {
		t.Errorf("status = %q; want export path", m.status)
	}
}

func TestViewContainsGridAndFooter(t *testing.T) {
	m := testModel(deck(), 2)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})

	view := m.View()
	for _, want := range []string{"carddeck", "showing 2 of 3", "Charlie", "recommended", "load more"} {
		if !strings.Contains(view, want) && !strings.Contains(strings.ToLower(view), strings.ToLower(want)) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel(deck(), 20)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("q command produced no message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("q produced %T; want tea.QuitMsg", msg)
	}
}
