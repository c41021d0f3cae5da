package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/carddeck/internal/datasource"
	"github.com/vanderheijden86/carddeck/pkg/config"
	"github.com/vanderheijden86/carddeck/pkg/debug"
	"github.com/vanderheijden86/carddeck/pkg/export"
	"github.com/vanderheijden86/carddeck/pkg/model"
	"github.com/vanderheijden86/carddeck/pkg/ui"
	"github.com/vanderheijden86/carddeck/pkg/version"
	"github.com/vanderheijden86/carddeck/pkg/watcher"
)

func main() {
	deckPath := flag.String("deck", "", "Path to a deck file (json, yaml, or sqlite); default: discover in the current directory")
	sortFlag := flag.String("sort", "", "Initial sort order: recommended, name, name-desc, value, value-asc")
	exportDir := flag.String("export-dir", "", "Export a snapshot of every card into this directory and exit")
	exportFormat := flag.String("export-format", "svg", "Snapshot format for --export-dir: svg or png")
	pollFlag := flag.Bool("poll", false, "Use polling instead of filesystem events for live reload")
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("Usage: deck [options]")
		fmt.Println("\nA TUI viewer for metric card decks.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("deck %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		cfg = config.DefaultConfig()
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	path, err := resolveDeckPath(*deckPath, cfg, interactive && *exportDir == "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding a deck: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point --deck at a deck file, or run from a directory containing one.")
		os.Exit(1)
	}

	cards, err := datasource.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading deck %s: %v\n", path, err)
		os.Exit(1)
	}
	debug.Log("loaded %d cards from %s", len(cards), path)
	applyPalette(cards, cfg)

	// Batch export needs no terminal.
	if *exportDir != "" {
		n, err := exportDeck(*exportDir, *exportFormat, cards)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d cards to %s\n", n, *exportDir)
		os.Exit(0)
	}

	if !interactive {
		fmt.Fprintln(os.Stderr, "deck needs a terminal (use --export-dir for headless snapshots)")
		os.Exit(1)
	}

	w, err := watcher.New(path, watcher.WithForcePoll(*pollFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", path, err)
		os.Exit(1)
	}
	defer w.Stop()
	debug.Log("watching %s (polling=%v)", w.Path(), w.IsPolling())

	sortMode := ui.ParseSortMode(*sortFlag)
	if *sortFlag == "" {
		sortMode = ui.ParseSortMode(cfg.UI.DefaultSort)
	}

	m := ui.New(ui.Options{
		Cards:        cards,
		CardsPerLoad: cfg.UI.CardsPerLoad,
		Sort:         sortMode,
		Reload:       func() ([]model.Card, error) { return datasource.Load(path) },
		Watch:        w.Changed(),
		Export: func(c model.Card) (string, error) {
			return exportCard(config.StateDir(), *exportFormat, c)
		},
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running deck viewer: %v\n", err)
		os.Exit(1)
	}
}

// resolveDeckPath picks the deck file to load. An explicit flag wins,
// then the configured path, then discovery in the working directory.
// When discovery finds several valid sources and a terminal is
// attached, the user picks one.
func resolveDeckPath(flagPath string, cfg config.Config, interactive bool) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if cfg.DeckPath != "" {
		return cfg.DeckPath, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sources, err := datasource.Discover(ctx, ".")
	if err != nil {
		return "", err
	}
	if len(sources) == 1 || !interactive {
		return sources[0].Path, nil
	}
	return pickSource(sources)
}

func pickSource(sources []datasource.Source) (string, error) {
	opts := make([]huh.Option[string], len(sources))
	for i, s := range sources {
		label := fmt.Sprintf("%s (%s, %d cards)", s.Path, s.Type, s.CardCount)
		opts[i] = huh.NewOption(label, s.Path)
	}

	choice := sources[0].Path
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Several decks found; which one?").
			Options(opts...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("pick deck: %w", err)
	}
	return choice, nil
}

// applyPalette fills in missing card colors from the configured
// palette (keyed by card name), falling back to the configured default
// color. Cards that already carry a color keep it.
func applyPalette(cards []model.Card, cfg config.Config) {
	for i := range cards {
		if cards[i].Color != "" {
			continue
		}
		if c, ok := cfg.Palette[cards[i].Name]; ok {
			cards[i].Color = c
		} else if cfg.UI.DefaultColor != "" {
			cards[i].Color = cfg.UI.DefaultColor
		}
	}
}

// exportDeck writes a snapshot per card and returns how many were
// written.
func exportDeck(dir, format string, cards []model.Card) (int, error) {
	for _, c := range cards {
		if _, err := exportCard(dir, format, c); err != nil {
			return 0, err
		}
	}
	return len(cards), nil
}

func exportCard(dir, format string, c model.Card) (string, error) {
	switch format {
	case "svg":
		return export.CardSVG(dir, c)
	case "png":
		return export.CardPNG(dir, c)
	default:
		return "", fmt.Errorf("unknown export format %q (want svg or png)", format)
	}
}

func runTUIProgram(m tea.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
