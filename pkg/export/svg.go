// Package export renders card snapshots to image files, mirroring the
// on-screen card: colored header with title and badge, pastel body
// with one row per metric and a divider between rows.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/carddeck/pkg/card"
	"github.com/vanderheijden86/carddeck/pkg/format"
	"github.com/vanderheijden86/carddeck/pkg/metrics"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// Pixel geometry, matching the fixed-width card.
const (
	cardWidth    = 375
	headerHeight = 64
	rowHeight    = 32
	padX         = 16
	bodyPadY     = 10
)

// CardSVG writes an SVG snapshot of one card into dir and returns the
// output path.
func CardSVG(dir string, c model.Card) (string, error) {
	defer metrics.Timer(metrics.SnapshotExport)()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fileName(c, "svg"))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	base := card.BaseColor(c.Color)
	tint := card.Pastel(base)
	height := headerHeight + 2*bodyPadY + rowHeight*len(c.Metrics)

	canvas := svg.New(f)
	canvas.Start(cardWidth, height)

	// Header region.
	canvas.Rect(0, 0, cardWidth, headerHeight, "fill:"+base)
	canvas.Text(padX, headerHeight/2+6, c.Name,
		"fill:#FFFFFF;font-weight:700;font-size:18px;font-family:serif")
	badge := card.BadgeOutline
	badgeColor := "rgba(255,255,255,0.5)"
	if c.Recommended {
		badge = card.BadgeFilled
		badgeColor = "#FACC15"
	}
	canvas.Text(cardWidth-padX-20, headerHeight/2+8, badge,
		"fill:"+badgeColor+";font-size:25px")

	// Body region.
	canvas.Rect(0, headerHeight, cardWidth, height-headerHeight, "fill:"+tint)
	y := headerHeight + bodyPadY
	for i, m := range c.Metrics {
		baseline := y + rowHeight/2 + 5
		canvas.Text(padX, baseline, m.Label,
			"fill:#374151;font-size:14px;font-family:sans-serif")
		canvas.Text(cardWidth-padX, baseline, format.Render(m.Value, format.ParseKind(m.Format)),
			"fill:#111827;font-size:16px;font-family:sans-serif;text-anchor:end")
		if i < len(c.Metrics)-1 {
			canvas.Line(padX, y+rowHeight, cardWidth-padX, y+rowHeight,
				"stroke:rgba(0,0,0,.08);stroke-width:1")
		}
		y += rowHeight
	}

	canvas.End()
	return path, nil
}

// fileName derives a safe snapshot file name from the card's selection
// token.
func fileName(c model.Card, ext string) string {
	token := c.SelectionToken()
	if token == "" {
		token = "card"
	}
	var sb strings.Builder
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return fmt.Sprintf("card-%s.%s", sb.String(), ext)
}
