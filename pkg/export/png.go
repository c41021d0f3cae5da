package export

import (
	"fmt"
	"os"
	"path/filepath"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/carddeck/pkg/card"
	"github.com/vanderheijden86/carddeck/pkg/format"
	"github.com/vanderheijden86/carddeck/pkg/metrics"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// CardPNG writes a raster snapshot of one card into dir and returns
// the output path. The bitmap uses a fixed bitmap face, so it is meant
// for quick sharing rather than print.
func CardPNG(dir string, c model.Card) (string, error) {
	defer metrics.Timer(metrics.SnapshotExport)()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fileName(c, "png"))

	base := card.BaseColor(c.Color)
	tint := card.Pastel(base)
	height := headerHeight + 2*bodyPadY + rowHeight*len(c.Metrics)

	dc := gg.NewContext(cardWidth, height)
	dc.SetFontFace(basicfont.Face7x13)

	// Header region.
	dc.SetHexColor(base)
	dc.DrawRectangle(0, 0, cardWidth, headerHeight)
	dc.Fill()
	dc.SetHexColor("#FFFFFF")
	dc.DrawStringAnchored(c.Name, padX, headerHeight/2, 0, 0.35)
	if c.Recommended {
		dc.SetHexColor("#FACC15")
		dc.DrawStringAnchored("*", cardWidth-padX, headerHeight/2, 1, 0.35)
	}

	// Body region.
	dc.SetHexColor(tint)
	dc.DrawRectangle(0, headerHeight, cardWidth, float64(height-headerHeight))
	dc.Fill()
	y := float64(headerHeight + bodyPadY)
	for i, m := range c.Metrics {
		mid := y + rowHeight/2
		dc.SetHexColor("#374151")
		dc.DrawStringAnchored(m.Label, padX, mid, 0, 0.35)
		dc.SetHexColor("#111827")
		dc.DrawStringAnchored(format.Render(m.Value, format.ParseKind(m.Format)), cardWidth-padX, mid, 1, 0.35)
		if i < len(c.Metrics)-1 {
			dc.SetHexColor("#D0D0D0")
			dc.DrawLine(padX, y+rowHeight, cardWidth-padX, y+rowHeight)
			dc.Stroke()
		}
		y += rowHeight
	}

	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
