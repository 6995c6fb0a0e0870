package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/wsbar/internal/view"
)

// Style controls the bar image layout.
type Style struct {
	IconSize   int
	Padding    int
	Gap        int
	MinWidth   int
	Background color.Color
	Foreground color.Color
	Focus      color.Color
	Urgent     color.Color
	Floating   color.Color
}

// DefaultStyle is a dark bar with 16px icons.
func DefaultStyle() Style {
	return Style{
		IconSize:   16,
		Padding:    4,
		Gap:        6,
		MinWidth:   320,
		Background: color.RGBA{R: 0x1d, G: 0x1f, B: 0x21, A: 0xff},
		Foreground: color.RGBA{R: 0xc5, G: 0xc8, B: 0xc6, A: 0xff},
		Focus:      color.RGBA{R: 0x37, G: 0x3b, B: 0x41, A: 0xff},
		Urgent:     color.RGBA{R: 0xcc, G: 0x66, B: 0x66, A: 0xff},
		Floating:   color.RGBA{R: 0xf0, G: 0xc6, B: 0x74, A: 0xff},
	}
}

var face = basicfont.Face7x13

// rowHeight is the height of one output row.
func (s Style) rowHeight() int {
	h := face.Metrics().Height.Ceil()
	if s.IconSize > h {
		h = s.IconSize
	}
	return h + 2*s.Padding
}

// Draw renders one row per output. Each window is drawn as its icon,
// followed by its title when the title node is visible.
func Draw(snap Snapshot, s Style) *image.RGBA {
	rows := len(snap.Outputs)
	if rows == 0 {
		rows = 1
	}
	width := s.MinWidth
	for _, out := range snap.Outputs {
		if w := s.rowWidth(out); w > width {
			width = w
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, rows*s.rowHeight()))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)

	for i, out := range snap.Outputs {
		s.drawRow(img, out, i*s.rowHeight())
	}
	return img
}

// WritePNG encodes the rendered snapshot as PNG.
func WritePNG(w io.Writer, snap Snapshot, s Style) error {
	if err := png.Encode(w, Draw(snap, s)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func textWidth(text string) int {
	return font.MeasureString(face, text).Ceil()
}

func (s Style) windowWidth(n view.NodeState) int {
	w := s.IconSize
	if n.Title != nil && n.Title.Visible && n.Title.Label != "" {
		w += s.Padding + textWidth(n.Title.Label)
	}
	return w + 2*s.Padding
}

func (s Style) rowWidth(out OutputSnapshot) int {
	w := s.Padding + textWidth(out.Name) + s.Gap + textWidth(out.Indicator.Label)
	for _, n := range out.Windows {
		if n.Visible {
			w += s.Gap + s.windowWidth(n)
		}
	}
	return w + s.Padding
}

func (s Style) drawRow(img *image.RGBA, out OutputSnapshot, top int) {
	h := s.rowHeight()
	x := s.Padding
	x = drawText(img, out.Name, x, top, h, s.Foreground) + s.Gap
	x = drawText(img, out.Indicator.Label, x, top, h, s.Floating)

	for _, n := range out.Windows {
		if !n.Visible {
			continue
		}
		x += s.Gap
		w := s.windowWidth(n)
		cell := image.Rect(x, top, x+w, top+h)
		if n.Markers[view.MarkerFocus] {
			draw.Draw(img, cell, image.NewUniform(s.Focus), image.Point{}, draw.Src)
		}
		if n.Markers[view.MarkerUrgent] {
			drawRectangle(img, cell.Min.X, cell.Min.Y, cell.Max.X, cell.Max.Y, s.Urgent)
		}
		if n.Markers[view.MarkerFloating] {
			for px := cell.Min.X; px < cell.Max.X; px++ {
				img.Set(px, cell.Max.Y-2, s.Floating)
			}
		}

		ix := x + s.Padding
		iy := top + (h-s.IconSize)/2
		iconRect := image.Rect(ix, iy, ix+s.IconSize, iy+s.IconSize)
		if n.Icon != nil {
			xdraw.CatmullRom.Scale(img, iconRect, n.Icon, n.Icon.Bounds(), xdraw.Over, nil)
		} else {
			drawRectangle(img, iconRect.Min.X, iconRect.Min.Y, iconRect.Max.X, iconRect.Max.Y, s.Foreground)
		}
		if n.Title != nil && n.Title.Visible && n.Title.Label != "" {
			drawText(img, n.Title.Label, iconRect.Max.X+s.Padding, top, h, s.Foreground)
		}
		x += w
	}
}

// drawText draws text vertically centred in the row starting at x and
// returns the x just past it.
func drawText(img *image.RGBA, text string, x, top, h int, c color.Color) int {
	m := face.Metrics()
	baseline := top + (h-m.Height.Ceil())/2 + m.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
	return x + textWidth(text)
}

func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a one pixel outline clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	x1, y1 = max(x1, bounds.Min.X), max(y1, bounds.Min.Y)
	x2, y2 = min(x2, bounds.Max.X), min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		if isWithinBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if isWithinBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if isWithinBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if isWithinBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}
