package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/render"
)

// Viewport places the unit square of a scene inside a terminal area. Each
// terminal cell holds two vertically stacked pixels drawn with a half block,
// which makes pixels roughly square.
type Viewport struct {
	Cols, Rows int
	// Side is the square's edge in pixels, OffX and OffY its top-left corner.
	Side, OffX, OffY int
}

func NewViewport(cols, rows int) Viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	side := min(cols, rows*2)
	return Viewport{
		Cols: cols,
		Rows: rows,
		Side: side,
		OffX: (cols - side) / 2,
		OffY: (rows*2 - side) / 2,
	}
}

// ToScene maps a terminal cell to scene coordinates. Cells outside the
// letterboxed square report false.
func (v Viewport) ToScene(col, row int) (geom.Vec2, bool) {
	px := float64(col-v.OffX) + 0.5
	py := float64(row*2-v.OffY) + 1
	p := geom.Vec2{X: px / float64(v.Side), Y: py / float64(v.Side)}
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return p, false
	}
	return p, true
}

func (v Viewport) toPixel(p geom.Vec2) (int, int) {
	return v.OffX + int(math.Floor(p.X*float64(v.Side))), v.OffY + int(math.Floor(p.Y*float64(v.Side)))
}

// Raster is a pixel buffer a scene is painted into.
type Raster struct {
	view   Viewport
	w, h   int
	pix    []color.RGBA
	layer  []color.RGBA
	set    []bool
	glyphs map[[2]int]glyph
}

type glyph struct {
	r rune
	c color.RGBA
}

func NewRaster(v Viewport) *Raster {
	w, h := v.Cols, v.Rows*2
	return &Raster{
		view:   v,
		w:      w,
		h:      h,
		pix:    make([]color.RGBA, w*h),
		layer:  make([]color.RGBA, w*h),
		set:    make([]bool, w*h),
		glyphs: make(map[[2]int]glyph),
	}
}

// At returns the pixel at x, y.
func (r *Raster) At(x, y int) color.RGBA { return r.pix[y*r.w+x] }

// Paint fills the raster from s. Each layer is drawn on its own and then
// composited, so shapes inside a multiply layer do not darken each other.
func (r *Raster) Paint(s *render.Scene) {
	for i := range r.pix {
		r.pix[i] = s.Background
	}
	clear(r.glyphs)
	for _, l := range s.Layers {
		clear(r.set)
		for _, rc := range l.Rects {
			r.rect(rc)
		}
		for _, c := range l.Circles {
			r.circle(c)
		}
		for _, ln := range l.Lines {
			r.line(ln)
		}
		for i, ok := range r.set {
			if !ok {
				continue
			}
			if l.Blend == render.BlendMultiply {
				r.pix[i] = render.Multiply(r.pix[i], r.layer[i])
			} else {
				r.pix[i] = r.layer[i]
			}
		}
	}
	for _, t := range s.Texts {
		r.text(t)
	}
}

func (r *Raster) plot(x, y int, c color.RGBA) {
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		return
	}
	i := y*r.w + x
	r.layer[i], r.set[i] = c, true
}

func (r *Raster) rect(rc render.Rect) {
	x0, y0 := r.view.toPixel(rc.Bounds.Min)
	x1, y1 := r.view.toPixel(rc.Bounds.Max())
	x1, y1 = max(x1-1, x0), max(y1-1, y0)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if rc.Filled || x == x0 || x == x1 || y == y0 || y == y1 {
				r.plot(x, y, rc.Color)
			}
		}
	}
}

func (r *Raster) circle(c render.Circle) {
	cx, cy := r.view.toPixel(c.Center)
	rad := c.Radius * float64(r.view.Side)
	n := int(math.Ceil(rad)) + 1
	for y := cy - n; y <= cy+n; y++ {
		for x := cx - n; x <= cx+n; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if (c.Filled && d <= rad) || (!c.Filled && math.Abs(d-rad) <= 0.5) {
				r.plot(x, y, c.Color)
			}
		}
	}
}

func (r *Raster) line(ln render.Line) {
	x1, y1 := r.view.toPixel(ln.From)
	x2, y2 := r.view.toPixel(ln.To)
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.plot(x1, y1, ln.Color)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// text centers t on its position. Sizes are ignored, a terminal has one.
func (r *Raster) text(t render.Text) {
	x, y := r.view.toPixel(t.Pos)
	row := y / 2
	runes := []rune(t.Body)
	col := x - len(runes)/2
	for i, ch := range runes {
		if c := col + i; c >= 0 && c < r.w && row >= 0 && row < r.h/2 {
			r.glyphs[[2]int{c, row}] = glyph{r: ch, c: t.Color}
		}
	}
}

// String renders the raster with half blocks, top pixel as foreground and
// bottom pixel as background.
func (r *Raster) String() string {
	var b strings.Builder
	for row := 0; row < r.h/2; row++ {
		for col := 0; col < r.w; col++ {
			top, bottom := r.At(col, row*2), r.At(col, row*2+1)
			if g, ok := r.glyphs[[2]int{col, row}]; ok {
				b.WriteString(lipgloss.NewStyle().Foreground(hex(g.c)).Background(hex(top)).Render(string(g.r)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀"))
		}
		if row < r.h/2-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
