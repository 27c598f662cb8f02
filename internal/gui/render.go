package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/render"
)

// view is the letterboxed square the scene's unit square maps onto.
type view struct {
	x, y, side float64
}

// fit centers the largest square in a w by h area starting at top.
func fit(w, h, top int) view {
	side := float64(max(min(w, h), 1))
	return view{
		x:    (float64(w) - side) / 2,
		y:    float64(top) + (float64(h)-side)/2,
		side: side,
	}
}

func (v view) toScreen(p geom.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.x+p.X*v.side), float32(v.y+p.Y*v.side))
}

// toScene maps a window position into the scene, false outside the square.
func (v view) toScene(x, y float64) (geom.Vec2, bool) {
	p := geom.Vec2{X: (x - v.x) / v.side, Y: (y - v.y) / v.side}
	return p, p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

func (v view) rect(r geom.Rect) rl.Rectangle {
	at := v.toScreen(r.Min)
	return rl.NewRectangle(at.X, at.Y, float32(r.Size.X*v.side), float32(r.Size.Y*v.side))
}

func col(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

// paint draws s into v. Multiply layers go through raylib's multiplied
// blend mode so complementary anaglyph colors cancel where they overlap.
func paint(s *render.Scene, v view) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(v.x), float32(v.y), float32(v.side), float32(v.side)), col(s.Background))

	for _, l := range s.Layers {
		if l.Blend == render.BlendMultiply {
			rl.BeginBlendMode(rl.BlendMultiplied)
		}
		for _, r := range l.Rects {
			if r.Filled {
				rl.DrawRectangleRec(v.rect(r.Bounds), col(r.Color))
			} else {
				rl.DrawRectangleLinesEx(v.rect(r.Bounds), 2, col(r.Color))
			}
		}
		for _, c := range l.Circles {
			center := v.toScreen(c.Center)
			radius := float32(c.Radius * v.side)
			if c.Filled {
				rl.DrawCircleV(center, radius, col(c.Color))
			} else {
				rl.DrawRing(center, radius-1, radius+1, 0, 360, 48, col(c.Color))
			}
		}
		for _, ln := range l.Lines {
			rl.DrawLineEx(v.toScreen(ln.From), v.toScreen(ln.To), 2, col(ln.Color))
		}
		if l.Blend == render.BlendMultiply {
			rl.EndBlendMode()
		}
	}

	for _, t := range s.Texts {
		size := int32(max(t.Size*v.side, 10))
		p := v.toScreen(t.Pos)
		w := rl.MeasureText(t.Body, size)
		rl.DrawText(t.Body, int32(p.X)-w/2, int32(p.Y)-size/2, size, col(t.Color))
	}
}
