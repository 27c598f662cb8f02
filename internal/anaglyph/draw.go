package anaglyph

import (
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/render"
)

// Draw adds one multiply blended layer per eye, left first, so that the red
// and cyan patterns combine the way printed anaglyphs do. area is the square
// the grid is fitted into; shifted pixels may spill past its edges.
func (g *Generator) Draw(s *render.Scene, area geom.Rect) {
	cell := area.Size.X / float64(g.GridSize())
	for _, eye := range []Eye{LeftEye, RightEye} {
		layer := s.Layer(render.BlendMultiply)
		c := g.Color(eye)
		for _, fc := range g.DrawData(eye) {
			at := geom.Vec2{X: area.Min.X + float64(fc.Col)*cell, Y: area.Min.Y + float64(fc.Row)*cell}
			layer.Rect(geom.Rect{Min: at, Size: geom.Vec2{X: cell, Y: cell}}, c, true)
		}
	}
}
