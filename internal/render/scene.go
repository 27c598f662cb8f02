// Package render describes what an exercise wants on screen. Exercises fill
// a [Scene] every frame in normalized coordinates (0..1 on both axes, origin
// top-left); the terminal and window hosts turn it into pixels.
package render

import (
	"image/color"

	"github.com/san-kum/perhabs/internal/geom"
)

type Blend int

const (
	// BlendOver paints on top.
	BlendOver Blend = iota
	// BlendMultiply multiplies with what is already there, so a red and a
	// cyan layer combine to black where they overlap.
	BlendMultiply
)

type Rect struct {
	Bounds geom.Rect
	Color  color.RGBA
	Filled bool
}

type Circle struct {
	Center geom.Vec2
	Radius float64
	Color  color.RGBA
	Filled bool
}

type Line struct {
	From, To geom.Vec2
	Color    color.RGBA
}

type Text struct {
	Pos   geom.Vec2
	Body  string
	Size  float64
	Color color.RGBA
}

type Layer struct {
	Blend   Blend
	Rects   []Rect
	Circles []Circle
	Lines   []Line
}

type Scene struct {
	Background color.RGBA
	Layers     []Layer
	Texts      []Text
	// Status is a one line summary such as remaining time and reps.
	Status string
}

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	Green = color.RGBA{R: 40, G: 200, B: 80, A: 255}
	Red   = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	Blue  = color.RGBA{R: 60, G: 120, B: 230, A: 255}
)

func NewScene(bg color.RGBA) *Scene {
	return &Scene{Background: bg}
}

// Layer appends a new layer and returns it for filling. The pointer is only
// valid until the next call to Layer.
func (s *Scene) Layer(b Blend) *Layer {
	s.Layers = append(s.Layers, Layer{Blend: b})
	return &s.Layers[len(s.Layers)-1]
}

func (s *Scene) Text(pos geom.Vec2, size float64, c color.RGBA, body string) {
	s.Texts = append(s.Texts, Text{Pos: pos, Body: body, Size: size, Color: c})
}

func (l *Layer) Rect(r geom.Rect, c color.RGBA, filled bool) {
	l.Rects = append(l.Rects, Rect{Bounds: r, Color: c, Filled: filled})
}

func (l *Layer) Circle(center geom.Vec2, radius float64, c color.RGBA, filled bool) {
	l.Circles = append(l.Circles, Circle{Center: center, Radius: radius, Color: c, Filled: filled})
}

func (l *Layer) Line(from, to geom.Vec2, c color.RGBA) {
	l.Lines = append(l.Lines, Line{From: from, To: to, Color: c})
}

// Reset empties the scene, keeping allocated capacity.
func (s *Scene) Reset(bg color.RGBA) {
	s.Background = bg
	s.Layers = s.Layers[:0]
	s.Texts = s.Texts[:0]
	s.Status = ""
}

// Multiply combines two colors channel by channel.
func Multiply(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(a.R) * uint16(b.R) / 255),
		G: uint8(uint16(a.G) * uint16(b.G) / 255),
		B: uint8(uint16(a.B) * uint16(b.B) / 255),
		A: 255,
	}
}
