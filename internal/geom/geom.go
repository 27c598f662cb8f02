package geom

import "math"

// Vec2 is a point in normalized screen space, origin top-left.
type Vec2 struct {
	X, Y float64
}

// Vec2 methods.
func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float64      { return math.Hypot(v.X, v.Y) }

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) XY() Vec2             { return Vec2{v.X, v.Y} }

// Rect is an axis aligned rectangle given by its top-left corner and size.
type Rect struct {
	Min  Vec2
	Size Vec2
}

// RectCentered builds a rect of the given size around c.
func RectCentered(c Vec2, w, h float64) Rect {
	return Rect{Min: Vec2{c.X - w/2, c.Y - h/2}, Size: Vec2{w, h}}
}

func (r Rect) Max() Vec2    { return r.Min.Add(r.Size) }
func (r Rect) Center() Vec2 { return r.Min.Add(r.Size.Scale(0.5)) }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X <= max.X && p.Y >= r.Min.Y && p.Y <= max.Y
}
