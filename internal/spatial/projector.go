package spatial

import (
	"math"

	"github.com/san-kum/perhabs/internal/geom"
)

// Projector maps normalized 3D positions onto the screen plane with a single
// vanishing point. Depth z=0 lies on the screen plane; z=1 is the vanishing
// point itself.
type Projector struct {
	VanishingPoint geom.Vec2
}

// Project scales the offset from the vanishing point by 1-z.
func (p Projector) Project(pos geom.Vec3) geom.Vec2 {
	depth := 1 - pos.Z
	return geom.Vec2{
		X: p.VanishingPoint.X + (pos.X-p.VanishingPoint.X)*depth,
		Y: p.VanishingPoint.Y + (pos.Y-p.VanishingPoint.Y)*depth,
	}
}

// Project with the vanishing point at the origin.
func Project(pos geom.Vec3) geom.Vec2 {
	return Projector{}.Project(pos)
}

type SoundSource struct {
	Name string
	Pos  geom.Vec3
	// Rect is the on-screen hit box from the most recent Layout.
	Rect *geom.Rect
}

// minSourceSize keeps far sources clickable.
const minSourceSize = 0.02

// Layout recomputes every source rectangle from the current projection.
// It must run each frame before MatchClick.
func (p Projector) Layout(sources []SoundSource, size float64) {
	for i := range sources {
		s := math.Max(size*(1-sources[i].Pos.Z), minSourceSize)
		r := geom.RectCentered(p.Project(sources[i].Pos), s, s)
		sources[i].Rect = &r
	}
}

// MatchClick returns the index of the first source whose rectangle contains
// pt. Sources without a rectangle are skipped.
func MatchClick(sources []SoundSource, pt geom.Vec2) (int, bool) {
	for i, s := range sources {
		if s.Rect != nil && s.Rect.Contains(pt) {
			return i, true
		}
	}
	return -1, false
}

var roomLayout = []struct {
	name string
	x, y float64
}{
	{"left", 0.15, 0.5},
	{"right", 0.85, 0.5},
	{"top", 0.5, 0.15},
	{"bottom", 0.5, 0.85},
	{"top left", 0.15, 0.15},
	{"top right", 0.85, 0.15},
	{"bottom left", 0.15, 0.85},
	{"bottom right", 0.85, 0.85},
}

// Room places n sources around the edges of the unit square, alternating
// between the screen plane and the given depth.
func Room(n int, depth float64) []SoundSource {
	out := make([]SoundSource, 0, n)
	for i := 0; i < n; i++ {
		c := roomLayout[i%len(roomLayout)]
		z, prefix := 0.0, "near"
		if (i+i/len(roomLayout))%2 == 1 {
			z, prefix = depth, "far"
		}
		out = append(out, SoundSource{
			Name: prefix + " " + c.name,
			Pos:  geom.Vec3{X: c.x, Y: c.y, Z: z},
		})
	}
	return out
}
