package grid

import (
	"math"
	"math/rand"

	"github.com/san-kum/perhabs/internal/geom"
)

// Cell addresses a grid position by row and column.
type Cell struct {
	Row, Col int
}

// Mapper converts between grid cells and normalized coordinates. Positions
// are computed once per grid size and cached for the lifetime of the mapper.
// A Mapper is owned by a single exercise and is not safe for concurrent use.
type Mapper struct {
	cache map[int][][]geom.Vec2
}

func NewMapper() *Mapper {
	return &Mapper{cache: make(map[int][][]geom.Vec2)}
}

// Positions returns the size x size interior points of the unit square in
// row-major order. The boundary at 0 and 1 is never included.
func (m *Mapper) Positions(size int) [][]geom.Vec2 {
	if size < 1 {
		return nil
	}
	if pos, ok := m.cache[size]; ok {
		return pos
	}
	pos := generate(size)
	m.cache[size] = pos
	return pos
}

func generate(size int) [][]geom.Vec2 {
	steps := float64(size + 1)
	out := make([][]geom.Vec2, 0, size)
	for i := 0; i <= size+1; i++ {
		y := float64(i) / steps
		if math.Mod(y, 1) == 0 {
			continue
		}
		row := make([]geom.Vec2, 0, size)
		for j := 0; j <= size+1; j++ {
			x := float64(j) / steps
			if math.Mod(x, 1) == 0 {
				continue
			}
			row = append(row, geom.Vec2{X: x, Y: y})
		}
		out = append(out, row)
	}
	return out
}

// CellSize is the spacing between neighbouring positions.
func (m *Mapper) CellSize(size int) float64 {
	if size < 1 {
		return 0
	}
	return 1 / float64(size+1)
}

func (m *Mapper) Position(size int, c Cell) (geom.Vec2, bool) {
	pos := m.Positions(size)
	if c.Row < 0 || c.Row >= len(pos) || c.Col < 0 || c.Col >= len(pos[c.Row]) {
		return geom.Vec2{}, false
	}
	return pos[c.Row][c.Col], true
}

// MatchCoords returns the first position, in row-major order, whose box of
// half-width tol contains p. Overlapping boxes resolve to the earliest
// position rather than the nearest one.
func (m *Mapper) MatchCoords(size int, p geom.Vec2, tol float64) (geom.Vec2, bool) {
	c, ok := m.Cell(size, p, tol)
	if !ok {
		return geom.Vec2{}, false
	}
	return m.cache[size][c.Row][c.Col], true
}

// Cell is MatchCoords returning the grid address instead of the point.
func (m *Mapper) Cell(size int, p geom.Vec2, tol float64) (Cell, bool) {
	for i, row := range m.Positions(size) {
		for j, q := range row {
			if math.Abs(q.X-p.X) <= tol && math.Abs(q.Y-p.Y) <= tol {
				return Cell{Row: i, Col: j}, true
			}
		}
	}
	return Cell{}, false
}

// RandomCells draws count distinct cells uniformly, in random order.
func (m *Mapper) RandomCells(size, count int, rng *rand.Rand) []Cell {
	total := size * size
	if size < 1 || count <= 0 {
		return nil
	}
	if count > total {
		count = total
	}
	out := make([]Cell, 0, count)
	for _, idx := range rng.Perm(total)[:count] {
		out = append(out, Cell{Row: idx / size, Col: idx % size})
	}
	return out
}

// ToScreen maps a normalized point into the bounds rectangle.
func ToScreen(p geom.Vec2, bounds geom.Rect) geom.Vec2 {
	return geom.Vec2{
		X: bounds.Min.X + p.X*bounds.Size.X,
		Y: bounds.Min.Y + p.Y*bounds.Size.Y,
	}
}

// FromScreen is the inverse of ToScreen. A degenerate bounds maps to the origin.
func FromScreen(p geom.Vec2, bounds geom.Rect) geom.Vec2 {
	if bounds.Size.X == 0 || bounds.Size.Y == 0 {
		return geom.Vec2{}
	}
	return geom.Vec2{
		X: (p.X - bounds.Min.X) / bounds.Size.X,
		Y: (p.Y - bounds.Min.Y) / bounds.Size.Y,
	}
}
