package anaglyph

import "math/rand"

// Matrix is a square binary matrix stored row-major.
type Matrix struct {
	Size  int
	cells []bool
}

func NewMatrix(size int) Matrix {
	if size < 0 {
		size = 0
	}
	return Matrix{Size: size, cells: make([]bool, size*size)}
}

func (m Matrix) in(r, c int) bool { return r >= 0 && r < m.Size && c >= 0 && c < m.Size }

// At is false outside the matrix.
func (m Matrix) At(r, c int) bool {
	if !m.in(r, c) {
		return false
	}
	return m.cells[r*m.Size+c]
}

// Set ignores writes outside the matrix.
func (m Matrix) Set(r, c int, v bool) {
	if m.in(r, c) {
		m.cells[r*m.Size+c] = v
	}
}

func (m Matrix) Count() int {
	n := 0
	for _, v := range m.cells {
		if v {
			n++
		}
	}
	return n
}

func (m Matrix) Clone() Matrix {
	c := Matrix{Size: m.Size, cells: make([]bool, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// fill samples every cell as Bernoulli(p).
func (m Matrix) fill(rng *rand.Rand, p float64) {
	for i := range m.cells {
		m.cells[i] = rng.Float64() < p
	}
}
