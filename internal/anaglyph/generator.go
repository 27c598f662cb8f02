package anaglyph

import (
	"image/color"
	"log/slog"
	"math"
	"math/rand"
)

const minFocalSize = 2

type Position int

const (
	Up Position = iota
	Down
	Left
	Right
)

var Positions = []Position{Up, Down, Left, Right}

func (p Position) String() string {
	switch p {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Anchor is the diamond center in normalized grid coordinates.
func (p Position) Anchor() (x, y float64) {
	switch p {
	case Up:
		return 0.5, 0.25
	case Down:
		return 0.5, 0.75
	case Left:
		return 0.25, 0.5
	default:
		return 0.75, 0.5
	}
}

type Eye int

const (
	LeftEye Eye = iota
	RightEye
)

// sign is the direction an eye shifts its layers in.
func (e Eye) sign() int {
	if e == RightEye {
		return -1
	}
	return 1
}

func (e Eye) String() string {
	if e == RightEye {
		return "right"
	}
	return "left"
}

type Layer int

const (
	Background Layer = iota
	Focal
)

// FilledCell is one lit pixel in grid coordinates after the per-eye shift.
// Col may fall outside the grid.
type FilledCell struct {
	Row, Col int
	Layer    Layer
}

type Config struct {
	GridSize                int     `yaml:"grid_size" validate:"min=2"`
	FocalSizeRel            float64 `yaml:"focal_size_rel" validate:"gt=0,lte=0.5"`
	CircleSize              float64 `yaml:"circle_size" validate:"gt=0"`
	OffsetMin               float64 `yaml:"offset_min" validate:"gte=0"`
	OffsetMax               float64 `yaml:"offset_max" validate:"gtefield=OffsetMin"`
	OffsetTargetVarianceMin float64 `yaml:"offset_target_variance_min" validate:"gte=0"`
	OffsetTargetVarianceMax float64 `yaml:"offset_target_variance_max" validate:"gtefield=OffsetTargetVarianceMin"`
	SharedBackground        bool    `yaml:"shared_background"`
}

func DefaultConfig() Config {
	return Config{
		GridSize:                100,
		FocalSizeRel:            0.35,
		CircleSize:              300,
		OffsetMin:               3,
		OffsetMax:               12,
		OffsetTargetVarianceMin: 3,
		OffsetTargetVarianceMax: 9,
	}
}

var (
	DefaultLeftColor  = color.RGBA{R: 255, A: 255}
	DefaultRightColor = color.RGBA{G: 255, B: 255, A: 255}
)

type Generator struct {
	cfg    Config
	rng    *rand.Rand
	log    *slog.Logger
	colors [2]color.RGBA

	BackgroundLeft   Matrix
	BackgroundRight  Matrix
	Focal            Matrix
	FocalMask        Matrix
	BackgroundOffset int
	FocalOffset      int
	FocalPosition    Position

	profile []int
}

func New(cfg Config, rng *rand.Rand, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		cfg:    cfg,
		rng:    rng,
		log:    log,
		colors: [2]color.RGBA{DefaultLeftColor, DefaultRightColor},
	}
}

func (g *Generator) SetColors(left, right color.RGBA) { g.colors = [2]color.RGBA{left, right} }
func (g *Generator) Color(e Eye) color.RGBA           { return g.colors[e] }
func (g *Generator) Config() Config                   { return g.cfg }

// GridSize is the configured size clamped to a drawable minimum.
func (g *Generator) GridSize() int {
	if g.cfg.GridSize < minFocalSize {
		return minFocalSize
	}
	return g.cfg.GridSize
}

// PixelSize is the on-screen size of one grid pixel in config units.
func (g *Generator) PixelSize() float64 {
	if g.cfg.CircleSize <= 0 {
		return 1
	}
	return g.cfg.CircleSize / float64(g.GridSize())
}

// Disparity is the focal offset relative to the background offset.
func (g *Generator) Disparity() int { return g.FocalOffset - g.BackgroundOffset }

// Profile returns the diamond row widths of the current stimulus.
func (g *Generator) Profile() []int { return g.profile }

// Initialize regenerates every pattern, picks a new focal position and new
// offsets, and clears the background under the focal region.
func (g *Generator) Initialize() {
	size := g.GridSize()
	if size != g.cfg.GridSize {
		g.log.Warn("anaglyph grid size clamped", "configured", g.cfg.GridSize, "used", size)
	}

	g.BackgroundLeft = NewMatrix(size)
	g.BackgroundLeft.fill(g.rng, 0.5)
	if g.cfg.SharedBackground {
		g.BackgroundRight = g.BackgroundLeft.Clone()
	} else {
		g.BackgroundRight = NewMatrix(size)
		g.BackgroundRight.fill(g.rng, 0.5)
	}
	g.Focal = NewMatrix(size)
	g.Focal.fill(g.rng, 0.5)

	g.FocalPosition = Positions[g.rng.Intn(len(Positions))]
	g.sampleOffsets()

	g.profile = DiamondProfile(g.focalSize(size))
	g.FocalMask = diamondMask(size, g.profile, g.FocalPosition)
	g.occlude()
}

// Next is Initialize under the name exercises use between rounds.
func (g *Generator) Next() { g.Initialize() }

func (g *Generator) focalSize(size int) int {
	fs := int(float64(size) * g.cfg.FocalSizeRel)
	fs -= fs % 2
	if fs < minFocalSize {
		g.log.Warn("anaglyph focal size clamped", "computed", fs, "used", minFocalSize)
		fs = minFocalSize
	}
	return fs
}

// sampleOffsets draws the background offset and a target offset that
// differs from it by a bounded random amount, either direction.
func (g *Generator) sampleOffsets() {
	bg := g.uniform(g.cfg.OffsetMin, g.cfg.OffsetMax)
	if g.rng.Intn(2) == 0 {
		bg = -bg
	}
	diff := g.uniform(g.cfg.OffsetTargetVarianceMin, g.cfg.OffsetTargetVarianceMax)
	target := bg + diff
	if g.rng.Intn(2) == 0 {
		target = bg - diff
	}

	px := g.PixelSize()
	g.BackgroundOffset = int(math.Round(bg / px))
	g.FocalOffset = int(math.Round(target / px))
}

func (g *Generator) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}

// occlude clears, for each eye, the background pixels that would be drawn
// underneath the shifted focal region.
func (g *Generator) occlude() {
	d := g.Disparity()
	size := g.FocalMask.Size
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if !g.FocalMask.At(r, c) {
				continue
			}
			g.BackgroundLeft.Set(r, c+d, false)
			g.BackgroundRight.Set(r, c-d, false)
		}
	}
}

// DrawData lists the lit pixels for one eye, background first.
func (g *Generator) DrawData(e Eye) []FilledCell {
	bg := g.BackgroundLeft
	if e == RightEye {
		bg = g.BackgroundRight
	}
	s := e.sign()
	out := make([]FilledCell, 0, bg.Count()+g.FocalMask.Count()/2)
	for r := 0; r < bg.Size; r++ {
		for c := 0; c < bg.Size; c++ {
			if bg.At(r, c) {
				out = append(out, FilledCell{Row: r, Col: c + s*g.BackgroundOffset, Layer: Background})
			}
		}
	}
	for r := 0; r < g.FocalMask.Size; r++ {
		for c := 0; c < g.FocalMask.Size; c++ {
			if g.FocalMask.At(r, c) && g.Focal.At(r, c) {
				out = append(out, FilledCell{Row: r, Col: c + s*g.FocalOffset, Layer: Focal})
			}
		}
	}
	return out
}

// DiamondProfile builds the per-row pixel counts of a diamond of the given
// size: an ascending run from 0 to size followed by its reverse.
func DiamondProfile(size int) []int {
	if size < minFocalSize {
		size = minFocalSize
	}
	step := size / (size / 2)
	up := make([]int, 0, size/step+1)
	for w := 0; w <= size; w += step {
		up = append(up, w)
	}
	out := make([]int, 0, 2*len(up))
	out = append(out, up...)
	for i := len(up) - 1; i >= 0; i-- {
		out = append(out, up[i])
	}
	return out
}

func diamondMask(size int, profile []int, pos Position) Matrix {
	m := NewMatrix(size)
	ax, ay := pos.Anchor()
	cx := int(ax * float64(size))
	cy := int(ay * float64(size))
	top := cy - len(profile)/2
	for i, w := range profile {
		left := cx - w/2
		for c := left; c < left+w; c++ {
			m.Set(top+i, c, true)
		}
	}
	return m
}
