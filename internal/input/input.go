package input

import "github.com/san-kum/perhabs/internal/geom"

type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape
	numKeys
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeySpace:
		return "space"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// Frame is what the user did during one frame: keys pressed and at most one
// click, in normalized screen coordinates.
type Frame struct {
	pressed uint16
	click   geom.Vec2
	clicked bool
	hover   geom.Vec2
	hovered bool
}

func (f *Frame) Press(k Key) {
	if k < numKeys {
		f.pressed |= 1 << k
	}
}

func (f Frame) Pressed(k Key) bool { return f.pressed&(1<<k) != 0 }

// Click records a click. The first click of a frame wins.
func (f *Frame) Click(p geom.Vec2) {
	if !f.clicked {
		f.click, f.clicked = p, true
	}
}

func (f Frame) Clicked() (geom.Vec2, bool) { return f.click, f.clicked }

func (f *Frame) Hover(p geom.Vec2)         { f.hover, f.hovered = p, true }
func (f Frame) Hovered() (geom.Vec2, bool) { return f.hover, f.hovered }

// Empty reports whether nothing happened this frame.
func (f Frame) Empty() bool { return f.pressed == 0 && !f.clicked }

// Arrow returns the first arrow key pressed, in up, down, left, right order.
func (f Frame) Arrow() (Key, bool) {
	for _, k := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight} {
		if f.Pressed(k) {
			return k, true
		}
	}
	return 0, false
}

// Confirm is space or enter.
func (f Frame) Confirm() bool { return f.Pressed(KeySpace) || f.Pressed(KeyEnter) }

func (f *Frame) Reset() { *f = Frame{} }
