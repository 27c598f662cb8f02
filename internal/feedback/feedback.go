// Package feedback describes the tones exercises play. It has no audio
// backend of its own; internal/audio plays cues through PortAudio.
package feedback

import (
	"math"
	"time"
)

// Cue is a short tone. Pan runs from -1 (left) to 1 (right).
type Cue struct {
	Freq     float64
	Duration time.Duration
	Pan      float64
	Gain     float64
}

var (
	Correct   = Cue{Freq: 880, Duration: 140 * time.Millisecond, Gain: 0.5}
	Incorrect = Cue{Freq: 196, Duration: 320 * time.Millisecond, Gain: 0.5}
)

// PanAt maps a normalized horizontal screen position to a stereo pan.
func PanAt(x float64) float64 {
	return math.Max(-1, math.Min(1, 2*x-1))
}

// Player plays cues without blocking.
type Player interface {
	Play(c Cue)
}

type Nop struct{}

func (Nop) Play(Cue) {}
