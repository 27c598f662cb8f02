package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/perhabs/internal/feedback"
)

const (
	SampleRate = 44100
	BufferSize = 512
)

type voice struct {
	cue   feedback.Cue
	phase float64
	left  int
	total int
	gainL float64
	gainR float64
}

// Processor mixes queued cues into a PortAudio output stream.
type Processor struct {
	Stream *portaudio.Stream
	log    *slog.Logger

	mu     sync.Mutex
	voices []voice

	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	Active bool
}

func NewProcessor(log *slog.Logger) *Processor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	delayLen := int(float64(SampleRate) * 0.12)
	return &Processor{
		log:       log,
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}
	a.Stream = stream
	a.Active = true
	a.log.Info("audio started", "sample_rate", SampleRate)
	return nil
}

func (a *Processor) Stop() {
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
		a.Stream = nil
	}
	if a.Active {
		portaudio.Terminate()
	}
	a.Active = false
}

// Play queues a cue. Equal power panning keeps loudness constant across the
// stereo field.
func (a *Processor) Play(c feedback.Cue) {
	n := int(c.Duration.Seconds() * SampleRate)
	if n <= 0 || c.Freq <= 0 {
		return
	}
	angle := (math.Max(-1, math.Min(1, c.Pan)) + 1) * math.Pi / 4
	a.mu.Lock()
	a.voices = append(a.voices, voice{
		cue:   c,
		left:  n,
		total: n,
		gainL: math.Cos(angle),
		gainR: math.Sin(angle),
	})
	a.mu.Unlock()
}

// Playing reports the number of cues still sounding.
func (a *Processor) Playing() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.voices)
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// envelope fades in and out over a few milliseconds to avoid clicks.
func envelope(v voice) float64 {
	const ramp = SampleRate / 200
	done := v.total - v.left
	return math.Min(1, math.Min(float64(done)/ramp, float64(v.left)/ramp))
}

// ProcessAudio is the stream callback; out holds one buffer per channel.
func (a *Processor) ProcessAudio(out [][]float32) {
	const (
		cutoff = 3000.0
		vol    = 0.3
	)
	dt := 1.0 / float64(SampleRate)

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range out[0] {
		sampleL, sampleR := 0.0, 0.0
		for j := range a.voices {
			v := &a.voices[j]
			if v.left <= 0 {
				continue
			}
			s := triangle(v.phase) * v.cue.Gain * envelope(*v)
			sampleL += s * v.gainL
			sampleR += s * v.gainR
			v.phase += v.cue.Freq * dt
			v.left--
		}

		a.filterState[0] = lpf(sampleL, cutoff, dt, a.filterState[0])
		a.filterState[1] = lpf(sampleR, cutoff, dt, a.filterState[1])

		delayL := a.delayLine[0][a.delayHead]
		delayR := a.delayLine[1][a.delayHead]
		mixL := a.filterState[0] + delayL*0.2
		mixR := a.filterState[1] + delayR*0.2
		a.delayLine[0][a.delayHead] = mixL * 0.3
		a.delayLine[1][a.delayHead] = mixR * 0.3
		a.delayHead = (a.delayHead + 1) % len(a.delayLine[0])

		out[0][i] = float32(mixL * vol)
		if len(out) > 1 {
			out[1][i] = float32(mixR * vol)
		}
	}

	live := a.voices[:0]
	for _, v := range a.voices {
		if v.left > 0 {
			live = append(live, v)
		}
	}
	a.voices = live
}
