package exercise

import (
	"context"

	"github.com/san-kum/perhabs/internal/asset"
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/content"
	"github.com/san-kum/perhabs/internal/feedback"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/session"
	"github.com/san-kum/perhabs/internal/spatial"
	"github.com/san-kum/perhabs/internal/stage"
)

const cueFreq = 660

// SpatialHearing speaks a word from one of several speakers placed in a
// perspective room and plays a panned tone from the same direction. The
// user clicks the speaker the sound came from.
type SpatialHearing struct {
	base
	cfg       config.SpatialHearingConfig
	eval      *session.Evaluation[bool]
	projector spatial.Projector
	sources   []spatial.SoundSource
	words     *content.Words
	fetch     *asset.Handle
	timer     *clock.Timer
	result    *clock.Timer

	active      bool
	target      int
	word        string
	lastCorrect bool
}

func NewSpatialHearing(d Deps) *SpatialHearing {
	h := &SpatialHearing{base: newBase(KindSpatialHearing, d), words: content.NewWords(nil)}
	h.timer = clock.NewTimer(h.deps.Clock)
	h.result = clock.NewTimer(h.deps.Clock)
	h.base.begin = h.begin
	return h
}

func (h *SpatialHearing) begin(cfg *config.Config) {
	h.cfg = cfg.SpatialHearing
	h.projector = spatial.Projector{VanishingPoint: geom.Vec2{X: h.cfg.VanishingX, Y: h.cfg.VanishingY}}
	h.sources = spatial.Room(h.cfg.Sources, h.cfg.Depth)
	h.eval = session.NewBool(h.deps.Clock, h.cfg.Duration, h.cfg.Repetitions)
	h.base.eval = h.eval
	h.clearRound()
	h.requestWords()
	h.eval.Start()
	h.stage.Transition(stage.Challenge)
}

// requestWords starts fetching the configured word list. Until it arrives,
// or if it never does, the built in words are used.
func (h *SpatialHearing) requestWords() {
	h.dropFetch()
	if h.cfg.WordsURL == "" || h.deps.Fetcher == nil {
		return
	}
	h.fetch = h.deps.Fetcher.Fetch(context.Background(), h.cfg.WordsURL)
}

func (h *SpatialHearing) dropFetch() {
	if h.fetch != nil {
		h.fetch.Cancel()
		h.fetch = nil
	}
}

func (h *SpatialHearing) pollWords() {
	if h.fetch == nil {
		return
	}
	status, data, err := h.fetch.Poll()
	switch status {
	case asset.Pending:
		return
	case asset.Ready:
		if words := content.Parse(data); len(words) > 0 {
			h.words = content.NewWords(words)
			h.log.Info("word list loaded", "words", len(words))
		} else {
			h.log.Warn("word list empty, keeping defaults", "url", h.cfg.WordsURL)
		}
	case asset.Failed:
		h.log.Warn("word list unavailable, keeping defaults", "url", h.cfg.WordsURL, "err", err)
	}
	h.fetch = nil
}

func (h *SpatialHearing) clearRound() {
	h.active = false
	h.word = ""
	h.timer.Reset()
	h.result.Reset()
}

func (h *SpatialHearing) Reset() {
	h.reset()
	h.dropFetch()
	h.eval = nil
	h.clearRound()
}

// Target is the speaker the current word comes from.
func (h *SpatialHearing) Target() (spatial.SoundSource, bool) {
	if !h.active {
		return spatial.SoundSource{}, false
	}
	return h.sources[h.target], true
}

// Word is the word being presented.
func (h *SpatialHearing) Word() string { return h.word }

// Words is the list words are drawn from.
func (h *SpatialHearing) Words() []string { return h.words.List() }

func (h *SpatialHearing) LastCorrect() bool { return h.lastCorrect }

func (h *SpatialHearing) Tick(in input.Frame) {
	if !h.settle(in) {
		return
	}
	h.pollWords()
	h.projector.Layout(h.sources, h.cfg.SourceSize)

	switch h.stage.Current() {
	case stage.Challenge:
		if !h.active {
			h.present()
			return
		}
		if h.timer.IsFinished() {
			h.timer.Set(h.cfg.ResponseTimeout)
			h.stage.Transition(stage.Response)
		}

	case stage.Response:
		if p, ok := in.Clicked(); ok {
			if i, ok := spatial.MatchClick(h.sources, p); ok {
				h.record(i == h.target)
				return
			}
		}
		if h.timer.IsFinished() {
			h.record(false)
		}

	case stage.Result:
		if h.result.IsFinished() {
			h.clearRound()
			h.stage.Transition(stage.Challenge)
		}
	}
}

func (h *SpatialHearing) present() {
	h.target = h.rng.Intn(len(h.sources))
	h.word = h.words.Pick(h.rng)
	h.active = true
	h.timer.Set(h.cfg.Cue)

	src := h.sources[h.target]
	if err := h.deps.Speech.Speak(h.word, true); err != nil {
		h.log.Warn("speech failed", "word", h.word, "err", err)
	}
	h.deps.Feedback.Play(feedback.Cue{
		Freq:     cueFreq,
		Duration: h.cfg.Cue,
		Pan:      feedback.PanAt(h.projector.Project(src.Pos).X),
		Gain:     0.4 * (1 - src.Pos.Z/2),
	})
	h.log.Debug("cue", "source", src.Name, "word", h.word)
}

func (h *SpatialHearing) record(correct bool) {
	h.eval.AddResult(correct)
	h.lastCorrect = correct
	h.feedback(correct)
	h.timer.Reset()
	h.result.Set(h.cfg.ResultDelay)
	h.stage.Transition(stage.Result)
}

var roomCorners = []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

func (h *SpatialHearing) Draw(s *render.Scene) {
	if !h.drawChrome(s) {
		return
	}

	room := s.Layer(render.BlendOver)
	back := make([]geom.Vec2, len(roomCorners))
	for i, c := range roomCorners {
		back[i] = h.projector.Project(geom.Vec3{X: c.X, Y: c.Y, Z: h.cfg.Depth})
		room.Line(c, back[i], render.Gray)
	}
	for i := range back {
		room.Line(back[i], back[(i+1)%len(back)], render.Gray)
	}

	speakers := s.Layer(render.BlendOver)
	cur := h.stage.Current()
	for i, src := range h.sources {
		if src.Rect == nil {
			continue
		}
		c := render.Gray
		if cur == stage.Result && i == h.target {
			c = render.Red
			if h.lastCorrect {
				c = render.Green
			}
		}
		speakers.Rect(*src.Rect, c, true)
	}
	if cur == stage.Challenge && h.word != "" {
		s.Text(geom.Vec2{X: 0.5, Y: 0.06}, 0.035, render.Black, "listen")
	}
}
