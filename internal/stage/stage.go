// Package stage holds the lifecycle shared by every exercise.
//
// An exercise moves through
//
//	None -> Challenge|Answer|Response -> ... -> Result -> ... -> Finished
//
// and the evaluation-finished check sits on top of the stage-local rules:
// [Machine.Settle] runs it at the top of every tick before the exercise
// looks at its own stage. NotReady covers the window before configuration
// has been loaded.
package stage

import "log/slog"

type Stage int

const (
	None Stage = iota
	NotReady
	Challenge
	Answer
	Response
	Result
	Finished
)

var names = map[Stage]string{
	None:      "none",
	NotReady:  "not_ready",
	Challenge: "challenge",
	Answer:    "answer",
	Response:  "response",
	Result:    "result",
	Finished:  "finished",
}

func (s Stage) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return "unknown"
}

// Active reports whether the stage belongs to a running session.
func (s Stage) Active() bool {
	switch s {
	case Challenge, Answer, Response, Result:
		return true
	}
	return false
}

var transitions = map[Stage][]Stage{
	None:      {Challenge, Answer, Response, NotReady},
	NotReady:  {None},
	Challenge: {Challenge, Response, Result},
	Answer:    {Answer, Response},
	Response:  {Response, Result},
	Result:    {Challenge, Answer, Response},
}

// CanTransition reports whether from -> to is a legal move. Finished is
// reachable from any active stage; leaving Finished needs Reset.
func CanTransition(from, to Stage) bool {
	if to == Finished {
		return from.Active()
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Machine struct {
	current Stage
	log     *slog.Logger
}

func NewMachine(log *slog.Logger) *Machine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Machine{current: None, log: log}
}

func (m *Machine) Current() Stage { return m.current }

// Transition moves to the given stage if the move is legal. Illegal moves
// are dropped.
func (m *Machine) Transition(to Stage) bool {
	if !CanTransition(m.current, to) {
		m.log.Debug("stage transition ignored", "from", m.current, "to", to)
		return false
	}
	if m.current != to {
		m.log.Debug("stage transition", "from", m.current, "to", to)
	}
	m.current = to
	return true
}

func (m *Machine) Finish() bool { return m.Transition(Finished) }

// Reset returns to None from any stage.
func (m *Machine) Reset() {
	if m.current != None {
		m.log.Debug("stage reset", "from", m.current)
	}
	m.current = None
}

// Settle applies readiness and session completion ahead of stage-local
// progression and reports whether the caller should go on with its own
// transitions. finished is only consulted while a session is active.
func (m *Machine) Settle(ready bool, finished func() bool) bool {
	switch {
	case !ready && m.current == None:
		m.Transition(NotReady)
	case ready && m.current == NotReady:
		m.Transition(None)
	}
	if !m.current.Active() {
		return false
	}
	if finished != nil && finished() {
		m.Finish()
		return false
	}
	return true
}
