package exercise

// Attempt is one container pick at the level it was made.
type Attempt struct {
	Level   int  `json:"level"`
	Correct bool `json:"correct"`
}

func AttemptScore(a Attempt) float64 {
	if a.Correct {
		return 1
	}
	return 0
}

// Ladder tracks the container search difficulty. A round is played at one
// level. Two failed picks in a row step down one level; as many correct
// picks as the level steps up one. Either ends the round.
type Ladder struct {
	level, floor, ceil int
	round              []Attempt
}

func NewLadder(start, floor, ceil int) *Ladder {
	if ceil < floor {
		ceil = floor
	}
	return &Ladder{level: clamp(start, floor, ceil), floor: floor, ceil: ceil}
}

func (l *Ladder) Level() int { return l.level }

// Record adds a pick made in the current round. It returns the attempt and
// whether the round is over.
func (l *Ladder) Record(correct bool) (Attempt, bool) {
	a := Attempt{Level: l.level, Correct: correct}
	l.round = append(l.round, a)

	n := len(l.round)
	if n >= 2 && !l.round[n-1].Correct && !l.round[n-2].Correct {
		l.step(-1)
		return a, true
	}
	if l.correct() >= l.level {
		l.step(1)
		return a, true
	}
	return a, false
}

// Timeout records a failed pick and ends the round. It only changes the
// level when it completes a pair of failures.
func (l *Ladder) Timeout() Attempt {
	a, over := l.Record(false)
	if !over {
		l.round = l.round[:0]
	}
	return a
}

func (l *Ladder) correct() int {
	n := 0
	for _, a := range l.round {
		if a.Correct {
			n++
		}
	}
	return n
}

func (l *Ladder) step(d int) {
	l.level = clamp(l.level+d, l.floor, l.ceil)
	l.round = l.round[:0]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
