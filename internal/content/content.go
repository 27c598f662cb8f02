// Package content supplies the words spoken by auditory exercises.
package content

import (
	"bufio"
	"bytes"
	"math/rand"
	"strings"
)

// DefaultWords is used when no word list is configured or the fetch fails.
var DefaultWords = []string{
	"apple", "bridge", "candle", "garden", "harbor", "island",
	"jacket", "kettle", "lemon", "meadow", "orange", "pencil",
	"rabbit", "saddle", "tiger", "velvet", "window", "yellow",
}

// Words is a non-empty list to draw from.
type Words struct {
	list []string
	last int
}

// NewWords falls back to DefaultWords when list is empty.
func NewWords(list []string) *Words {
	if len(list) == 0 {
		list = DefaultWords
	}
	return &Words{list: append([]string(nil), list...), last: -1}
}

func (w *Words) Len() int       { return len(w.list) }
func (w *Words) List() []string { return append([]string(nil), w.list...) }

// Pick draws a word, avoiding an immediate repeat when there is a choice.
func (w *Words) Pick(rng *rand.Rand) string {
	i := rng.Intn(len(w.list))
	if i == w.last && len(w.list) > 1 {
		i = (i + 1 + rng.Intn(len(w.list)-1)) % len(w.list)
	}
	w.last = i
	return w.list[i]
}

// Parse reads one word per line. Blank lines, lines starting with # and
// duplicates are skipped.
func Parse(data []byte) []string {
	seen := make(map[string]bool)
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, line)
	}
	return out
}
