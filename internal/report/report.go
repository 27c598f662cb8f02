// Package report writes the session that just finished to disk. It only
// writes; earlier sessions are never read back.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/export"
)

type Writer struct {
	baseDir string
}

func New(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

func (w *Writer) Init() error {
	return os.MkdirAll(w.baseDir, 0755)
}

type Metadata struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Seed      int64            `json:"seed"`
	Preset    string           `json:"preset,omitempty"`
	Summary   exercise.Summary `json:"summary"`
}

// Save writes summary.json, results.csv and, with at least two scores,
// trend.svg into a fresh directory and returns its id.
func (w *Writer) Save(sum exercise.Summary, seed int64, preset string) (string, error) {
	id := fmt.Sprintf("%s_%s", sum.Kind, uuid.NewString())
	dir := filepath.Join(w.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:        id,
		Timestamp: time.Now(),
		Seed:      seed,
		Preset:    preset,
		Summary:   sum,
	}
	if err := writeJSON(filepath.Join(dir, "summary.json"), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(dir, "results.csv"), sum.Scores); err != nil {
		return "", err
	}
	if svg := export.TrendToSVG(sum.Scores, 600, 200, "#00ff00"); svg != "" {
		if err := os.WriteFile(filepath.Join(dir, "trend.svg"), []byte(svg), 0644); err != nil {
			return "", err
		}
	}
	return id, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, scores []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"rep", "score", "running_average"}); err != nil {
		return err
	}
	sum := 0.0
	for i, s := range scores {
		sum += s
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(s, 'f', 3, 64),
			strconv.FormatFloat(sum/float64(i+1), 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
