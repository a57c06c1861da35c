package run

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// ProgressUpdate is sent when every date up to Date has been built.
type ProgressUpdate struct {
	SecuType string
	Date     int
}

func loadProgress(path string) map[string]int {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string]int)
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]int)
	}
	return m
}

// LastBuilt returns the last fully built date of secu, 0 if none.
func LastBuilt(path, secu string) int {
	return loadProgress(path)[secu]
}

// RunProgressWriter receives updates and persists them (run as goroutine).
// A stored date never moves backwards.
func RunProgressWriter(path string, updates <-chan ProgressUpdate) {
	if path == "" {
		for range updates {
		}
		return
	}
	m := loadProgress(path)
	for u := range updates {
		if u.Date <= m[u.SecuType] {
			continue
		}
		m[u.SecuType] = u.Date
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			slog.Warn("progress marshal error", "error", err)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			slog.Warn("progress dir error", "error", err)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			slog.Warn("progress write error", "error", err)
		}
	}
}

// watermark tracks the highest date below which every job succeeded.
type watermark struct {
	dates []int // ascending
	ok    map[int]bool
	next  int
}

func newWatermark(jobs []Job) *watermark {
	w := &watermark{ok: make(map[int]bool, len(jobs))}
	for _, j := range jobs {
		w.dates = append(w.dates, j.Date)
	}
	return w
}

// mark records a finished date and returns the new watermark, or 0 when it
// did not move.
func (w *watermark) mark(date int, ok bool) int {
	w.ok[date] = ok
	moved := 0
	for w.next < len(w.dates) {
		d := w.dates[w.next]
		if good, done := w.ok[d]; !done || !good {
			break
		}
		moved = d
		w.next++
	}
	return moved
}
