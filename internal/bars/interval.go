package bars

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownInterval is returned for bar sizes outside the registry.
var ErrUnknownInterval = errors.New("unknown interval")

// Interval is a bar size in minutes of trading time.
type Interval struct {
	Minutes int
	Name    string
}

func (i Interval) String() string { return i.Name }

// Dir is the per-interval directory name under the data root, e.g. "etf-bar5m".
func (i Interval) Dir(secu string) string {
	return fmt.Sprintf("%s-bar%dm", secu, i.Minutes)
}

var (
	Minute1   = Interval{Minutes: 1, Name: "1m"}
	Minute5   = Interval{Minutes: 5, Name: "5m"}
	Minute15  = Interval{Minutes: 15, Name: "15m"}
	Minute30  = Interval{Minutes: 30, Name: "30m"}
	Minute60  = Interval{Minutes: 60, Name: "60m"}
	Minute120 = Interval{Minutes: 120, Name: "120m"}
)

var registry = []Interval{Minute1, Minute5, Minute15, Minute30, Minute60, Minute120}

// Intervals returns every supported interval, smallest first.
func Intervals() []Interval {
	out := make([]Interval, len(registry))
	copy(out, registry)
	return out
}

// IntervalOf looks an interval up by its size in minutes.
func IntervalOf(minutes int) (Interval, error) {
	for _, iv := range registry {
		if iv.Minutes == minutes {
			return iv, nil
		}
	}
	return Interval{}, fmt.Errorf("%w: %dm", ErrUnknownInterval, minutes)
}

// GetInterval accepts "5m" or "5".
func GetInterval(name string) (Interval, error) {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "m")
	n, err := strconv.Atoi(s)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrUnknownInterval, name)
	}
	return IntervalOf(n)
}

// ParseIntervals parses a comma separated list such as "1,5,15m".
// Duplicates are removed and the result is sorted by size.
func ParseIntervals(list string) ([]Interval, error) {
	seen := make(map[int]bool)
	var out []Interval
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		iv, err := GetInterval(part)
		if err != nil {
			return nil, err
		}
		if seen[iv.Minutes] {
			continue
		}
		seen[iv.Minutes] = true
		out = append(out, iv)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrUnknownInterval)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Minutes < out[b].Minutes })
	return out, nil
}
