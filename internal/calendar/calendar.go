package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Calendar answers which dates are trading days. Dates come from per-year
// JSON files ({dir}/{year}.json, an array of YYYYMMDD integers) loaded on
// first use. Safe for concurrent use.
type Calendar struct {
	dir    string
	layout Layout

	mu    sync.Mutex
	years map[int]map[int]struct{}
}

// New returns a calendar backed by the year files in dir.
func New(dir string, layout Layout) *Calendar {
	return &Calendar{dir: dir, layout: layout, years: make(map[int]map[int]struct{})}
}

// NewStatic returns a calendar that knows exactly the given dates.
func NewStatic(layout Layout, dates ...int) *Calendar {
	c := &Calendar{layout: layout, years: make(map[int]map[int]struct{})}
	for _, d := range dates {
		y := d / 10000
		if c.years[y] == nil {
			c.years[y] = make(map[int]struct{})
		}
		c.years[y][d] = struct{}{}
	}
	return c
}

// Layout returns the intraday layout used for grids.
func (c *Calendar) Layout() Layout { return c.layout }

func (c *Calendar) year(y int) (map[int]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.years[y]; ok {
		return set, nil
	}
	if c.dir == "" {
		return nil, fs.ErrNotExist
	}
	path := filepath.Join(c.dir, fmt.Sprintf("%d.json", y))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dates []int
	if err := json.Unmarshal(data, &dates); err != nil {
		return nil, fmt.Errorf("parse calendar %s: %w", path, err)
	}
	set := make(map[int]struct{}, len(dates))
	for _, d := range dates {
		if d/10000 != y {
			return nil, fmt.Errorf("calendar %s: date %d does not belong to year %d", path, d, y)
		}
		set[d] = struct{}{}
	}
	c.years[y] = set
	return set, nil
}

// IsTradingDay reports whether date is in the trading-date list.
func (c *Calendar) IsTradingDay(date int) (bool, error) {
	if _, err := ParseDate(date); err != nil {
		return false, err
	}
	set, err := c.year(date / 10000)
	if errors.Is(err, fs.ErrNotExist) {
		return false, &InvalidDateError{Date: date, Reason: fmt.Sprintf("no calendar for year %d", date/10000)}
	}
	if err != nil {
		return false, err
	}
	_, ok := set[date]
	return ok, nil
}

// Grid returns the bucket grid of a trading day, or an error wrapping
// ErrInvalidCalendarDate when date is not a known trading day.
func (c *Calendar) Grid(date int) (*Grid, error) {
	ok, err := c.IsTradingDay(date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &InvalidDateError{Date: date, Reason: "not a trading day"}
	}
	return c.layout.Grid(date)
}

// DatesBetween lists the trading days in [start, end], ascending.
func (c *Calendar) DatesBetween(start, end int) ([]int, error) {
	if _, err := ParseDate(start); err != nil {
		return nil, err
	}
	if _, err := ParseDate(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("start %d after end %d", start, end)
	}
	var dates []int
	for y := start / 10000; y <= end/10000; y++ {
		set, err := c.year(y)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no calendar for year %d: %w", y, ErrInvalidCalendarDate)
		}
		if err != nil {
			return nil, err
		}
		for d := range set {
			if d >= start && d <= end {
				dates = append(dates, d)
			}
		}
	}
	sort.Ints(dates)
	return dates, nil
}
