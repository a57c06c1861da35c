package calendar

import (
	"errors"
	"fmt"
	"time"
)

const minuteMs = int64(time.Minute / time.Millisecond)

var (
	// ErrInvalidCalendarDate is returned for dates that are not known trading days.
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	// ErrBeforeSession marks a timestamp earlier than the first session open.
	ErrBeforeSession = errors.New("timestamp before session open")
	// ErrOutsideSession marks a timestamp in the midday break or after the close.
	ErrOutsideSession = errors.New("timestamp outside trading sessions")
)

// InvalidDateError carries the rejected date and why it was rejected.
type InvalidDateError struct {
	Date   int
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid calendar date %d: %s", e.Date, e.Reason)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidCalendarDate }

// Clock is a wall-clock time of day with minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Session is one continuous trading window.
type Session struct {
	Open  Clock
	Close Clock
}

// Layout describes the intraday shape of a trading day.
type Layout struct {
	Sessions      []Session
	PreOpenOffset time.Duration // pre-open seed = first open - offset
}

// AShare is the Shanghai/Shenzhen continuous-trading layout.
var AShare = Layout{
	Sessions: []Session{
		{Open: Clock{9, 30}, Close: Clock{11, 30}},
		{Open: Clock{13, 0}, Close: Clock{15, 0}},
	},
	PreOpenOffset: 4 * time.Minute,
}

// ParseDate converts a YYYYMMDD integer to midnight of that day.
// Times in this package are naive exchange wall-clock times carried in UTC.
func ParseDate(date int) (time.Time, error) {
	y, m, d := date/10000, (date/100)%100, date%100
	if y < 1970 || y > 9999 {
		return time.Time{}, &InvalidDateError{Date: date, Reason: "year out of range"}
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, &InvalidDateError{Date: date, Reason: "not a calendar date"}
	}
	return t, nil
}

// DateOf returns the YYYYMMDD integer of t.
func DateOf(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Format renders a millisecond wall-clock timestamp for logs and reports.
func Format(ts int64) string {
	return time.UnixMilli(ts).UTC().Format("2006-01-02 15:04:05.000")
}

// Window is a session in absolute milliseconds for one date.
type Window struct {
	Open  int64
	Close int64
}

// Grid is the fixed set of minute-bucket ends for one trading date.
// Buckets excludes the pre-open seed slot.
type Grid struct {
	Date    int
	PreOpen int64
	Windows []Window
	Buckets []int64
}

// Grid builds the bucket grid for date. It does not consult the trading-date
// list; use Calendar.Grid for that.
func (l Layout) Grid(date int) (*Grid, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if len(l.Sessions) == 0 {
		return nil, fmt.Errorf("calendar layout has no sessions")
	}
	g := &Grid{
		Date:    date,
		PreOpen: day.Add(l.Sessions[0].Open.offset() - l.PreOpenOffset).UnixMilli(),
	}
	for _, s := range l.Sessions {
		w := Window{
			Open:  day.Add(s.Open.offset()).UnixMilli(),
			Close: day.Add(s.Close.offset()).UnixMilli(),
		}
		if w.Close <= w.Open {
			return nil, fmt.Errorf("calendar session %s-%s is empty", s.Open, s.Close)
		}
		if n := len(g.Windows); n > 0 && w.Open < g.Windows[n-1].Close {
			return nil, fmt.Errorf("calendar session %s-%s overlaps the previous one", s.Open, s.Close)
		}
		g.Windows = append(g.Windows, w)
		for end := w.Open + minuteMs; end <= w.Close; end += minuteMs {
			g.Buckets = append(g.Buckets, end)
		}
	}
	return g, nil
}

// Len is the number of real buckets per instrument.
func (g *Grid) Len() int { return len(g.Buckets) }

// Bucket maps a tick timestamp to the end of the bucket it belongs to.
//
// Buckets are right-closed, (end-1m, end]. A tick exactly at a session open
// goes to that session's first bucket, and ticks in (close, close+1m] are
// clamped back to close.
func (g *Grid) Bucket(ts int64) (int64, error) {
	for i, w := range g.Windows {
		if ts < w.Open {
			if i == 0 {
				return 0, fmt.Errorf("%w: %s", ErrBeforeSession, Format(ts))
			}
			return 0, fmt.Errorf("%w: %s", ErrOutsideSession, Format(ts))
		}
		if ts > w.Close+minuteMs {
			continue
		}
		end := ceilMinute(ts)
		if end <= w.Open {
			end = w.Open + minuteMs
		}
		if end > w.Close {
			end = w.Close
		}
		return end, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrOutsideSession, Format(ts))
}

func ceilMinute(ts int64) int64 {
	q := ts / minuteMs
	if ts%minuteMs > 0 {
		q++
	}
	return q * minuteMs
}
