package bars

import (
	"fmt"
	"sort"

	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/model"
)

// Options tune a Builder.
type Options struct {
	Intervals    []Interval   // tables to produce; defaults to all
	OutOfSession OutOfSession // policy for ticks outside the sessions
	AmountScale  uint64       // multiplier on amount increments; 0 means 1
}

// Builder turns a day of ticks into bar tables. It holds no state between
// calls and may be shared by goroutines.
type Builder struct {
	opts Options
}

func NewBuilder(opts Options) *Builder {
	if len(opts.Intervals) == 0 {
		opts.Intervals = Intervals()
	}
	if opts.AmountScale == 0 {
		opts.AmountScale = 1
	}
	return &Builder{opts: opts}
}

// Intervals returns the intervals the builder produces.
func (b *Builder) Intervals() []Interval { return b.opts.Intervals }

// DayResult is the outcome of one day. Bars is keyed by interval minutes and
// holds only instruments that built cleanly.
type DayResult struct {
	Date        int
	Instruments int
	Failures    []*InstrumentError
	Bars        map[int][]model.Bar
	Dropped     int
	Empty       bool
}

// Note returns ErrEmptyInstrumentSet for a day without ticks, nil otherwise.
func (r *DayResult) Note() error {
	if r.Empty {
		return ErrEmptyInstrumentSet
	}
	return nil
}

type span struct {
	code   uint32
	lo, hi int
}

// partition splits ticks into contiguous per-instrument ranges.
func partition(ticks []model.Tick) ([]span, error) {
	var spans []span
	seen := make(map[uint32]struct{})
	for i := range ticks {
		c := ticks[i].Code
		if n := len(spans); n > 0 && spans[n-1].code == c {
			spans[n-1].hi = i + 1
			continue
		}
		if _, ok := seen[c]; ok {
			return nil, fmt.Errorf("%w: %06d reappears at row %d", ErrUnsortedInput, c, i)
		}
		seen[c] = struct{}{}
		spans = append(spans, span{code: c, lo: i, hi: i + 1})
	}
	sort.Slice(spans, func(a, b int) bool { return spans[a].code < spans[b].code })
	return spans, nil
}

func (b *Builder) emptyResult(date int) *DayResult {
	r := &DayResult{Date: date, Empty: true, Bars: make(map[int][]model.Bar, len(b.opts.Intervals))}
	for _, iv := range b.opts.Intervals {
		r.Bars[iv.Minutes] = []model.Bar{}
	}
	return r
}

// Build aligns, fills and downsamples one day. The returned error is set
// only for day-level problems; per-instrument failures are in
// DayResult.Failures and those instruments are left out of every table.
func (b *Builder) Build(g *calendar.Grid, ticks []model.Tick) (*DayResult, error) {
	if len(ticks) == 0 {
		return b.emptyResult(g.Date), nil
	}
	spans, err := partition(ticks)
	if err != nil {
		return nil, err
	}

	res := &DayResult{Date: g.Date, Bars: make(map[int][]model.Bar, len(b.opts.Intervals))}
	bar1m := make([]model.Bar, 0, len(spans)*g.Len())
	for _, sp := range spans {
		rows, dropped, err := align(g, ticks[sp.lo:sp.hi], b.opts.OutOfSession)
		res.Dropped += dropped
		if err == nil {
			err = diff(rows, b.opts.AmountScale)
		}
		var filled []model.Bar
		if err == nil {
			filled, err = fill(g, sp.code, rows)
		}
		if err != nil {
			res.Failures = append(res.Failures, &InstrumentError{Code: sp.code, Err: err})
			continue
		}
		bar1m = append(bar1m, filled...)
		res.Instruments++
	}
	b.downsampleInto(res, bar1m)
	return res, nil
}

// Downsample rebuilds the coarse tables from a stored 1-minute table, which
// must be sorted by (code, dt).
func (b *Builder) Downsample(date int, bar1m []model.Bar) (*DayResult, error) {
	if len(bar1m) == 0 {
		return b.emptyResult(date), nil
	}
	res := &DayResult{Date: date, Bars: make(map[int][]model.Bar, len(b.opts.Intervals))}
	for i := range bar1m {
		if i > 0 {
			p, c := &bar1m[i-1], &bar1m[i]
			if c.Code < p.Code || (c.Code == p.Code && c.DT <= p.DT) {
				return nil, fmt.Errorf("%w: 1m bars out of order at row %d", ErrUnsortedInput, i)
			}
		}
		if i == 0 || bar1m[i].Code != bar1m[i-1].Code {
			res.Instruments++
		}
	}
	b.downsampleInto(res, bar1m)
	return res, nil
}

func (b *Builder) downsampleInto(res *DayResult, bar1m []model.Bar) {
	for _, iv := range b.opts.Intervals {
		if iv.Minutes == 1 {
			res.Bars[1] = bar1m
			continue
		}
		res.Bars[iv.Minutes] = Downsample(bar1m, iv.Minutes)
	}
}
