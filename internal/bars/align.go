package bars

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/model"
)

// OutOfSession decides what happens to ticks that map to no bucket.
type OutOfSession uint8

const (
	// Reject fails the instrument on the first out-of-session tick.
	Reject OutOfSession = iota
	// Drop skips out-of-session ticks. Their cumulative counters still
	// show up in the next in-session bucket.
	Drop
)

func (p OutOfSession) String() string {
	if p == Drop {
		return "drop"
	}
	return "reject"
}

// ParseOutOfSession accepts "reject" or "drop".
func ParseOutOfSession(s string) (OutOfSession, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "drop":
		return Drop, nil
	}
	return Reject, fmt.Errorf("unsupported out-of-session policy %q (use: reject, drop)", s)
}

// align collapses one instrument's ticks into the pre-open seed followed by
// one bar per touched bucket. Counters on the returned bars are still
// cumulative; see diff.
func align(g *calendar.Grid, ticks []model.Tick, policy OutOfSession) (rows []model.Bar, dropped int, err error) {
	if len(ticks) == 0 {
		return nil, 0, nil
	}
	rows = make([]model.Bar, 0, g.Len()+1)
	prevDT := ticks[0].DT
	for i := range ticks {
		t := &ticks[i]
		if t.DT < prevDT {
			return nil, dropped, fmt.Errorf("%w: %s after %s", ErrTickOrder, calendar.Format(t.DT), calendar.Format(prevDT))
		}
		prevDT = t.DT

		end, berr := g.Bucket(t.DT)
		if berr != nil {
			if policy == Drop && (errors.Is(berr, calendar.ErrBeforeSession) || errors.Is(berr, calendar.ErrOutsideSession)) {
				dropped++
				continue
			}
			return nil, dropped, berr
		}

		if len(rows) == 0 {
			rows = append(rows, model.Bar{
				Code:     t.Code,
				DT:       g.PreOpen,
				Preclose: t.Preclose,
				Open:     t.Last,
				High:     t.Last,
				Low:      t.Last,
				Close:    t.Last,
				Origin:   model.Synthetic,
			})
		}

		// Ticks arrive in time order and Bucket is monotone, so a bucket
		// is always the tail of rows. Later ticks overwrite close and the
		// counters, which keeps "last tick wins" for clamped timestamps.
		last := &rows[len(rows)-1]
		if last.Origin == model.Synthetic || last.DT != end {
			rows = append(rows, model.Bar{
				Code:   t.Code,
				DT:     end,
				Open:   t.Last,
				High:   t.Last,
				Low:    t.Last,
				Origin: model.Observed,
			})
			last = &rows[len(rows)-1]
		}
		if t.Last > last.High {
			last.High = t.Last
		}
		if t.Last < last.Low {
			last.Low = t.Last
		}
		last.Close = t.Last
		last.Preclose = t.Preclose
		last.Volume = t.Volume
		last.Amount = t.Amount
		last.TradesCount = t.NumTrades
	}
	if len(rows) == 0 {
		return nil, dropped, ErrNoSessionTicks
	}
	return rows, dropped, nil
}

// diff turns cumulative counters into per-bucket increments in place.
// rows must start with the synthetic seed. Amount increments are
// multiplied by amountScale.
func diff(rows []model.Bar, amountScale uint64) error {
	if len(rows) == 0 {
		return nil
	}
	if rows[0].Origin != model.Synthetic {
		return fmt.Errorf("%w: first bar at %s", ErrMissingPreOpenSeed, calendar.Format(rows[0].DT))
	}
	if amountScale == 0 {
		amountScale = 1
	}
	prevVol, prevAmt, prevTrades := rows[0].Volume, rows[0].Amount, uint64(rows[0].TradesCount)
	rows[0].Volume, rows[0].Amount, rows[0].TradesCount = 0, 0, 0
	for i := 1; i < len(rows); i++ {
		r := &rows[i]
		if r.Origin == model.Synthetic {
			return fmt.Errorf("%w: second seed at %s", ErrMissingPreOpenSeed, calendar.Format(r.DT))
		}
		vol, amt, trades := r.Volume, r.Amount, uint64(r.TradesCount)
		switch {
		case vol < prevVol:
			return &CounterResetError{Code: r.Code, Field: "volume", At: r.DT, Prev: prevVol, Cur: vol}
		case amt < prevAmt:
			return &CounterResetError{Code: r.Code, Field: "amount", At: r.DT, Prev: prevAmt, Cur: amt}
		case trades < prevTrades:
			return &CounterResetError{Code: r.Code, Field: "num_trades", At: r.DT, Prev: prevTrades, Cur: trades}
		}
		r.Volume = vol - prevVol
		r.Amount = (amt - prevAmt) * amountScale
		r.TradesCount = uint32(trades - prevTrades)
		prevVol, prevAmt, prevTrades = vol, amt, trades
	}
	return nil
}
