package bars

import (
	"errors"
	"fmt"

	"github.com/GreyRaphael/eqClient/internal/calendar"
)

var (
	// ErrCounterReset is wrapped by CounterResetError.
	ErrCounterReset = errors.New("cumulative counter decreased")
	// ErrMissingPreOpenSeed means a bar had no predecessor to difference
	// against. It is a defect in the aligner, never a data condition.
	ErrMissingPreOpenSeed = errors.New("bar has no pre-open seed")
	// ErrEmptyInstrumentSet marks a day with no ticks at all. Such a day
	// produces empty tables, not a failure.
	ErrEmptyInstrumentSet = errors.New("no ticks for the day")
	// ErrUnsortedInput means an instrument reappeared after another one.
	ErrUnsortedInput = errors.New("ticks not grouped by instrument")
	// ErrTickOrder means an instrument's tick timestamps went backwards.
	ErrTickOrder = errors.New("tick timestamps decrease")
	// ErrNoSessionTicks means every tick of an instrument fell outside the
	// sessions and was dropped.
	ErrNoSessionTicks = errors.New("no ticks inside trading sessions")
)

// InstrumentError isolates a failure to one instrument of one day.
type InstrumentError struct {
	Code uint32
	Err  error
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("instrument %06d: %v", e.Code, e.Err)
}

func (e *InstrumentError) Unwrap() error { return e.Err }

// CounterResetError reports a negative difference of a cumulative counter.
type CounterResetError struct {
	Code  uint32
	Field string
	At    int64 // bucket end where the drop was seen
	Prev  uint64
	Cur   uint64
}

func (e *CounterResetError) Error() string {
	return fmt.Sprintf("counter reset: %s of %06d fell from %d to %d at %s",
		e.Field, e.Code, e.Prev, e.Cur, calendar.Format(e.At))
}

func (e *CounterResetError) Unwrap() error { return ErrCounterReset }
