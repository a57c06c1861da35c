package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/GreyRaphael/eqClient/internal/bars"
	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/saver"
)

// buildDay loads one date, builds its bar tables and writes them.
// It returns the number of bar rows written.
func (r *Runner) buildDay(ctx context.Context, date int) (*bars.DayResult, int, error) {
	g, err := r.Calendar.Grid(date)
	if err != nil {
		return nil, 0, err
	}

	var res *bars.DayResult
	if r.Opts.FromBar1m {
		path := saver.BarPath(r.Opts.DataDir, r.Opts.SecuType, 1, date, r.Loader.Extension())
		bar1m, err := r.Loader.Load(path)
		if err != nil {
			return nil, 0, fmt.Errorf("load 1m bars: %w", err)
		}
		res, err = r.Builder.Downsample(date, bar1m)
		if err != nil {
			return nil, 0, err
		}
	} else {
		ticks, err := r.Ticks.LoadTicks(ctx, date)
		if err != nil {
			return nil, 0, err
		}
		res, err = r.Builder.Build(g, ticks)
		if err != nil {
			return nil, 0, err
		}
	}

	n, err := r.writeDay(ctx, res)
	return res, n, err
}

// writeDay writes each interval table in parallel and mirrors it when a
// mirror is configured. Empty tables are written too.
func (r *Runner) writeDay(ctx context.Context, res *bars.DayResult) (int, error) {
	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, iv := range r.Builder.Intervals() {
		if iv.Minutes == 1 && r.Opts.FromBar1m {
			continue
		}
		iv := iv // per-iteration copy; go directive is 1.21
		rows := res.Bars[iv.Minutes]
		g.Go(func() error {
			rel := saver.RelPath(r.Opts.SecuType, iv.Minutes, res.Date, r.Saver.Extension())
			path := filepath.Join(r.Opts.DataDir, rel)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := r.Saver.Save(rows, path); err != nil {
				return fmt.Errorf("save %s: %w", path, err)
			}
			written.Add(int64(len(rows)))
			if r.Metrics != nil {
				r.Metrics.BarsWritten(r.Opts.SecuType, iv.Name, len(rows))
			}
			if r.Mirror != nil {
				return r.Mirror.Upload(gctx, r.Opts.DataDir, rel)
			}
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}

// failureKind labels an instrument error for metrics.
func failureKind(err error) string {
	switch {
	case errors.Is(err, bars.ErrCounterReset):
		return "counter_reset"
	case errors.Is(err, bars.ErrMissingPreOpenSeed):
		return "missing_seed"
	case errors.Is(err, bars.ErrTickOrder):
		return "tick_order"
	case errors.Is(err, bars.ErrNoSessionTicks):
		return "no_session_ticks"
	case errors.Is(err, calendar.ErrBeforeSession):
		return "before_session"
	case errors.Is(err, calendar.ErrOutsideSession):
		return "outside_session"
	default:
		return "other"
	}
}
