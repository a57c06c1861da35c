package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

func runLogWriter(lines <-chan string, out io.Writer) {
	for s := range lines {
		fmt.Fprintln(out, s)
	}
}

type errorEntry struct {
	Date int
	Code uint32
	Err  error
}

func runErrorHandler(errs <-chan errorEntry, logger *slog.Logger) {
	for e := range errs {
		logger.Warn("instrument failed", "date", e.Date, "code", fmt.Sprintf("%06d", e.Code), "error", e.Err)
	}
}

type tally struct {
	mu      sync.Mutex
	success int
	failed  int
	bars    int
}

func (t *tally) snapshot() (success, failed, bars int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.success, t.failed, t.bars
}

func runHeartbeat(ctx context.Context, interval time.Duration, totalJobs int, t *tally, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s, f, bars := t.snapshot()
			logger.Info("heartbeat", "done", s+f, "total", totalJobs, "success", s, "failed", f, "bars", bars)
		}
	}
}
