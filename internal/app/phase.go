package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GreyRaphael/eqClient/internal/run"
)

// RunBuild runs one batch over [from, to]. SIGINT/SIGTERM stops dispatching
// new dates; the days in flight finish and the run report is still written.
func RunBuild(ctx context.Context, runner *run.Runner, from, to int) (*run.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		select {
		case sig := <-signals:
			slog.Info("received signal, graceful shutdown", "sig", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("build start", "secu", runner.Opts.SecuType, "from", from, "to", to,
		"workers", runner.Opts.Workers, "resume", runner.Opts.Resume, "from_bar1m", runner.Opts.FromBar1m)
	return runner.Run(ctx, from, to)
}
