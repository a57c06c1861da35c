package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GreyRaphael/eqClient/internal/bars"
	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/metrics"
	"github.com/GreyRaphael/eqClient/internal/provider"
	"github.com/GreyRaphael/eqClient/internal/saver"
	"github.com/GreyRaphael/eqClient/internal/slogx"
)

// Job is one trading date to build.
type Job struct {
	Date int
}

// JobResult is sent by workers for fan-in.
type JobResult struct {
	Ok     bool
	Date   int
	Reason string
	Entry  successEntry
}

// Uploader mirrors a written file, addressed relative to the data root.
type Uploader interface {
	Upload(ctx context.Context, dataDir, rel string) error
}

// Options controls a batch run.
type Options struct {
	DataDir      string
	SecuType     string
	Workers      int
	Resume       bool
	FromBar1m    bool
	ProgressPath string
	LogLevel     string
	Heartbeat    time.Duration
	MetricsFile  string
}

// Runner builds bar tables for a range of trading dates.
// Mirror and Metrics are optional.
type Runner struct {
	Calendar *calendar.Calendar
	Ticks    provider.TickProvider
	Builder  *bars.Builder
	Saver    saver.BarSaver
	Loader   saver.BarLoader
	Mirror   Uploader
	Metrics  *metrics.Recorder
	LogOut   io.Writer
	Opts     Options
}

// Summary is what a run did.
type Summary struct {
	RunID   string
	Success int
	Failed  int
	Skipped int
	Bars    int
}

// FilterDatesToBuild turns trading dates into jobs. With resume set, dates
// at or before the recorded progress of secu are skipped.
func FilterDatesToBuild(dates []int, progressPath, secu string, resume bool) []Job {
	last := 0
	if resume {
		last = LastBuilt(progressPath, secu)
	}
	jobs := make([]Job, 0, len(dates))
	for _, d := range dates {
		if d <= last {
			continue
		}
		jobs = append(jobs, Job{Date: d})
	}
	return jobs
}

func (r *Runner) validate() error {
	if r.Calendar == nil || r.Builder == nil || r.Saver == nil {
		return fmt.Errorf("runner needs a calendar, a builder and a saver")
	}
	if r.Opts.FromBar1m && r.Loader == nil {
		return fmt.Errorf("format %q cannot be read back for -from-bar1m", r.Saver.Extension())
	}
	if !r.Opts.FromBar1m && r.Ticks == nil {
		return fmt.Errorf("runner needs a tick provider")
	}
	return nil
}

// Run builds every trading date in [start, end]. Cancelling ctx stops
// dispatching new dates; dates already in progress finish.
// Day failures are reported in the summary, not as an error.
func (r *Runner) Run(ctx context.Context, start, end int) (*Summary, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	dates, err := r.Calendar.DatesBetween(start, end)
	if err != nil {
		return nil, err
	}
	jobs := FilterDatesToBuild(dates, r.Opts.ProgressPath, r.Opts.SecuType, r.Opts.Resume)
	sum := &Summary{RunID: uuid.NewString()}
	if len(jobs) == 0 {
		slog.Info("no dates to build, skip", "secu", r.Opts.SecuType, "dates", len(dates))
		return sum, nil
	}
	if skipped := len(dates) - len(jobs); skipped > 0 {
		slog.Info("dates up to date, jobs to build", "skipped", skipped, "jobs", len(jobs))
	} else {
		slog.Info("jobs to build", "jobs", len(jobs), "run_id", sum.RunID)
	}

	var successList []successEntry
	var failedList []failedEntry
	defer func() {
		if len(successList) > 0 || len(failedList) > 0 {
			if err := writeRunReport(r.Opts.DataDir, sum.RunID, r.Opts.SecuType, successList, failedList); err != nil {
				slog.Warn("could not write run report", "error", err)
			} else {
				slog.Info("run report saved", "success", len(successList), "failed", len(failedList))
			}
		}
		if r.Metrics != nil && r.Opts.MetricsFile != "" {
			if err := os.MkdirAll(filepath.Dir(r.Opts.MetricsFile), 0755); err == nil {
				err = r.Metrics.WriteTextfile(r.Opts.MetricsFile)
			}
			if err != nil {
				slog.Warn("could not write metrics", "error", err)
			}
		}
	}()

	successList, failedList = r.runParallel(ctx, jobs, sum)
	slog.Info("build done", "success", sum.Success, "failed", sum.Failed, "skipped", sum.Skipped, "bars", sum.Bars)
	return sum, nil
}

func runJobResultCollector(
	results <-chan JobResult,
	t *tally,
	wm *watermark,
	secu string,
	progressUpdates chan<- ProgressUpdate,
	successList *[]successEntry,
	failedList *[]failedEntry,
) {
	for res := range results {
		t.mu.Lock()
		if res.Ok {
			t.success++
			t.bars += res.Entry.Bars
			*successList = append(*successList, res.Entry)
		} else {
			t.failed++
			*failedList = append(*failedList, failedEntry{Date: res.Date, Reason: res.Reason})
		}
		t.mu.Unlock()
		if d := wm.mark(res.Date, res.Ok); d != 0 {
			progressUpdates <- ProgressUpdate{SecuType: secu, Date: d}
		}
	}
}

func (r *Runner) runParallel(ctx context.Context, jobs []Job, sum *Summary) ([]successEntry, []failedEntry) {
	out := r.LogOut
	if out == nil {
		out = os.Stderr
	}
	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs, r.Opts.LogLevel)
	errs := make(chan errorEntry, 64)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(logs, out)
	}()
	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		runErrorHandler(errs, logger)
	}()

	progressUpdates := make(chan ProgressUpdate, len(jobs))
	var progWg sync.WaitGroup
	progWg.Add(1)
	go func() {
		defer progWg.Done()
		RunProgressWriter(r.Opts.ProgressPath, progressUpdates)
	}()

	hbCtx, cancel := context.WithCancel(context.Background())
	var hbWg sync.WaitGroup
	defer func() {
		cancel()
		hbWg.Wait()
		close(logs)
		close(errs)
		logWg.Wait()
		errWg.Wait()
	}()

	pending := make(chan Job, len(jobs))
	for _, j := range jobs {
		pending <- j
	}
	close(pending)

	results := make(chan JobResult, len(jobs))
	t := &tally{}
	var successList []successEntry
	var failedList []failedEntry
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		runJobResultCollector(results, t, newWatermark(jobs), r.Opts.SecuType, progressUpdates, &successList, &failedList)
	}()

	hb := r.Opts.Heartbeat
	if hb <= 0 {
		hb = 30 * time.Second
	}
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(hbCtx, hb, len(jobs), t, logger)
	}()

	// days already started run to completion after a shutdown request
	work := context.WithoutCancel(ctx)
	workers := r.Opts.Workers
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-pending:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}
					results <- r.runJob(work, job, logger, errs)
				}
			}
		}()
	}
	wg.Wait()
	close(results)
	resWg.Wait()
	close(progressUpdates)
	progWg.Wait()

	sum.Success, sum.Failed, sum.Bars = t.snapshot()
	sum.Skipped = len(jobs) - sum.Success - sum.Failed
	if sum.Skipped > 0 {
		logger.Warn("shutdown before all dates were built", "skipped", sum.Skipped)
	}
	logger.Info("summary", "total_bars", sum.Bars, "success", sum.Success, "failed", sum.Failed)
	if len(failedList) > 0 {
		logger.Info("summary failed", "count", len(failedList), "reasons", joinFailedReasons(failedList))
	}
	return successList, failedList
}

func (r *Runner) runJob(ctx context.Context, job Job, logger *slog.Logger, errs chan<- errorEntry) JobResult {
	secu := r.Opts.SecuType
	began := time.Now()
	res, n, err := r.buildDay(ctx, job.Date)
	took := time.Since(began)
	if err != nil {
		logger.Error("build fail", "date", job.Date, "reason", err)
		if r.Metrics != nil {
			r.Metrics.Day(secu, "failed", took)
		}
		return JobResult{Ok: false, Date: job.Date, Reason: err.Error()}
	}

	entry := successEntry{Date: job.Date, Instruments: res.Instruments, Bars: n, Empty: res.Empty, Dropped: res.Dropped}
	for _, f := range res.Failures {
		entry.Failed = append(entry.Failed, instrumentEntry{Code: f.Code, Reason: f.Err.Error()})
		select {
		case errs <- errorEntry{Date: job.Date, Code: f.Code, Err: f.Err}:
		default:
		}
		if r.Metrics != nil {
			r.Metrics.InstrumentFailure(secu, failureKind(f.Err))
		}
	}
	status := "ok"
	if note := res.Note(); note != nil {
		status = "empty"
		logger.Warn("build empty", "date", job.Date, "note", note)
	} else {
		logger.Info("build ok", "date", job.Date, "instruments", res.Instruments,
			"failed_instruments", len(res.Failures), "bars", n, "took", took.Round(time.Millisecond))
	}
	if r.Metrics != nil {
		r.Metrics.Day(secu, status, took)
		r.Metrics.TicksDropped(secu, res.Dropped)
	}
	return JobResult{Ok: true, Date: job.Date, Entry: entry}
}
