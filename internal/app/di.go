package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/wire"

	"github.com/GreyRaphael/eqClient/internal/bars"
	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/metrics"
	"github.com/GreyRaphael/eqClient/internal/provider"
	"github.com/GreyRaphael/eqClient/internal/run"
	"github.com/GreyRaphael/eqClient/internal/saver"
)

// ProviderSet is everything the build command needs.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogOutput,
	ProvideCalendar,
	ProvideTickProvider,
	ProvideBarSaver,
	ProvideBarLoader,
	ProvideBuilder,
	ProvideMetrics,
	ProvideMirror,
	ProvideRunner,
)

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig(o Overrides) (*Config, error) {
	return LoadConfig(o)
}

// ProvideCalendar builds the trading-date calendar for the A-share layout.
func ProvideCalendar(cfg *Config) *calendar.Calendar {
	return calendar.New(cfg.CalendarDir, calendar.AShare)
}

// ProvideTickProvider creates the tick reader for TICK_FORMAT (for Wire).
// Caller must call Close when shutting down.
func ProvideTickProvider(cfg *Config) (provider.TickProvider, func(), error) {
	var tp provider.TickProvider
	switch cfg.TickFormat {
	case "parquet":
		tp = provider.NewParquetProvider(cfg.TickBaseDir())
	case "csv":
		tp = provider.NewCSVProvider(cfg.TickBaseDir())
	default:
		return nil, nil, fmt.Errorf("unsupported TICK_FORMAT %q (use: parquet, csv)", cfg.TickFormat)
	}
	return tp, func() { _ = tp.Close() }, nil
}

// ProvideBarSaver creates BarSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvideBarSaver(cfg *Config) (saver.BarSaver, error) {
	bs := saver.NewBarSaver(cfg.SaveFormat)
	if bs == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return bs, nil
}

// ProvideBarLoader returns nil for formats that are write-only.
func ProvideBarLoader(cfg *Config) saver.BarLoader {
	return saver.NewBarLoader(cfg.SaveFormat)
}

func ProvideBuilder(cfg *Config) (*bars.Builder, error) {
	ivs, err := cfg.BarIntervals()
	if err != nil {
		return nil, err
	}
	policy, err := bars.ParseOutOfSession(cfg.OutOfSession)
	if err != nil {
		return nil, err
	}
	return bars.NewBuilder(bars.Options{
		Intervals:    ivs,
		OutOfSession: policy,
		AmountScale:  cfg.AmountScale,
	}), nil
}

// ProvideMetrics returns a recorder only when METRICS_FILE is set.
func ProvideMetrics(cfg *Config) *metrics.Recorder {
	if cfg.MetricsFile == "" {
		return nil
	}
	return metrics.NewRecorder()
}

// ProvideMirror returns a nil Uploader when the S3 mirror is disabled.
func ProvideMirror(cfg *Config) (run.Uploader, error) {
	if !cfg.S3.Enabled {
		return nil, nil
	}
	m, err := saver.NewS3Mirror(context.Background(), saver.S3Config{
		Bucket:          cfg.S3.Bucket,
		Prefix:          cfg.S3.Prefix,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		PathStyle:       cfg.S3.PathStyle,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func ProvideRunner(
	cfg *Config,
	cal *calendar.Calendar,
	tp provider.TickProvider,
	builder *bars.Builder,
	bs saver.BarSaver,
	bl saver.BarLoader,
	mirror run.Uploader,
	rec *metrics.Recorder,
	logOut io.Writer,
) *run.Runner {
	return &run.Runner{
		Calendar: cal,
		Ticks:    tp,
		Builder:  builder,
		Saver:    bs,
		Loader:   bl,
		Mirror:   mirror,
		Metrics:  rec,
		LogOut:   logOut,
		Opts: run.Options{
			DataDir:      cfg.DataDir,
			SecuType:     cfg.SecuType,
			Workers:      cfg.Workers,
			Resume:       cfg.Resume,
			FromBar1m:    cfg.FromBar1m,
			ProgressPath: cfg.ProgressPath(),
			LogLevel:     cfg.LogLevel,
			MetricsFile:  cfg.MetricsFile,
		},
	}
}
