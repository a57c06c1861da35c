package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/GreyRaphael/eqClient/internal/slogx"
)

// ProvideLogOutput installs the default logger and returns the writer the
// runner's fan-in logger should use. With LOG_FILE set, output also goes to
// a rotated file; the cleanup closes it.
func ProvideLogOutput(cfg *Config) (io.Writer, func()) {
	if cfg.LogFile == "" {
		slog.SetDefault(slogx.NewDefault(cfg.LogLevel))
		return os.Stderr, func() {}
	}
	file := slogx.RotatingWriter(slogx.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	w := io.MultiWriter(os.Stderr, file)
	slog.SetDefault(slogx.New(w, cfg.LogLevel))
	slog.Info("logging to file", "path", cfg.LogFile, "max_size_mb", cfg.LogMaxSizeMB)
	return w, func() { _ = file.Close() }
}
