package saver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GreyRaphael/eqClient/internal/model"
)

// BarSaver writes one bar table to a file.
// The runner only depends on this interface and picks the format from config.
type BarSaver interface {
	Save(bars []model.Bar, path string) error
	Extension() string
}

// BarLoader reads a bar table written by the matching BarSaver.
type BarLoader interface {
	Load(path string) ([]model.Bar, error)
	Extension() string
}

// NewBarSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewBarSaver(format string) BarSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// NewBarLoader returns the loader for format, or nil when the format cannot
// be read back.
func NewBarLoader(format string) BarLoader {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// RelPath is {secu}-bar{N}m/{year}/{date}.{ext}, shared by the local tree
// and the S3 mirror.
func RelPath(secu string, minutes, date int, ext string) string {
	return filepath.Join(
		fmt.Sprintf("%s-bar%dm", secu, minutes),
		fmt.Sprintf("%d", date/10000),
		fmt.Sprintf("%d.%s", date, ext),
	)
}

// BarPath is RelPath under the data root.
func BarPath(dataDir, secu string, minutes, date int, ext string) string {
	return filepath.Join(dataDir, RelPath(secu, minutes, date, ext))
}
