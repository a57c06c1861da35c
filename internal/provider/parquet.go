package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/GreyRaphael/eqClient/internal/model"
)

// ParquetProvider reads {dir}/{year}/{date}.parquet tick tables.
type ParquetProvider struct {
	Dir string
}

func NewParquetProvider(dir string) *ParquetProvider {
	return &ParquetProvider{Dir: dir}
}

func (p *ParquetProvider) GetName() string { return "parquet" }

func (p *ParquetProvider) LoadTicks(ctx context.Context, date int) ([]model.Tick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := TickPath(p.Dir, date, "parquet")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoTickFile, path)
	}
	rows, err := parquet.ReadFile[model.Tick](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	n := len(rows)
	rows = dropUnpriced(rows)
	slog.Debug("ticks loaded", "path", path, "rows", n, "unpriced", n-len(rows))
	return rows, nil
}

func (p *ParquetProvider) Close() error { return nil }
