package provider

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/GreyRaphael/eqClient/internal/model"
)

// CSVProvider reads {dir}/{year}/{date}.csv tick tables. The first row names
// the columns; depth lists are not carried in CSV.
type CSVProvider struct {
	Dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{Dir: dir}
}

func (p *CSVProvider) GetName() string { return "csv" }

var requiredTickColumns = []string{"code", "dt", "preclose", "open", "last", "num_trades", "volume", "amount"}

func (p *CSVProvider) LoadTicks(ctx context.Context, date int) ([]model.Tick, error) {
	path := TickPath(p.Dir, date, "csv")
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoTickFile, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range requiredTickColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	var ticks []model.Tick
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if line%100000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		t, err := parseTick(rec, col)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		ticks = append(ticks, t)
	}
	n := len(ticks)
	ticks = dropUnpriced(ticks)
	slog.Debug("ticks loaded", "path", path, "rows", n, "unpriced", n-len(ticks))
	return ticks, nil
}

func (p *CSVProvider) Close() error { return nil }

type fieldParser struct {
	rec []string
	col map[string]int
	err error
}

func (fp *fieldParser) uint(name string, bits int) uint64 {
	i, ok := fp.col[name]
	if !ok || fp.err != nil || fp.rec[i] == "" {
		return 0
	}
	v, err := strconv.ParseUint(fp.rec[i], 10, bits)
	if err != nil {
		fp.err = fmt.Errorf("column %s: %w", name, err)
	}
	return v
}

func (fp *fieldParser) int(name string) int64 {
	i, ok := fp.col[name]
	if !ok || fp.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(fp.rec[i], 10, 64)
	if err != nil {
		fp.err = fmt.Errorf("column %s: %w", name, err)
	}
	return v
}

func parseTick(rec []string, col map[string]int) (model.Tick, error) {
	fp := fieldParser{rec: rec, col: col}
	t := model.Tick{
		Code:           uint32(fp.uint("code", 32)),
		DT:             fp.int("dt"),
		Preclose:       uint32(fp.uint("preclose", 32)),
		Open:           uint32(fp.uint("open", 32)),
		Last:           uint32(fp.uint("last", 32)),
		IOPV:           uint32(fp.uint("iopv", 32)),
		HighLimit:      uint32(fp.uint("high_limit", 32)),
		LowLimit:       uint32(fp.uint("low_limit", 32)),
		NumTrades:      uint32(fp.uint("num_trades", 32)),
		Volume:         fp.uint("volume", 64),
		Amount:         fp.uint("amount", 64),
		TotalAskVolume: fp.uint("tot_av", 64),
		TotalBidVolume: fp.uint("tot_bv", 64),
		AvgAskPrice:    uint32(fp.uint("avg_ap", 32)),
		AvgBidPrice:    uint32(fp.uint("avg_bp", 32)),
	}
	return t, fp.err
}
