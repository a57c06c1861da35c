package saver

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/GreyRaphael/eqClient/internal/model"
)

// CSVSaver writes bars as CSV with the parquet column names as header.
type CSVSaver struct{}

var barHeader = []string{"code", "dt", "preclose", "open", "high", "low", "close", "volume", "amount", "trades_count"}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write(barHeader); err != nil {
		return err
	}
	rec := make([]string, len(barHeader))
	for _, b := range bars {
		rec[0] = u32(b.Code)
		rec[1] = strconv.FormatInt(b.DT, 10)
		rec[2] = u32(b.Preclose)
		rec[3] = u32(b.Open)
		rec[4] = u32(b.High)
		rec[5] = u32(b.Low)
		rec[6] = u32(b.Close)
		rec[7] = strconv.FormatUint(b.Volume, 10)
		rec[8] = strconv.FormatUint(b.Amount, 10)
		rec[9] = u32(b.TradesCount)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func (CSVSaver) Load(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if len(recs[0]) != len(barHeader) {
		return nil, fmt.Errorf("%s: want %d columns, got %d", path, len(barHeader), len(recs[0]))
	}
	bars := make([]model.Bar, 0, len(recs)-1)
	for i, r := range recs[1:] {
		var p numParser
		b := model.Bar{
			Code:        uint32(p.uint(r[0], 32)),
			DT:          p.int(r[1]),
			Preclose:    uint32(p.uint(r[2], 32)),
			Open:        uint32(p.uint(r[3], 32)),
			High:        uint32(p.uint(r[4], 32)),
			Low:         uint32(p.uint(r[5], 32)),
			Close:       uint32(p.uint(r[6], 32)),
			Volume:      p.uint(r[7], 64),
			Amount:      p.uint(r[8], 64),
			TradesCount: uint32(p.uint(r[9], 32)),
		}
		if p.err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, i+2, p.err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func u32(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

type numParser struct{ err error }

func (p *numParser) uint(s string, bits int) uint64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, bits)
	p.err = err
	return v
}

func (p *numParser) int(s string) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	p.err = err
	return v
}
