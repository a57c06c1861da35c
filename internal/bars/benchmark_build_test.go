package bars

import (
	"testing"

	"github.com/GreyRaphael/eqClient/internal/model"
)

const (
	benchInstruments = 200
	benchTicksPerDay = 4800 // one snapshot every 3s
)

func benchTicks(b *testing.B, prealloc bool) []model.Tick {
	g := grid(b)
	var ticks []model.Tick
	if prealloc {
		ticks = make([]model.Tick, 0, benchInstruments*benchTicksPerDay)
	}
	for c := 0; c < benchInstruments; c++ {
		var vol uint64
		for j := 0; j < benchTicksPerDay; j++ {
			ts := g.Windows[0].Open + int64(j)*3000
			if j >= benchTicksPerDay/2 {
				ts = g.Windows[1].Open + int64(j-benchTicksPerDay/2)*3000
			}
			vol += uint64(j % 11)
			ticks = append(ticks, model.Tick{
				Code: uint32(c), DT: ts, Preclose: 1000, Open: 1000,
				Last: uint32(1000 + j%9), Volume: vol, Amount: vol * 1000, NumTrades: uint32(vol / 7),
			})
		}
	}
	return ticks
}

func BenchmarkBuild(b *testing.B) {
	g := grid(b)
	ticks := benchTicks(b, true)
	builder := NewBuilder(Options{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(g, ticks); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadTicksAppend(b *testing.B) {
	for _, tc := range []struct {
		name     string
		prealloc bool
	}{{"NoPrealloc", false}, {"Prealloc", true}} {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = benchTicks(b, tc.prealloc)
			}
		})
	}
}
