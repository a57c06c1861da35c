package bars

import "github.com/GreyRaphael/eqClient/internal/model"

// Downsample groups 1-minute bars into n-minute bars. bars must be sorted by
// (code, dt). Groups are formed by ordinal position within each instrument's
// day, not by wall clock, so the midday break never splits a group unevenly.
// Synthetic seeds are skipped.
func Downsample(bars []model.Bar, n int) []model.Bar {
	if n <= 0 {
		n = 1
	}
	out := make([]model.Bar, 0, len(bars)/n+1)
	var cur *model.Bar
	ord := 0
	for i := range bars {
		b := &bars[i]
		if b.Origin == model.Synthetic {
			continue
		}
		if cur == nil || b.Code != cur.Code {
			ord = 0
		}
		if ord%n == 0 {
			out = append(out, *b)
			cur = &out[len(out)-1]
			ord++
			continue
		}
		ord++
		cur.DT = b.DT
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Preclose = b.Preclose
		cur.Volume += b.Volume
		cur.Amount += b.Amount
		cur.TradesCount += b.TradesCount
		if b.Origin == model.Observed {
			cur.Origin = model.Observed
		}
	}
	return out
}
