package bars

import (
	"fmt"

	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/model"
)

// fill lays an instrument's differenced bars onto the full grid. Missing
// buckets carry zero activity and a flat price equal to the nearest earlier
// close, or the nearest later one when the gap opens the day.
func fill(g *calendar.Grid, code uint32, rows []model.Bar) ([]model.Bar, error) {
	out := make([]model.Bar, len(g.Buckets))
	have := make([]bool, len(g.Buckets))
	j := 0
	for _, r := range rows {
		if r.Origin == model.Synthetic {
			continue
		}
		for j < len(g.Buckets) && g.Buckets[j] < r.DT {
			j++
		}
		if j == len(g.Buckets) || g.Buckets[j] != r.DT {
			return nil, fmt.Errorf("bar at %s is not on the %d grid", calendar.Format(r.DT), g.Date)
		}
		out[j] = r
		have[j] = true
	}

	first := -1
	var lastClose, lastPreclose uint32
	for i := range out {
		if have[i] {
			if first < 0 {
				first = i
			}
			lastClose, lastPreclose = out[i].Close, out[i].Preclose
			continue
		}
		out[i] = model.Bar{Code: code, DT: g.Buckets[i], Origin: model.Filled}
		if first >= 0 {
			setFlat(&out[i], lastClose, lastPreclose)
		}
	}
	if first < 0 {
		return nil, fmt.Errorf("%w: nothing to fill from", ErrNoSessionTicks)
	}
	for i := 0; i < first; i++ {
		setFlat(&out[i], out[first].Close, out[first].Preclose)
	}
	return out, nil
}

func setFlat(b *model.Bar, price, preclose uint32) {
	b.Open, b.High, b.Low, b.Close = price, price, price, price
	b.Preclose = preclose
}
