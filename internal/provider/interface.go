package provider

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/GreyRaphael/eqClient/internal/model"
)

// ErrNoTickFile is returned when a day has no tick table on disk.
var ErrNoTickFile = errors.New("no tick file for date")

// TickProvider is the abstraction used by the runner to read one day of ticks.
// Rows come back sorted by (code, dt) as the ingestion side wrote them,
// without snapshots that carry no traded price yet.
type TickProvider interface {
	GetName() string
	LoadTicks(ctx context.Context, date int) ([]model.Tick, error)
	Close() error
}

// TickPath returns {dir}/{year}/{date}.{ext}.
func TickPath(dir string, date int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%d", date/10000), fmt.Sprintf("%d.%s", date, ext))
}

// dropUnpriced removes rows published before the instrument's first print.
// It filters in place.
func dropUnpriced(ticks []model.Tick) []model.Tick {
	out := ticks[:0]
	for _, t := range ticks {
		if t.Priced() {
			out = append(out, t)
		}
	}
	return out
}
