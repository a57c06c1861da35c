package model

// Origin tells how a bar came to exist. It travels with the bar through
// alignment, filling and downsampling but is never persisted.
type Origin uint8

const (
	// Observed bars are built from at least one tick.
	Observed Origin = iota
	// Synthetic is the zero-activity pre-open seed of an instrument.
	Synthetic
	// Filled bars stand in for buckets without ticks on the dense grid.
	Filled
)

func (o Origin) String() string {
	switch o {
	case Observed:
		return "observed"
	case Synthetic:
		return "synthetic"
	case Filled:
		return "filled"
	default:
		return "unknown"
	}
}

// Bar is one aggregated row (1-minute or coarser) for one instrument.
// Prices are integer ticks (price × 10,000); DT is the bucket end in Unix
// milliseconds of the exchange wall clock. Volume, Amount and TradesCount
// are incremental over the bucket.
type Bar struct {
	Code        uint32 `json:"code" parquet:"code"`
	DT          int64  `json:"dt" parquet:"dt"`
	Preclose    uint32 `json:"preclose" parquet:"preclose"`
	Open        uint32 `json:"open" parquet:"open"`
	High        uint32 `json:"high" parquet:"high"`
	Low         uint32 `json:"low" parquet:"low"`
	Close       uint32 `json:"close" parquet:"close"`
	Volume      uint64 `json:"volume" parquet:"volume"`
	Amount      uint64 `json:"amount" parquet:"amount"`
	TradesCount uint32 `json:"trades_count" parquet:"trades_count"`
	Origin      Origin `json:"-" parquet:"-"`
}
