package model

// Tick is one exchange snapshot of an instrument. Counters (NumTrades,
// Volume, Amount) are cumulative since the session start.
// Column names follow the per-day tick tables written by the ingestion side.
type Tick struct {
	Code      uint32 `json:"code" parquet:"code"`
	DT        int64  `json:"dt" parquet:"dt"` // Unix milliseconds, exchange wall clock
	Preclose  uint32 `json:"preclose" parquet:"preclose"`
	Open      uint32 `json:"open" parquet:"open"`
	Last      uint32 `json:"last" parquet:"last"`
	IOPV      uint32 `json:"iopv" parquet:"iopv"`
	HighLimit uint32 `json:"high_limit" parquet:"high_limit"`
	LowLimit  uint32 `json:"low_limit" parquet:"low_limit"`
	NumTrades uint32 `json:"num_trades" parquet:"num_trades"`
	Volume    uint64 `json:"volume" parquet:"volume"`
	Amount    uint64 `json:"amount" parquet:"amount"`

	// Book aggregates. Stored with the tick, unused by bar aggregation.
	TotalAskVolume uint64   `json:"tot_av" parquet:"tot_av"`
	TotalBidVolume uint64   `json:"tot_bv" parquet:"tot_bv"`
	AvgAskPrice    uint32   `json:"avg_ap" parquet:"avg_ap"`
	AvgBidPrice    uint32   `json:"avg_bp" parquet:"avg_bp"`
	AskPrices      []uint32 `json:"ask_prices,omitempty" parquet:"ask_prices,list"`
	BidPrices      []uint32 `json:"bid_prices,omitempty" parquet:"bid_prices,list"`
	AskVolumes     []uint32 `json:"ask_volumes,omitempty" parquet:"ask_volumes,list"`
	BidVolumes     []uint32 `json:"bid_volumes,omitempty" parquet:"bid_volumes,list"`
}

// Priced reports whether the snapshot carries a traded price. Snapshots
// published before the first print have zero open/last.
func (t Tick) Priced() bool {
	return t.Open != 0 && t.Last != 0
}
