package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GreyRaphael/eqClient/internal/model"
)

func sampleTicks() []model.Tick {
	return []model.Tick{
		{Code: 510050, DT: 1704187500000, Preclose: 25000}, // no print yet
		{Code: 510050, DT: 1704187860000, Preclose: 25000, Open: 25010, Last: 25020, NumTrades: 3, Volume: 100, Amount: 2502000,
			AskPrices: []uint32{25030, 25040}, BidPrices: []uint32{25010}, AskVolumes: []uint32{5, 6}, BidVolumes: []uint32{7}},
		{Code: 510300, DT: 1704187860000, Preclose: 35000, Open: 35010, Last: 35000, NumTrades: 1, Volume: 10, Amount: 350000,
			AskPrices: []uint32{35010}, BidPrices: []uint32{35000}, AskVolumes: []uint32{1}, BidVolumes: []uint32{2}},
	}
}

func TestParquetProviderLoadTicks(t *testing.T) {
	dir := t.TempDir()
	path := TickPath(dir, 20240102, "parquet")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, parquet.WriteFile(path, sampleTicks()))

	p := NewParquetProvider(dir)
	defer p.Close()
	ticks, err := p.LoadTicks(context.Background(), 20240102)
	require.NoError(t, err)
	require.Len(t, ticks, 2)
	assert.Equal(t, sampleTicks()[1:], ticks)
}

func TestParquetProviderMissingFile(t *testing.T) {
	_, err := NewParquetProvider(t.TempDir()).LoadTicks(context.Background(), 20240102)
	assert.ErrorIs(t, err, ErrNoTickFile)
}

func TestCSVProviderLoadTicks(t *testing.T) {
	dir := t.TempDir()
	path := TickPath(dir, 20240102, "csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	body := "code,dt,preclose,open,last,num_trades,volume,amount,tot_av\n" +
		"510050,1704187500000,25000,0,0,0,0,0,\n" +
		"510050,1704187860000,25000,25010,25020,3,100,2502000,900\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	ticks, err := NewCSVProvider(dir).LoadTicks(context.Background(), 20240102)
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.Equal(t, model.Tick{
		Code: 510050, DT: 1704187860000, Preclose: 25000, Open: 25010, Last: 25020,
		NumTrades: 3, Volume: 100, Amount: 2502000, TotalAskVolume: 900,
	}, ticks[0])
}

func TestCSVProviderErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewCSVProvider(dir).LoadTicks(context.Background(), 20240102)
	assert.ErrorIs(t, err, ErrNoTickFile)

	path := TickPath(dir, 20240103, "csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("code,dt,last\n1,2,3\n"), 0644))
	_, err = NewCSVProvider(dir).LoadTicks(context.Background(), 20240103)
	assert.ErrorContains(t, err, `missing column "preclose"`)

	path = TickPath(dir, 20240104, "csv")
	require.NoError(t, os.WriteFile(path, []byte("code,dt,preclose,open,last,num_trades,volume,amount\n1,x,1,1,1,1,1,1\n"), 0644))
	_, err = NewCSVProvider(dir).LoadTicks(context.Background(), 20240104)
	assert.ErrorContains(t, err, "column dt")
}

func TestTickPath(t *testing.T) {
	assert.Equal(t, filepath.Join("ticks", "2024", "20240102.parquet"), TickPath("ticks", 20240102, "parquet"))
}
