package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GreyRaphael/eqClient/internal/bars"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(map[string]string{}, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "etf", cfg.SecuType)
	assert.Equal(t, "parquet", cfg.SaveFormat)
	assert.Equal(t, "parquet", cfg.TickFormat)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "reject", cfg.OutOfSession)
	assert.Equal(t, uint64(1), cfg.AmountScale)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, filepath.Join("data", "etf-tick"), cfg.TickBaseDir())
	assert.Equal(t, filepath.Join("data", ".lastday.json"), cfg.ProgressPath())

	ivs, err := cfg.BarIntervals()
	require.NoError(t, err)
	assert.Equal(t, bars.Intervals(), ivs)
}

func TestLoadConfigProfileAndOverrides(t *testing.T) {
	cfg, err := loadConfig(map[string]string{
		"PROFILE":        "dev",
		"SECU_TYPE":      "etf",
		"TICK_DIR":       "/srv/ticks",
		"OUT_OF_SESSION": "drop",
		"AMOUNT_SCALE":   "10000",
	}, Overrides{SecuType: "stock", Intervals: "1,30", Workers: 8, Resume: true})
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.SaveFormat)
	assert.Equal(t, "stock", cfg.SecuType)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Resume)
	assert.Equal(t, "/srv/ticks", cfg.TickBaseDir())
	assert.Equal(t, uint64(10000), cfg.AmountScale)

	ivs, err := cfg.BarIntervals()
	require.NoError(t, err)
	assert.Equal(t, []bars.Interval{bars.Minute1, bars.Minute30}, ivs)
}

func TestLoadConfigExplicitSaveFormatWins(t *testing.T) {
	cfg, err := loadConfig(map[string]string{"PROFILE": "dev", "SAVE_FORMAT": "json"}, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.SaveFormat)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"secu":      {"SECU_TYPE": "bond"},
		"format":    {"SAVE_FORMAT": "xlsx"},
		"workers":   {"WORKERS": "0"},
		"policy":    {"OUT_OF_SESSION": "keep"},
		"intervals": {"INTERVALS": "1,7"},
		"s3 bucket": {"S3_ENABLED": "true"},
		"s3 url":    {"S3_ENABLED": "true", "S3_BUCKET": "b", "S3_ENDPOINT": "not a url"},
		"parse":     {"WORKERS": "many"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(environ, Overrides{})
			assert.Error(t, err)
		})
	}
}

func TestProvideBuilderAndSaver(t *testing.T) {
	cfg, err := loadConfig(map[string]string{"INTERVALS": "5", "OUT_OF_SESSION": "drop"}, Overrides{})
	require.NoError(t, err)

	b, err := ProvideBuilder(cfg)
	require.NoError(t, err)
	assert.Equal(t, []bars.Interval{bars.Minute5}, b.Intervals())

	bs, err := ProvideBarSaver(cfg)
	require.NoError(t, err)
	assert.Equal(t, "parquet", bs.Extension())
	assert.NotNil(t, ProvideBarLoader(cfg))

	cfg.SaveFormat = "json"
	assert.Nil(t, ProvideBarLoader(cfg))

	assert.Nil(t, ProvideMetrics(cfg))
	m, err := ProvideMirror(cfg)
	require.NoError(t, err)
	assert.Nil(t, m)
}
