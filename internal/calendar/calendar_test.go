package calendar

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYear(t *testing.T, dir string, year int, body string) {
	t.Helper()
	path := filepath.Join(dir, strconv.Itoa(year)+".json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestCalendarFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2023, `[20231228, 20231229]`)
	writeYear(t, dir, 2024, `[20240102, 20240103, 20240104]`)
	cal := New(dir, AShare)

	ok, err := cal.IsTradingDay(20240103)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cal.IsTradingDay(20240106)
	require.NoError(t, err)
	assert.False(t, ok)

	dates, err := cal.DatesBetween(20231229, 20240103)
	require.NoError(t, err)
	assert.Equal(t, []int{20231229, 20240102, 20240103}, dates)
}

func TestCalendarGridRejectsNonTradingDays(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2024, `[20240102]`)
	cal := New(dir, AShare)

	g, err := cal.Grid(20240102)
	require.NoError(t, err)
	assert.Equal(t, 240, g.Len())

	_, err = cal.Grid(20240106)
	assert.ErrorIs(t, err, ErrInvalidCalendarDate)

	// year without a calendar file
	_, err = cal.Grid(20250102)
	assert.ErrorIs(t, err, ErrInvalidCalendarDate)
}

func TestCalendarRejectsForeignYearDates(t *testing.T) {
	dir := t.TempDir()
	writeYear(t, dir, 2024, `[20230102]`)
	cal := New(dir, AShare)

	_, err := cal.IsTradingDay(20240102)
	assert.Error(t, err)
}

func TestStaticCalendarConcurrentUse(t *testing.T) {
	cal := NewStatic(AShare, 20240102, 20240103)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cal.Grid(20240102)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err := cal.Grid(20240104)
	assert.ErrorIs(t, err, ErrInvalidCalendarDate)
}
