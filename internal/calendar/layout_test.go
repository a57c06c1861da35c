package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wall(t *testing.T, date, clock string) int64 {
	t.Helper()
	tm, err := time.Parse("2006-01-02 15:04:05.000", date+" "+clock)
	require.NoError(t, err)
	return tm.UnixMilli()
}

func TestAShareGrid(t *testing.T) {
	g, err := AShare.Grid(20240102)
	require.NoError(t, err)

	assert.Equal(t, 240, g.Len())
	assert.Equal(t, wall(t, "2024-01-02", "09:26:00.000"), g.PreOpen)
	assert.Equal(t, wall(t, "2024-01-02", "09:31:00.000"), g.Buckets[0])
	assert.Equal(t, wall(t, "2024-01-02", "11:30:00.000"), g.Buckets[119])
	assert.Equal(t, wall(t, "2024-01-02", "13:01:00.000"), g.Buckets[120])
	assert.Equal(t, wall(t, "2024-01-02", "15:00:00.000"), g.Buckets[239])

	for i := 1; i < len(g.Buckets); i++ {
		require.Less(t, g.Buckets[i-1], g.Buckets[i])
	}
}

func TestGridIsDeterministic(t *testing.T) {
	a, err := AShare.Grid(20240102)
	require.NoError(t, err)
	b, err := AShare.Grid(20240102)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGridRejectsBadDates(t *testing.T) {
	for _, d := range []int{20240230, 20241301, 2024010, 0} {
		_, err := AShare.Grid(d)
		assert.ErrorIs(t, err, ErrInvalidCalendarDate, "date %d", d)
	}
}

func TestBucket(t *testing.T) {
	g, err := AShare.Grid(20240102)
	require.NoError(t, err)

	cases := []struct {
		tick string
		want string
		err  error
	}{
		{"09:30:00.000", "09:31:00.000", nil},
		{"09:30:00.001", "09:31:00.000", nil},
		{"09:31:00.000", "09:31:00.000", nil},
		{"09:31:00.001", "09:32:00.000", nil},
		{"11:29:59.999", "11:30:00.000", nil},
		{"11:30:00.000", "11:30:00.000", nil},
		{"11:30:00.050", "11:30:00.000", nil},
		{"11:31:00.000", "11:30:00.000", nil},
		{"11:31:00.001", "", ErrOutsideSession},
		{"12:15:00.000", "", ErrOutsideSession},
		{"13:00:00.000", "13:01:00.000", nil},
		{"14:59:59.999", "15:00:00.000", nil},
		{"15:00:03.000", "15:00:00.000", nil},
		{"15:01:00.001", "", ErrOutsideSession},
		{"09:25:00.000", "", ErrBeforeSession},
		{"09:29:59.999", "", ErrBeforeSession},
	}
	for _, c := range cases {
		t.Run(c.tick, func(t *testing.T) {
			got, err := g.Bucket(wall(t, "2024-01-02", c.tick))
			if c.err != nil {
				assert.True(t, errors.Is(err, c.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, wall(t, "2024-01-02", c.want), got)
		})
	}
}

func TestBucketOtherDayIsOutside(t *testing.T) {
	g, err := AShare.Grid(20240102)
	require.NoError(t, err)

	_, err = g.Bucket(wall(t, "2024-01-03", "10:00:00.000"))
	assert.ErrorIs(t, err, ErrOutsideSession)
	_, err = g.Bucket(wall(t, "2024-01-01", "10:00:00.000"))
	assert.ErrorIs(t, err, ErrBeforeSession)
}

func TestParseDateAndDateOf(t *testing.T) {
	d, err := ParseDate(20240229)
	require.NoError(t, err)
	assert.Equal(t, 20240229, DateOf(d))

	_, err = ParseDate(20230229)
	var ide *InvalidDateError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, 20230229, ide.Date)
}
