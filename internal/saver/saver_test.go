package saver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GreyRaphael/eqClient/internal/model"
)

func sampleBars() []model.Bar {
	return []model.Bar{
		{Code: 510050, DT: 1704187860000, Preclose: 25000, Open: 25010, High: 25030, Low: 25000, Close: 25020, Volume: 100, Amount: 2502000, TradesCount: 3},
		{Code: 510050, DT: 1704187920000, Preclose: 25000, Open: 25020, High: 25020, Low: 25020, Close: 25020, Origin: model.Filled},
	}
}

// persisted bars never carry Origin
func persisted(bars []model.Bar) []model.Bar {
	out := append([]model.Bar(nil), bars...)
	for i := range out {
		out[i].Origin = model.Observed
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{"parquet", "csv"} {
		t.Run(format, func(t *testing.T) {
			s := NewBarSaver(format)
			l := NewBarLoader(format)
			require.NotNil(t, s)
			require.NotNil(t, l)

			path := filepath.Join(t.TempDir(), "bars."+s.Extension())
			require.NoError(t, s.Save(sampleBars(), path))
			got, err := l.Load(path)
			require.NoError(t, err)
			assert.Equal(t, persisted(sampleBars()), got)
		})
	}
}

func TestEmptyTableRoundTrip(t *testing.T) {
	for _, format := range []string{"parquet", "csv"} {
		path := filepath.Join(t.TempDir(), "empty."+format)
		require.NoError(t, NewBarSaver(format).Save([]model.Bar{}, path))
		got, err := NewBarLoader(format).Load(path)
		require.NoError(t, err, format)
		assert.Empty(t, got, format)
	}
}

func TestJSONSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.json")
	require.NoError(t, JSONSaver{}.Save(sampleBars(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.EqualValues(t, 100, rows[0]["volume"])
	assert.NotContains(t, rows[1], "Origin")
}

func TestFactories(t *testing.T) {
	assert.Nil(t, NewBarSaver("xlsx"))
	assert.Nil(t, NewBarLoader("json"))
	assert.Equal(t, "parquet", NewBarSaver(" Parquet ").Extension())
}

func TestBarPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("data", "etf-bar5m", "2024", "20240102.parquet"),
		BarPath("data", "etf", 5, 20240102, "parquet"))
}

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3MirrorUpload(t *testing.T) {
	dir := t.TempDir()
	rel := RelPath("stock", 1, 20240102, "csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, rel)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte("code\n"), 0644))

	fp := &fakePutter{}
	m := NewS3MirrorWithClient(fp, "bars", "/eq/")
	require.NoError(t, m.Upload(context.Background(), dir, rel))

	require.Len(t, fp.inputs, 1)
	assert.Equal(t, "bars", aws.ToString(fp.inputs[0].Bucket))
	assert.Equal(t, "eq/stock-bar1m/2024/20240102.csv", aws.ToString(fp.inputs[0].Key))
	assert.Equal(t, "text/csv", aws.ToString(fp.inputs[0].ContentType))
	assert.Equal(t, []byte("code\n"), fp.bodies[0])

	fp.err = errors.New("denied")
	err := m.Upload(context.Background(), dir, rel)
	assert.ErrorContains(t, err, "s3://bars/eq/stock-bar1m/2024/20240102.csv")
}

func TestNewS3MirrorRequiresBucket(t *testing.T) {
	_, err := NewS3Mirror(context.Background(), S3Config{})
	assert.Error(t, err)
}
