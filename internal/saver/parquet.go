package saver

import (
	"github.com/parquet-go/parquet-go"

	"github.com/GreyRaphael/eqClient/internal/model"
)

// ParquetSaver writes zstd-compressed parquet files.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []model.Bar, path string) error {
	return parquet.WriteFile(path, bars, parquet.Compression(&parquet.Zstd))
}

func (ParquetSaver) Load(path string) ([]model.Bar, error) {
	return parquet.ReadFile[model.Bar](path)
}
