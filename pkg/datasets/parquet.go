package datasets

import (
	"context"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/memory"
	"github.com/apache/arrow/go/v13/parquet/file"
	"github.com/apache/arrow/go/v13/parquet/pqarrow"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// LoadParquet reads a Parquet dataset: the named column carries the integer
// class label and every float64 column except it becomes a feature, in schema
// order.
func LoadParquet(path, labelColumn string) ([]*core.Instance, error) {
	reader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StorageFailed, "opening Parquet dataset"),
			errors.Fields{"path": path})
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "creating Arrow reader")
	}

	schema, err := arrowReader.Schema()
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "reading Parquet schema")
	}
	labelIndices := schema.FieldIndices(labelColumn)
	if len(labelIndices) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "label column not found in schema"),
			errors.Fields{"path": path, "column": labelColumn})
	}
	labelIndex := labelIndices[0]

	var featureIndices []int
	for i, field := range schema.Fields() {
		if i == labelIndex {
			continue
		}
		if field.Type.ID() == arrow.FLOAT64 {
			featureIndices = append(featureIndices, i)
		}
	}
	if len(featureIndices) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "no float64 feature columns in schema"),
			errors.Fields{"path": path})
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "reading Parquet table")
	}
	defer table.Release()

	labels, err := intColumn(table, labelIndex)
	if err != nil {
		return nil, errors.WithFields(err, errors.Fields{"column": labelColumn})
	}

	features := make([][]float64, len(featureIndices))
	for i, idx := range featureIndices {
		col, err := floatColumn(table, idx)
		if err != nil {
			return nil, errors.WithFields(err, errors.Fields{"column": schema.Field(idx).Name})
		}
		features[i] = col
	}

	instances := make([]*core.Instance, len(labels))
	for row := range labels {
		fv := make([]float64, len(features))
		for i := range features {
			fv[i] = features[i][row]
		}
		instances[row] = core.NewInstance(fv, labels[row])
	}
	return instances, nil
}

// floatColumn flattens a possibly chunked float64 column.
func floatColumn(table arrow.Table, index int) ([]float64, error) {
	col := table.Column(index)
	out := make([]float64, 0, table.NumRows())
	for _, chunk := range col.Data().Chunks() {
		values, ok := chunk.(*array.Float64)
		if !ok {
			return nil, errors.New(errors.InvalidInput, "feature column is not float64")
		}
		out = append(out, values.Float64Values()...)
	}
	return out, nil
}

// intColumn flattens the label column, accepting int64 or integral float64.
func intColumn(table arrow.Table, index int) ([]int, error) {
	col := table.Column(index)
	out := make([]int, 0, table.NumRows())
	for _, chunk := range col.Data().Chunks() {
		switch values := chunk.(type) {
		case *array.Int64:
			for i := 0; i < values.Len(); i++ {
				v := values.Value(i)
				if v < 0 {
					return nil, errors.New(errors.InvalidInput, "class label must be non-negative")
				}
				out = append(out, int(v))
			}
		case *array.Float64:
			for i := 0; i < values.Len(); i++ {
				v := values.Value(i)
				label := int(v)
				if float64(label) != v || label < 0 {
					return nil, errors.New(errors.InvalidInput, "class label must be a non-negative integer")
				}
				out = append(out, label)
			}
		default:
			return nil, errors.New(errors.InvalidInput, "label column is neither int64 nor float64")
		}
	}
	return out, nil
}
