package datasets

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// LoadCSV reads a numeric CSV dataset: every column except the last is a
// feature, the last column is the integer class label. A single leading
// header row is skipped when its first cell is not numeric.
func LoadCSV(path string) ([]*core.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "opening CSV dataset")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "reading CSV dataset"),
			errors.Fields{"path": path})
	}
	if len(records) > 0 && looksLikeHeader(records[0]) {
		records = records[1:]
	}

	instances := make([]*core.Instance, 0, len(records))
	for row, record := range records {
		if len(record) < 2 {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "row needs at least one feature and a label"),
				errors.Fields{"path": path, "row": row})
		}

		features := make([]float64, len(record)-1)
		for i, cell := range record[:len(record)-1] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.WithFields(
					errors.Wrap(err, errors.InvalidInput, "parsing feature value"),
					errors.Fields{"path": path, "row": row, "column": i})
			}
			features[i] = v
		}

		label, err := parseLabel(record[len(record)-1])
		if err != nil {
			return nil, errors.WithFields(
				errors.Wrap(err, errors.InvalidInput, "parsing class label"),
				errors.Fields{"path": path, "row": row})
		}
		instances = append(instances, core.NewInstance(features, label))
	}
	return instances, nil
}

// parseLabel accepts integer labels written either as integers or as
// integral floats, which is how some exporters serialize class columns.
func parseLabel(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if label, err := strconv.Atoi(cell); err == nil {
		if label < 0 {
			return 0, errors.New(errors.InvalidInput, "class label must be a non-negative integer")
		}
		return label, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	label := int(v)
	if float64(label) != v || label < 0 {
		return 0, errors.New(errors.InvalidInput, "class label must be a non-negative integer")
	}
	return label, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	return err != nil
}
