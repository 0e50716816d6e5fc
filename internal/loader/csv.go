// Package loader reads tabular files into the dataset model. It is an
// external collaborator of the metric engines: the engines only ever see
// schema-aligned record sets.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/inferloop/synthval/pkg/constants"
	"github.com/inferloop/synthval/pkg/errors"
	"github.com/inferloop/synthval/pkg/models"
)

var missingTokens = func() map[string]struct{} {
	set := make(map[string]struct{}, len(constants.MissingTokens))
	for _, t := range constants.MissingTokens {
		set[t] = struct{}{}
	}
	return set
}()

// LoadCSV reads a CSV file with a header row into a dataset.
func LoadCSV(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeData, errors.CodeReadFailed,
			fmt.Sprintf("open %s", path))
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV content with a header row into a dataset. Cells
// matching a missing-value token become missing; cells that parse as
// floats become numbers; everything else is text.
func ReadCSV(r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.WrapError(errors.ErrEmptyDataset, errors.ErrorTypeData,
			errors.CodeMissingHeader, "input has no header row")
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeData, errors.CodeReadFailed, "read header")
	}

	seen := make(map[string]struct{}, len(header))
	columns := make([]models.Column, len(header))
	for i, name := range header {
		if _, dup := seen[name]; dup {
			return nil, errors.NewDataError(errors.CodeDuplicateColumn,
				fmt.Sprintf("duplicate column %q in header", name))
		}
		seen[name] = struct{}{}
		columns[i] = models.Column{Name: name}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeData, errors.CodeRaggedRecord, "read record")
		}
		for i, cell := range record {
			columns[i].Values = append(columns[i].Values, parseCell(cell))
		}
	}

	ds, err := models.NewDataset(columns)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeData, errors.CodeReadFailed, "build dataset")
	}
	return ds, nil
}

func parseCell(cell string) models.Value {
	if _, missing := missingTokens[cell]; missing {
		return models.Missing()
	}
	if num, err := strconv.ParseFloat(cell, 64); err == nil {
		return models.Number(num)
	}
	return models.Text(cell)
}
