// Package ingest reads tabular sources into raw tables. Every decoding
// failure is reported as a *models.DataFormatError.
package ingest

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/pivolan/sales_insights/domain/models"
)

const Separator = ','

// ReadCSV decodes a CSV stream with a header row.
func ReadCSV(r io.Reader, name string) (models.RawTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = Separator

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.RawTable{}, models.NewDataFormatError(name, nil, "empty input")
	}
	if err != nil {
		return models.RawTable{}, models.NewDataFormatError(name, err, "cannot read header")
	}

	raw := models.RawTable{Columns: CanonicalHeaders(headers)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.RawTable{}, models.NewDataFormatError(name, err, "cannot read row %d", len(raw.Rows)+1)
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw, nil
}
