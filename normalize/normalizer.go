// Package normalize turns a raw sales table into the cleaned table every
// other component reads.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pivolan/sales_insights/domain/models"
)

// Layouts tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

const source = "normalize"

// Normalize cleans raw rows. Steps run in a fixed order: parse dates, fill
// missing values, drop undated rows, tidy region and category labels,
// derive profit. The only error is a DataFormatError for input that is not
// a table.
func Normalize(raw models.RawTable) (*models.Table, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	columns := append([]string(nil), raw.Columns...)
	table := &models.Table{Columns: columns}
	hasDate := table.Has(models.FieldDate)

	// 1. parse
	records := make([]models.Record, 0, len(raw.Rows))
	dated := make([]bool, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		rec, ok := parseRow(columns, row)
		records = append(records, rec)
		dated = append(dated, ok)
	}

	// 2. fill, with the rating mean taken before any substitution
	fills := map[string]float64{
		models.FieldSales:          0,
		models.FieldProfit:         0,
		models.FieldDiscount:       0,
		models.FieldCustomerRating: mean(records, models.FieldCustomerRating),
	}
	for i := range records {
		for field, v := range fills {
			if !table.Has(field) {
				continue
			}
			if _, ok := records[i].Number(field); !ok {
				records[i].SetNumber(field, v)
			}
		}
	}

	// 3. drop rows whose date did not parse
	if hasDate {
		kept := records[:0]
		for i, rec := range records {
			if dated[i] {
				kept = append(kept, rec)
			}
		}
		records = kept
	}

	// 4. labels
	title := cases.Title(language.Und)
	for _, field := range []string{models.FieldRegion, models.FieldProductCategory} {
		if !table.Has(field) {
			continue
		}
		for i := range records {
			if v, ok := records[i].Text(field); ok {
				records[i].SetText(field, title.String(strings.TrimSpace(v)))
			}
		}
	}

	// 5. derived profit
	if table.HasAll(models.FieldSales, models.FieldCost) && !table.Has(models.FieldProfit) {
		for i := range records {
			// profit is never missing in the output, so a row without a
			// cost gets zero like any other unfilled profit
			profit := 0.0
			sales, _ := records[i].Number(models.FieldSales)
			if cost, ok := records[i].Number(models.FieldCost); ok {
				profit = sales - cost
			}
			records[i].SetNumber(models.FieldProfit, profit)
		}
		table.Columns = append(table.Columns, models.FieldProfit)
	}

	table.Records = records
	return table, nil
}

func validate(raw models.RawTable) error {
	if len(raw.Columns) == 0 {
		return models.NewDataFormatError(source, nil, "no columns")
	}
	seen := make(map[string]bool, len(raw.Columns))
	for i, c := range raw.Columns {
		if strings.TrimSpace(c) == "" {
			return models.NewDataFormatError(source, nil, "column %d has no name", i+1)
		}
		if seen[c] {
			return models.NewDataFormatError(source, nil, "duplicate column %q", c)
		}
		seen[c] = true
	}
	for i, row := range raw.Rows {
		if len(row) != len(raw.Columns) {
			return models.NewDataFormatError(source, nil, "row %d has %d cells, header has %d", i+1, len(row), len(raw.Columns))
		}
	}
	return nil
}

// parseRow converts one row. The bool is false when the row has a Date
// cell that could not be parsed.
func parseRow(columns []string, row []string) (models.Record, bool) {
	var rec models.Record
	dated := true
	for i, col := range columns {
		cell := row[i]
		switch {
		case col == models.FieldDate:
			if t, ok := ParseDate(cell); ok {
				rec.Date = &t
			} else {
				dated = false
			}
		case models.IsNumericField(col):
			if v, ok := ParseNumber(cell); ok {
				rec.SetNumber(col, v)
			}
		case models.IsTextField(col):
			if strings.TrimSpace(cell) != "" {
				rec.SetText(col, cell)
			}
		default:
			rec.SetText(col, cell)
		}
	}
	return rec, dated
}

// ParseDate parses a date cell in any of the accepted layouts. Results are
// in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a numeric cell, tolerating a currency sign, thousands
// separators and a trailing percent sign. Empty or unparseable cells are
// reported as missing.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func mean(records []models.Record, field string) float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if v, ok := rec.Number(field); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
