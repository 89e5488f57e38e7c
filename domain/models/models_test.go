package models

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFields(t *testing.T) {
	var rec Record
	rec.SetText(FieldRegion, "East")
	rec.SetText("Channel", "web")
	rec.SetNumber(FieldSales, 12.5)
	rec.SetNumber("Unknown", 3)

	v, ok := rec.Text(FieldRegion)
	assert.True(t, ok)
	assert.Equal(t, "East", v)

	v, ok = rec.Text("Channel")
	assert.True(t, ok)
	assert.Equal(t, "web", v)

	_, ok = rec.Text(FieldProduct)
	assert.False(t, ok)

	n, ok := rec.Number(FieldSales)
	assert.True(t, ok)
	assert.Equal(t, 12.5, n)

	_, ok = rec.Number("Unknown")
	assert.False(t, ok)
	_, ok = rec.Number(FieldCost)
	assert.False(t, ok)
}

func TestRecordCell(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var rec Record
	rec.Date = &date
	rec.SetNumber(FieldSales, 100)
	rec.SetNumber(FieldDiscount, 2.25)
	rec.SetText(FieldProduct, "Kite")

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{FieldSales, "100", true},
		{FieldDiscount, "2.25", true},
		{FieldProduct, "Kite", true},
		{FieldDate, "2024-03-01", true},
		{FieldCost, "", false},
		{"Channel", "", false},
	}
	for _, tt := range tests {
		got, ok := rec.Cell(tt.field)
		assert.Equal(t, tt.ok, ok, tt.field)
		assert.Equal(t, tt.want, got, tt.field)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", FormatDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-01 14:30:00", FormatDate(time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)))
}

func TestTableNil(t *testing.T) {
	var table *Table
	assert.False(t, table.Has(FieldSales))
	assert.False(t, table.HasAll(FieldSales))
	assert.True(t, table.HasAll())
	assert.Equal(t, 0, table.Len())
}

func TestTableRaw(t *testing.T) {
	var rec Record
	rec.SetText(FieldRegion, "West")
	rec.SetNumber(FieldSales, 7)
	table := &Table{Columns: []string{FieldRegion, FieldSales, FieldCost}, Records: []Record{rec}}

	assert.True(t, table.HasAll(FieldRegion, FieldSales))
	assert.False(t, table.Has(FieldProfit))

	raw := table.Raw()
	assert.Equal(t, []string{FieldRegion, FieldSales, FieldCost}, raw.Columns)
	assert.Equal(t, [][]string{{"West", "7", ""}}, raw.Rows)
}

func TestFieldKinds(t *testing.T) {
	assert.True(t, IsNumericField(FieldCustomerRating))
	assert.False(t, IsNumericField(FieldRegion))
	assert.True(t, IsTextField(FieldSalesperson))
	assert.False(t, IsTextField(FieldDate))
	assert.True(t, IsKnownField(FieldDate))
	assert.False(t, IsKnownField("Channel"))
}

func TestDataFormatError(t *testing.T) {
	err := NewDataFormatError("sales.csv", io.ErrUnexpectedEOF, "row %d", 3)
	assert.Equal(t, "data format error in sales.csv: row 3: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, IsDataFormat(wrapped))
	assert.False(t, IsDataFormat(errors.New("other")))

	assert.Equal(t, "data format error", (&DataFormatError{}).Error())
}
