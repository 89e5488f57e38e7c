package models

import (
	"strconv"
	"time"

	"github.com/pivolan/go_utils"
)

// Canonical field names of a sales dataset.
const (
	FieldDate            = "Date"
	FieldRegion          = "Region"
	FieldProductCategory = "Product_Category"
	FieldProduct         = "Product"
	FieldSalesperson     = "Salesperson"
	FieldSales           = "Sales"
	FieldCost            = "Cost"
	FieldProfit          = "Profit"
	FieldDiscount        = "Discount"
	FieldCustomerRating  = "Customer_Rating"
)

// KnownFields lists the canonical fields in their usual column order.
var KnownFields = []string{
	FieldDate,
	FieldRegion,
	FieldProductCategory,
	FieldProduct,
	FieldSalesperson,
	FieldSales,
	FieldCost,
	FieldProfit,
	FieldDiscount,
	FieldCustomerRating,
}

var numericFields = []string{FieldSales, FieldCost, FieldProfit, FieldDiscount, FieldCustomerRating}
var textFields = []string{FieldRegion, FieldProductCategory, FieldProduct, FieldSalesperson}

func IsNumericField(name string) bool {
	return go_utils.InArray(name, numericFields)
}

func IsTextField(name string) bool {
	return go_utils.InArray(name, textFields)
}

func IsKnownField(name string) bool {
	return go_utils.InArray(name, KnownFields)
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05.999999999"
)

// RawTable is a decoded tabular source before any cleaning: a header and
// rows of text cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Record is one sales row. A nil field is a missing cell.
type Record struct {
	Date            *time.Time
	Region          *string
	ProductCategory *string
	Product         *string
	Salesperson     *string
	Sales           *float64
	Cost            *float64
	Profit          *float64
	Discount        *float64
	CustomerRating  *float64

	// Extra holds cells of columns that are not canonical fields.
	Extra map[string]string
}

// Text returns the value of a text field.
func (r Record) Text(field string) (string, bool) {
	var p *string
	switch field {
	case FieldRegion:
		p = r.Region
	case FieldProductCategory:
		p = r.ProductCategory
	case FieldProduct:
		p = r.Product
	case FieldSalesperson:
		p = r.Salesperson
	case FieldDate:
		if r.Date == nil {
			return "", false
		}
		return FormatDate(*r.Date), true
	default:
		v, ok := r.Extra[field]
		return v, ok
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// Number returns the value of a numeric field.
func (r Record) Number(field string) (float64, bool) {
	p := r.numberPtr(field)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// SetNumber stores v into a numeric field. Unknown fields are ignored.
func (r *Record) SetNumber(field string, v float64) {
	if p := r.numberPtr(field); p != nil {
		*p = &v
	}
}

// SetText stores v into a text field. Unknown fields go to Extra.
func (r *Record) SetText(field string, v string) {
	switch field {
	case FieldRegion:
		r.Region = &v
	case FieldProductCategory:
		r.ProductCategory = &v
	case FieldProduct:
		r.Product = &v
	case FieldSalesperson:
		r.Salesperson = &v
	default:
		if r.Extra == nil {
			r.Extra = map[string]string{}
		}
		r.Extra[field] = v
	}
}

func (r *Record) numberPtr(field string) **float64 {
	switch field {
	case FieldSales:
		return &r.Sales
	case FieldCost:
		return &r.Cost
	case FieldProfit:
		return &r.Profit
	case FieldDiscount:
		return &r.Discount
	case FieldCustomerRating:
		return &r.CustomerRating
	}
	return nil
}

// Table is a normalized dataset. Columns keeps the column order of the
// source plus derived columns; a field is present iff it is in Columns.
type Table struct {
	Columns []string
	Records []Record
}

// Has reports whether field is a column of the table.
func (t *Table) Has(field string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == field {
			return true
		}
	}
	return false
}

// HasAll reports whether every field is a column of the table.
func (t *Table) HasAll(fields ...string) bool {
	for _, f := range fields {
		if !t.Has(f) {
			return false
		}
	}
	return true
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Raw serialises the table back into text cells. Normalizing the result
// yields an equal table.
func (t *Table) Raw() RawTable {
	raw := RawTable{Columns: append([]string(nil), t.Columns...)}
	for _, rec := range t.Records {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i], _ = rec.Cell(col)
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}

// Cell returns any field as text, numbers in their shortest form.
func (r Record) Cell(field string) (string, bool) {
	if IsNumericField(field) {
		v, ok := r.Number(field)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return r.Text(field)
}

// FormatDate renders a date without a time part when it is midnight.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
