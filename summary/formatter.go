package summary

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/sales_insights/domain/models"
)

// Unavailable is printed in place of a figure that could not be computed.
const Unavailable = "N/A"

// Format renders the one-line summary shown under a chart, e.g.
// "Total Sales: $18, Average Sales: $6.00, Top Region: East, Top Product: N/A".
func Format(stats models.SummaryStats) string {
	total, average := Unavailable, Unavailable
	if stats.TotalSales.Valid {
		total = "$" + strconv.FormatFloat(stats.TotalSales.Float64, 'f', -1, 64)
	}
	if stats.AverageSales.Valid {
		average = fmt.Sprintf("$%.2f", stats.AverageSales.Float64)
	}
	return fmt.Sprintf("Total Sales: %s, Average Sales: %s, Top Region: %s, Top Product: %s",
		total, average, text(stats.TopRegion.String, stats.TopRegion.Valid), text(stats.TopProduct.String, stats.TopProduct.Valid))
}

// Table renders the summary as a two-column text table.
func Table(stats models.SummaryStats) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total Sales", number(stats.TotalSales.Float64, stats.TotalSales.Valid, 2)},
		{"Average Sales", number(stats.AverageSales.Float64, stats.AverageSales.Valid, 2)},
		{"Top Region", text(stats.TopRegion.String, stats.TopRegion.Valid)},
		{"Top Product", text(stats.TopProduct.String, stats.TopProduct.Valid)},
	})
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func number(v float64, valid bool, precision int) string {
	if !valid {
		return Unavailable
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func text(v string, valid bool) string {
	if !valid {
		return Unavailable
	}
	return v
}
