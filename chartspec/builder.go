// Package chartspec turns an intent and a normalized table into a
// ready-to-render chart specification.
package chartspec

import (
	"sort"

	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/summary"
)

// DiscountThreshold is the percentage a row's discount must exceed to
// appear in the high-discount chart.
const DiscountThreshold = 15.0

type mapping struct {
	kind      models.ChartKind
	x, y      string
	color     string
	groupMode models.GroupMode
	title     string
	requires  []string
	data      func(*models.Table) models.DataSource
}

var mappings = map[models.Intent]mapping{
	models.IntentDefaultCategoryTotals: {
		kind: models.ChartBar, x: models.FieldProductCategory, y: models.FieldSales, color: models.FieldProductCategory,
		groupMode: models.GroupNone, title: "Total Sales by Product Category",
		data: rows,
	},
	models.IntentTimeTrend: {
		kind: models.ChartLine, x: models.FieldDate, y: models.FieldSales,
		groupMode: models.GroupNone, title: "Sales Trend Over Time",
		requires: []string{models.FieldDate, models.FieldSales},
		data:     rows,
	},
	models.IntentRegionComparison: {
		kind: models.ChartBar, x: models.FieldRegion, y: models.FieldSales, color: models.FieldRegion,
		groupMode: models.GroupGrouped, title: "Sales Comparison Across Regions",
		requires: []string{models.FieldRegion, models.FieldSales},
		data:     rows,
	},
	models.IntentRatingByRegion: {
		kind: models.ChartBar, x: models.FieldRegion, y: models.FieldCustomerRating,
		groupMode: models.GroupNone, title: "Average Customer Ratings by Region",
		requires: []string{models.FieldRegion, models.FieldCustomerRating},
		data:     meanRatingByRegion,
	},
	models.IntentProfitDistribution: {
		kind: models.ChartPie, y: models.FieldProfit, color: models.FieldProductCategory,
		groupMode: models.GroupNone, title: "Profit Distribution by Product Category",
		requires: []string{models.FieldProfit, models.FieldProductCategory},
		data:     rows,
	},
	models.IntentSalesByPerson: {
		kind: models.ChartBar, x: models.FieldSalesperson, y: models.FieldSales,
		groupMode: models.GroupNone, title: "Sales by Salesperson",
		requires: []string{models.FieldSalesperson, models.FieldSales},
		data:     salesByPerson,
	},
	models.IntentHighDiscountSales: {
		kind: models.ChartBar, x: models.FieldProduct, y: models.FieldSales,
		groupMode: models.GroupNone, title: "Sales for Products with Discounts > 15%",
		requires: []string{models.FieldDiscount, models.FieldProduct, models.FieldSales},
		data:     highDiscount,
	},
}

// Build produces the chart for in. When the table lacks a field the
// intent needs, or the intent is unknown, the category totals chart is
// built instead and Fallback is set.
func Build(in models.Intent, table *models.Table) models.ChartSpec {
	m, ok := mappings[in]
	fallback := !ok || !table.HasAll(m.requires...)
	if fallback {
		in = models.IntentDefaultCategoryTotals
		m = mappings[in]
	}
	return models.ChartSpec{
		Intent:     in,
		Fallback:   fallback,
		Kind:       m.kind,
		Data:       m.data(table),
		XField:     m.x,
		YField:     m.y,
		ColorField: m.color,
		GroupMode:  m.groupMode,
		Title:      m.title,
	}
}

// RequiredFields returns the columns the chart for in needs.
func RequiredFields(in models.Intent) []string {
	return append([]string(nil), mappings[in].requires...)
}

func rows(table *models.Table) models.DataSource {
	var records []models.Record
	if table != nil {
		records = table.Records
	}
	return models.DataSource{Description: "all rows", Records: records}
}

func meanRatingByRegion(table *models.Table) models.DataSource {
	groups := summary.MeanBy(table.Records, models.FieldRegion, models.FieldCustomerRating)
	return models.DataSource{
		Description: "mean Customer_Rating by Region",
		Derived:     true,
		Records:     groupRecords(groups, models.FieldRegion, models.FieldCustomerRating),
	}
}

func salesByPerson(table *models.Table) models.DataSource {
	groups := summary.SumBy(table.Records, models.FieldSalesperson, models.FieldSales)
	return models.DataSource{
		Description: "sum Sales by Salesperson",
		Derived:     true,
		Records:     groupRecords(groups, models.FieldSalesperson, models.FieldSales),
	}
}

func highDiscount(table *models.Table) models.DataSource {
	records := []models.Record{}
	for _, rec := range table.Records {
		if d, ok := rec.Number(models.FieldDiscount); ok && d > DiscountThreshold {
			records = append(records, rec)
		}
	}
	return models.DataSource{Description: "rows with Discount > 15", Derived: true, Records: records}
}

// groupRecords lays aggregated groups out as records sorted by key, one per
// group, carrying only the key and the value.
func groupRecords(groups []summary.Group, key, value string) []models.Record {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	records := make([]models.Record, 0, len(groups))
	for _, g := range groups {
		var rec models.Record
		rec.SetText(key, g.Key)
		rec.SetNumber(value, g.Value)
		records = append(records, rec)
	}
	return records
}
