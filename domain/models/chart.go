package models

// Intent is the chart purpose a query resolves to.
type Intent string

const (
	IntentTimeTrend             Intent = "TIME_TREND"
	IntentRegionComparison      Intent = "REGION_COMPARISON"
	IntentRatingByRegion        Intent = "RATING_BY_REGION"
	IntentProfitDistribution    Intent = "PROFIT_DISTRIBUTION"
	IntentSalesByPerson         Intent = "SALES_BY_PERSON"
	IntentHighDiscountSales     Intent = "HIGH_DISCOUNT_SALES"
	IntentDefaultCategoryTotals Intent = "DEFAULT_CATEGORY_TOTALS"
)

// Intents lists every intent.
var Intents = []Intent{
	IntentTimeTrend,
	IntentRegionComparison,
	IntentRatingByRegion,
	IntentProfitDistribution,
	IntentSalesByPerson,
	IntentHighDiscountSales,
	IntentDefaultCategoryTotals,
}

type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

type GroupMode string

const (
	GroupNone    GroupMode = "none"
	GroupGrouped GroupMode = "grouped"
	GroupStacked GroupMode = "stacked"
)

// DataSource is the ready-to-render input of a chart: either the table
// rows themselves or a derived aggregation of them.
type DataSource struct {
	Description string
	Derived     bool
	// Records is read-only. When Derived is false it shares its backing
	// array with the normalized table.
	Records []Record
}

// ChartSpec describes what to draw, independent of the drawing library.
// An empty XField means the chart has no x axis (pie).
type ChartSpec struct {
	Intent     Intent
	Fallback   bool
	Kind       ChartKind
	Data       DataSource
	XField     string
	YField     string
	ColorField string
	GroupMode  GroupMode
	Title      string
}
