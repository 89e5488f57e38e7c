package models

import "database/sql"

// SummaryStats are the dataset-level figures shown next to every chart.
// An invalid field means the value is unavailable, which is not the same
// as zero.
type SummaryStats struct {
	TotalSales   sql.NullFloat64
	AverageSales sql.NullFloat64
	TopRegion    sql.NullString
	TopProduct   sql.NullString
}
