// Package summary computes the dataset-level figures shown with every chart.
package summary

import (
	"database/sql"

	"github.com/pivolan/sales_insights/domain/models"
)

// Summarize computes total and average sales and the best region and
// product by summed sales. Any figure whose inputs are absent is left
// invalid; an empty table yields no valid figure at all.
func Summarize(table *models.Table) models.SummaryStats {
	var stats models.SummaryStats
	if table.Len() == 0 || !table.Has(models.FieldSales) {
		return stats
	}

	var total float64
	for _, rec := range table.Records {
		v, _ := rec.Number(models.FieldSales)
		total += v
	}
	stats.TotalSales = sql.NullFloat64{Float64: total, Valid: true}
	stats.AverageSales = sql.NullFloat64{Float64: total / float64(table.Len()), Valid: true}

	if table.Has(models.FieldRegion) {
		stats.TopRegion = top(table.Records, models.FieldRegion)
	}
	if table.Has(models.FieldProduct) {
		stats.TopProduct = top(table.Records, models.FieldProduct)
	}
	return stats
}

// top returns the key with the highest summed sales. Groups are visited in
// the order their key first appears in the table and a later group only
// wins with a strictly greater sum, so ties go to the first seen.
func top(records []models.Record, key string) sql.NullString {
	groups := SumBy(records, key, models.FieldSales)
	var best sql.NullString
	var bestSum float64
	for _, g := range groups {
		if !best.Valid || g.Value > bestSum {
			best = sql.NullString{String: g.Key, Valid: true}
			bestSum = g.Value
		}
	}
	return best
}

// Group is one aggregated key.
type Group struct {
	Key   string
	Value float64
	Count int
}

// SumBy sums field per distinct key value, in first-seen key order.
// Records without a key are skipped; a missing value counts as zero.
func SumBy(records []models.Record, key, field string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, rec := range records {
		k, ok := rec.Text(key)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		v, _ := rec.Number(field)
		groups[i].Value += v
		groups[i].Count++
	}
	return groups
}

// MeanBy averages field per distinct key value, in first-seen key order.
// Only records carrying both the key and the value take part.
func MeanBy(records []models.Record, key, field string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, rec := range records {
		k, ok := rec.Text(key)
		if !ok {
			continue
		}
		v, ok := rec.Number(field)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Value += v
		groups[i].Count++
	}
	for i := range groups {
		groups[i].Value /= float64(groups[i].Count)
	}
	return groups
}
