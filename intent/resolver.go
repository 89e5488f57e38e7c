// Package intent maps a free-text query to a chart intent with an ordered
// list of keyword rules. The first matching rule wins.
package intent

import (
	"strings"

	"github.com/pivolan/sales_insights/domain/models"
)

// Rule pairs a keyword predicate with the intent it selects. Match
// receives the lower-cased query.
type Rule struct {
	Name   string
	Intent models.Intent
	Match  func(query string) bool
}

// Rules in evaluation order.
var Rules = []Rule{
	{Name: "trend", Intent: models.IntentTimeTrend, Match: containsAny("trend", "time")},
	{Name: "region comparison", Intent: models.IntentRegionComparison, Match: containsAll("compare", "region")},
	{Name: "rating", Intent: models.IntentRatingByRegion, Match: containsAny("rating", "satisfaction")},
	{Name: "profit", Intent: models.IntentProfitDistribution, Match: containsAny("profit")},
	{Name: "salesperson", Intent: models.IntentSalesByPerson, Match: containsAny("salesperson")},
	{Name: "discount", Intent: models.IntentHighDiscountSales, Match: containsAny("discount")},
}

// Names reported by Explain when no keyword rule decided the intent.
const (
	RuleEmpty    = "empty"
	RuleFallback = "fallback"
)

// Resolve returns the intent for query. An empty query and a query no rule
// matches both give DEFAULT_CATEGORY_TOTALS.
func Resolve(query string) models.Intent {
	in, _ := Explain(query)
	return in
}

// Explain is Resolve that also names the rule that decided.
func Explain(query string) (models.Intent, string) {
	if query == "" {
		return models.IntentDefaultCategoryTotals, RuleEmpty
	}
	q := strings.ToLower(query)
	for _, r := range Rules {
		if r.Match(q) {
			return r.Intent, r.Name
		}
	}
	return models.IntentDefaultCategoryTotals, RuleFallback
}

func containsAny(words ...string) func(string) bool {
	return func(q string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}

func containsAll(words ...string) func(string) bool {
	return func(q string) bool {
		for _, w := range words {
			if !strings.Contains(q, w) {
				return false
			}
		}
		return true
	}
}
