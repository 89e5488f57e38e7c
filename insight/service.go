// Package insight answers free-text queries against a loaded sales table.
package insight

import (
	"context"
	"fmt"

	"github.com/pivolan/sales_insights/chartspec"
	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/ingest"
	"github.com/pivolan/sales_insights/intent"
	"github.com/pivolan/sales_insights/normalize"
	"github.com/pivolan/sales_insights/summary"
)

// Service holds a normalized table and its summary. It never changes after
// construction and may be shared between goroutines.
type Service struct {
	source string
	table  *models.Table
	stats  models.SummaryStats
}

// Answer is the result of one query.
type Answer struct {
	Query string
	// Intent is what the query resolved to; Spec.Intent is what is drawn.
	Intent  models.Intent
	Rule    string
	Spec    models.ChartSpec
	Summary models.SummaryStats
}

func New(source string, table *models.Table) *Service {
	return &Service{
		source: source,
		table:  table,
		stats:  summary.Summarize(table),
	}
}

// Load reads and normalizes a CSV file (optionally archived).
func Load(path string) (*Service, error) {
	raw, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fromRaw(path, raw)
}

// LoadFromDB reads and normalizes a whole database table.
func LoadFromDB(ctx context.Context, dsn, table string) (*Service, error) {
	raw, err := ingest.ReadDatabase(ctx, dsn, table)
	if err != nil {
		return nil, err
	}
	return fromRaw(table, raw)
}

func fromRaw(source string, raw models.RawTable) (*Service, error) {
	table, err := normalize.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", source, err)
	}
	return New(source, table), nil
}

func (s *Service) Answer(query string) Answer {
	in, rule := intent.Explain(query)
	return Answer{
		Query:   query,
		Intent:  in,
		Rule:    rule,
		Spec:    chartspec.Build(in, s.table),
		Summary: s.stats,
	}
}

func (s *Service) Summary() models.SummaryStats {
	return s.stats
}

func (s *Service) Table() *models.Table {
	return s.table
}

// Source names where the table was loaded from.
func (s *Service) Source() string {
	return s.source
}
