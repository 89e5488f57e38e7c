package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/echart"
	"github.com/pivolan/sales_insights/insight"
	"github.com/pivolan/sales_insights/plot"
	"github.com/pivolan/sales_insights/summary"
)

type queryOptions struct {
	pngPath  string
	htmlPath string
	explain  bool
	rows     int
}

func newQueryCmd(flags *globalFlags) *cobra.Command {
	o := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query [text...]",
		Short: "Resolve a query and print the chart it maps to",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, svc, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runQuery(cmd.OutOrStdout(), svc, log, strings.Join(args, " "), o)
		},
	}
	cmd.Flags().StringVar(&o.pngPath, "png", "", "write the chart as PNG to this file")
	cmd.Flags().StringVar(&o.htmlPath, "html", "", "write the chart as an HTML page to this file")
	cmd.Flags().BoolVar(&o.explain, "explain", false, "print which rule matched")
	cmd.Flags().IntVar(&o.rows, "rows", 10, "rows of chart data to preview")
	return cmd
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print summary statistics of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, svc, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer log.Sync()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, summary.Table(svc.Summary()))
			fmt.Fprintln(out, summary.Format(svc.Summary()))
			return nil
		},
	}
}

func runQuery(out io.Writer, svc *insight.Service, log *zap.Logger, query string, o *queryOptions) error {
	a := svc.Answer(query)
	spec := a.Spec

	if o.explain {
		fmt.Fprintf(out, "Rule: %s\nIntent: %s\n", a.Rule, a.Intent)
	}
	fmt.Fprintf(out, "Chart: %s (%s)\n", spec.Title, spec.Kind)
	if spec.Fallback {
		fmt.Fprintf(out, "Fallback: the table lacks columns for %s\n", a.Intent)
	}
	fmt.Fprintf(out, "Data: %s, %d rows\n", spec.Data.Description, len(spec.Data.Records))
	if o.rows > 0 {
		fmt.Fprintln(out, preview(spec, o.rows))
	}
	fmt.Fprintln(out, summary.Format(a.Summary))

	if o.pngPath != "" {
		body, err := plot.Render(spec)
		if errors.Is(err, plot.ErrNoData) {
			log.Warn("nothing to plot, png not written", zap.String("path", o.pngPath))
		} else if err != nil {
			return err
		} else if err := os.WriteFile(o.pngPath, body, 0o644); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}
	if o.htmlPath != "" {
		body, err := echart.Render(spec)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.htmlPath, body, 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}
	return nil
}

// preview renders the first rows of the chart data over the fields the
// chart reads.
func preview(spec models.ChartSpec, limit int) string {
	fields := chartFields(spec)
	t := table.NewWriter()
	header := make(table.Row, len(fields))
	for i, f := range fields {
		header[i] = f
	}
	t.AppendHeader(header)
	for i, rec := range spec.Data.Records {
		if i == limit {
			t.AppendFooter(table.Row{fmt.Sprintf("%d more", len(spec.Data.Records)-limit)})
			break
		}
		row := make(table.Row, len(fields))
		for j, f := range fields {
			if v, ok := rec.Cell(f); ok {
				row[j] = v
			} else {
				row[j] = summary.Unavailable
			}
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func chartFields(spec models.ChartSpec) []string {
	var fields []string
	for _, f := range []string{plot.LabelField(spec), spec.ColorField, spec.YField} {
		if f == "" {
			continue
		}
		dup := false
		for _, seen := range fields {
			dup = dup || seen == f
		}
		if !dup {
			fields = append(fields, f)
		}
	}
	return fields
}
