// Package echart renders chart specs as interactive HTML pages backed by
// ECharts.
package echart

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/plot"
)

// Renderer draws one kind of chart as a standalone HTML page.
type Renderer interface {
	Render(spec models.ChartSpec) ([]byte, error)
}

type rendererFunc func(spec models.ChartSpec) page

func (f rendererFunc) Render(spec models.ChartSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := f(spec).Render(&buf); err != nil {
		return nil, fmt.Errorf("error rendering %s chart: %w", spec.Kind, err)
	}
	return buf.Bytes(), nil
}

type page interface {
	Render(w io.Writer) error
}

var renderers = map[models.ChartKind]Renderer{
	models.ChartBar:  rendererFunc(bar),
	models.ChartLine: rendererFunc(line),
	models.ChartPie:  rendererFunc(pie),
}

// ForKind returns the renderer for kind.
func ForKind(kind models.ChartKind) (Renderer, error) {
	r, ok := renderers[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported chart kind %q", kind)
	}
	return r, nil
}

// Render draws spec with the renderer for its kind. A spec without rows
// gives an empty chart.
func Render(spec models.ChartSpec) ([]byte, error) {
	r, err := ForKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	return r.Render(spec)
}

func globals(spec models.ChartSpec, trigger string, legend bool) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Title,
			Width:     "100%",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend), Top: "bottom"}),
	}
}

func bar(spec models.ChartSpec) page {
	c := plot.Categorical(spec)
	chart := charts.NewBar()
	chart.SetGlobalOptions(append(globals(spec, "axis", len(c.Series) > 1),
		charts.WithXAxisOpts(opts.XAxis{Name: plot.LabelField(spec)}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YField}),
	)...)
	chart.SetXAxis(c.Labels)

	barOpts := opts.BarChart{}
	if c.PerLabelColor {
		barOpts.ColorBy = "data"
	}
	if spec.GroupMode == models.GroupStacked {
		barOpts.Stack = "total"
	}
	for _, s := range c.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		chart.AddSeries(s.Name, data, charts.WithBarChartOpts(barOpts))
	}
	return chart
}

func line(spec models.ChartSpec) page {
	points := plot.Points(spec)
	labels := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		labels[i] = models.FormatDate(p.Time)
		data[i] = opts.LineData{Value: p.Value}
	}
	chart := charts.NewLine()
	chart.SetGlobalOptions(append(globals(spec, "axis", false),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XField}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YField}),
	)...)
	chart.SetXAxis(labels).AddSeries(spec.YField, data)
	return chart
}

func pie(spec models.ChartSpec) page {
	labels, values := plot.Slices(spec)
	data := make([]opts.PieData, len(values))
	for i := range values {
		data[i] = opts.PieData{Name: labels[i], Value: values[i]}
	}
	chart := charts.NewPie()
	chart.SetGlobalOptions(globals(spec, "item", true)...)
	chart.AddSeries(spec.YField, data)
	return chart
}
