package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/sales_insights/domain/models"
)

const barWidth = 60

type barRenderer struct{}

func (barRenderer) Render(spec models.ChartSpec) ([]byte, error) {
	c := Categorical(spec)
	if len(c.Labels) == 0 {
		return nil, ErrNoData
	}
	if len(c.Series) > 1 && spec.GroupMode == models.GroupStacked {
		return renderStacked(spec, c)
	}
	return renderBars(spec, flatten(c))
}

// flatten turns split series into one bar per label and series, grouped
// under their label.
func flatten(c Categories) []chart.Value {
	var bars []chart.Value
	for li, label := range c.Labels {
		for si, s := range c.Series {
			name := label
			if len(c.Series) > 1 {
				name = label + " / " + s.Name
			}
			color := drawing.ColorPurple.WithAlpha(100)
			switch {
			case c.PerLabelColor:
				color = chart.GetDefaultColor(li)
			case len(c.Series) > 1:
				color = chart.GetDefaultColor(si)
			}
			bars = append(bars, chart.Value{
				Value: s.Values[li],
				Label: name,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
	}
	return bars
}

func renderBars(spec models.ChartSpec, bars []chart.Value) ([]byte, error) {
	labels := make([]string, len(bars))
	values := make([]float64, len(bars))
	for i, b := range bars {
		labels[i] = b.Label
		values[i] = b.Value
	}
	paddingX := customizePaddingXBottom(labels)
	width, height := chartDimensions(len(bars), barWidth)

	minY, maxY := findMinValue(values), findMaxValue(values)
	if minY > 0 {
		minY = 0
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	yAxis := chart.YAxis{
		Name: spec.YField,
		Range: &chart.ContinuousRange{
			Min: minY,
			Max: maxY,
		},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
		ValueFormatter: func(v interface{}) string {
			if vf, ok := v.(float64); ok {
				return formatValue(vf)
			}
			return ""
		},
		GridMajorStyle: chart.Style{
			StrokeColor:     chart.ColorBlack,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
	if minY == 0 {
		yAxis.Ticks = generateGrid(maxY)
		if n := len(yAxis.Ticks); n > 0 {
			yAxis.Range = &chart.ContinuousRange{Min: 0, Max: yAxis.Ticks[n-1].Value}
		}
	}

	bar := chart.BarChart{
		Title:        spec.Title,
		Background:   background(paddingX),
		Width:        width,
		Height:       height + paddingX,
		BarWidth:     barWidth,
		Bars:         bars,
		YAxis:        yAxis,
		UseBaseValue: minY < 0,
		BaseValue:    0,
		XAxis: chart.Style{
			StrokeWidth:         2,
			StrokeColor:         chart.ColorBlack,
			TextRotationDegrees: 88,
			FontSize:            12,
		},
	}
	return renderPNG(bar)
}

func renderStacked(spec models.ChartSpec, c Categories) ([]byte, error) {
	bars := make([]chart.StackedBar, len(c.Labels))
	for li, label := range c.Labels {
		values := make([]chart.Value, len(c.Series))
		for si, s := range c.Series {
			color := chart.GetDefaultColor(si)
			values[si] = chart.Value{
				Label: s.Name,
				Value: s.Values[li],
				Style: chart.Style{FillColor: color, StrokeColor: color},
			}
		}
		bars[li] = chart.StackedBar{Name: label, Width: barWidth, Values: values}
	}
	paddingX := customizePaddingXBottom(c.Labels)
	width, height := chartDimensions(len(bars), barWidth)
	stacked := chart.StackedBarChart{
		Title:      spec.Title,
		Background: background(paddingX),
		Width:      width,
		Height:     height + paddingX,
		BarSpacing: barWidth / 2,
		Bars:       bars,
		XAxis: chart.Style{
			StrokeWidth:         2,
			StrokeColor:         chart.ColorBlack,
			TextRotationDegrees: 88,
			FontSize:            12,
		},
	}
	return renderPNG(stacked)
}
