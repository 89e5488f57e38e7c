package plot

import (
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/sales_insights/domain/models"
)

type lineRenderer struct{}

func (lineRenderer) Render(spec models.ChartSpec) ([]byte, error) {
	points := Points(spec)
	if len(points) == 0 {
		return nil, ErrNoData
	}
	times := make([]time.Time, len(points))
	values := make([]float64, len(points))
	first, last := points[0].Time, points[0].Time
	for i, p := range points {
		times[i] = p.Time
		values[i] = p.Value
		if p.Time.Before(first) {
			first = p.Time
		}
		if p.Time.After(last) {
			last = p.Time
		}
	}
	// go-chart needs a non-empty x range
	if first.Equal(last) {
		times = append(times, last.Add(24*time.Hour))
		values = append(values, values[len(values)-1])
	}

	yAxis := chart.YAxis{
		Name: spec.YField,
		ValueFormatter: func(v interface{}) string {
			if vf, ok := v.(float64); ok {
				return formatValue(vf)
			}
			return ""
		},
	}
	if minY, maxY := findMinValue(values), findMaxValue(values); minY == maxY {
		yAxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	width, height := chartDimensions(len(times), 20)
	graph := chart.Chart{
		Title:      spec.Title,
		Background: background(40),
		Width:      width,
		Height:     height,
		XAxis: chart.XAxis{
			Name:           spec.XField,
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    spec.YField,
				XValues: times,
				YValues: values,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    drawing.ColorBlue,
				},
			},
		},
	}
	return renderPNG(graph)
}
