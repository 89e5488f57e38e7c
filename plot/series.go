package plot

import (
	"time"

	"github.com/pivolan/sales_insights/domain/models"
)

// Series is one named run of values aligned with Categories.Labels.
type Series struct {
	Name   string
	Values []float64
}

// Categories is a chart's data laid out over category labels.
type Categories struct {
	Labels []string
	Series []Series
	// PerLabelColor is set when the colour field is the label field itself,
	// so every bar gets its own colour.
	PerLabelColor bool
}

// Point is one sample of a time series.
type Point struct {
	Time  time.Time
	Value float64
}

// LabelField is the field categories are read from: the x field, or the
// colour field for charts without an x axis.
func LabelField(spec models.ChartSpec) string {
	if spec.XField != "" {
		return spec.XField
	}
	return spec.ColorField
}

// Categorical collapses the rows of spec by label in first-seen order,
// summing y. When the colour field differs from the label field there is
// one series per colour value, also in first-seen order. Missing labels
// read as "" and missing values as 0.
func Categorical(spec models.ChartSpec) Categories {
	labelField := LabelField(spec)
	split := spec.ColorField != "" && spec.ColorField != labelField

	var out Categories
	out.PerLabelColor = spec.ColorField != "" && !split
	labelIndex := map[string]int{}
	seriesIndex := map[string]int{}
	type cell struct{ label, series int }
	sums := map[cell]float64{}

	for _, r := range spec.Data.Records {
		label, _ := r.Text(labelField)
		li, ok := labelIndex[label]
		if !ok {
			li = len(out.Labels)
			labelIndex[label] = li
			out.Labels = append(out.Labels, label)
		}
		name := spec.YField
		if split {
			name, _ = r.Text(spec.ColorField)
		}
		si, ok := seriesIndex[name]
		if !ok {
			si = len(out.Series)
			seriesIndex[name] = si
			out.Series = append(out.Series, Series{Name: name})
		}
		v, _ := r.Number(spec.YField)
		sums[cell{li, si}] += v
	}

	for si := range out.Series {
		values := make([]float64, len(out.Labels))
		for li := range out.Labels {
			values[li] = sums[cell{li, si}]
		}
		out.Series[si].Values = values
	}
	return out
}

// Points returns the dated rows of spec in row order.
func Points(spec models.ChartSpec) []Point {
	var points []Point
	for _, r := range spec.Data.Records {
		if r.Date == nil {
			continue
		}
		v, _ := r.Number(spec.YField)
		points = append(points, Point{Time: *r.Date, Value: v})
	}
	return points
}

// Slices returns positive pie slices, summed per label.
func Slices(spec models.ChartSpec) (labels []string, values []float64) {
	c := Categorical(spec)
	if len(c.Series) == 0 {
		return nil, nil
	}
	for i, v := range c.Series[0].Values {
		if v > 0 {
			labels = append(labels, c.Labels[i])
			values = append(values, v)
		}
	}
	return labels, values
}
