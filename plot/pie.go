package plot

import (
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/sales_insights/domain/models"
)

type pieRenderer struct{}

// Render draws one slice per label. Slices that are zero or negative
// cannot be drawn and are left out.
func (pieRenderer) Render(spec models.ChartSpec) ([]byte, error) {
	labels, values := Slices(spec)
	if len(values) == 0 {
		return nil, ErrNoData
	}
	slices := make([]chart.Value, len(values))
	for i := range values {
		slices[i] = chart.Value{Value: values[i], Label: labels[i]}
	}
	pie := chart.PieChart{
		Title:      spec.Title,
		Background: background(20),
		Width:      800,
		Height:     800,
		Values:     slices,
	}
	return renderPNG(pie)
}
