// Package plot draws chart specs as PNG images.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/sales_insights/domain/models"
)

// ErrNoData is returned for charts with nothing to draw.
var ErrNoData = errors.New("no data to plot")

// Renderer draws one kind of chart.
type Renderer interface {
	Render(spec models.ChartSpec) ([]byte, error)
}

var renderers = map[models.ChartKind]Renderer{
	models.ChartBar:  barRenderer{},
	models.ChartLine: lineRenderer{},
	models.ChartPie:  pieRenderer{},
}

// ForKind returns the renderer for kind.
func ForKind(kind models.ChartKind) (Renderer, error) {
	r, ok := renderers[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported chart kind %q", kind)
	}
	return r, nil
}

// Render draws spec with the renderer for its kind.
func Render(spec models.ChartSpec) ([]byte, error) {
	r, err := ForKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	return r.Render(spec)
}

type graph interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(g graph) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := g.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func background(paddingBottom int) chart.Style {
	return chart.Style{
		FillColor:   drawing.ColorWhite,
		StrokeColor: drawing.ColorFromHex("efefef"),
		StrokeWidth: 1,
		Padding: chart.Box{
			Top:    50,
			Left:   20,
			Right:  20,
			Bottom: paddingBottom,
		},
	}
}

// chartDimensions grows the canvas with the number of categories.
func chartDimensions(n int, minBarWidth float64) (width, height int) {
	const (
		paddingY     = 100
		spacingRatio = 0.2
		aspectRatio  = 9.0 / 16.0
		minWidth     = 800
	)
	if n <= 0 {
		return minWidth, int(minWidth * aspectRatio)
	}
	x := 1.1
	if n < 2 {
		x = 4.0
	} else if n < 10 {
		x = 3.0
	}
	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(n) + paddingY
	width = int(totalWidth*x) + paddingY
	if width < minWidth {
		width = minWidth
	}
	height = int(float64(width) * aspectRatio)
	return width, height
}

// calculateGridStep picks a 1-2-5 style tick step for an axis ending at
// maxValue.
func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	return finalStep
}

// generateGrid returns y ticks from zero past maxValue.
func generateGrid(maxValue float64) []chart.Tick {
	step := calculateGridStep(maxValue)
	if step <= 0 {
		return nil
	}
	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := float64(i) * step
		ticks = append(ticks, chart.Tick{Value: v, Label: formatValue(v)})
		if v >= maxValue {
			break
		}
	}
	return ticks
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func findMinValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	min := y[0]
	for _, v := range y {
		if v < min {
			min = v
		}
	}
	return min
}

// customizePaddingXBottom leaves room under the axis for rotated labels.
func customizePaddingXBottom(labels []string) int {
	count := 0
	for _, l := range labels {
		if len(l) > count {
			count = len(l)
		}
	}
	return count*8 + 20
}
