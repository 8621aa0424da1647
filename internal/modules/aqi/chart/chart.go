// Package chart renders the hourly AQI line chart as SVG.
package chart

import (
	"errors"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"cityaqi/internal/modules/aqi/types"
)

const (
	DefaultWidth  = 1000
	DefaultHeight = 600

	firstHour = 0
	lastHour  = 23
)

var ErrNoPoints = errors.New("chart: no points to draw")

// RenderSVG draws data as a line chart with one marker per point. The x axis
// always spans the whole day so charts for different dates line up.
func RenderSVG(w io.Writer, data *types.ChartData, width, height int) error {
	if data == nil || len(data.Points) == 0 {
		return ErrNoPoints
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	xs := make([]float64, len(data.Points))
	ys := make([]float64, len(data.Points))
	for i, p := range data.Points {
		xs[i] = float64(p.Hour)
		ys[i] = p.AQI
	}
	yMin, yMax := valueBounds(ys)

	grid := gochart.Style{
		StrokeColor: gochart.ColorAlternateGray,
		StrokeWidth: 1,
	}
	line := gochart.Style{
		StrokeColor: gochart.ColorBlue,
		StrokeWidth: 2,
		DotColor:    gochart.ColorBlue,
		DotWidth:    4,
	}

	graph := gochart.Chart{
		Title:      data.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:           "Hour of the Day",
			Range:          &gochart.ContinuousRange{Min: firstHour, Max: lastHour},
			Ticks:          hourTicks(),
			GridMajorStyle: grid,
		},
		YAxis: gochart.YAxis{
			Name:           "AQI",
			Range:          &gochart.ContinuousRange{Min: yMin, Max: yMax},
			GridMajorStyle: grid,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    data.City,
				XValues: xs,
				YValues: ys,
				Style:   line,
			},
		},
	}
	return graph.Render(gochart.SVG, w)
}

func hourTicks() []gochart.Tick {
	ticks := make([]gochart.Tick, 0, lastHour-firstHour+1)
	for h := firstHour; h <= lastHour; h++ {
		ticks = append(ticks, gochart.Tick{Value: float64(h), Label: strconv.Itoa(h)})
	}
	return ticks
}

// valueBounds returns a y range that starts at zero (or below, for negative
// values) and ends at a rounded-up maximum, never zero-width.
func valueBounds(ys []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	lo = math.Floor(lo/10) * 10
	hi = niceCeil(hi * 1.1)
	if hi <= lo {
		hi = lo + 10
	}
	return lo, hi
}

func niceCeil(v float64) float64 {
	if v <= 0 {
		return 0
	}
	step := math.Pow(10, math.Floor(math.Log10(v)))
	if step > 10 {
		step /= 2
	}
	return math.Ceil(v/step) * step
}
