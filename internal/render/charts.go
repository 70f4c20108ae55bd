package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

// Chart names accepted by Chart.
const (
	ChartDaily   = "daily"
	ChartSeason  = "season"
	ChartWeather = "weather"
	ChartHourly  = "hourly"
)

// ChartNames lists every chart in page order.
var ChartNames = []string{ChartDaily, ChartSeason, ChartWeather, ChartHourly}

var (
	colorHighlight = drawing.ColorFromHex("90CAF9")
	colorMuted     = drawing.ColorFromHex("D3D3D3")
	colorRoyalBlue = drawing.ColorFromHex("4169E1")
	colorPeak      = chart.ColorGreen
	colorLow       = chart.ColorRed
)

// weatherPalette is applied by position, not by value: the first weather
// category is always the highlighted one.
var weatherPalette = []drawing.Color{colorHighlight, colorMuted, colorMuted, colorMuted}

const (
	dailyWidth, dailyHeight   = 1200, 600
	barWidth, barHeight       = 800, 560
	hourlyWidth, hourlyHeight = 1000, 500
)

// ErrUnknownChart is returned by Chart for a name not in ChartNames.
var ErrUnknownChart = errors.New("unknown chart")

// Charts holds PNG renderings of the four dashboard panels.
type Charts struct {
	Daily   []byte
	Season  []byte
	Weather []byte
	Hourly  []byte
}

// RenderCharts draws all four charts for d.
func RenderCharts(d rental.Dashboard) Charts {
	one := func(name string) []byte {
		b, _ := Chart(name, d)
		return b
	}
	return Charts{
		Daily:   one(ChartDaily),
		Season:  one(ChartSeason),
		Weather: one(ChartWeather),
		Hourly:  one(ChartHourly),
	}
}

// Chart draws a single named chart for d as PNG. Empty tables and render
// failures yield a blank placeholder image rather than an error.
func Chart(name string, d rental.Dashboard) ([]byte, error) {
	switch name {
	case ChartDaily:
		return renderOrBlank(dailyWidth, dailyHeight, func(w io.Writer) error { return DailyChart(d.Daily, w) }), nil
	case ChartSeason:
		return renderOrBlank(barWidth, barHeight, func(w io.Writer) error { return SeasonChart(d.Seasons, w) }), nil
	case ChartWeather:
		return renderOrBlank(barWidth, barHeight, func(w io.Writer) error { return WeatherChart(d.Weather, w) }), nil
	case ChartHourly:
		return renderOrBlank(hourlyWidth, hourlyHeight, func(w io.Writer) error { return HourlyChart(d.Hourly, w) }), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// errNoData is returned by the chart functions for an empty table.
var errNoData = errors.New("no data to plot")

// DailyChart plots total rentals per day.
func DailyChart(daily []rental.DailyRent, w io.Writer) error {
	if len(daily) == 0 {
		return errNoData
	}

	xs := make([]time.Time, len(daily))
	ys := make([]float64, len(daily))
	for i, d := range daily {
		xs[i] = d.Date
		ys[i] = float64(d.Count)
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	if !maxX.After(minX) {
		// A single day would give a zero-width axis.
		minX, maxX = minX.AddDate(0, 0, -1), maxX.AddDate(0, 0, 1)
	}

	ch := chart.Chart{
		Width:      dailyWidth,
		Height:     dailyHeight,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(minX), Max: chart.TimeToFloat64(maxX)},
		},
		YAxis: chart.YAxis{
			Range: valueRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "cnt",
				Style: chart.Style{
					StrokeColor: colorHighlight,
					StrokeWidth: 2,
					DotColor:    colorHighlight,
					DotWidth:    3,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return ch.Render(chart.PNG, w)
}

// SeasonChart draws average rentals per season.
func SeasonChart(seasons []rental.SeasonAverage, w io.Writer) error {
	if len(seasons) == 0 {
		return errNoData
	}
	return barChart("Average Bike Rentals by Season", seasonBars(seasons), w)
}

// WeatherChart draws average rentals per weather situation.
func WeatherChart(weather []rental.WeatherAverage, w io.Writer) error {
	if len(weather) == 0 {
		return errNoData
	}
	return barChart("Average Bike Rentals by Weather", weatherBars(weather), w)
}

// seasonBars highlights every bar equal to the maximum.
func seasonBars(seasons []rental.SeasonAverage) []chart.Value {
	maxValue := seasons[0].Count
	for _, s := range seasons[1:] {
		if s.Count > maxValue {
			maxValue = s.Count
		}
	}

	bars := make([]chart.Value, len(seasons))
	for i, s := range seasons {
		fill := colorMuted
		if s.Count == maxValue {
			fill = colorHighlight
		}
		bars[i] = chart.Value{Label: s.Season, Value: s.Count, Style: barStyle(fill)}
	}
	return bars
}

// weatherBars colours bars from the positional palette.
func weatherBars(weather []rental.WeatherAverage) []chart.Value {
	bars := make([]chart.Value, len(weather))
	for i, c := range weather {
		fill := colorMuted
		if i < len(weatherPalette) {
			fill = weatherPalette[i]
		}
		bars[i] = chart.Value{Label: c.Weather, Value: c.Count, Style: barStyle(fill)}
	}
	return bars
}

// HourlyChart plots the mean rentals per hour and marks the peak and lowest hour.
func HourlyChart(hourly []rental.HourlyAverage, w io.Writer) error {
	peak, low, ok := rental.HourlyExtremes(hourly)
	if !ok {
		return errNoData
	}

	xs := make([]float64, len(hourly))
	ys := make([]float64, len(hourly))
	for i, h := range hourly {
		xs[i] = float64(h.Hour)
		ys[i] = h.Count
	}

	ticks := make([]chart.Tick, 24)
	for h := range ticks {
		ticks[h] = chart.Tick{Value: float64(h), Label: fmt.Sprintf("%d", h)}
	}

	peakLabel := fmt.Sprintf("Peak: %d:00", peak.Hour)
	lowLabel := fmt.Sprintf("Lowest: %d:00", low.Hour)

	ch := chart.Chart{
		Width:      hourlyWidth,
		Height:     hourlyHeight,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 23},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: valueRange(ys),
			GridMajorStyle: chart.Style{
				StrokeColor:     colorMuted,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "cnt",
				Style: chart.Style{
					StrokeColor: colorRoyalBlue,
					StrokeWidth: 2,
					DotColor:    colorRoyalBlue,
					DotWidth:    3,
				},
				XValues: xs,
				YValues: ys,
			},
			chart.ContinuousSeries{
				Name:    peakLabel,
				Style:   pointStyle(colorPeak),
				XValues: []float64{float64(peak.Hour)},
				YValues: []float64{peak.Count},
			},
			chart.ContinuousSeries{
				Name:    lowLabel,
				Style:   pointStyle(colorLow),
				XValues: []float64{float64(low.Hour)},
				YValues: []float64{low.Count},
			},
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{XValue: float64(peak.Hour), YValue: peak.Count, Label: peakLabel},
					{XValue: float64(low.Hour), YValue: low.Count, Label: lowLabel},
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func barChart(title string, bars []chart.Value, w io.Writer) error {
	ys := make([]float64, len(bars))
	for i, b := range bars {
		ys[i] = b.Value
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      barWidth,
		Height:     barHeight,
		BarWidth:   barWidth / (3 * len(bars)),
		BarSpacing: barWidth / (3 * len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Range: valueRange(ys),
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

func barStyle(fill drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   fill,
		StrokeColor: fill,
		StrokeWidth: 0,
	}
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    7,
		DotColor:    col,
	}
}

// valueRange spans zero to a little above the largest value so that bars and
// lines always start from a zero baseline and the axis never collapses.
func valueRange(ys []float64) *chart.ContinuousRange {
	maxY := 0.0
	for _, y := range ys {
		if y > maxY {
			maxY = y
		}
	}
	if maxY == 0 {
		maxY = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: maxY * 1.1}
}

func renderOrBlank(width, height int, plot func(io.Writer) error) []byte {
	var buf bytes.Buffer
	if err := plot(&buf); err != nil {
		return blank(width, height)
	}
	return buf.Bytes()
}

// blank returns a white placeholder PNG used for empty tables and render errors.
func blank(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
