package render

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Caption is printed under the last chart.
const Caption = "Copyright (c) Farhan Jiratullah 2025"

type pageData struct {
	MinDate string
	MaxDate string
	Start   string
	End     string
	Rows    int
	Metrics []Metric

	DailyChart   template.URL
	SeasonChart  template.URL
	WeatherChart template.URL
	HourlyChart  template.URL

	PeakLabel string
	LowLabel  string
	Caption   string
}

// Page writes the full dashboard HTML for d, with the charts inlined as PNG data URIs.
func Page(w io.Writer, d rental.Dashboard) error {
	charts := RenderCharts(d)

	data := pageData{
		MinDate:      common.FormatDay(d.Bounds.Start),
		MaxDate:      common.FormatDay(d.Bounds.End),
		Start:        common.FormatDay(d.Range.Start),
		End:          common.FormatDay(d.Range.End),
		Rows:         d.Rows,
		Metrics:      Metrics(d.Totals),
		DailyChart:   dataURI(charts.Daily),
		SeasonChart:  dataURI(charts.Season),
		WeatherChart: dataURI(charts.Weather),
		HourlyChart:  dataURI(charts.Hourly),
		Caption:      Caption,
	}
	if d.PeakHour != nil && d.LowHour != nil {
		data.PeakLabel = hourLabel(d.PeakHour.Hour)
		data.LowLabel = hourLabel(d.LowHour.Hour)
	}

	return pageTemplate.Execute(w, data)
}

func hourLabel(h int) string {
	return fmt.Sprintf("%d:00", h)
}

func dataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
