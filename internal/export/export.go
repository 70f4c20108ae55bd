package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
	"github.com/i474232898/bike-sharing-dashboard/internal/render"
	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

// Formats lists the supported export formats.
var Formats = []string{"csv", "json", "yaml", "pdf"}

// Report is the serialisable form of a dashboard.
type Report struct {
	Start    string                  `json:"start" yaml:"start"`
	End      string                  `json:"end" yaml:"end"`
	Rows     int                     `json:"rows" yaml:"rows"`
	Totals   rental.Totals           `json:"totals" yaml:"totals"`
	Daily    []dailyRow              `json:"daily" yaml:"daily"`
	Seasons  []rental.SeasonAverage  `json:"seasons" yaml:"seasons"`
	Weather  []rental.WeatherAverage `json:"weather" yaml:"weather"`
	Hourly   []rental.HourlyAverage  `json:"hourly" yaml:"hourly"`
	PeakHour *int                    `json:"peakHour,omitempty" yaml:"peakHour,omitempty"`
	LowHour  *int                    `json:"lowHour,omitempty" yaml:"lowHour,omitempty"`
}

type dailyRow struct {
	Date       string `json:"dteday" yaml:"dteday"`
	Casual     int    `json:"casual" yaml:"casual"`
	Registered int    `json:"registered" yaml:"registered"`
	Count      int    `json:"cnt" yaml:"cnt"`
}

// NewReport flattens d into a Report with dates as strings.
func NewReport(d rental.Dashboard) Report {
	r := Report{
		Start:   common.FormatDay(d.Range.Start),
		End:     common.FormatDay(d.Range.End),
		Rows:    d.Rows,
		Totals:  d.Totals,
		Daily:   make([]dailyRow, len(d.Daily)),
		Seasons: d.Seasons,
		Weather: d.Weather,
		Hourly:  d.Hourly,
	}
	for i, row := range d.Daily {
		r.Daily[i] = dailyRow{
			Date:       common.FormatDay(row.Date),
			Casual:     row.Casual,
			Registered: row.Registered,
			Count:      row.Count,
		}
	}
	if d.PeakHour != nil {
		h := d.PeakHour.Hour
		r.PeakHour = &h
	}
	if d.LowHour != nil {
		h := d.LowHour.Hour
		r.LowHour = &h
	}
	return r
}

// ToFile writes d in the given format to a timestamped file in outputDir and
// returns the absolute path of the file.
func ToFile(d rental.Dashboard, format, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := Write(&buf, d, format); err != nil {
		return "", err
	}

	if err := os.WriteFile(outputFilename, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("error writing %s file: %w", format, err)
	}
	return filepath.Abs(outputFilename)
}

// Write encodes d in the given format.
func Write(w io.Writer, d rental.Dashboard, format string) error {
	switch format {
	case "csv":
		return writeCSV(w, d)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewReport(d))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewReport(d)); err != nil {
			return err
		}
		return enc.Close()
	case "pdf":
		return writePDF(w, d)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// writeCSV emits one section per summary table, separated by blank lines.
func writeCSV(w io.Writer, d rental.Dashboard) error {
	writer := csv.NewWriter(w)

	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	rows := [][]string{
		{"metric", "value"},
		{"casual", itoa(d.Totals.Casual)},
		{"registered", itoa(d.Totals.Registered)},
		{"cnt", itoa(d.Totals.Count)},
		{},
		{"dteday", "casual", "registered", "cnt"},
	}
	for _, r := range d.Daily {
		rows = append(rows, []string{common.FormatDay(r.Date), itoa(r.Casual), itoa(r.Registered), itoa(r.Count)})
	}
	rows = append(rows, []string{}, []string{"season", "cnt"})
	for _, r := range d.Seasons {
		rows = append(rows, []string{r.Season, ftoa(r.Count)})
	}
	rows = append(rows, []string{}, []string{"weathersit", "cnt"})
	for _, r := range d.Weather {
		rows = append(rows, []string{r.Weather, ftoa(r.Count)})
	}
	rows = append(rows, []string{}, []string{"hr", "cnt"})
	for _, r := range d.Hourly {
		rows = append(rows, []string{itoa(r.Hour), ftoa(r.Count)})
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

func writePDF(w io.Writer, d rental.Dashboard) error {
	headerColor := []int{144, 202, 249}
	bodyTextColor := []int{38, 39, 48}
	lineColor := []int{211, 211, 211}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr("  Bike Sharing"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  %s to %s, %d records", common.FormatDay(d.Range.Start), common.FormatDay(d.Range.End), d.Rows)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
	}

	section("Daily Rents")
	metricWidth := 190.0 / 3
	pdf.SetFont("Arial", "", 9)
	for _, m := range render.Metrics(d.Totals) {
		pdf.CellFormat(metricWidth, 5, tr(m.Label), "", 0, "L", false, 0, "")
	}
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 16)
	for _, m := range render.Metrics(d.Totals) {
		pdf.CellFormat(metricWidth, 10, tr(m.Value), "", 0, "L", false, 0, "")
	}
	pdf.Ln(12)

	charts := render.RenderCharts(d)
	image := func(name string, png []byte, x, y, width float64) {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, x, y, width, 0, false, opts, 0, "")
	}

	image("daily", charts.Daily, 10, pdf.GetY(), 190)
	pdf.SetY(pdf.GetY() + 95 + 4)

	section("Average Bike Rentals by Season & Weather")
	y := pdf.GetY()
	image("season", charts.Season, 10, y, 93)
	image("weather", charts.Weather, 107, y, 93)
	pdf.SetY(y + 65 + 4)

	pdf.AddPage()
	section("Average Bike Rentals per Hour of the Day")
	image("hourly", charts.Hourly, 10, pdf.GetY(), 190)
	pdf.SetY(pdf.GetY() + 95 + 4)
	if d.PeakHour != nil && d.LowHour != nil {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, tr(fmt.Sprintf("Peak: %d:00   Lowest: %d:00", d.PeakHour.Hour, d.LowHour.Hour)))
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, tr(render.Caption), "", 0, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
