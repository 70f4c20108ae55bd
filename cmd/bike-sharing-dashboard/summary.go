package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
	"github.com/i474232898/bike-sharing-dashboard/internal/render"
	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard metrics and tables for a date range",
	RunE:  runSummary,
}

func init() {
	addRangeFlags(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	d, err := rt.selectedDashboard()
	if err != nil {
		return err
	}

	pterm.DefaultHeader.WithFullWidth().Println("Bike Sharing")
	pterm.Info.Printfln("%s to %s, %d records", common.FormatDay(d.Range.Start), common.FormatDay(d.Range.End), d.Rows)

	for _, t := range summaryTables(d) {
		pterm.DefaultSection.Println(t.title)
		if err := pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
			WithData(t.rows).
			Render(); err != nil {
			return fmt.Errorf("rendering %s: %w", t.title, err)
		}
	}

	if d.Rows == 0 {
		pterm.Warning.Println("No rentals in the selected range.")
		return nil
	}

	if d.PeakHour != nil && d.LowHour != nil {
		pterm.Success.Printfln("Peak: %d:00 (%.1f)", d.PeakHour.Hour, d.PeakHour.Count)
		pterm.Error.Printfln("Lowest: %d:00 (%.1f)", d.LowHour.Hour, d.LowHour.Count)
	}
	return nil
}

type summaryTable struct {
	title string
	rows  pterm.TableData
}

// summaryTables always starts with the metrics table; an empty range has
// nothing else to show.
func summaryTables(d rental.Dashboard) []summaryTable {
	mean := func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

	metrics := pterm.TableData{{"Metric", "Value"}}
	for _, m := range render.Metrics(d.Totals) {
		metrics = append(metrics, []string{m.Label, m.Value})
	}
	if d.Rows == 0 {
		return []summaryTable{{title: "Daily Rents", rows: metrics}}
	}

	daily := pterm.TableData{{"Date", "Casual", "Registered", "Total"}}
	for _, r := range d.Daily {
		daily = append(daily, []string{
			common.FormatDay(r.Date),
			render.FormatCount(r.Casual),
			render.FormatCount(r.Registered),
			render.FormatCount(r.Count),
		})
	}

	seasons := pterm.TableData{{"Season", "Avg rentals"}}
	for _, r := range d.Seasons {
		seasons = append(seasons, []string{r.Season, mean(r.Count)})
	}

	weather := pterm.TableData{{"Weather", "Avg rentals"}}
	for _, r := range d.Weather {
		weather = append(weather, []string{r.Weather, mean(r.Count)})
	}

	hourly := pterm.TableData{{"Hour", "Avg rentals"}}
	for _, r := range d.Hourly {
		hourly = append(hourly, []string{fmt.Sprintf("%d:00", r.Hour), mean(r.Count)})
	}

	return []summaryTable{
		{title: "Daily Rents", rows: metrics},
		{title: "Daily Rollup", rows: daily},
		{title: "Average Bike Rentals by Season", rows: seasons},
		{title: "Average Bike Rentals by Weather", rows: weather},
		{title: "Average Bike Rentals per Hour of the Day", rows: hourly},
	}
}
