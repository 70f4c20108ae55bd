package rental

// BuildDashboard runs the filter and every aggregator for one date-range selection.
// The table is not modified.
func BuildDashboard(t *Table, selected DateRange) Dashboard {
	bounds, _ := t.Bounds()
	applied := NewDateRange(selected.Start, selected.End)

	filtered := t.Filter(applied)
	daily := DailyRollup(filtered)
	hourly := HourlyProfile(filtered)

	d := Dashboard{
		Bounds:  bounds,
		Range:   applied,
		Rows:    filtered.Len(),
		Totals:  SumTotals(daily),
		Daily:   daily,
		Seasons: SeasonSummary(filtered),
		Weather: WeatherSummary(filtered),
		Hourly:  hourly,
	}
	if peak, low, ok := HourlyExtremes(hourly); ok {
		d.PeakHour = &peak
		d.LowHour = &low
	}
	return d
}

// DefaultRange is the selection shown before the user picks one: the whole dataset.
func DefaultRange(t *Table) DateRange {
	bounds, _ := t.Bounds()
	return bounds
}
