package render

import (
	"github.com/dustin/go-humanize"

	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
)

// Metric is one summary card on the page.
type Metric struct {
	Label string
	Value string
}

// FormatCount renders n with dots as thousands separators (1234567 -> "1.234.567").
func FormatCount(n int) string {
	return humanize.FormatInteger("#.###,", n)
}

// Metrics returns the three summary cards in page order.
func Metrics(t rental.Totals) []Metric {
	return []Metric{
		{Label: "Total casual rents", Value: FormatCount(t.Casual)},
		{Label: "Total registered rents", Value: FormatCount(t.Registered)},
		{Label: "Total cnt rents", Value: FormatCount(t.Count)},
	}
}
