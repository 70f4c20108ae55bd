package rental

import (
	"time"
)

// Record is a single hourly rental observation from the dataset.
type Record struct {
	Date       time.Time `json:"dteday"` // always UTC midnight
	Hour       int       `json:"hr"`
	Season     int       `json:"season"`
	Weather    int       `json:"weathersit"`
	Casual     int       `json:"casual"`
	Registered int       `json:"registered"`
	Count      int       `json:"cnt"`
}

// DailyRent is one row of the daily rollup.
type DailyRent struct {
	Date       time.Time `json:"dteday"`
	Casual     int       `json:"casual"`
	Registered int       `json:"registered"`
	Count      int       `json:"cnt"`
}

// SeasonAverage is the mean rental count for one season code.
// Season is empty when the code has no known label.
type SeasonAverage struct {
	Code   int     `json:"code" yaml:"code"`
	Season string  `json:"season" yaml:"season"`
	Count  float64 `json:"cnt" yaml:"cnt"`
}

// WeatherAverage is the mean rental count for one weather situation code.
type WeatherAverage struct {
	Code    int     `json:"code" yaml:"code"`
	Weather string  `json:"weathersit" yaml:"weathersit"`
	Count   float64 `json:"cnt" yaml:"cnt"`
}

// HourlyAverage is the mean rental count for one hour of the day.
type HourlyAverage struct {
	Hour  int     `json:"hr" yaml:"hr"`
	Count float64 `json:"cnt" yaml:"cnt"`
}

// Totals holds the three headline metrics.
type Totals struct {
	Casual     int `json:"casual" yaml:"casual"`
	Registered int `json:"registered" yaml:"registered"`
	Count      int `json:"cnt" yaml:"cnt"`
}

// Dashboard is everything the presenter needs for one render.
type Dashboard struct {
	Bounds   DateRange        `json:"bounds"`
	Range    DateRange        `json:"range"`
	Rows     int              `json:"rows"`
	Totals   Totals           `json:"totals"`
	Daily    []DailyRent      `json:"daily"`
	Seasons  []SeasonAverage  `json:"seasons"`
	Weather  []WeatherAverage `json:"weather"`
	Hourly   []HourlyAverage  `json:"hourly"`
	PeakHour *HourlyAverage   `json:"peakHour,omitempty"`
	LowHour  *HourlyAverage   `json:"lowHour,omitempty"`
}

var seasonLabels = map[int]string{
	1: "Spring",
	2: "Summer",
	3: "Fall",
	4: "Winter",
}

var weatherLabels = map[int]string{
	1: "Clear/Few Clouds",
	2: "Mist/Cloudy",
	3: "Light Snow/Rain",
	4: "Heavy Rain/Snow",
}

// SeasonLabel maps a season code to its name. ok is false for unknown codes.
func SeasonLabel(code int) (label string, ok bool) {
	label, ok = seasonLabels[code]
	return
}

// WeatherLabel maps a weathersit code to its condition name.
func WeatherLabel(code int) (label string, ok bool) {
	label, ok = weatherLabels[code]
	return
}
