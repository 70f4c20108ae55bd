package rental

import "sort"

// DailyRollup sums casual, registered and cnt per calendar day, ordered by date.
// Days between the first and last observed date with no rows are emitted with zero sums.
func DailyRollup(t *Table) []DailyRent {
	out := []DailyRent{}
	if t.Len() == 0 {
		return out
	}

	for _, r := range t.records {
		n := len(out)
		if n > 0 && out[n-1].Date.Equal(r.Date) {
			out[n-1].Casual += r.Casual
			out[n-1].Registered += r.Registered
			out[n-1].Count += r.Count
			continue
		}
		if n > 0 {
			for d := out[n-1].Date.AddDate(0, 0, 1); d.Before(r.Date); d = d.AddDate(0, 0, 1) {
				out = append(out, DailyRent{Date: d})
			}
		}
		out = append(out, DailyRent{
			Date:       r.Date,
			Casual:     r.Casual,
			Registered: r.Registered,
			Count:      r.Count,
		})
	}
	return out
}

// SeasonSummary averages cnt per season code, ordered by code.
func SeasonSummary(t *Table) []SeasonAverage {
	groups := meanCountBy(t, func(r Record) int { return r.Season })
	out := make([]SeasonAverage, 0, len(groups))
	for _, g := range groups {
		label, _ := SeasonLabel(g.key)
		out = append(out, SeasonAverage{Code: g.key, Season: label, Count: g.mean})
	}
	return out
}

// WeatherSummary averages cnt per weather situation code, ordered by code.
func WeatherSummary(t *Table) []WeatherAverage {
	groups := meanCountBy(t, func(r Record) int { return r.Weather })
	out := make([]WeatherAverage, 0, len(groups))
	for _, g := range groups {
		label, _ := WeatherLabel(g.key)
		out = append(out, WeatherAverage{Code: g.key, Weather: label, Count: g.mean})
	}
	return out
}

// HourlyProfile averages cnt per hour of the day, ordered by hour.
func HourlyProfile(t *Table) []HourlyAverage {
	groups := meanCountBy(t, func(r Record) int { return r.Hour })
	out := make([]HourlyAverage, 0, len(groups))
	for _, g := range groups {
		out = append(out, HourlyAverage{Hour: g.key, Count: g.mean})
	}
	return out
}

// HourlyExtremes returns the first row holding the maximum mean and the first
// row holding the minimum mean. ok is false for an empty profile.
func HourlyExtremes(profile []HourlyAverage) (peak, low HourlyAverage, ok bool) {
	if len(profile) == 0 {
		return HourlyAverage{}, HourlyAverage{}, false
	}
	peak, low = profile[0], profile[0]
	for _, h := range profile[1:] {
		if h.Count > peak.Count {
			peak = h
		}
		if h.Count < low.Count {
			low = h
		}
	}
	return peak, low, true
}

// SumTotals adds up the daily rollup into the three headline metrics.
func SumTotals(daily []DailyRent) Totals {
	var tot Totals
	for _, d := range daily {
		tot.Casual += d.Casual
		tot.Registered += d.Registered
		tot.Count += d.Count
	}
	return tot
}

type meanGroup struct {
	key  int
	mean float64
}

func meanCountBy(t *Table, key func(Record) int) []meanGroup {
	if t.Len() == 0 {
		return nil
	}

	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, r := range t.records {
		k := key(r)
		sums[k] += r.Count
		counts[k]++
	}

	keys := make([]int, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]meanGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, meanGroup{key: k, mean: float64(sums[k]) / float64(counts[k])})
	}
	return out
}
