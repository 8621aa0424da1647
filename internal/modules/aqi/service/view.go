// Package service holds the dashboard's view logic as pure functions over a
// loaded dataset, so the HTTP layer only maps requests onto them.
package service

import (
	"fmt"
	"sort"

	"cityaqi/internal/modules/aqi/types"
)

const emptyDatasetNotice = "No AQI readings available."

// Query is one evaluation of the page: the current selections plus whether
// the show trigger was pressed. Zero City and Date mean "use the default".
type Query struct {
	City string
	Date types.Date
	Show bool
}

// Result is everything the page needs to render after one interaction.
type Result struct {
	Cities       []string
	SelectedCity string
	MinDate      types.Date
	MaxDate      types.Date
	SelectedDate types.Date

	// Chart is set only when the trigger fired and readings matched.
	Chart *types.ChartData
	// Warning is set only when the trigger fired and nothing matched.
	Warning string
	// Notice is set when the dataset has no readings at all.
	Notice string

	Ranking []types.RankEntry
}

// Evaluate resolves the selections against ds and computes the chart (when
// q.Show is set) and the ranking for the selected date.
func Evaluate(ds *types.Dataset, q Query) (Result, error) {
	res := Result{Cities: ds.Cities}
	if len(ds.Cities) == 0 {
		res.Notice = emptyDatasetNotice
		return res, nil
	}

	res.SelectedCity = ResolveCity(ds, q.City)

	dates := DatesFor(ds, res.SelectedCity)
	if len(dates) == 0 {
		res.Notice = emptyDatasetNotice
		return res, nil
	}
	res.MinDate, res.MaxDate = dates[0], dates[len(dates)-1]
	res.SelectedDate = ClampDate(q.Date, res.MinDate, res.MaxDate)

	if q.Show {
		points := HourlyReadings(ds, res.SelectedCity, res.SelectedDate)
		if len(points) == 0 {
			res.Warning = NoDataWarning(res.SelectedCity, res.SelectedDate)
		} else {
			res.Chart = ChartFor(res.SelectedCity, res.SelectedDate, points)
		}
	}

	ranking, err := Rank(ds, res.SelectedDate)
	if err != nil {
		return Result{}, err
	}
	res.Ranking = ranking
	return res, nil
}

// ResolveCity returns city when ds has it, otherwise the first city.
func ResolveCity(ds *types.Dataset, city string) string {
	if hasCity(ds, city) {
		return city
	}
	if len(ds.Cities) == 0 {
		return ""
	}
	return ds.Cities[0]
}

func hasCity(ds *types.Dataset, city string) bool {
	for _, c := range ds.Cities {
		if c == city {
			return true
		}
	}
	return false
}

// DatesFor returns the distinct calendar dates of city's readings, ascending.
func DatesFor(ds *types.Dataset, city string) []types.Date {
	seen := make(map[types.Date]struct{})
	var out []types.Date
	for _, r := range ds.Readings {
		if r.City != city {
			continue
		}
		d := types.DateOf(r.Timestamp)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ClampDate returns d limited to [lo, hi]; the zero date selects lo.
func ClampDate(d, lo, hi types.Date) types.Date {
	switch {
	case d.IsZero(), d.Before(lo):
		return lo
	case d.After(hi):
		return hi
	default:
		return d
	}
}

// HourlyReadings returns city's readings on date ordered by hour. Readings
// sharing an hour keep their file order.
func HourlyReadings(ds *types.Dataset, city string, date types.Date) []types.Reading {
	var out []types.Reading
	for _, r := range ds.Readings {
		if r.City == city && types.DateOf(r.Timestamp) == date {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func ChartFor(city string, date types.Date, readings []types.Reading) *types.ChartData {
	points := make([]types.ChartPoint, 0, len(readings))
	for _, r := range readings {
		points = append(points, types.ChartPoint{Hour: r.Hour, AQI: r.MaxAQI})
	}
	return &types.ChartData{
		City:   city,
		Date:   date,
		Title:  fmt.Sprintf("Hourly AQI for %s on %s", city, date),
		Points: points,
	}
}

func NoDataWarning(city string, date types.Date) string {
	return fmt.Sprintf("No AQI data available for %s on %s.", city, date)
}
