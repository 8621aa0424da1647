package service

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"cityaqi/internal/modules/aqi/types"
)

const (
	cityCol   = "City"
	maxAQICol = "Max_AQI"
)

// Rank averages every city's readings on date and orders the cities from
// least to most polluted. Cities without readings that day are left out.
func Rank(ds *types.Dataset, date types.Date) ([]types.RankEntry, error) {
	var cities []string
	var values []float64
	for _, r := range ds.Readings {
		if types.DateOf(r.Timestamp) != date {
			continue
		}
		cities = append(cities, r.City)
		values = append(values, r.MaxAQI)
	}
	if len(cities) == 0 {
		return []types.RankEntry{}, nil
	}

	daily := dataframe.New(
		series.New(cities, series.String, cityCol),
		series.New(values, series.Float, maxAQICol),
	)
	if daily.Err != nil {
		return nil, fmt.Errorf("build daily frame: %w", daily.Err)
	}
	groups := daily.GroupBy(cityCol)
	if groups.Err != nil {
		return nil, fmt.Errorf("group by city: %w", groups.Err)
	}

	// Grouping on a single string column keys each group by the city name.
	byCity := groups.GetGroups()
	out := make([]types.RankEntry, 0, len(byCity))
	for city, g := range byCity {
		out = append(out, types.RankEntry{
			City: city,
			Mean: g.Col(maxAQICol).Mean(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean < out[j].Mean
		}
		return out[i].City < out[j].City
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}
