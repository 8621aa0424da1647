// Package transform reshapes the wide per-city AQI table into long-format readings.
package transform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"cityaqi/internal/modules/aqi/types"
)

const (
	TimestampColumn = "Timestamp"
	CitySuffix      = "_Max_AQI"
)

// NullTokens are the cell spellings read as missing values.
var NullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

var (
	ErrMissingTimestamp = errors.New("missing " + TimestampColumn + " column")
	ErrNoCityColumns    = errors.New("no city columns")
	ErrColumnConvention = errors.New("city column does not follow <City>" + CitySuffix + " naming")
)

// TableOptions are the gota load options for the raw table: no type
// detection, every column a string series, NullTokens read as NA.
func TableOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NullTokens),
	}
}

// CityColumns returns every column name except the timestamp column, in table order.
func CityColumns(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != TimestampColumn {
			out = append(out, n)
		}
	}
	return out
}

// NormalizeCity strips the AQI suffix from a column name and trims the result.
func NormalizeCity(column string) (string, error) {
	if !strings.Contains(column, CitySuffix) {
		return "", fmt.Errorf("%w: %q", ErrColumnConvention, column)
	}
	city := strings.TrimSpace(strings.ReplaceAll(column, CitySuffix, ""))
	if city == "" {
		return "", fmt.Errorf("%w: %q has no city name", ErrColumnConvention, column)
	}
	return city, nil
}

type cell struct {
	value float64
	ok    bool
}

// Readings runs the full pipeline over raw. Rows whose city cells are all
// empty are dropped before timestamps are parsed; empty cells are dropped
// after reshaping. Output is column-major: every reading of the first city
// column, then the second, and so on. raw is not modified.
func Readings(raw dataframe.DataFrame) ([]types.Reading, error) {
	if raw.Err != nil {
		return nil, raw.Err
	}
	names := raw.Names()
	if !hasColumn(names, TimestampColumn) {
		return nil, ErrMissingTimestamp
	}
	columns := CityColumns(names)
	if len(columns) == 0 {
		return nil, ErrNoCityColumns
	}

	cities := make([]string, len(columns))
	cells := make([][]cell, len(columns))
	for i, col := range columns {
		city, err := NormalizeCity(col)
		if err != nil {
			return nil, err
		}
		cities[i] = city
		cells[i], err = parseValues(col, raw.Col(col))
		if err != nil {
			return nil, err
		}
	}

	nrow := raw.Nrow()
	keep := make([]bool, nrow)
	for r := 0; r < nrow; r++ {
		for i := range columns {
			if cells[i][r].ok {
				keep[r] = true
				break
			}
		}
	}

	stamps, err := parseTimestamps(raw.Col(TimestampColumn), keep)
	if err != nil {
		return nil, err
	}

	var out []types.Reading
	for i, city := range cities {
		for r := 0; r < nrow; r++ {
			if !keep[r] || !cells[i][r].ok {
				continue
			}
			out = append(out, types.Reading{
				Timestamp: stamps[r],
				City:      city,
				Hour:      stamps[r].Hour(),
				MaxAQI:    cells[i][r].value,
			})
		}
	}
	return out, nil
}

// Cities returns the distinct city names of readings in first-encountered order.
func Cities(readings []types.Reading) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range readings {
		if _, ok := seen[r.City]; ok {
			continue
		}
		seen[r.City] = struct{}{}
		out = append(out, r.City)
	}
	return out
}

func parseValues(column string, s series.Series) ([]cell, error) {
	out := make([]cell, s.Len())
	for r := 0; r < s.Len(); r++ {
		el := s.Elem(r)
		if el.IsNA() {
			continue
		}
		var v float64
		if s.Type() == series.String {
			str := strings.TrimSpace(el.String())
			if str == "" {
				continue
			}
			f, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: invalid AQI value %q", column, r+1, str)
			}
			v = f
		} else {
			v = el.Float()
		}
		if math.IsNaN(v) {
			continue
		}
		out[r] = cell{value: v, ok: true}
	}
	return out, nil
}

func parseTimestamps(s series.Series, keep []bool) ([]time.Time, error) {
	out := make([]time.Time, s.Len())
	for r := 0; r < s.Len(); r++ {
		if !keep[r] {
			continue
		}
		el := s.Elem(r)
		if el.IsNA() {
			return nil, fmt.Errorf("row %d: missing %s", r+1, TimestampColumn)
		}
		t, err := ParseTimestamp(el.String())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+1, err)
		}
		out[r] = t
	}
	return out, nil
}

func hasColumn(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
