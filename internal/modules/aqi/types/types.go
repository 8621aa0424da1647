package types

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Reading is one (timestamp, city) AQI observation in long format.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	City      string    `json:"city"`
	Hour      int       `json:"hour"`
	MaxAQI    float64   `json:"maxAqi"`
}

// Date is a calendar day without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses the YYYY-MM-DD form used by HTML date inputs.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Dataset is the read-only snapshot of all readings loaded from one file.
// It is never mutated after construction; reloads produce a new Dataset.
type Dataset struct {
	Source   string
	ModTime  time.Time
	LoadedAt time.Time
	Readings []Reading
	// Cities in first-encountered order.
	Cities []string
}

type RankEntry struct {
	Rank int     `json:"rank"`
	City string  `json:"city"`
	Mean float64 `json:"meanAqi"`
}

func (e RankEntry) String() string {
	return fmt.Sprintf("%d. %s: %.2f", e.Rank, e.City, e.Mean)
}

type ChartPoint struct {
	Hour int     `json:"hour"`
	AQI  float64 `json:"aqi"`
}

// ChartData is the hourly curve for one city on one date, points in hour order.
type ChartData struct {
	City   string       `json:"city"`
	Date   Date         `json:"date"`
	Title  string       `json:"title"`
	Points []ChartPoint `json:"points"`
}
