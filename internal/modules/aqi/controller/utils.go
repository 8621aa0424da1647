package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"cityaqi/internal/modules/aqi/service"
	"cityaqi/internal/modules/aqi/types"
	"cityaqi/internal/modules/aqi/views"
)

var errInvalidDate = errors.New("invalid 'date' (expected YYYY-MM-DD)")

// parseDate returns the zero Date when the parameter is absent.
func parseDate(r *http.Request) (types.Date, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return types.Date{}, errInvalidDate
	}
	return d, nil
}

func parseShow(r *http.Request) bool {
	show, err := strconv.ParseBool(r.URL.Query().Get("show"))
	return err == nil && show
}

func parseViewQuery(r *http.Request) (service.Query, error) {
	d, err := parseDate(r)
	if err != nil {
		return service.Query{}, err
	}
	return service.Query{
		City: r.URL.Query().Get("city"),
		Date: d,
		Show: parseShow(r),
	}, nil
}

func chartImageURL(city string, date types.Date) string {
	q := url.Values{}
	q.Set("city", city)
	q.Set("date", date.String())
	return "/chart.svg?" + q.Encode()
}

func (c *aqiControllerImpl) chartData(res service.Result) views.ChartData {
	data := views.ChartData{
		City:    res.SelectedCity,
		Warning: res.Warning,
		Notice:  res.Notice,
		Width:   c.chartWidth,
		Height:  c.chartHeight,
	}
	if !res.SelectedDate.IsZero() {
		data.Date = res.SelectedDate.String()
	}
	if res.Chart != nil {
		data.Title = res.Chart.Title
		data.ImageURL = chartImageURL(res.SelectedCity, res.SelectedDate)
	}
	return data
}

func rankingData(res service.Result) views.RankingData {
	data := views.RankingData{Entries: res.Ranking, Notice: res.Notice}
	if !res.SelectedDate.IsZero() {
		data.Date = res.SelectedDate.String()
	}
	return data
}

func (c *aqiControllerImpl) dashboardData(res service.Result) views.DashboardData {
	opts := make([]views.CityOption, 0, len(res.Cities))
	for _, city := range res.Cities {
		opts = append(opts, views.CityOption{Name: city, Selected: city == res.SelectedCity})
	}
	data := views.DashboardData{
		Cities:       opts,
		SelectedCity: res.SelectedCity,
		Notice:       res.Notice,
		Chart:        c.chartData(res),
		Ranking:      rankingData(res),
	}
	// The page shows the notice once, above the form.
	data.Chart.Notice = ""
	if input := dateInputData(res); input != nil {
		data.DateInput = *input
	}
	return data
}

// dateInputData returns nil when the result has no date domain.
func dateInputData(res service.Result) *views.DateInputData {
	if res.SelectedDate.IsZero() {
		return nil
	}
	return &views.DateInputData{
		Value: res.SelectedDate.String(),
		Min:   res.MinDate.String(),
		Max:   res.MaxDate.String(),
	}
}

func writeBody(w http.ResponseWriter, contentType string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write response failed", "error", err)
	}
}
