package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"cityaqi/internal/modules/aqi/chart"
	"cityaqi/internal/modules/aqi/service"
	"cityaqi/internal/modules/aqi/views"
	"cityaqi/internal/utils"
)

const htmlContentType = "text/html; charset=utf-8"

// evaluate loads the dataset and runs the view function, writing the error
// response itself when either step fails.
func (c *aqiControllerImpl) evaluate(w http.ResponseWriter, q service.Query) (service.Result, bool) {
	ds, err := c.repository.Dataset()
	if err != nil {
		slog.Error("load dataset failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load data")
		return service.Result{}, false
	}
	res, err := service.Evaluate(ds, q)
	if err != nil {
		slog.Error("evaluate view failed", "city", q.City, "date", q.Date, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute view")
		return service.Result{}, false
	}
	return res, true
}

func (c *aqiControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		utils.WriteError(w, http.StatusNotFound, "page not found")
		return
	}
	q, err := parseViewQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, ok := c.evaluate(w, q)
	if !ok {
		return
	}

	data := c.dashboardData(res)
	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, &data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	writeBody(w, htmlContentType, &buf)
}

func (c *aqiControllerImpl) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Show = true
	res, ok := c.evaluate(w, q)
	if !ok {
		return
	}

	data := c.chartData(res)
	var buf bytes.Buffer
	if err := views.RenderChartPartial(&buf, &data); err != nil {
		slog.Error("chart partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	writeBody(w, htmlContentType, &buf)
}

func (c *aqiControllerImpl) handleRankingPartial(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Show = false
	res, ok := c.evaluate(w, q)
	if !ok {
		return
	}

	data := rankingData(res)
	// Echo the ranked date back into the selector, which may hold a
	// value outside the city's bounds.
	if input := dateInputData(res); input != nil {
		input.OOB = true
		data.DateInput = input
	}
	var buf bytes.Buffer
	if err := views.RenderRankingPartial(&buf, &data); err != nil {
		slog.Error("ranking partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	writeBody(w, htmlContentType, &buf)
}

func (c *aqiControllerImpl) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.Show = true
	res, ok := c.evaluate(w, q)
	if !ok {
		return
	}
	if res.Chart == nil {
		msg := res.Warning
		if msg == "" {
			msg = res.Notice
		}
		utils.WriteError(w, http.StatusNotFound, msg)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, res.Chart, c.chartWidth, c.chartHeight); err != nil {
		slog.Error("chart render failed", "city", res.SelectedCity, "date", res.SelectedDate, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	writeBody(w, "image/svg+xml", &buf)
}
