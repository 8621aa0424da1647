package controller

import (
	"net/http"

	"cityaqi/internal/modules/aqi/repository"
)

type AQIController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type aqiControllerImpl struct {
	repository  repository.AQIRepository
	chartWidth  int
	chartHeight int
}

func NewAQIController(repository repository.AQIRepository, chartWidth, chartHeight int) AQIController {
	return &aqiControllerImpl{
		repository:  repository,
		chartWidth:  chartWidth,
		chartHeight: chartHeight,
	}
}

func (c *aqiControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /partials/chart", c.handleChartPartial)
	mux.HandleFunc("GET /partials/ranking", c.handleRankingPartial)
	mux.HandleFunc("GET /chart.svg", c.handleChartSVG)
}
