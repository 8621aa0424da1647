package aqi

import (
	"net/http"

	"cityaqi/internal/config"
	"cityaqi/internal/modules/aqi/controller"
	"cityaqi/internal/modules/aqi/repository"
)

func RegisterFeature(mux *http.ServeMux, repo repository.AQIRepository, cfg config.Config) {
	aqiController := controller.NewAQIController(repo, cfg.ChartWidth, cfg.ChartHeight)
	aqiController.RegisterRoutes(mux)
}
