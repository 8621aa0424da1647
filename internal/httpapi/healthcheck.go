package httpapi

import (
	"log/slog"
	"net/http"

	"cityaqi/internal/modules/aqi/types"
	"cityaqi/internal/utils"
)

type datasetSource interface {
	Dataset() (*types.Dataset, error)
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	source datasetSource
}

type healthResponse struct {
	Status   string `json:"status"`
	Readings int    `json:"readings"`
	Cities   int    `json:"cities"`
	Source   string `json:"source"`
}

func NewHealthchecker(source datasetSource) healthchecker {
	return &healthcheckerImpl{source: source}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ds, err := h.source.Dataset()
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	utils.WriteJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Readings: len(ds.Readings),
		Cities:   len(ds.Cities),
		Source:   ds.Source,
	})
}

func registerHealthcheck(mux *http.ServeMux, source datasetSource) {
	healthchecker := NewHealthchecker(source)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
