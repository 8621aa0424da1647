package httpapi

import (
	"net/http"
)

func NewMux(source datasetSource) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, source)
	return mux
}
