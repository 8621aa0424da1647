package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cityaqi/internal/config"
	"cityaqi/internal/modules/aqi"
	"cityaqi/internal/modules/aqi/repository"
	"cityaqi/internal/modules/aqi/types"
	"cityaqi/internal/modules/aqi/views"
)

const sampleCSV = `Timestamp,Delhi_Max_AQI,Pune_Max_AQI
02/01/2024 03:00,220,
02/01/2024 07:00,180,60
03/01/2024 05:00,200,
05/01/2024 09:00,150,
`

type stubSource struct {
	ds  *types.Dataset
	err error
}

func (s stubSource) Dataset() (*types.Dataset, error) { return s.ds, s.err }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithData(t, sampleCSV)
}

func newTestServerWithData(t *testing.T, csv string) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "CityVals.csv")
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	cfg := config.Config{HTTPAddr: ":0", DataPath: path, ChartWidth: 640, ChartHeight: 400}
	repo := repository.NewFileRepository(path)
	mux := NewMux(repo)
	aqi.RegisterFeature(mux, repo, cfg)

	srv := NewServer(cfg, mux)
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

func mustGetJSON[T any](t *testing.T, client *http.Client, url string, out *T) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return resp
}

func mustGetRaw(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]any
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Fatalf("body.status=%v want=%q", body["status"], "ok")
	}
	if body["readings"] != float64(5) || body["cities"] != float64(2) {
		t.Fatalf("readings=%v cities=%v want=5, 2", body["readings"], body["cities"])
	}
	if src, _ := body["source"].(string); !strings.HasSuffix(src, "CityVals.csv") {
		t.Fatalf("source=%v want path to CityVals.csv", body["source"])
	}
}

func TestHealthz_loadError(t *testing.T) {
	mux := NewMux(stubSource{err: errors.New("read csv: bad quote")})
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "failed to load dataset") {
		t.Fatalf("body=%q want error message", rec.Body.String())
	}
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/?city=Pune&date=2024-01-02&show=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	var sb bytes.Buffer
	if _, err := sb.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := sb.String()
	for _, want := range []string{"City Air Quality Index (AQI) Dashboard", "1. Pune: 60.00", "2. Delhi: 200.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestDashboard_headerOnlyFile(t *testing.T) {
	ts := newTestServerWithData(t, "Timestamp,Delhi_Max_AQI,Pune_Max_AQI\n")

	var health map[string]any
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/healthz", &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if health["readings"] != float64(0) || health["cities"] != float64(0) {
		t.Fatalf("readings=%v cities=%v want=0, 0", health["readings"], health["cities"])
	}

	page := mustGetRaw(t, ts.Client(), ts.URL+"/?show=1")
	if page.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", page.StatusCode, http.StatusOK)
	}
	var sb bytes.Buffer
	if _, err := sb.ReadFrom(page.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(sb.String(), "No AQI readings available.") {
		t.Errorf("body missing empty-data notice")
	}
}

func TestChartSVG(t *testing.T) {
	ts := newTestServer(t)

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/chart.svg?city=Delhi&date=2024-01-02")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("Content-Type=%q want image/svg+xml", ct)
	}
}

func TestInvalidQueryParams(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{name: "page", url: ts.URL + "/?date=2024/01/02"},
		{name: "chart partial", url: ts.URL + "/partials/chart?date=not-a-date"},
		{name: "ranking partial", url: ts.URL + "/partials/ranking?date=2024-13-01"},
		{name: "chart svg", url: ts.URL + "/chart.svg?date=yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			resp := mustGetJSON(t, ts.Client(), tt.url, &body)

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusBadRequest)
			}
			// We return {error, message}
			if _, ok := body["error"]; !ok {
				t.Fatalf("expected error field, got %v", body)
			}
			if _, ok := body["message"]; !ok {
				t.Fatalf("expected message field, got %v", body)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	t.Run("assigns one", func(t *testing.T) {
		resp := mustGetRaw(t, ts.Client(), ts.URL+"/healthz")
		if id := resp.Header.Get("X-Request-ID"); len(id) != 36 {
			t.Fatalf("X-Request-ID=%q want a uuid", id)
		}
	})

	t.Run("keeps incoming", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("X-Request-ID", "abc-123")
		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		defer resp.Body.Close()

		if id := resp.Header.Get("X-Request-ID"); id != "abc-123" {
			t.Fatalf("X-Request-ID=%q want=%q", id, "abc-123")
		}
	})
}

func TestRouting_UnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]any
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/does-not-exist", &body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
	if body["error"] != http.StatusText(http.StatusNotFound) {
		t.Fatalf("body.error=%v want=%q", body["error"], http.StatusText(http.StatusNotFound))
	}
}

func TestChartSVG_noReadings(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]any
	resp := mustGetJSON(t, ts.Client(), ts.URL+"/chart.svg?city=Delhi&date=2024-01-04", &body)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
	if body["message"] != "No AQI data available for Delhi on 2024-01-04." {
		t.Fatalf("message=%v", body["message"])
	}
}

func TestRouting_WrongMethod(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Fatalf("close body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}
