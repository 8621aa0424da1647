package controller

import (
	"net/http/httptest"
	"testing"
	"time"

	"cityaqi/internal/modules/aqi/service"
	"cityaqi/internal/modules/aqi/types"
)

func TestParseViewQuery(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    service.Query
		wantErr bool
	}{
		{name: "empty", target: "/", want: service.Query{}},
		{
			name:   "all set",
			target: "/?city=New+Delhi&date=2024-03-04&show=1",
			want:   service.Query{City: "New Delhi", Date: types.Date{Year: 2024, Month: time.March, Day: 4}, Show: true},
		},
		{name: "show false", target: "/?show=0", want: service.Query{}},
		{name: "show garbage", target: "/?show=maybe", want: service.Query{}},
		{name: "bad date", target: "/?date=04/03/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseViewQuery(httptest.NewRequest("GET", tt.target, nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseViewQuery() err = %v; wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseViewQuery() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestChartImageURL(t *testing.T) {
	got := chartImageURL("New Delhi", types.Date{Year: 2024, Month: time.January, Day: 2})
	want := "/chart.svg?city=New+Delhi&date=2024-01-02"
	if got != want {
		t.Errorf("chartImageURL() = %q; want %q", got, want)
	}
}
