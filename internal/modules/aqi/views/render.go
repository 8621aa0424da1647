package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"

	"cityaqi/internal/modules/aqi/types"
)

var dashboardTmpl *template.Template

var errNotLoaded = errors.New("dashboard template not loaded: call views.LoadTemplates during startup")

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// CityOption is one entry of the city selector.
type CityOption struct {
	Name     string
	Selected bool
}

// ChartData is the view model for the chart area. Exactly one of ImageURL,
// Warning or Notice is set once the show trigger fired; none before.
type ChartData struct {
	City     string
	Date     string
	Title    string
	ImageURL string
	Width    int
	Height   int
	Warning  string
	Notice   string
}

// DateInputData is the date selector. OOB marks it for an HTMX out-of-band
// swap when it rides along with another fragment.
type DateInputData struct {
	Value string
	Min   string
	Max   string
	OOB   bool
}

// RankingData is the view model for the sidebar. DateInput, when set, is
// rendered after the panel so the selector shows the date that was ranked.
type RankingData struct {
	Date      string
	Entries   []types.RankEntry
	Notice    string
	DateInput *DateInputData
}

type DashboardData struct {
	Cities       []CityOption
	SelectedCity string
	DateInput    DateInputData
	Notice       string
	Chart        ChartData
	Ranking      RankingData
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errNotLoaded
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderChartPartial executes only the chart area into w.
// Use for HTMX fragment refresh.
func RenderChartPartial(w io.Writer, data *ChartData) error {
	if dashboardTmpl == nil {
		return errNotLoaded
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/chart.html", data)
}

// RenderRankingPartial executes only the ranking sidebar into w.
func RenderRankingPartial(w io.Writer, data *RankingData) error {
	if dashboardTmpl == nil {
		return errNotLoaded
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/ranking.html", data)
}
