package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
	"github.com/i474232898/bike-sharing-dashboard/internal/store"
)

func newTestApp(t *testing.T, loaded bool) *fiber.App {
	t.Helper()

	memStore := store.NewMemoryStore(2)
	if loaded {
		day := func(d int) time.Time { return time.Date(2011, 1, d, 0, 0, 0, 0, time.UTC) }
		memStore.SaveTable(rental.NewTable([]rental.Record{
			{Date: day(1), Hour: 0, Season: 1, Weather: 1, Casual: 3, Registered: 13, Count: 16},
			{Date: day(1), Hour: 1, Season: 1, Weather: 1, Casual: 8, Registered: 32, Count: 40},
			{Date: day(2), Hour: 0, Season: 1, Weather: 2, Casual: 5, Registered: 12, Count: 17},
			{Date: day(3), Hour: 9, Season: 2, Weather: 3, Casual: 1, Registered: 9, Count: 10},
		}))
	}

	app := fiber.New()
	RegisterRoutes(app, rental.NewService(memStore, nil, nil))
	return app
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

type dashboardResponse struct {
	Rows   int           `json:"rows"`
	Totals rental.Totals `json:"totals"`
	Range  struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"range"`
	Daily   []json.RawMessage       `json:"daily"`
	Seasons []rental.SeasonAverage  `json:"seasons"`
	Weather []rental.WeatherAverage `json:"weather"`
	Hourly  []rental.HourlyAverage  `json:"hourly"`
}

func decodeDashboard(t *testing.T, resp *http.Response) dashboardResponse {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var d dashboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return d
}

func TestDashboardDefaultsToWholeDataset(t *testing.T) {
	app := newTestApp(t, true)

	d := decodeDashboard(t, get(t, app, "/api/v1/dashboard"))
	if d.Rows != 4 || d.Totals.Count != 83 {
		t.Fatalf("unexpected dashboard %+v", d)
	}
	if d.Range.Start != "2011-01-01" || d.Range.End != "2011-01-03" {
		t.Fatalf("unexpected range %+v", d.Range)
	}
	if len(d.Daily) != 3 || len(d.Seasons) != 2 || len(d.Weather) != 3 || len(d.Hourly) != 3 {
		t.Fatalf("unexpected table sizes: daily=%d seasons=%d weather=%d hourly=%d",
			len(d.Daily), len(d.Seasons), len(d.Weather), len(d.Hourly))
	}
}

func TestDashboardFiltersByRange(t *testing.T) {
	app := newTestApp(t, true)

	d := decodeDashboard(t, get(t, app, "/api/v1/dashboard?start=2011-01-01&end=2011-01-01"))
	if d.Rows != 2 || d.Totals != (rental.Totals{Casual: 11, Registered: 45, Count: 56}) {
		t.Fatalf("unexpected dashboard %+v", d)
	}
	if len(d.Seasons) != 1 || d.Seasons[0].Season != "Spring" || d.Seasons[0].Count != 28 {
		t.Fatalf("unexpected season summary %+v", d.Seasons)
	}
}

func TestDashboardEmptyRanges(t *testing.T) {
	app := newTestApp(t, true)

	for _, target := range []string{
		"/api/v1/dashboard?start=2030-01-01&end=2030-12-31",
		"/api/v1/dashboard?start=2011-01-03&end=2011-01-01",
	} {
		d := decodeDashboard(t, get(t, app, target))
		if d.Rows != 0 || d.Totals != (rental.Totals{}) {
			t.Fatalf("%s: expected empty result, got %+v", target, d)
		}
		if len(d.Daily) != 0 || len(d.Seasons) != 0 || len(d.Weather) != 0 || len(d.Hourly) != 0 {
			t.Fatalf("%s: expected empty tables", target)
		}
	}
}

func TestDashboardRejectsMalformedDates(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/dashboard?start=yesterday")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestDashboardWithoutDataset(t *testing.T) {
	app := newTestApp(t, false)

	for _, target := range []string{"/", "/api/v1/dashboard", "/api/v1/dataset", "/api/v1/charts/daily"} {
		resp := get(t, app, target)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusServiceUnavailable, resp.StatusCode)
		}
	}
}

func TestChartEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/api/v1/charts/hourly?start=2011-01-01&end=2011-01-02")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "\x89PNG") {
		t.Fatalf("body is not a PNG")
	}

	resp = get(t, app, "/api/v1/charts/pie")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown chart, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

type datasetResponse struct {
	Current datasetVersion   `json:"current"`
	History []datasetVersion `json:"history"`
}

func decodeDataset(t *testing.T, resp *http.Response) datasetResponse {
	t.Helper()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var body struct {
		Current json.RawMessage   `json:"current"`
		History []json.RawMessage `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var out datasetResponse
	out.Current = decodeVersion(t, body.Current)
	for _, raw := range body.History {
		out.History = append(out.History, decodeVersion(t, raw))
	}
	return out
}

func decodeVersion(t *testing.T, raw json.RawMessage) datasetVersion {
	t.Helper()
	var v struct {
		Source   string    `json:"source"`
		StoredAt time.Time `json:"storedAt"`
		Rows     int       `json:"rows"`
		Bounds   struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"bounds"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	start, _ := time.Parse("2006-01-02", v.Bounds.Start)
	end, _ := time.Parse("2006-01-02", v.Bounds.End)
	return datasetVersion{
		Source:   v.Source,
		StoredAt: v.StoredAt,
		Rows:     v.Rows,
		Bounds:   rental.DateRange{Start: start, End: end},
	}
}

func TestDatasetEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	body := decodeDataset(t, get(t, app, "/api/v1/dataset"))
	want := rental.DateRange{
		Start: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	if body.Current.Rows != 4 || !body.Current.Bounds.Start.Equal(want.Start) || !body.Current.Bounds.End.Equal(want.End) {
		t.Fatalf("unexpected current dataset %+v", body.Current)
	}
	if body.Current.StoredAt.IsZero() {
		t.Fatalf("expected storedAt on the current dataset")
	}
	if len(body.History) != 1 || body.History[0].Rows != 4 {
		t.Fatalf("unexpected history %+v", body.History)
	}
}

func TestDatasetEndpointListsRetainedVersions(t *testing.T) {
	memStore := store.NewMemoryStore(2)
	for n := 1; n <= 3; n++ {
		recs := make([]rental.Record, n)
		for i := range recs {
			recs[i] = rental.Record{Date: time.Date(2012, 3, 1+i, 0, 0, 0, 0, time.UTC), Count: 1}
		}
		memStore.SaveTable(rental.NewTable(recs).WithSource("reload.csv"))
	}

	app := fiber.New()
	RegisterRoutes(app, rental.NewService(memStore, nil, nil))

	body := decodeDataset(t, get(t, app, "/api/v1/dataset"))
	if len(body.History) != 2 {
		t.Fatalf("expected 2 retained versions, got %d", len(body.History))
	}
	if body.History[0].Rows != 2 || body.History[1].Rows != 3 {
		t.Fatalf("expected versions oldest first with 2 and 3 rows, got %+v", body.History)
	}
	if body.History[1].Source != "reload.csv" || body.History[1].StoredAt.IsZero() {
		t.Fatalf("unexpected newest version %+v", body.History[1])
	}
	if body.Current.Rows != 3 || !body.Current.StoredAt.Equal(body.History[1].StoredAt) {
		t.Fatalf("current must match the newest retained version, got %+v", body.Current)
	}
	wantEnd := time.Date(2012, 3, 3, 0, 0, 0, 0, time.UTC)
	if !body.Current.Bounds.End.Equal(wantEnd) {
		t.Fatalf("unexpected bounds %+v", body.Current.Bounds)
	}
}

func TestDashboardPage(t *testing.T) {
	app := newTestApp(t, true)

	resp := get(t, app, "/?start=2011-01-02&end=2011-01-03")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	html := string(body)
	if !strings.Contains(html, `value="2011-01-02"`) || !strings.Contains(html, ">27<") {
		t.Fatalf("page does not reflect the selected range")
	}
}
