package api

import (
	"bikeroute-service/internal/adapters/repositories"
	"bikeroute-service/internal/adapters/valhalla"
	"bikeroute-service/internal/api/dto"
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/db"
	"bikeroute-service/internal/ports"
	"bikeroute-service/internal/services"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct{}

func (stubGeocoder) Geocode(ctx context.Context, text string) (ports.Place, error) {
	if text == "Tiergarten" {
		return ports.Place{Label: "Tiergarten, Berlin", Coordinates: domain.Coordinates{Lat: 52.5145, Lon: 13.3501}}, nil
	}
	return ports.Place{}, errors.New("no match")
}

type testServer struct {
	handler http.Handler
	engine  *valhalla.MockEngine
	current *services.CurrentRoute
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conn, err := db.Open(db.Sqlite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.Sqlite))

	engine := valhalla.NewMockEngine()
	repo := repositories.NewSQLRouteRepository(conn, db.Sqlite)
	planner := services.NewPlanner(engine, repo, stubGeocoder{}, domain.RouteOptions{})
	current := &services.CurrentRoute{}

	return &testServer{
		handler: NewRouter(planner, current),
		engine:  engine,
		current: current,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if str, ok := body.(string); ok {
			buf.WriteString(str)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var berlin = []dto.WaypointInput{
	{Latitude: 52.52, Longitude: 13.405, Name: "Alexanderplatz"},
	{Latitude: 52.5163, Longitude: 13.3777},
	{Latitude: 52.5145, Longitude: 13.3501, Name: "Tiergarten"},
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "5f0c7a56-1c55-4b8e-9d0a-3f4f3f0e2c11")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "5f0c7a56-1c55-4b8e-9d0a-3f4f3f0e2c11", rec.Header().Get("X-Request-ID"))
}

func TestCompute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/routes/compute", dto.ComputeRequest{
		Points:  berlin,
		Options: dto.OptionsRequest{BicycleType: "mountain", LineColor: "#ff0000"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Waypoints     []dto.WaypointResponse `json:"waypoints"`
		Legs          []dto.LegResponse      `json:"legs"`
		TotalDistance float64                `json:"totalDistance"`
		Costing       string                 `json:"costing"`
		BicycleType   string                 `json:"bicycleType"`
		Geometry      struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Style   dto.StyleResponse `json:"style"`
		Markers struct {
			Features []json.RawMessage `json:"features"`
		} `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	require.Len(t, res.Waypoints, 3)
	assert.Equal(t, "start", res.Waypoints[0].Role)
	assert.Equal(t, "start-style", res.Waypoints[0].IconClass)
	assert.Equal(t, "52.5163, 13.3777", res.Waypoints[1].Label)
	assert.Equal(t, "end", res.Waypoints[2].Role)

	assert.Len(t, res.Legs, 2)
	assert.Positive(t, res.TotalDistance)
	assert.Equal(t, "bicycle", res.Costing)
	assert.Equal(t, "Mountain", res.BicycleType)

	assert.Equal(t, "LineString", res.Geometry.Type)
	require.Len(t, res.Geometry.Coordinates, 3)
	assert.InDelta(t, 13.405, res.Geometry.Coordinates[0][0], 1e-9)
	assert.InDelta(t, 52.52, res.Geometry.Coordinates[0][1], 1e-9)
	assert.Equal(t, dto.StyleResponse{LineColor: "#ff0000", LineWidth: domain.DefaultLineWidth}, res.Style)
	assert.Len(t, res.Markers.Features, 3)

	current := s.do(t, http.MethodGet, "/routes/current", nil)
	assert.Equal(t, http.StatusOK, current.Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/routes/current", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/routes/current", nil).Code)
}

func TestCompute_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{name: "one point", body: dto.ComputeRequest{Points: berlin[:1]}, status: http.StatusBadRequest},
		{name: "unknown costing", body: dto.ComputeRequest{Points: berlin, Options: dto.OptionsRequest{Costing: "auto"}}, status: http.StatusBadRequest},
		{name: "malformed json", body: `{"points":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"points":[],"color":"red"}`, status: http.StatusBadRequest},
		{name: "two objects", body: `{} {}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/routes/compute", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, decode[map[string]string](t, rec), "error")
		})
	}
}

func TestCompute_EngineFailure(t *testing.T) {
	s := newTestServer(t)
	s.engine.Err = errors.New("connection refused")

	rec := s.do(t, http.MethodPost, "/routes/compute", dto.ComputeRequest{Points: berlin})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[map[string]string](t, rec)["error"])
}

func TestSavedRouteLifecycle(t *testing.T) {
	s := newTestServer(t)

	save := dto.SaveRouteRequest{
		Name:              "Spree loop",
		BicycleType:       "City",
		TotalDistance:     2.9,
		EstimatedDuration: 610,
		Points: []dto.SavedPointDTO{
			{Latitude: 52.52, Longitude: 13.405, PointType: "START_POINT", Name: "Alexanderplatz", Sequence: 0},
			{Latitude: 52.5163, Longitude: 13.3777, PointType: "WAYPOINT", Sequence: 1},
			{Latitude: 52.5145, Longitude: 13.3501, PointType: "END_POINT", Name: "Tiergarten", Sequence: 2},
		},
	}

	rec := s.do(t, http.MethodPost, "/routes", save)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[dto.SaveRouteResponse](t, rec).ID
	assert.Positive(t, id)
	assert.Equal(t, "/routes/"+itoa(id), rec.Header().Get("Location"))

	list := decode[dto.ListRoutesResponse](t, s.do(t, http.MethodGet, "/routes", nil))
	require.Len(t, list.Routes, 1)
	assert.Equal(t, "Spree loop", list.Routes[0].Name)
	assert.Equal(t, 3, list.Routes[0].PointCount)

	got := s.do(t, http.MethodGet, "/routes/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, got.Code)
	saved := decode[dto.SavedRouteResponse](t, got)
	assert.Equal(t, "bicycle", saved.Costing)
	assert.Equal(t, "City", saved.BicycleType)
	assert.Equal(t, save.Points, saved.Points)
	assert.NotContains(t, got.Body.String(), "geometry")

	geo := s.do(t, http.MethodGet, "/routes/"+itoa(id)+"/geometry", nil)
	require.Equal(t, http.StatusOK, geo.Code, geo.Body.String())
	reload := decode[dto.ReloadResponse](t, geo)
	assert.Equal(t, "Spree loop", reload.Saved.Name)
	assert.Len(t, reload.Route.Waypoints, 3)
	assert.Equal(t, domain.BicycleCity, s.engine.Calls()[0].BicycleType)

	gpx := s.do(t, http.MethodGet, "/routes/"+itoa(id)+"/gpx", nil)
	require.Equal(t, http.StatusOK, gpx.Code)
	assert.Equal(t, "application/gpx+xml", gpx.Header().Get("Content-Type"))
	assert.Contains(t, gpx.Header().Get("Content-Disposition"), "Spree_loop.gpx")
	assert.Contains(t, gpx.Body.String(), "<gpx")

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/routes/"+itoa(id), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/routes/"+itoa(id), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/routes/"+itoa(id), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/routes/"+itoa(id)+"/gpx", nil).Code)
}

func TestSaveRoute_Validation(t *testing.T) {
	s := newTestServer(t)

	noName := dto.SaveRouteRequest{Points: []dto.SavedPointDTO{{Sequence: 0}, {Sequence: 1}}}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/routes", noName).Code)

	onePoint := dto.SaveRouteRequest{Name: "x", Points: []dto.SavedPointDTO{{}}}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/routes", onePoint).Code)
}

func TestRouteID_Invalid(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/routes/abc", "/routes/0", "/routes/-3/geometry"} {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, path, nil).Code, path)
	}
}

func TestWaypointOps(t *testing.T) {
	s := newTestServer(t)

	points := []dto.WaypointInput{
		{ID: "a", Latitude: 1, Longitude: 1},
		{ID: "b", Latitude: 2, Longitude: 2},
		{ID: "c", Latitude: 3, Longitude: 3},
	}
	ptr := func(i int) *int { return &i }
	lat, lon := 4.0, 4.0

	tests := []struct {
		name    string
		op      string
		req     dto.WaypointOpRequest
		wantIDs []string
	}{
		{name: "reorder first to last", op: "reorder", req: dto.WaypointOpRequest{From: ptr(0), To: ptr(2)}, wantIDs: []string{"b", "c", "a"}},
		{name: "reorder out of range", op: "reorder", req: dto.WaypointOpRequest{From: ptr(0), To: ptr(3)}, wantIDs: []string{"a", "b", "c"}},
		{name: "remove middle", op: "remove", req: dto.WaypointOpRequest{Index: ptr(1)}, wantIDs: []string{"a", "c"}},
		{name: "remove out of range", op: "remove", req: dto.WaypointOpRequest{Index: ptr(-1)}, wantIDs: []string{"a", "b", "c"}},
		{name: "reverse", op: "reverse", wantIDs: []string{"c", "b", "a"}},
		{name: "add coordinates", op: "add", req: dto.WaypointOpRequest{Latitude: &lat, Longitude: &lon}, wantIDs: []string{"a", "b", "c", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Points = points
			rec := s.do(t, http.MethodPost, "/waypoints/"+tt.op, tt.req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			res := decode[dto.WaypointsResponse](t, rec)
			require.Len(t, res.Points, len(tt.wantIDs))
			for i, want := range tt.wantIDs {
				if want != "" {
					assert.Equal(t, want, res.Points[i].ID)
				} else {
					assert.NotEmpty(t, res.Points[i].ID)
				}
				assert.Equal(t, i, res.Points[i].Order)
			}
			assert.Equal(t, "start", res.Points[0].Role)
			assert.Equal(t, "end", res.Points[len(res.Points)-1].Role)
			assert.True(t, res.CanRoute)
		})
	}
}

func TestWaypointAddBySearch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/waypoints/add", dto.WaypointOpRequest{
		Points: berlin[:1],
		Query:  "Tiergarten",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.WaypointsResponse](t, rec)
	require.Len(t, res.Points, 2)
	assert.Equal(t, "Tiergarten, Berlin", res.Points[1].Name)
	assert.Equal(t, "end", res.Points[1].Role)

	miss := s.do(t, http.MethodPost, "/waypoints/add", dto.WaypointOpRequest{Points: berlin[:1], Query: "Atlantis"})
	assert.Equal(t, http.StatusInternalServerError, miss.Code)
}

func TestWaypointOps_BadRequests(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/waypoints/add", dto.WaypointOpRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/waypoints/remove", dto.WaypointOpRequest{}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/waypoints/reorder", dto.WaypointOpRequest{}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/waypoints/shuffle", dto.WaypointOpRequest{}).Code)
}

func TestGeocode(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/geocode?q=Tiergarten", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.GeocodeResponse](t, rec)
	assert.Equal(t, 52.5145, res.Latitude)

	blank := s.do(t, http.MethodGet, "/geocode?q=+", nil)
	assert.Equal(t, http.StatusBadRequest, blank.Code)
	assert.True(t, strings.Contains(blank.Body.String(), "empty"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
