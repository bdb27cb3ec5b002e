package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CORaleigh/NextCenturyCities/internal/logging"
	"github.com/CORaleigh/NextCenturyCities/pkg/building"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/scene2d"
	"github.com/CORaleigh/NextCenturyCities/pkg/source"
	"github.com/CORaleigh/NextCenturyCities/pkg/validation"
)

type fakeSource struct {
	features []building.RawFeature
	err      error
	filters  []string
}

func (f *fakeSource) Query(_ context.Context, filter string, _ []string, _ bool) ([]building.RawFeature, error) {
	f.filters = append(f.filters, filter)
	return f.features, f.err
}

func feature(fid int, x, y float64) building.RawFeature {
	return building.RawFeature{
		Attributes: map[string]any{
			building.KeyFID:         fid,
			building.KeyPinNumber:   fmt.Sprintf("17038%05d", fid),
			building.KeyZoning:      "DX-40",
			building.KeyWidth:       25,
			building.KeyDepth:       30,
			building.KeyAngle:       0,
			building.KeyRetail:      0,
			building.KeyOffice:      1,
			building.KeyResidential: 2,
		},
		Geometry: &building.Point{X: x, Y: y},
	}
}

func newTestServer(t *testing.T, src source.Source) *Server {
	t.Helper()
	return New(Options{
		Store:      scenario.New(scenario.Options{Seed: 1}),
		Source:     src,
		Where:      "1=1",
		SampleSize: 2,
		Logger:     logging.Discard(),
	})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func loadedServer(t *testing.T) *Server {
	t.Helper()
	s := newTestServer(t, &fakeSource{features: []building.RawFeature{
		feature(1, 0, 0),
		feature(2, 1000, 0),
	}})
	rec := do(t, s, http.MethodPost, "/api/load", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return s
}

func TestLoad(t *testing.T) {
	src := &fakeSource{features: []building.RawFeature{feature(1, 0, 0), feature(2, 1000, 0), feature(3, 2000, 0)}}
	s := newTestServer(t, src)

	rec := do(t, s, http.MethodPost, "/api/load", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[LoadResponse](t, rec)
	assert.Equal(t, 2, resp.Buildings)
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(2*261012), resp.Totals.TotalVolume)
	assert.Equal(t, []string{"1=1"}, src.filters)

	rec = do(t, s, http.MethodPost, "/api/load", map[string]any{"sample_size": 3, "where": "ZONING = 'DX-40'"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeBody[LoadResponse](t, rec).Buildings)
	assert.Equal(t, "ZONING = 'DX-40'", src.filters[1])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    source.Source
		body   any
		status int
	}{
		{"sample too large", &fakeSource{features: []building.RawFeature{feature(1, 0, 0)}}, map[string]any{"sample_size": 5}, http.StatusBadRequest},
		{"negative sample", &fakeSource{features: []building.RawFeature{feature(1, 0, 0)}}, map[string]any{"sample_size": -1}, http.StatusBadRequest},
		{"bad response", &fakeSource{err: fmt.Errorf("%w: boom", source.ErrInvalidResponse)}, nil, http.StatusBadGateway},
		{"source down", &fakeSource{err: errors.New("connection refused")}, nil, http.StatusInternalServerError},
		{"unknown field", &fakeSource{}, map[string]any{"limit": 5}, http.StatusBadRequest},
		{"no source", nil, nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.src)
			if tt.src == nil {
				s.source = nil
			}
			rec := do(t, s, http.MethodPost, "/api/load", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestUpdateAttribute(t *testing.T) {
	s := loadedServer(t)

	rec := do(t, s, http.MethodPost, "/api/buildings/1/attributes", map[string]any{"field": "office", "value": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[EditResponse](t, rec)
	assert.True(t, resp.Building.Changed)
	assert.Equal(t, 3, resp.Building.Attributes.Office.Count)
	assert.Len(t, resp.Stack, 5)
	assert.Equal(t, int64(174008), resp.Comparison.Diff.TotalVolume)
	assert.Equal(t, int64(435020), resp.Comparison.New.TotalVolume)
	assert.Equal(t, "+174,008", resp.Formatted.TotalVolume)
	assert.Equal(t, 35, resp.Available["retail"])
	assert.Equal(t, 40, resp.MaxStories)

	rec = do(t, s, http.MethodGet, "/api/changes", nil)
	changes := decodeBody[ChangesResponse](t, rec)
	assert.Equal(t, 1, changes.Count)
	assert.Equal(t, []building.ID{"1"}, changes.IDs)
}

func TestUpdateAttributeFeet(t *testing.T) {
	s := loadedServer(t)

	rec := do(t, s, http.MethodPost, "/api/buildings/1/attributes", map[string]any{"field": "width", "value": 100, "unit": "ft"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[EditResponse](t, rec)
	assert.InDelta(t, 30.48, resp.Building.Attributes.Width, 1e-9)
	assert.Equal(t, 100.0, resp.Building.WidthFt)
	assert.Equal(t, 98.0, resp.Building.DepthFt)
}

func TestUpdateAttributeErrors(t *testing.T) {
	s := loadedServer(t)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"unknown building", "/api/buildings/99/attributes", map[string]any{"field": "office", "value": 1}, http.StatusNotFound},
		{"unknown field", "/api/buildings/1/attributes", map[string]any{"field": "roof", "value": 1}, http.StatusUnprocessableEntity},
		{"missing value", "/api/buildings/1/attributes", map[string]any{"field": "office"}, http.StatusBadRequest},
		{"negative stories", "/api/buildings/1/attributes", map[string]any{"field": "office", "value": -1}, http.StatusUnprocessableEntity},
		{"too many stories", "/api/buildings/1/attributes", map[string]any{"field": "office", "value": 41}, http.StatusUnprocessableEntity},
		{"zero width", "/api/buildings/1/attributes", map[string]any{"field": "width", "value": 0}, http.StatusUnprocessableEntity},
		{"unknown unit", "/api/buildings/1/attributes", map[string]any{"field": "width", "value": 10, "unit": "yd"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, s, http.MethodGet, "/api/changes", nil)
	assert.Equal(t, 0, decodeBody[ChangesResponse](t, rec).Count)
}

func TestTranslateAndRevert(t *testing.T) {
	s := loadedServer(t)

	rec := do(t, s, http.MethodPost, "/api/buildings/2/translate", map[string]any{"dx": 10, "dy": -5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[EditResponse](t, rec)
	assert.Equal(t, 1010.0, resp.Building.Location.X)
	assert.Equal(t, -5.0, resp.Building.Location.Y)
	assert.True(t, resp.Building.Changed)
	assert.Equal(t, int64(0), resp.Comparison.Diff.TotalVolume)

	rec = do(t, s, http.MethodGet, "/api/buildings/2/original", nil)
	orig := decodeBody[OriginalResponse](t, rec)
	require.True(t, orig.Exists)
	assert.Equal(t, 1000.0, orig.Building.Location.X)

	rec = do(t, s, http.MethodPost, "/api/buildings/2/revert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reverted := decodeBody[OriginalResponse](t, rec)
	require.True(t, reverted.Exists)
	assert.Equal(t, 1000.0, reverted.Building.Location.X)

	rec = do(t, s, http.MethodGet, "/api/changes", nil)
	assert.Equal(t, 0, decodeBody[ChangesResponse](t, rec).Count)
}

func TestPickAndCreate(t *testing.T) {
	s := loadedServer(t)

	rec := do(t, s, http.MethodPost, "/api/pick", map[string]any{"x": 1, "y": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	hit := decodeBody[PickResponse](t, rec)
	assert.True(t, hit.Hit)
	require.NotNil(t, hit.Building)
	assert.Equal(t, building.ID("1"), hit.Building.ID)
	assert.Equal(t, building.ID("1"), hit.Marker.BuildingID)

	rec = do(t, s, http.MethodPost, "/api/buildings", map[string]any{"name": "new-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/pick", map[string]any{"x": 5000, "y": 5000})
	require.Equal(t, http.StatusOK, rec.Code)
	miss := decodeBody[PickResponse](t, rec)
	assert.False(t, miss.Hit)
	require.NotNil(t, miss.Pending)
	assert.Equal(t, 5000.0, miss.Pending.X)

	rec = do(t, s, http.MethodPost, "/api/buildings", map[string]any{"name": "new-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[EditResponse](t, rec)
	assert.Equal(t, building.ID("new-1"), created.Building.ID)
	assert.True(t, created.Building.Changed)
	assert.Equal(t, 5000.0, created.Building.Location.X)

	rec = do(t, s, http.MethodGet, "/api/buildings/new-1/original", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[OriginalResponse](t, rec).Exists)

	rec = do(t, s, http.MethodPost, "/api/pick", map[string]any{"x": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeselect(t *testing.T) {
	s := loadedServer(t)

	rec := do(t, s, http.MethodPost, "/api/pick", map[string]any{"x": 5000, "y": 5000})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, decodeBody[PickResponse](t, rec).Pending)

	rec = do(t, s, http.MethodPost, "/api/deselect", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/buildings", map[string]any{"name": "new-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDrag(t *testing.T) {
	s := loadedServer(t)

	rec := do(t, s, http.MethodPost, "/api/drag/update", map[string]any{"dx": 1, "dy": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/drag/start", map[string]any{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/drag/update", map[string]any{"dx": 20, "dy": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	upd := decodeBody[DragUpdateResponse](t, rec)
	require.True(t, upd.Accepted)
	assert.Equal(t, 20.0, upd.Preview.Location.X)

	rec = do(t, s, http.MethodPost, "/api/drag/end", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	end := decodeBody[EditResponse](t, rec)
	assert.Equal(t, 20.0, end.Building.Location.X)
	assert.True(t, end.Building.Changed)

	rec = do(t, s, http.MethodPost, "/api/drag/start", map[string]any{"id": "2"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/drag/abort", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/drag/end", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReportAndReset(t *testing.T) {
	s := loadedServer(t)

	do(t, s, http.MethodPost, "/api/buildings/1/attributes", map[string]any{"field": "office", "value": 3})

	rec := do(t, s, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[ReportResponse](t, rec)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, int64(174008), report.Diff.TotalVolume)
	assert.Equal(t, "+174,008", report.Formatted.TotalVolume)
	assert.Equal(t, 40, report.MaxStories)

	rec = do(t, s, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decodeBody[ReportResponse](t, rec)
	assert.Equal(t, 0, reset.Changed)
	assert.Equal(t, int64(0), reset.Diff.TotalVolume)
}

func TestScene(t *testing.T) {
	s := loadedServer(t)
	do(t, s, http.MethodGet, "/api/buildings/1", nil)

	rec := do(t, s, http.MethodGet, "/api/scene", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var g struct {
		Metadata struct {
			Buildings int `json:"buildings"`
		} `json:"metadata"`
		Entities []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, 2, g.Metadata.Buildings)
	// Two buildings of three floors each plus the selection marker.
	assert.Len(t, g.Entities, 7)

	rec = do(t, s, http.MethodGet, "/api/scene/validation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[validation.Report](t, rec)
	assert.True(t, report.Valid, report.Errors)
}

func TestPlan(t *testing.T) {
	s := loadedServer(t)
	do(t, s, http.MethodPost, "/api/buildings/2/translate", map[string]any{"dx": 5, "dy": 0})
	do(t, s, http.MethodPost, "/api/pick", map[string]any{"x": 1, "y": 1})

	rec := do(t, s, http.MethodGet, "/api/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decodeBody[scene2d.Scene2D](t, rec)
	assert.Equal(t, 2, plan.Metadata.Buildings)
	assert.Equal(t, 1, plan.Metadata.Changed)
	require.Len(t, plan.Footprints, 2)
	for _, f := range plan.Footprints {
		assert.Equal(t, f.ID == "1", f.Selected, f.ID)
		assert.Equal(t, f.ID == "2", f.Changed, f.ID)
	}
	assert.Equal(t, 2, plan.Buildings.ByZoning["DX-40"].Buildings)
}

func TestTraceHeader(t *testing.T) {
	s := newTestServer(t, &fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/changes", nil)
	req.Header.Set(TraceHeader, "5b0c8d2e-8f3a-4f4e-9b1d-2a6f1c3e7d90")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "5b0c8d2e-8f3a-4f4e-9b1d-2a6f1c3e7d90", rec.Header().Get(TraceHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/changes", nil)
	req.Header.Set(TraceHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	got := rec.Header().Get(TraceHeader)
	assert.NotEqual(t, "not-a-uuid", got)
	assert.Len(t, got, 36)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}

func TestCORS(t *testing.T) {
	s := New(Options{
		Store:          scenario.New(scenario.Options{Seed: 1}),
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logging.Discard(),
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/report", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/changes", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
