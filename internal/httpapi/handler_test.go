package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tedski/tidewatch/internal/harmonic"
	"github.com/tedski/tidewatch/internal/station"
	"github.com/tedski/tidewatch/internal/tidecache"
)

type fakeProvider struct {
	resCfg  map[string]station.Resolution
	consCfg map[string]station.Constants
}

func (f *fakeProvider) ResolveKind(stationID string) (station.Resolution, error) {
	res, ok := f.resCfg[stationID]
	if !ok {
		return station.Resolution{}, errors.New("no such station")
	}
	return res, nil
}

func (f *fakeProvider) Constants(referenceID string) (station.Constants, error) {
	c, ok := f.consCfg[referenceID]
	if !ok {
		return station.Constants{}, errors.New("no such reference")
	}
	return c, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	provider := &fakeProvider{
		resCfg: map[string]station.Resolution{
			"9414290": {Kind: station.Reference, StationID: "9414290"},
		},
		consCfg: map[string]station.Constants{
			"9414290": {
				Z0: 0,
				Constituents: []station.ConstituentValue{
					{Name: "M2", Amplitude: 2.929, PhaseDeg: 193.1},
					{Name: "K1", Amplitude: 0.950, PhaseDeg: 166.6},
				},
			},
		},
	}
	engine := harmonic.New(provider)
	cache := tidecache.New(engine, 2)
	return NewRouter(engine, cache, nil)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGetHeightMissingAt(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/9414290/height", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetHeightOK(t *testing.T) {
	router := newTestRouter()
	at := time.Date(2026, 2, 12, 3, 0, 0, 0, time.UTC).Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/9414290/height?at="+at, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["station_id"] != "9414290" {
		t.Errorf("station_id = %v, want 9414290", body["station_id"])
	}
	if _, ok := body["height_m"]; !ok {
		t.Error("expected height_m in response")
	}
}

func TestGetHeightUnknownStation(t *testing.T) {
	router := newTestRouter()
	at := time.Now().UTC().Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/NOPE/height?at="+at, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetCurveOK(t *testing.T) {
	router := newTestRouter()
	start := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	end := time.Date(2026, 2, 12, 1, 0, 0, 0, time.UTC).Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/9414290/curve?start="+start+"&end="+end+"&step_minutes=30", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var body struct {
		Samples []map[string]any `json:"samples"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Samples) != 3 {
		t.Errorf("len(samples) = %d, want 3", len(body.Samples))
	}
}

func TestGetCurveRejectsExcessiveSamples(t *testing.T) {
	router := newTestRouter()
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/9414290/curve?start="+start+"&end="+end+"&step_minutes=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestGetCacheStatsOK(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/9414290/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}
