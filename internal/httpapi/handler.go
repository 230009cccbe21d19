package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tedski/tidewatch/internal/harmonic"
	"github.com/tedski/tidewatch/internal/tidecache"
)

// maxCurveSamples bounds how many points a single /curve request may
// generate, so a wide range with a small step_minutes can't force the
// server to compute and marshal an unbounded number of samples.
const maxCurveSamples = 10000

// Handler serves the read-only query endpoints.
type Handler struct {
	engine *harmonic.Engine
	cache  *tidecache.Cache
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *harmonic.Engine, cache *tidecache.Cache) *Handler {
	return &Handler{engine: engine, cache: cache}
}

func writeEngineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, harmonic.ErrUnknownStation):
		status = http.StatusNotFound
	case errors.Is(err, harmonic.ErrEmptyConstants):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseAt(c *gin.Context) (time.Time, bool) {
	atStr := c.Query("at")
	if atStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at parameter is required (RFC3339)"})
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339, atStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid at (expected RFC3339): %v", err)})
		return time.Time{}, false
	}
	return at.UTC(), true
}

// GetHeight handles GET /v1/stations/:stationId/height?at=RFC3339.
func (h *Handler) GetHeight(c *gin.Context) {
	stationID := c.Param("stationId")
	at, ok := parseAt(c)
	if !ok {
		return
	}

	th, err := h.engine.TideHeight(stationID, at)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"station_id": stationID,
		"time":       th.Time.Format(time.RFC3339),
		"height_m":   th.Height,
		"rate_m_hr":  th.Rate,
		"direction":  th.Direction.String(),
	})
}

// GetExtrema handles GET /v1/stations/:stationId/extrema?start=RFC3339&end=RFC3339.
// Extrema are served from the rolling cache, not recomputed per request.
func (h *Handler) GetExtrema(c *gin.Context) {
	stationID := c.Param("stationId")
	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" || endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end parameters are required (RFC3339)"})
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start: %v", err)})
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end: %v", err)})
		return
	}

	extrema, err := h.cache.InRange(stationID, start.UTC(), end.UTC())
	if err != nil {
		writeEngineError(c, err)
		return
	}

	type extremumResponse struct {
		Time    string  `json:"time"`
		HeightM float64 `json:"height_m"`
		Type    string  `json:"type"`
	}
	out := make([]extremumResponse, len(extrema))
	for i, e := range extrema {
		out[i] = extremumResponse{Time: e.Time.Format(time.RFC3339), HeightM: e.Height, Type: e.Type.String()}
	}

	c.JSON(http.StatusOK, gin.H{"station_id": stationID, "extrema": out})
}

// GetCurve handles GET /v1/stations/:stationId/curve?start=RFC3339&end=RFC3339&step_minutes=10.
func (h *Handler) GetCurve(c *gin.Context) {
	stationID := c.Param("stationId")
	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" || endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end parameters are required (RFC3339)"})
		return
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start: %v", err)})
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end: %v", err)})
		return
	}

	stepMinutes := 10
	if stepStr := c.Query("step_minutes"); stepStr != "" {
		step, err := strconv.Atoi(stepStr)
		if err != nil || step <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "step_minutes must be a positive integer"})
			return
		}
		stepMinutes = step
	}

	if end.After(start) {
		samples := int(end.Sub(start).Minutes())/stepMinutes + 1
		if samples > maxCurveSamples {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("requested range would yield %d samples, exceeding the limit of %d; widen step_minutes or narrow the range", samples, maxCurveSamples),
			})
			return
		}
	}

	curve, err := h.engine.Curve(stationID, start.UTC(), end.UTC(), stepMinutes)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	type sampleResponse struct {
		Time      string  `json:"time"`
		HeightM   float64 `json:"height_m"`
		RateMHr   float64 `json:"rate_m_hr"`
		Direction string  `json:"direction"`
	}
	out := make([]sampleResponse, len(curve))
	for i, s := range curve {
		out[i] = sampleResponse{
			Time:      s.Time.Format(time.RFC3339),
			HeightM:   s.Height,
			RateMHr:   s.Rate,
			Direction: s.Direction.String(),
		}
	}

	c.JSON(http.StatusOK, gin.H{"station_id": stationID, "samples": out})
}

// GetCacheStats handles GET /v1/stations/:stationId/cache/stats.
func (h *Handler) GetCacheStats(c *gin.Context) {
	stationID := c.Param("stationId")

	stats, err := h.cache.Stats(stationID)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"station_id":   stationID,
		"count":        stats.Count,
		"window_start": stats.WindowStart.Format(time.RFC3339),
		"window_end":   stats.WindowEnd.Format(time.RFC3339),
		"valid":        stats.Valid,
	})
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
