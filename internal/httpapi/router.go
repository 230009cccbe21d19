// Package httpapi is a thin, read-only HTTP query surface over the
// harmonic engine and extrema cache — the way a companion phone app or
// a test harness would query this core out-of-process. It is not the
// on-device UI.
package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tedski/tidewatch/internal/harmonic"
	"github.com/tedski/tidewatch/internal/tidecache"
)

// NewRouter creates and configures the Gin router. allowedOrigins, if
// non-empty, enables CORS for those origins; an empty slice disables
// CORS middleware entirely.
func NewRouter(engine *harmonic.Engine, cache *tidecache.Cache, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	if len(allowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = allowedOrigins
		router.Use(cors.New(cfg))
	}

	h := NewHandler(engine, cache)

	v1 := router.Group("/v1")
	{
		stations := v1.Group("/stations/:stationId")
		{
			stations.GET("/height", h.GetHeight)
			stations.GET("/extrema", h.GetExtrema)
			stations.GET("/curve", h.GetCurve)
			stations.GET("/cache/stats", h.GetCacheStats)
		}
	}

	router.GET("/healthz", h.HealthCheck)

	return router
}
