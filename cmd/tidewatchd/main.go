// Package main provides the tidewatch prediction server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tedski/tidewatch/internal/harmonic"
	"github.com/tedski/tidewatch/internal/httpapi"
	"github.com/tedski/tidewatch/internal/station"
	"github.com/tedski/tidewatch/internal/tidecache"
)

const version = "0.1.0"

func main() {
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		fmt.Printf("tidewatchd version %s\n", version)
		return
	}

	port := getEnv("PORT", "8080")
	dataDir := getEnv("DATA_DIR", "./data/stations")
	windowDaysStr := getEnv("CACHE_WINDOW_DAYS", "7")
	corsOrigins := getEnv("CORS_ALLOWED_ORIGINS", "")

	windowDays := tidecache.DefaultWindowDays
	if windowDaysStr != "" {
		if n, err := parsePositiveInt(windowDaysStr); err == nil {
			windowDays = n
		} else {
			log.Printf("CACHE_WINDOW_DAYS=%q invalid, using default %d", windowDaysStr, windowDays)
		}
	}

	log.Printf("Starting tidewatchd...")
	log.Printf("Port: %s", port)
	log.Printf("Station data directory: %s", dataDir)
	log.Printf("Cache window: %d days", windowDays)

	provider := station.NewJSONProvider(dataDir)
	engine := harmonic.New(provider)
	cache := tidecache.New(engine, windowDays)

	var origins []string
	if corsOrigins != "" {
		for _, o := range strings.Split(corsOrigins, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}

	router := httpapi.NewRouter(engine, cache, origins)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/stations/:stationId/height")
	log.Printf("  - GET /v1/stations/:stationId/extrema")
	log.Printf("  - GET /v1/stations/:stationId/curve")
	log.Printf("  - GET /v1/stations/:stationId/cache/stats")
	log.Printf("  - GET /healthz")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive: %d", n)
	}
	return n, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("tidewatchd v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  tidewatchd [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  DATA_DIR                Station JSON data directory (default: ./data/stations)")
	fmt.Println("  CACHE_WINDOW_DAYS       Extrema cache rolling window, in days (default: 7)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: disabled)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /healthz                              Health check")
	fmt.Println("  GET /v1/stations/:stationId/height         Height/rate/direction at an instant")
	fmt.Println("  GET /v1/stations/:stationId/extrema        Cached extrema in a time range")
	fmt.Println("  GET /v1/stations/:stationId/curve          Sampled height curve")
	fmt.Println("  GET /v1/stations/:stationId/cache/stats    Extrema cache stats")
	fmt.Println()
}
