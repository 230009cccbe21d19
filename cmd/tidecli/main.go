// Command tidecli prints height, rate, and the next high/low extrema
// for a single station at an instant, for local debugging without
// standing up a server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tedski/tidewatch/internal/harmonic"
	"github.com/tedski/tidewatch/internal/station"
)

func main() {
	stationID := flag.String("station", "", "Station id to query (required)")
	atStr := flag.String("at", "", "Instant to evaluate, RFC3339 (default: now, UTC)")
	dataDir := flag.String("data-dir", "./data/stations", "Station JSON data directory")
	flag.Parse()

	if *stationID == "" {
		fmt.Fprintln(os.Stderr, "tidecli: -station is required")
		flag.Usage()
		os.Exit(2)
	}

	at := time.Now().UTC()
	if *atStr != "" {
		parsed, err := time.Parse(time.RFC3339, *atStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tidecli: invalid -at (expected RFC3339): %v\n", err)
			os.Exit(2)
		}
		at = parsed.UTC()
	}

	provider := station.NewJSONProvider(*dataDir)
	engine := harmonic.New(provider)

	if err := report(engine, *stationID, at); err != nil {
		fmt.Fprintf(os.Stderr, "tidecli: %v\n", err)
		os.Exit(1)
	}
}

func report(engine *harmonic.Engine, stationID string, at time.Time) error {
	th, err := engine.TideHeight(stationID, at)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	fmt.Printf("station:   %s\n", stationID)
	fmt.Printf("time:      %s\n", th.Time.Format(time.RFC3339))
	fmt.Printf("height:    %.3f\n", th.Height)
	fmt.Printf("rate:      %.3f /hr\n", th.Rate)
	fmt.Printf("direction: %s\n", th.Direction)

	nextHigh, err := engine.NextExtremum(stationID, at, true)
	if err != nil {
		return fmt.Errorf("next high: %w", err)
	}
	nextLow, err := engine.NextExtremum(stationID, at, false)
	if err != nil {
		return fmt.Errorf("next low: %w", err)
	}

	if nextHigh != nil {
		fmt.Printf("next high: %s (%.3f)\n", nextHigh.Time.Format(time.RFC3339), nextHigh.Height)
	} else {
		fmt.Println("next high: none within search horizon")
	}
	if nextLow != nil {
		fmt.Printf("next low:  %s (%.3f)\n", nextLow.Time.Format(time.RFC3339), nextLow.Height)
	} else {
		fmt.Println("next low:  none within search horizon")
	}

	return nil
}
