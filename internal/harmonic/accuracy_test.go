package harmonic

import (
	"math"
	"testing"
	"time"

	"github.com/tedski/tidewatch/internal/fixture"
)

// TestPredictedHeightBoundedAgainstObserved checks that predicted height
// stays within a generous bound of a bundled observed-tide fixture. It
// is a sanity bound, not a precision regression test: the bundled
// fixture is a representative hourly record, not a calibrated
// constituent fit for the station used in the other engine tests.
func TestPredictedHeightBoundedAgainstObserved(t *testing.T) {
	const maxErrorMeters = 4.0

	recs, err := fixture.LoadStationRecordsFromPath("../fixture/testdata/9414290_hourly.txt", "9414290", time.UTC)
	if err != nil {
		t.Fatalf("LoadStationRecordsFromPath: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly one fixture record, got %d", len(recs))
	}
	times, heights := recs[0].HourlyTimes()

	e := New(newTestProvider())
	for i, tt := range times {
		predicted, err := e.Height("9414290", tt)
		if err != nil {
			t.Fatalf("Height: %v", err)
		}
		if diff := math.Abs(predicted - heights[i]); diff > maxErrorMeters {
			t.Errorf("hour %d: predicted=%.3f observed=%.3f diff=%.3f exceeds bound %.3f",
				i, predicted, heights[i], diff, maxErrorMeters)
		}
	}
}
