package harmonic

import (
	"fmt"
	"time"
)

// Curve samples height at t0, t0+step, ..., up to and including t1 when
// it lands on the grid. Empty if t0 > t1. stepMinutes must be positive,
// or every sample would land on t0 and the loop would never terminate.
func (e *Engine) Curve(stationID string, t0, t1 time.Time, stepMinutes int) ([]TideHeight, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("harmonic: stepMinutes must be positive, got %d", stepMinutes)
	}
	if t0.After(t1) {
		return nil, nil
	}
	step := time.Duration(stepMinutes) * time.Minute

	var out []TideHeight
	for t := t0; !t.After(t1); t = t.Add(step) {
		th, err := e.TideHeight(stationID, t)
		if err != nil {
			return nil, err
		}
		out = append(out, th)
	}
	return out, nil
}
