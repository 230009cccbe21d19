package harmonic

import (
	"math"
	"time"

	"github.com/tedski/tidewatch/internal/station"
)

const (
	newtonEpsilon  = 1e-3 // length units per hour
	newtonMaxIter  = 20
	newtonHalfStep = 5 * time.Minute
	coarseStep     = 30 * time.Minute
	coarseLead     = 10 * time.Minute
	searchHorizon  = 30 * time.Hour
	bracketSlack   = time.Hour
)

// secondDerivative approximates d(rate)/dt at t via a symmetric
// difference over ±5 minutes, in length units per hour squared.
func (e *Engine) secondDerivative(referenceID string, t time.Time) (float64, error) {
	rPlus, err := e.rateReference(referenceID, t.Add(newtonHalfStep))
	if err != nil {
		return 0, err
	}
	rMinus, err := e.rateReference(referenceID, t.Add(-newtonHalfStep))
	if err != nil {
		return 0, err
	}
	deltaHours := newtonHalfStep.Seconds() / 3600
	return (rPlus - rMinus) / (2 * deltaHours), nil
}

// refineExtremum runs a bounded Newton search for rate=0 starting from
// the midpoint of [lo, hi], staying within [lo-1h, hi+1h]. It returns
// the refined time, or ok=false if it failed to converge within
// newtonMaxIter iterations.
func (e *Engine) refineExtremum(referenceID string, lo, hi time.Time) (time.Time, bool, error) {
	t := lo.Add(hi.Sub(lo) / 2)
	boundLo := lo.Add(-bracketSlack)
	boundHi := hi.Add(bracketSlack)

	for i := 0; i < newtonMaxIter; i++ {
		rate, err := e.rateReference(referenceID, t)
		if err != nil {
			return time.Time{}, false, err
		}
		if math.Abs(rate) < newtonEpsilon {
			return t, true, nil
		}
		slope, err := e.secondDerivative(referenceID, t)
		if err != nil {
			return time.Time{}, false, err
		}
		if slope == 0 {
			break
		}
		stepHours := rate / slope
		t = t.Add(time.Duration(-stepHours * float64(time.Hour)))
		if t.Before(boundLo) {
			t = boundLo
		}
		if t.After(boundHi) {
			t = boundHi
		}
	}

	rate, err := e.rateReference(referenceID, t)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, math.Abs(rate) < newtonEpsilon, nil
}

// NextExtremum finds the first extremum of the requested type after t,
// within a 30-hour horizon. It returns (nil, nil) if none is bracketed
// in that horizon.
func (e *Engine) NextExtremum(stationID string, t time.Time, wantHigh bool) (*Extremum, error) {
	res, err := e.resolve(stationID)
	if err != nil {
		return nil, err
	}
	refID := e.referenceID(res, stationID)

	cur := t.Add(coarseLead)
	horizon := t.Add(searchHorizon)

	prevRate, err := e.rateReference(refID, cur)
	if err != nil {
		return nil, err
	}

	for {
		next := cur.Add(coarseStep)
		if next.After(horizon) {
			return nil, nil
		}
		nextRate, err := e.rateReference(refID, next)
		if err != nil {
			return nil, err
		}

		if sign(prevRate) != sign(nextRate) && sign(prevRate) != 0 {
			isHigh := prevRate > 0 && nextRate < 0
			refined, ok, err := e.refineExtremum(refID, cur, next)
			if err != nil {
				return nil, err
			}
			if ok && isHigh == wantHigh {
				return e.buildExtremum(stationID, res, refID, refined, isHigh)
			}
			if ok {
				// Bracketed but the wrong type; keep scanning past it.
				cur, prevRate = next, nextRate
				continue
			}
			// Non-convergence: treat as no extremum here, keep scanning.
		}

		cur, prevRate = next, nextRate
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// buildExtremum takes the high/low classification NextExtremum already
// derived from the coarse rate-sign change, applies the subordinate
// time shift, and re-derives height through Height (which applies the
// height factor).
func (e *Engine) buildExtremum(stationID string, res station.Resolution, refID string, t time.Time, isHigh bool) (*Extremum, error) {
	extType := Low
	if isHigh {
		extType = High
	}

	shifted := t
	if res.Kind == station.Subordinate {
		offsetMinutes := res.Offset.HighTimeOffset
		if !isHigh {
			offsetMinutes = res.Offset.LowTimeOffset
		}
		shifted = t.Add(time.Duration(offsetMinutes * float64(time.Minute)))
	}

	h, err := e.Height(stationID, shifted)
	if err != nil {
		return nil, err
	}

	return &Extremum{Time: shifted, Height: h, Type: extType}, nil
}

// Extrema returns the extrema found in [t0, t1), sorted by time and
// strictly alternating between high and low, starting with whichever
// type the rate at t0 implies comes next. Each search begins ten
// minutes after t0 or after the previous extremum, so an extremum less
// than ten minutes after t0 is not returned; in that case the first
// extremum of the opposite type after it is not returned either.
func (e *Engine) Extrema(stationID string, t0, t1 time.Time) ([]Extremum, error) {
	if !t0.Before(t1) {
		return nil, nil
	}

	rate, err := e.Rate(stationID, t0)
	if err != nil {
		return nil, err
	}
	wantHigh := rate >= 0

	var out []Extremum
	cur := t0
	for {
		ext, err := e.NextExtremum(stationID, cur, wantHigh)
		if err != nil {
			return nil, err
		}
		if ext == nil || !ext.Time.Before(t1) {
			break
		}
		out = append(out, *ext)
		cur = ext.Time
		wantHigh = !wantHigh
	}
	return out, nil
}
