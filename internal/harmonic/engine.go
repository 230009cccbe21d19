// Package harmonic combines station constants with the astronomical
// engine to evaluate height, rate, extrema, and sampled curves, with
// subordinate-station offsets applied on top of a reference station's
// prediction.
package harmonic

import (
	"fmt"
	"math"
	"time"

	"github.com/tedski/tidewatch/internal/astro"
	"github.com/tedski/tidewatch/internal/catalog"
	"github.com/tedski/tidewatch/internal/station"
)

// refEpoch is the fixed instant at which each constituent's equilibrium
// argument V is evaluated and cached once, per spec: 1983-01-01
// 00:00:00 UTC. Evaluating V at the prediction instant as well as u
// would double-count slowly varying terms.
var refEpoch = time.Date(1983, 1, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixed constant instant

const rateDelta = 60 * time.Second

// Engine evaluates tide height, rate, and extrema for stations resolved
// through a station.Provider. It is pure and reentrant after
// construction: the V-at-epoch table is computed once and never
// mutated, so an *Engine may be shared across any number of goroutines
// with no coordination.
type Engine struct {
	provider station.Provider
	vAtEpoch map[string]float64
}

// New builds an Engine backed by provider, precomputing each catalog
// constituent's equilibrium argument at the fixed reference epoch.
func New(provider station.Provider) *Engine {
	all := catalog.All()
	v := make(map[string]float64, len(all))
	for _, c := range all {
		v[c.Name] = astro.V0(c, refEpoch)
	}
	return &Engine{provider: provider, vAtEpoch: v}
}

// resolve returns the provider's resolution of stationID, wrapping a
// failure as ErrUnknownStation. referenceID then gives the id to sum
// constants from — the reference station's constants are always used
// for the height sum, even for a subordinate station id.
func (e *Engine) resolve(stationID string) (station.Resolution, error) {
	res, err := e.provider.ResolveKind(stationID)
	if err != nil {
		return station.Resolution{}, fmt.Errorf("%w: %s: %v", ErrUnknownStation, stationID, err)
	}
	return res, nil
}

func (e *Engine) referenceID(res station.Resolution, stationID string) string {
	if res.Kind == station.Subordinate {
		return res.ReferenceID
	}
	return stationID
}

// heightReference computes h(t) for a reference station id directly,
// with no subordinate post-processing.
func (e *Engine) heightReference(referenceID string, t time.Time) (float64, error) {
	consts, err := e.provider.Constants(referenceID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnknownStation, referenceID, err)
	}
	if len(consts.Constituents) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyConstants, referenceID)
	}

	deltaHours := t.Sub(refEpoch).Hours()
	height := consts.Z0

	for _, cv := range consts.Constituents {
		c, ok := catalog.Lookup(cv.Name)
		if !ok {
			continue // unknown constituent names are skipped silently
		}
		f := astro.NodeFactor(c, t)
		u := astro.NodalPhase(c, t)
		v := e.vAtEpoch[c.Name]

		angleDeg := c.SpeedDegHr*deltaHours + v + u - cv.PhaseDeg
		height += cv.Amplitude * f * math.Cos(angleDeg*math.Pi/180)
	}

	return height, nil
}

// rateReference returns the reference station's rate via a symmetric
// numerical derivative, with no subordinate post-processing.
func (e *Engine) rateReference(referenceID string, t time.Time) (float64, error) {
	hPlus, err := e.heightReference(referenceID, t.Add(rateDelta))
	if err != nil {
		return 0, err
	}
	hMinus, err := e.heightReference(referenceID, t.Add(-rateDelta))
	if err != nil {
		return 0, err
	}
	deltaHours := rateDelta.Seconds() / 3600
	return (hPlus - hMinus) / (2 * deltaHours), nil
}

// Height returns the predicted water level at t for stationID. For a
// subordinate station, the reference station's rate selects the
// high/low height factor, then the height is scaled from datum by it.
func (e *Engine) Height(stationID string, t time.Time) (float64, error) {
	res, err := e.resolve(stationID)
	if err != nil {
		return 0, err
	}
	refID := e.referenceID(res, stationID)

	h, err := e.heightReference(refID, t)
	if err != nil {
		return 0, err
	}
	if res.Kind != station.Subordinate {
		return h, nil
	}

	rate, err := e.rateReference(refID, t)
	if err != nil {
		return 0, err
	}
	consts, err := e.provider.Constants(refID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnknownStation, refID, err)
	}

	factor := res.Offset.HighFactor
	if rate < 0 {
		factor = res.Offset.LowFactor
	}
	return factor*h + (1-factor)*consts.Z0, nil
}

// Rate returns the time derivative of height at t, in length units per
// hour. Subordinate station ids collapse to their reference's rate: the
// height factor is not applied, to avoid circular dependence with the
// rising/falling classifier.
func (e *Engine) Rate(stationID string, t time.Time) (float64, error) {
	res, err := e.resolve(stationID)
	if err != nil {
		return 0, err
	}
	refID := e.referenceID(res, stationID)
	return e.rateReference(refID, t)
}

// TideHeight returns the height, rate, and direction at t.
func (e *Engine) TideHeight(stationID string, t time.Time) (TideHeight, error) {
	h, err := e.Height(stationID, t)
	if err != nil {
		return TideHeight{}, err
	}
	r, err := e.Rate(stationID, t)
	if err != nil {
		return TideHeight{}, err
	}

	dir := Slack
	switch {
	case math.Abs(r) < SlackThreshold:
		dir = Slack
	case r > 0:
		dir = Rising
	default:
		dir = Falling
	}

	return TideHeight{Time: t, Height: h, Rate: r, Direction: dir}, nil
}
