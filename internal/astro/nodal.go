package astro

import (
	"math"
	"time"

	"github.com/tedski/tidewatch/internal/catalog"
)

// NodeFactor returns f, the dimensionless nodal amplitude modulation,
// for constituent c at instant t (~0.8 to 1.2 for most constituents).
// It never fails; constituent families it does not recognize fall back
// to 1 (no correction) rather than panicking.
func NodeFactor(c catalog.Constituent, t time.Time) float64 {
	o := ComputeOrbital(ComputeArguments(t))
	return nodeFactor(c, o)
}

// NodalPhase returns u, the nodal phase correction in degrees,
// for constituent c at instant t.
func NodalPhase(c catalog.Constituent, t time.Time) float64 {
	o := ComputeOrbital(ComputeArguments(t))
	return nodalPhase(c, o)
}

func nodeFactor(c catalog.Constituent, o Orbital) float64 {
	switch c.NodalFamily {
	case catalog.FamilyM2:
		cosHalfI := math.Cos(deg2rad(o.I) / 2)
		return cosHalfI * cosHalfI * cosHalfI * cosHalfI / 0.91544
	case catalog.FamilyO1:
		cosHalfI := math.Cos(deg2rad(o.I) / 2)
		return o.SinI * cosHalfI * cosHalfI / 0.37689
	case catalog.FamilyK1:
		sin2I := math.Sin(2 * deg2rad(o.I))
		cosNu := math.Cos(deg2rad(o.Nu))
		return math.Sqrt(0.8965*sin2I*sin2I + 0.6001*sin2I*cosNu + 0.1006)
	case catalog.FamilyK2:
		sinI4 := o.SinI * o.SinI * o.SinI * o.SinI
		sinI2 := o.SinI * o.SinI
		cos2Nu := math.Cos(2 * deg2rad(o.Nu))
		return math.Sqrt(19.0444*sinI4 + 2.7702*sinI2*cos2Nu + 0.0981)
	case catalog.FamilyMf:
		return o.SinI * o.SinI / 0.1578
	case catalog.FamilyJ1:
		return math.Sin(2*deg2rad(o.I)) / 0.7214
	case catalog.FamilyOO1:
		sinHalfI := math.Sin(deg2rad(o.I) / 2)
		return o.SinI * sinHalfI * sinHalfI / 0.01640
	case catalog.FamilyM1:
		// Diurnal-lunar approximation; M1's true Schureman factor involves
		// the same Q used in its nodal phase, but spec.md gives only the
		// phase formula, so the node factor uses the O1-family shape.
		cosHalfI := math.Cos(deg2rad(o.I) / 2)
		return o.SinI * cosHalfI * cosHalfI / 0.37689
	case catalog.FamilyL2:
		// Approximation: L2's full Schureman factor carries an extra R-like
		// term; spec.md only specifies its nodal phase formula explicitly,
		// so f(L2) uses the M2-family shape.
		cosHalfI := math.Cos(deg2rad(o.I) / 2)
		return cosHalfI * cosHalfI * cosHalfI * cosHalfI / 0.91544
	case catalog.FamilySolar:
		return 1
	case catalog.FamilyCompound:
		return compoundNodeFactor(c, o)
	default:
		return 1
	}
}

func compoundNodeFactor(c catalog.Constituent, o Orbital) float64 {
	// The node factor f is always a positive amplitude modulation, even
	// for components that subtract their phase (e.g. 2SM2 = 2·S2 - M2):
	// the magnitude of each component's contribution still multiplies in.
	f := 1.0
	for _, comp := range c.Components {
		component, ok := catalog.Lookup(comp.Name)
		if !ok {
			continue
		}
		f *= math.Pow(nodeFactor(component, o), math.Abs(comp.Power))
	}
	return f
}

func nodalPhase(c catalog.Constituent, o Orbital) float64 {
	switch c.NodalFamily {
	case catalog.FamilyM2:
		return 2 * (o.Xi - o.Nu)
	case catalog.FamilyO1:
		return 2*o.Xi - o.Nu
	case catalog.FamilyK1:
		return -o.Nu2
	case catalog.FamilyK2:
		return -2 * o.Nu3
	case catalog.FamilyMf:
		return -2 * o.Xi
	case catalog.FamilyJ1:
		return -o.Nu
	case catalog.FamilyOO1:
		return -2*o.Xi - o.Nu
	case catalog.FamilyM1:
		cosI := o.CosI
		q := math.Atan(((5*cosI - 1) / (7*cosI + 1)) * math.Tan(deg2rad(o.P)))
		return o.Xi - o.Nu + rad2deg(q)
	case catalog.FamilyL2:
		cotHalfI2 := 1 / math.Tan(deg2rad(o.I)/2)
		cotHalfI2 *= cotHalfI2
		r := math.Atan(math.Sin(2*deg2rad(o.P)) / (cotHalfI2/6 - math.Cos(2*deg2rad(o.P))))
		return 2*o.Xi - 2*o.Nu - rad2deg(r)
	case catalog.FamilySolar:
		return 0
	case catalog.FamilyCompound:
		return compoundNodalPhase(c, o)
	default:
		return 0
	}
}

func compoundNodalPhase(c catalog.Constituent, o Orbital) float64 {
	u := 0.0
	for _, comp := range c.Components {
		component, ok := catalog.Lookup(comp.Name)
		if !ok {
			continue
		}
		u += comp.Power * nodalPhase(component, o)
	}
	return u
}
