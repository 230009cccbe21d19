// Package astro computes the time-varying astronomical quantities the
// harmonic engine needs: the fundamental arguments (τ, s, h, p, N, p₁),
// the orbital parameters derived from them, and per-constituent
// equilibrium argument V, node factor f, and nodal phase u. Every
// function here is pure and reentrant; none of it allocates on a hot
// path or touches shared state.
package astro

import (
	"math"
	"time"

	"github.com/tedski/tidewatch/internal/catalog"
)

// epoch is 2000-01-01 12:00:00 UTC, the J2000.0 reference instant used
// for the Julian-century polynomials below.
var epoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixed constant instant

// Arguments holds the fundamental astronomical arguments at an instant.
// Tau is kept as an unbounded real — it must NOT be reduced modulo 360
// before use, or midnight-boundary discontinuities appear in the
// derived equilibrium arguments. The rest are normalized to [0,360).
type Arguments struct {
	Tau float64
	S   float64
	H   float64
	P   float64
	N   float64
	P1  float64
}

// Orbital holds the derived orbital parameters used by the node-factor
// and nodal-phase formulas.
type Orbital struct {
	I    float64 // lunar inclination, degrees
	Nu   float64 // ν, degrees
	Xi   float64 // ξ, degrees
	Nu2  float64 // ν′, degrees
	Nu3  float64 // ν″, degrees
	P    float64 // P = p - ξ, degrees
	SinI float64
	CosI float64
}

func normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }
func rad2deg(rad float64) float64 { return rad * 180 / math.Pi }

// julianCenturies returns T, the number of Julian centuries elapsed
// since the J2000.0 epoch, for instant t.
func julianCenturies(t time.Time) float64 {
	return t.Sub(epoch).Seconds() / (86400 * 36525)
}

// ComputeArguments evaluates the fundamental astronomical arguments at
// UTC instant t, following Meeus-style polynomials in Julian centuries T.
func ComputeArguments(t time.Time) Arguments {
	tt := julianCenturies(t)

	s := 218.3164477 + 481267.88123421*tt - 0.0015786*tt*tt + tt*tt*tt/538841 - tt*tt*tt*tt/65194000
	h := 280.46646 + 36000.76983*tt + 0.0003032*tt*tt
	p := 83.3532465 + 4069.0137287*tt - 0.0103238*tt*tt - tt*tt*tt/80053 + tt*tt*tt*tt/18999000
	n := 125.04452 - 1934.136261*tt + 0.0020708*tt*tt + tt*tt*tt/450000
	p1 := 282.94 + 1.7192*tt

	// Hours since 2000-01-01 00:00 UTC (12 h before the epoch). Since
	// 15°·24 h = 360°, 15·hours equals 15·(UTC hour of day) modulo 360,
	// but it never wraps at midnight, so tau stays continuous.
	utcHours := t.Sub(epoch).Hours() + 12
	tau := 15*utcHours + h - s

	return Arguments{
		Tau: tau,
		S:   normalize360(s),
		H:   normalize360(h),
		P:   normalize360(p),
		N:   normalize360(n),
		P1:  normalize360(p1),
	}
}

// ComputeOrbital derives the orbital parameters (I, ν, ξ, ν′, ν″, P)
// from the fundamental arguments' N and p, following Schureman.
func ComputeOrbital(a Arguments) Orbital {
	nRad := deg2rad(a.N)

	cosI := 0.9136949 - 0.0356926*math.Cos(nRad)
	i := math.Acos(cosI)
	sinI := math.Sin(i)

	nu := math.Asin(0.0897056 * math.Sin(nRad) / sinI)

	xi := a.N - 2*rad2deg(math.Atan(0.64412*math.Tan(nRad/2))) - rad2deg(nu)

	nu2 := math.Atan2(math.Sin(nu), math.Cos(nu)+0.334766/math.Sin(2*i))

	nu3 := 0.5 * math.Atan2(math.Sin(2*nu), math.Cos(2*nu)+0.0726184/(sinI*sinI))

	pp := a.P - xi

	return Orbital{
		I:    rad2deg(i),
		Nu:   rad2deg(nu),
		Xi:   xi,
		Nu2:  rad2deg(nu2),
		Nu3:  rad2deg(nu3),
		P:    pp,
		SinI: sinI,
		CosI: math.Cos(i),
	}
}

// V0 returns the equilibrium argument V of a constituent at instant t,
// in degrees, reduced modulo 360. The τ contribution is taken unreduced
// so that V stays continuous across midnight; only the sum is reduced.
func V0(c catalog.Constituent, t time.Time) float64 {
	a := ComputeArguments(t)
	return v0FromArguments(c, a)
}

func v0FromArguments(c catalog.Constituent, a Arguments) float64 {
	d := c.Doodson
	v := float64(d.Tau)*a.Tau +
		float64(d.S)*a.S +
		float64(d.H)*a.H +
		float64(d.P)*a.P +
		float64(d.Nprime)*a.N +
		float64(d.P1)*a.P1 +
		c.PhaseOffset
	return normalize360(v)
}
