// Package catalog is the static table of tidal partial tides: their
// angular speeds, Doodson multipliers, and SP98 phase-offset constants.
// It is process-wide immutable state, declared once as a package-level
// table and never mutated.
package catalog

// Classification groups a constituent by its physical origin.
type Classification int

const (
	Semidiurnal Classification = iota
	Diurnal
	LongPeriod
	Compound
)

func (c Classification) String() string {
	switch c {
	case Semidiurnal:
		return "semidiurnal"
	case Diurnal:
		return "diurnal"
	case LongPeriod:
		return "long-period"
	case Compound:
		return "compound"
	default:
		return "unknown"
	}
}

// Doodson holds the six Doodson multipliers applied to the fundamental
// astronomical arguments (τ, s, h, p, N′, p₁) to form a constituent's
// equilibrium argument V.
type Doodson struct {
	Tau, S, H, P, Nprime, P1 int
}

// Family tags which closed-form node-factor/nodal-phase expression the
// astronomical engine uses for a constituent, per Schureman. A tagged
// enumeration rather than virtual dispatch, since the set is finite and
// fixed at compile time.
type Family int

const (
	// FamilyM2 covers M2 and its closest relatives: cos⁴(I/2)/0.91544.
	FamilyM2 Family = iota
	// FamilyO1 covers O1 and its closest relatives: sinI·cos²(I/2)/0.37689.
	FamilyO1
	FamilyK1
	FamilyK2
	FamilyMf
	FamilyJ1
	FamilyOO1
	FamilyM1
	FamilyL2
	// FamilySolar constituents carry no nodal correction: f=1, u=0.
	FamilySolar
	// FamilyCompound constituents derive f and u from their Components.
	FamilyCompound
)

// Component names one constituent contributing to a compound
// constituent's node factor (as a power) and nodal phase (as a
// multiple): f(compound) = Π f(name)^|Power|, u(compound) = Σ Power·u(name).
type Component struct {
	Name  string
	Power float64
}

// Constituent is one partial tide: a fixed angular speed, the Doodson
// multipliers that produce its equilibrium argument, the SP98 phase
// offset c such that V = d·X + c, and its node-factor family.
type Constituent struct {
	Name        string
	SpeedDegHr  float64
	Doodson     Doodson
	PhaseOffset float64 // c, degrees
	Class       Classification
	NodalFamily Family
	Components  []Component // non-empty only when NodalFamily == FamilyCompound
}

// phaseOffset implements the SP98 correction described in spec.md §4.1:
// since τ is measured from a midnight epoch, equilibrium arguments with
// an odd τ multiplier pick up a 180° offset relative to the conventional
// noon-epoch phase tables that station-supplied κ values are referenced
// to. Constituents with an even τ multiplier need no correction.
func phaseOffset(tau int) float64 {
	if tau%2 != 0 {
		return 180
	}
	return 0
}

func d(tau, s, h, p, nprime, p1 int) Doodson {
	return Doodson{Tau: tau, S: s, H: h, P: p, Nprime: nprime, P1: p1}
}

// table is the fixed, declared-order list of supported constituents.
//
//nolint:gochecknoglobals // intentional: read-only constant catalog.
var table = []Constituent{
	// Principal semidiurnal.
	{"M2", 28.9841042, d(2, 0, 0, 0, 0, 0), phaseOffset(2), Semidiurnal, FamilyM2, nil},
	{"S2", 30.0000000, d(2, 2, -2, 0, 0, 0), phaseOffset(2), Semidiurnal, FamilySolar, nil},
	{"N2", 28.4397295, d(2, -1, 0, 1, 0, 0), phaseOffset(2), Semidiurnal, FamilyM2, nil},
	{"K2", 30.0821373, d(2, 2, 0, 0, 0, 0), phaseOffset(2), Semidiurnal, FamilyK2, nil},

	// Other semidiurnal.
	{"Nu2", 28.5125831, d(2, -1, 2, -1, 0, 0), phaseOffset(2), Semidiurnal, FamilyM2, nil},
	{"Mu2", 27.9682084, d(2, -2, 2, 0, 0, 0), phaseOffset(2), Semidiurnal, FamilyM2, nil},
	{"2N2", 27.8953548, d(2, -2, 0, 2, 0, 0), phaseOffset(2), Semidiurnal, FamilyM2, nil},
	{"Lambda2", 29.4556253, d(2, 1, -2, 1, 0, 0), phaseOffset(2), Semidiurnal, FamilyM2, nil},
	{"L2", 29.5284789, d(2, 1, 0, -1, 0, 0), phaseOffset(2), Semidiurnal, FamilyL2, nil},
	{"T2", 29.9589333, d(2, 2, -3, 0, 0, 1), phaseOffset(2), Semidiurnal, FamilySolar, nil},
	{"R2", 30.0410667, d(2, 2, -1, 0, 0, -1), phaseOffset(2), Semidiurnal, FamilySolar, nil},
	{"2SM2", 31.0158958, d(2, 4, -4, 0, 0, 0), phaseOffset(2), Semidiurnal, FamilyCompound,
		[]Component{{"M2", -1}}}, // f(2SM2)=f(M2), u(2SM2)=-u(M2): see astro.compoundNodeFactor.

	// Principal diurnal.
	{"K1", 15.0410686, d(1, 1, 0, 0, 0, 0), phaseOffset(1), Diurnal, FamilyK1, nil},
	{"O1", 13.9430356, d(1, -1, 0, 0, 0, 0), phaseOffset(1), Diurnal, FamilyO1, nil},
	{"P1", 14.9589314, d(1, 1, -2, 0, 0, 0), phaseOffset(1), Diurnal, FamilySolar, nil},
	{"Q1", 13.3986609, d(1, -2, 0, 1, 0, 0), phaseOffset(1), Diurnal, FamilyO1, nil},

	// Other diurnal.
	{"M1", 14.4966939, d(1, 0, 0, 0, 0, 0), phaseOffset(1), Diurnal, FamilyM1, nil},
	{"J1", 15.5854433, d(1, 2, 0, -1, 0, 0), phaseOffset(1), Diurnal, FamilyJ1, nil},
	{"OO1", 16.1391017, d(1, 3, 0, 0, 0, 0), phaseOffset(1), Diurnal, FamilyOO1, nil},
	{"Rho1", 13.4715145, d(1, -2, 2, -1, 0, 0), phaseOffset(1), Diurnal, FamilyO1, nil},
	{"2Q1", 12.8542862, d(1, -3, 0, 2, 0, 0), phaseOffset(1), Diurnal, FamilyO1, nil},
	{"S1", 15.0000000, d(1, 1, -1, 0, 0, 0), phaseOffset(1), Diurnal, FamilySolar, nil},

	// Long period.
	{"Mf", 1.0980331, d(0, 2, 0, 0, 0, 0), phaseOffset(0), LongPeriod, FamilyMf, nil},
	{"Mm", 0.5443747, d(0, 1, 0, -1, 0, 0), phaseOffset(0), LongPeriod, FamilyMf, nil},
	{"MSf", 1.0158958, d(0, 2, -2, 0, 0, 0), phaseOffset(0), LongPeriod, FamilyMf, nil},
	{"Ssa", 0.0821373, d(0, 0, 2, 0, 0, 0), phaseOffset(0), LongPeriod, FamilySolar, nil},
	{"Sa", 0.0410686, d(0, 0, 1, 0, 0, 0), phaseOffset(0), LongPeriod, FamilySolar, nil},

	// Shallow-water / compound.
	{"M3", 43.4761563, d(3, 0, 0, 0, 0, 0), phaseOffset(3), Compound, FamilyCompound,
		[]Component{{"M2", 1.5}}},
	{"M4", 57.9682084, d(4, 0, 0, 0, 0, 0), phaseOffset(4), Compound, FamilyCompound,
		[]Component{{"M2", 2}}},
	{"MN4", 57.4238337, d(4, -1, 0, 1, 0, 0), phaseOffset(4), Compound, FamilyCompound,
		[]Component{{"M2", 1}, {"N2", 1}}},
	{"MS4", 58.9841042, d(4, 2, -2, 0, 0, 0), phaseOffset(4), Compound, FamilyCompound,
		[]Component{{"M2", 1}, {"S2", 1}}},
	{"MK3", 44.0251729, d(3, 1, 0, 0, 0, 0), phaseOffset(3), Compound, FamilyCompound,
		[]Component{{"M2", 1}, {"K1", 1}}},
	{"2MK3", 42.9271398, d(3, -1, 0, 0, 0, 0), phaseOffset(3), Compound, FamilyCompound,
		[]Component{{"M2", 2}, {"K1", -1}}},
	{"M6", 86.9523127, d(6, 0, 0, 0, 0, 0), phaseOffset(6), Compound, FamilyCompound,
		[]Component{{"M2", 3}}},
	{"M8", 115.9364166, d(8, 0, 0, 0, 0, 0), phaseOffset(8), Compound, FamilyCompound,
		[]Component{{"M2", 4}}},
	{"S4", 60.0000000, d(4, 4, -4, 0, 0, 0), phaseOffset(4), Compound, FamilyCompound,
		[]Component{{"S2", 2}}},
	{"S6", 90.0000000, d(6, 6, -6, 0, 0, 0), phaseOffset(6), Compound, FamilyCompound,
		[]Component{{"S2", 3}}},
}

//nolint:gochecknoglobals // intentional: built once from table, read-only thereafter.
var byName = func() map[string]Constituent {
	m := make(map[string]Constituent, len(table))
	for _, c := range table {
		m[c.Name] = c
	}
	return m
}()

// Lookup returns the named constituent, or false if the name is not in
// the catalog. Callers consuming a station's constituent list must use
// Lookup and skip unknown names rather than treating them as errors.
func Lookup(name string) (Constituent, bool) {
	c, ok := byName[name]
	return c, ok
}

// All returns every constituent in stable declared order.
func All() []Constituent {
	out := make([]Constituent, len(table))
	copy(out, table)
	return out
}
