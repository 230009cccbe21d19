package station

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// jsonRecord is the on-disk shape of one station file: a reference
// station carries constituents and a datum, a subordinate station
// carries a reference id and an offset instead.
type jsonRecord struct {
	StationID    string            `json:"station_id"`
	Kind         string            `json:"kind"`
	ReferenceID  string            `json:"reference_id,omitempty"`
	Offset       *jsonOffset       `json:"offset,omitempty"`
	Z0           float64           `json:"z0"`
	Constituents []jsonConstituent `json:"constituents,omitempty"`
}

type jsonOffset struct {
	HighTimeOffsetMin float64 `json:"high_time_offset_min"`
	LowTimeOffsetMin  float64 `json:"low_time_offset_min"`
	HighFactor        float64 `json:"high_factor"`
	LowFactor         float64 `json:"low_factor"`
}

type jsonConstituent struct {
	Name       string  `json:"name"`
	AmplitudeM float64 `json:"amplitude_m"`
	PhaseDeg   float64 `json:"phase_deg"`
}

// JSONProvider is a Provider backed by one JSON file per station under
// a data directory, named "<stationId>.json". Records are read once
// and cached in memory.
type JSONProvider struct {
	dataDir string

	mu    sync.RWMutex
	cache map[string]jsonRecord
}

// NewJSONProvider builds a JSONProvider rooted at dataDir.
func NewJSONProvider(dataDir string) *JSONProvider {
	return &JSONProvider{
		dataDir: dataDir,
		cache:   make(map[string]jsonRecord),
	}
}

func (p *JSONProvider) load(stationID string) (jsonRecord, error) {
	p.mu.RLock()
	rec, ok := p.cache[stationID]
	p.mu.RUnlock()
	if ok {
		return rec, nil
	}

	path := filepath.Join(p.dataDir, stationID+".json")
	//nolint:gosec // G304: path is joined from a configured data dir and a station id the caller controls.
	b, err := os.ReadFile(path)
	if err != nil {
		return jsonRecord{}, errors.Wrapf(err, "station: read %s", path)
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return jsonRecord{}, errors.Wrapf(err, "station: parse %s", path)
	}

	p.mu.Lock()
	p.cache[stationID] = rec
	p.mu.Unlock()
	return rec, nil
}

// ResolveKind implements Provider.
func (p *JSONProvider) ResolveKind(stationID string) (Resolution, error) {
	rec, err := p.load(stationID)
	if err != nil {
		return Resolution{}, err
	}

	switch rec.Kind {
	case "reference":
		return Resolution{Kind: Reference, StationID: stationID}, nil
	case "subordinate":
		if rec.Offset == nil {
			return Resolution{}, errors.Errorf("station: %s: subordinate record missing offset", stationID)
		}
		return Resolution{
			Kind:        Subordinate,
			StationID:   stationID,
			ReferenceID: rec.ReferenceID,
			Offset: Offset{
				ReferenceID:    rec.ReferenceID,
				HighTimeOffset: rec.Offset.HighTimeOffsetMin,
				LowTimeOffset:  rec.Offset.LowTimeOffsetMin,
				HighFactor:     rec.Offset.HighFactor,
				LowFactor:      rec.Offset.LowFactor,
			},
		}, nil
	default:
		return Resolution{}, errors.Errorf("station: %s: unknown kind %q", stationID, rec.Kind)
	}
}

// Constants implements Provider. referenceID must name a reference
// station's record; calling it with a subordinate station id's record
// returns an empty constituent list rather than following the
// reference, since callers are expected to have already resolved kind.
func (p *JSONProvider) Constants(referenceID string) (Constants, error) {
	rec, err := p.load(referenceID)
	if err != nil {
		return Constants{}, err
	}

	cvs := make([]ConstituentValue, len(rec.Constituents))
	for i, c := range rec.Constituents {
		cvs[i] = ConstituentValue{Name: c.Name, Amplitude: c.AmplitudeM, PhaseDeg: c.PhaseDeg}
	}
	return Constants{Z0: rec.Z0, Constituents: cvs}, nil
}
