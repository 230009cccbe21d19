package harmonic

import "errors"

// ErrUnknownStation is returned when the Station Provider has no
// constants for a resolved reference station id.
var ErrUnknownStation = errors.New("harmonic: unknown station")

// ErrEmptyConstants is returned when a station resolves successfully
// but its constituent set is empty.
var ErrEmptyConstants = errors.New("harmonic: station has no constituents")
