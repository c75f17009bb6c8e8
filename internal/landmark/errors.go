package landmark

import "errors"

// Sentinel failures of the rule engines. ErrSanityCheck and ErrNoInterface
// are fatal where they surface: the run produces no partial result. Short
// geometries are not errors; they are reported through Result.State.
var (
	// ErrSanityCheck means a required global extremum could not be located
	// within its arclength tolerance.
	ErrSanityCheck = errors.New("landmark: sanity check failed")

	// ErrNoInterface means a rule step found no threshold crossing.
	ErrNoInterface = errors.New("landmark: no interface found")
)
