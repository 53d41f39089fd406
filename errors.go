package citygen

import "github.com/pkg/errors"

// ErrInvalidBounds is returned when the requested city dimensions are not
// strictly positive (spec §7).
var ErrInvalidBounds = errors.New("city bounds must have positive width and height")

// ErrCounterOverflow is returned when an internal id counter (district,
// lot, building site) would wrap past its representable range (spec §7).
//
// Allocation failure, spec §7's third fatal condition, has no catchable Go
// representation — Go panics on out-of-memory rather than returning an
// error, so callers should expect a panic rather than this sentinel for
// that case.
var ErrCounterOverflow = errors.New("internal id counter overflowed")
