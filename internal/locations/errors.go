package locations

import "errors"

// ErrInvalidCoordinates rejects an enqueue whose latitude or longitude is
// non-finite or outside the geographic range. Nothing is persisted.
var ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
