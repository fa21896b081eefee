package apod

import "errors"

// ErrNotFound is returned when the API has no entry for the requested date.
var ErrNotFound = errors.New("apod entry not found")
