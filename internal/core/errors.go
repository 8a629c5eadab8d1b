package core

import "errors"

// ErrMatchNotFound is returned by write operations targeting a match
// that does not exist.
var ErrMatchNotFound = errors.New("match not found")
