package signalrepo

import "errors"

// ErrNotFound indicates no signal exists at the requested coordinates.
var ErrNotFound = errors.New("traffic signal not found")
