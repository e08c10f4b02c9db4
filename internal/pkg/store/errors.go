package store

import "github.com/pkg/errors"

// ErrPointNotFound is returned when no collection point has the requested id.
var ErrPointNotFound = errors.New("point not found")
