package storage

import "errors"

// ErrNotFound is returned when a requested entity has no row.
// Check with errors.Is; the wrapped message names the table and id.
var ErrNotFound = errors.New("not found")
