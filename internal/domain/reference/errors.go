package reference

import "errors"

// ErrNotFound indicates the requested reference record has never been
// resolved into the store
var ErrNotFound = errors.New("reference record not found")
