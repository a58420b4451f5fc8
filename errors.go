package exptree

import "errors"

// ErrOutOfMemory is surfaced only from Put (Get never allocates). The
// tree is left fully intact on this error.
var ErrOutOfMemory = errors.New("exptree: out of memory")
