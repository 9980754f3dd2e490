package testutil

import "errors"

// ErrSimulated is returned by fake stores to exercise error paths.
var ErrSimulated = errors.New("simulated store failure")
