package domain

import "errors"

// Error taxonomy shared by the ledger store and the services built on it.
//
// ErrInvalidInput is returned before any storage access, so a rejected call
// never leaves a partial append behind. ErrStorageUnavailable wraps the
// underlying I/O error of a backend; callers match it with errors.Is.
// ErrMalformedRecord never leaves the ledger package: a line that fails to
// decode is skipped during a load.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrMalformedRecord    = errors.New("malformed record")
)
