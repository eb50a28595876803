package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist,
// either in the local store or on the remote persistence API.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. identical origin and destination, party size below 1).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoCheckpoint is returned when a site has no headcount checkpoint,
// so no occupancy can be reconstructed for it. The board degrades to a
// "no data" response rather than failing the request.
var ErrNoCheckpoint = errors.New("no checkpoint for site")

// ErrRemote is returned when the persistence API rejects or fails a call
// for a reason other than not-found. By the time callers see this error
// the optimistic local change has already been rolled back.
var ErrRemote = errors.New("remote persistence error")
