package models

import "errors"

// Domain error taxonomy. Controllers map these onto HTTP statuses;
// background sweeps treat ErrConcurrencyConflict as skip-and-continue.
var (
	ErrNotFound                = errors.New("record not found")
	ErrInvalidStatusTransition = errors.New("status transition not permitted from current status")
	ErrInvalidScheduling       = errors.New("start time missing or in the past")
	ErrConcurrencyConflict     = errors.New("record generation mismatch")
	ErrMalformedDelta          = errors.New("malformed delta snapshot")
	ErrDuplicateName           = errors.New("cta name already in use")
	ErrUpdateNotAllowed        = errors.New("cta not editable in current status")
)
