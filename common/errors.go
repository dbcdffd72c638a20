package common

import "errors"

// Outcomes rendered locally by handlers. Anything else returned from a
// service is an infrastructure failure.
var (
	ErrNotFound           = errors.New("record not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
