package api

import "errors"

var (
	// ErrNetworkFailure covers transport errors, unexpected statuses and
	// responses reporting success=false.
	ErrNetworkFailure = errors.New("network failure")
	// ErrNotFound is returned for a 404 or when the response lacks the
	// requested entity.
	ErrNotFound = errors.New("not found")
)
