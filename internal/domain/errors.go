package domain

import "errors"

// Domain-level errors
var (
	ErrMissingPayload = errors.New("app message has no payload")
	ErrInvalidReading = errors.New("invalid reading")
)
