package domain

import "errors"

var (
	// ErrUnknownEvent is returned when a log's topic0 matches no registered event signature
	ErrUnknownEvent = errors.New("log does not match any known event signature")

	// ErrMalformedLog is returned when a log matches a known signature but its
	// topics or data cannot be unpacked against it
	ErrMalformedLog = errors.New("malformed log for known event signature")

	// ErrInvalidAddress is returned when an address argument is not a valid hex address
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidTokenID is returned when a token id is not a non-negative 256-bit integer
	ErrInvalidTokenID = errors.New("invalid token id")
)
