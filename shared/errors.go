package shared

import "errors"

// Error kinds. Every failure returned by the sort wraps exactly one of these.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInputUnreadable      = errors.New("input unreadable")
	ErrOutputUnwritable     = errors.New("output unwritable")
	ErrMalformedInput       = errors.New("malformed input")
	ErrVerification         = errors.New("verification failed")
)
