package model

import "errors"

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnauthorized         = errors.New("action not authorized")
	ErrValidation           = errors.New("invalid input")
	ErrCapacityExceeded     = errors.New("shelf capacity exceeded")
	ErrNotEmpty             = errors.New("shelf is not empty")
	ErrNotFound             = errors.New("not found")
	ErrStorage              = errors.New("storage error")
)

var kinds = []error{
	ErrAuthenticationFailed,
	ErrUnauthorized,
	ErrValidation,
	ErrCapacityExceeded,
	ErrNotEmpty,
	ErrNotFound,
	ErrStorage,
}

// Kind returns the error kind err wraps, or nil when it wraps none.
func Kind(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}
