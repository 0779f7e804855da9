package cmd

import "droscher.com/WineCellar/pkg/model"

const exitFailure = 1

var exitCodes = map[error]int{
	model.ErrAuthenticationFailed: 3,
	model.ErrUnauthorized:         4,
	model.ErrValidation:           5,
	model.ErrCapacityExceeded:     6,
	model.ErrNotEmpty:             7,
	model.ErrNotFound:             8,
	model.ErrStorage:              9,
}

// ExitCode maps the error kind of a failed command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if code, ok := exitCodes[model.Kind(err)]; ok {
		return code
	}

	return exitFailure
}
