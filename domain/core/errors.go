package core

import (
	"errors"
)

// Validation failures raised before any request is issued. Their text is shown to the user as-is.
var (
	ErrNoFileSelected = errors.New("Please select a file")
	ErrEmptyText      = errors.New("Please enter prescription text")
	ErrNoResults      = errors.New("no results stored")
)

// IsValidationError reports whether err is one of the pre-request validation failures
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoFileSelected) || errors.Is(err, ErrEmptyText)
}
