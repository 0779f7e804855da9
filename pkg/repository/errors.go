package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"droscher.com/WineCellar/pkg/model"
)

// translate maps store failures onto the error kinds callers branch on. Errors that already
// carry a kind pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if model.Kind(err) != nil {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	}

	return fmt.Errorf("%w: %w", model.ErrStorage, err)
}
