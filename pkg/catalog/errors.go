package catalog

import (
	"errors"
	"fmt"

	"github.com/kasuboski/ratez/pkg/storage"
)

var (
	ErrEmptyField     = errors.New("title and rating are required")
	ErrInvalidRating  = fmt.Errorf("rating must be between %d and %d", storage.MinRating, storage.MaxRating)
	ErrDuplicateTitle = errors.New("movie already exists")
	ErrNotFound       = errors.New("movie not found")
)

// IsValidation reports whether err was caused by bad user input rather than persistence
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyField) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrDuplicateTitle)
}
