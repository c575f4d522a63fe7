package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrFoodNotFound       = errors.New("some foods not found")
	ErrMacroTargetsSum    = errors.New("macro targets must sum to 100%")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnavailable        = errors.New("feature not configured")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound maps gorm's record-not-found onto ErrNotFound and passes other
// errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
