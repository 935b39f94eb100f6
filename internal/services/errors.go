// Package services defines the business logic for the booking bot: the
// dialog router, the booking commit path, the report pipeline, and operator
// statistics.
//
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers. Translation
// into user-facing messages happens in the dialog router, which owns the
// bilingual catalog.
package services

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/elevatehq/go-booking-bot/internal/i18n"
)

var (
	// ErrSlotTaken indicates the requested consultation slot was claimed by
	// another booking between selection and commit.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrInvalidEmail is returned when a collected email address fails
	// validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrSessionExpired indicates the user's dialog session lapsed before the
	// operation could run.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnknownCurrency is returned when a conversion names a currency
	// outside the allow-list.
	ErrUnknownCurrency = errors.New("unsupported currency")

	// ErrQuestionLimit indicates the free question allowance is exhausted.
	ErrQuestionLimit = errors.New("free question limit reached")

	// ErrNothingToConfirm is returned when a payment confirmation arrives
	// with no pending order behind it.
	ErrNothingToConfirm = errors.New("no pending order to confirm")
)

// emailRe is a pragmatic address check; deliverability is confirmed by the
// mail itself.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// validateEmail returns ErrInvalidEmail unless s looks deliverable.
func validateEmail(s string) error {
	if !emailRe.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	return nil
}

// checkCurrency returns ErrUnknownCurrency for codes outside the allow-list.
func checkCurrency(code string) error {
	if !i18n.IsCurrency(code) {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return nil
}
