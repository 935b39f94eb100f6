// Package services – BookingService
//
// This file implements the consultation booking commit path. Availability
// keyboards are advisory only; the authoritative claim on a slot is the
// unique index the repository enforces at insert time. A commit that loses
// the race gets ErrSlotTaken, and a repeated payment confirmation for a slot
// this user already holds resolves to the existing booking instead of a
// second row.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
	"github.com/elevatehq/go-booking-bot/internal/repo"
	"github.com/elevatehq/go-booking-bot/internal/state"
)

// BookingRepo defines the repository contract required by BookingService.
type BookingRepo interface {
	// CreateBooking inserts a booking, claiming its slot atomically.
	CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error)

	// LatestPendingBooking returns the user's most recent pending booking.
	LatestPendingBooking(ctx context.Context, db *gorm.DB, userID int64) (*domain.Booking, error)

	// CancelBooking cancels a booking and releases its slot claim.
	CancelBooking(ctx context.Context, db *gorm.DB, id string) error
}

// BookingService owns the commit and cancel operations for consultations.
type BookingService struct {
	DB   *gorm.DB
	Repo BookingRepo
}

// NewBookingService constructs a BookingService.
func NewBookingService(db *gorm.DB, r BookingRepo) *BookingService {
	return &BookingService{DB: db, Repo: r}
}

// Commit persists a consultation booking from the collected payload. When the
// slot was claimed concurrently it returns ErrSlotTaken, unless the holder is
// this same user's pending booking, in which case the confirmation is treated
// as a retry and the existing booking is returned.
func (s *BookingService) Commit(ctx context.Context, userID int64, data state.Payload) (*domain.Booking, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Commit",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("booking.date", data.SelectedDate),
			attribute.String("booking.time", data.SelectedTime),
		))
	defer span.End()

	if data.SelectedDate == "" || data.SelectedTime == "" {
		// A confirmation without a selected slot cannot come from a live
		// dialog; treat it as a stale or replayed press.
		return nil, ErrNothingToConfirm
	}

	b, err := s.Repo.CreateBooking(ctx, s.DB, &domain.Booking{
		UserID:           userID,
		Name:             data.Name,
		Email:            data.Email,
		ServiceType:      data.ServiceType,
		Country:          data.Country,
		BookingDate:      data.SelectedDate,
		BookingTime:      data.SelectedTime,
		PaymentMethod:    data.PaymentMethod,
		PaymentConfirmed: true,
	})
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repo.ErrSlotTaken) {
		return nil, err
	}

	// The claim may already be ours from an earlier confirmation press.
	existing, lookupErr := s.Repo.LatestPendingBooking(ctx, s.DB, userID)
	if lookupErr == nil &&
		existing.BookingDate == data.SelectedDate &&
		existing.BookingTime == data.SelectedTime {
		span.SetAttributes(attribute.Bool("booking.retry", true))
		return existing, nil
	}
	return nil, ErrSlotTaken
}

// Cancel releases a booking. The freed slot becomes claimable immediately.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Cancel",
		trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	return s.Repo.CancelBooking(ctx, s.DB, id)
}
