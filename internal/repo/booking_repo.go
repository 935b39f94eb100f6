// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model, including the atomic slot claim that enforces slot exclusivity.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a booking is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - CreateBooking returns ErrSlotTaken when the (date, time) claim is
//     already held by a non-cancelled booking.
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrSlotTaken indicates that a non-cancelled booking already claims the
// requested (date, time) slot.
var ErrSlotTaken = errors.New("slot already booked")

// CreateBooking inserts a confirmed booking claiming the (date, time) slot.
// The slot claim is a unique index, so a concurrent commit for the same slot
// loses the race and gets ErrSlotTaken regardless of any earlier
// availability check.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = domain.StatusPending
	}
	b.SlotKey = domain.SlotKey(b.BookingDate, b.BookingTime)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return b, nil
}

// SlotAvailable reports whether no non-cancelled booking claims the given
// (date, time) pair. The answer is point-in-time only: it can go stale the
// moment another user commits, which is why CreateBooking re-checks via the
// unique claim.
func SlotAvailable(ctx context.Context, db *gorm.DB, date, timeOfDay string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("booking_date = ? AND booking_time = ? AND status <> ?", date, timeOfDay, domain.StatusCancelled).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// CancelBooking marks a booking cancelled and rewrites its slot key so the
// slot returns to the pool. Returns ErrNotFound when no such booking exists.
func CancelBooking(ctx context.Context, db *gorm.DB, id string) error {
	var b domain.Booking
	if err := db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return err
	}
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   domain.StatusCancelled,
			"slot_key": domain.FreedSlotKey(b.BookingDate, b.BookingTime, b.ID),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LatestPendingBooking returns the most recent pending booking for userID,
// or ErrNotFound.
func LatestPendingBooking(ctx context.Context, db *gorm.DB, userID int64) (*domain.Booking, error) {
	var b domain.Booking
	err := db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusPending).
		Order("created_at desc").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CountBookings returns the total number of bookings (all statuses).
func CountBookings(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Booking{}).Count(&total).Error
	return total, err
}

// isUniqueViolation reports whether err is a UNIQUE-constraint failure.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations;
// Postgres names the constraint in its message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value violates unique constraint")
}
