package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elevatehq/go-booking-bot/internal/domain"
)

// test DB helper
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateBooking_InsertsWithDefaults(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	b, err := CreateBooking(ctx, db, &domain.Booking{
		UserID:      7,
		Name:        "Alice",
		Email:       "alice@example.com",
		Country:     "Poland",
		ServiceType: "study",
		BookingDate: "2026-03-02",
		BookingTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking error: %v", err)
	}
	if b.ID == "" {
		t.Fatalf("expected generated id")
	}
	if b.Status != domain.StatusPending {
		t.Fatalf("Status = %q, want %q", b.Status, domain.StatusPending)
	}
	if b.SlotKey != "2026-03-02|10:00" {
		t.Fatalf("SlotKey = %q", b.SlotKey)
	}
	if b.CreatedAt.IsZero() || time.Since(b.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set: %v", b.CreatedAt)
	}
}

func TestCreateBooking_SameSlotLosesRace(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	mk := func(userID int64) (*domain.Booking, error) {
		return CreateBooking(ctx, db, &domain.Booking{
			UserID:      userID,
			Name:        "u",
			Email:       "u@example.com",
			BookingDate: "2026-03-02",
			BookingTime: "10:00",
		})
	}

	if _, err := mk(1); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	if _, err := mk(2); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second commit err = %v, want ErrSlotTaken", err)
	}

	// Other slots on the same day remain claimable.
	if _, err := CreateBooking(ctx, db, &domain.Booking{
		UserID:      2,
		Name:        "u",
		Email:       "u@example.com",
		BookingDate: "2026-03-02",
		BookingTime: "11:00",
	}); err != nil {
		t.Fatalf("adjacent slot commit failed: %v", err)
	}
}

func TestSlotAvailable(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	free, err := SlotAvailable(ctx, db, "2026-03-02", "10:00")
	if err != nil || !free {
		t.Fatalf("SlotAvailable = (%v, %v), want (true, nil)", free, err)
	}

	if _, err := CreateBooking(ctx, db, &domain.Booking{
		UserID: 1, Name: "u", Email: "u@example.com",
		BookingDate: "2026-03-02", BookingTime: "10:00",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	free, err = SlotAvailable(ctx, db, "2026-03-02", "10:00")
	if err != nil || free {
		t.Fatalf("SlotAvailable after claim = (%v, %v), want (false, nil)", free, err)
	}
}

func TestCancelBooking_FreesSlot(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	b, err := CreateBooking(ctx, db, &domain.Booking{
		UserID: 1, Name: "u", Email: "u@example.com",
		BookingDate: "2026-03-02", BookingTime: "14:00",
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if err := CancelBooking(ctx, db, b.ID); err != nil {
		t.Fatalf("CancelBooking error: %v", err)
	}

	free, err := SlotAvailable(ctx, db, "2026-03-02", "14:00")
	if err != nil || !free {
		t.Fatalf("slot not freed after cancel: (%v, %v)", free, err)
	}

	// Freed slot is claimable again by someone else.
	if _, err := CreateBooking(ctx, db, &domain.Booking{
		UserID: 2, Name: "v", Email: "v@example.com",
		BookingDate: "2026-03-02", BookingTime: "14:00",
	}); err != nil {
		t.Fatalf("reclaim after cancel failed: %v", err)
	}
}

func TestCancelBooking_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	if err := CancelBooking(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestPendingBooking(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	if _, err := LatestPendingBooking(ctx, db, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	old, err := CreateBooking(ctx, db, &domain.Booking{
		UserID: 9, Name: "u", Email: "u@example.com",
		BookingDate: "2026-03-02", BookingTime: "10:00",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed old booking: %v", err)
	}
	recent, err := CreateBooking(ctx, db, &domain.Booking{
		UserID: 9, Name: "u", Email: "u@example.com",
		BookingDate: "2026-03-03", BookingTime: "11:00",
	})
	if err != nil {
		t.Fatalf("seed recent booking: %v", err)
	}

	got, err := LatestPendingBooking(ctx, db, 9)
	if err != nil {
		t.Fatalf("LatestPendingBooking error: %v", err)
	}
	if got.ID != recent.ID {
		t.Fatalf("got booking %s, want %s (not %s)", got.ID, recent.ID, old.ID)
	}
}

func TestCountBookings(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	ctx := context.Background()

	for i, tm := range []string{"10:00", "11:00", "14:00"} {
		if _, err := CreateBooking(ctx, db, &domain.Booking{
			UserID: int64(i), Name: "u", Email: "u@example.com",
			BookingDate: "2026-03-02", BookingTime: tm,
		}); err != nil {
			t.Fatalf("seed booking %d: %v", i, err)
		}
	}

	n, err := CountBookings(ctx, db)
	if err != nil || n != 3 {
		t.Fatalf("CountBookings = (%d, %v), want (3, nil)", n, err)
	}
}
