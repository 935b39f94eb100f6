package services

import (
	"context"
	"errors"
	"testing"

	"github.com/elevatehq/go-booking-bot/internal/state"
)

func consultPayload() state.Payload {
	return state.Payload{
		ServiceType:   "study",
		Country:       "germany",
		OrderType:     "consultation",
		Name:          "Alice",
		Email:         "alice@example.com",
		SelectedDate:  "2026-03-03",
		SelectedTime:  "10:00",
		PaymentMethod: "stripe",
	}
}

func TestBookingCommit_HappyPath(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(nil, repo)

	b, err := svc.Commit(context.Background(), 1, consultPayload())
	if err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if b.BookingDate != "2026-03-03" || b.BookingTime != "10:00" {
		t.Fatalf("slot fields wrong: %+v", b)
	}
	if !b.PaymentConfirmed {
		t.Fatalf("commit must mark the payment confirmed")
	}
}

func TestBookingCommit_EmptySlotRejected(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(nil, repo)

	data := consultPayload()
	data.SelectedDate = ""
	data.SelectedTime = ""
	if _, err := svc.Commit(context.Background(), 1, data); !errors.Is(err, ErrNothingToConfirm) {
		t.Fatalf("err = %v, want ErrNothingToConfirm", err)
	}
	if len(repo.claims) != 0 {
		t.Fatalf("booking persisted without a slot")
	}
}

func TestBookingCommit_LosesRaceToOtherUser(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(nil, repo)
	ctx := context.Background()

	if _, err := svc.Commit(ctx, 1, consultPayload()); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if _, err := svc.Commit(ctx, 2, consultPayload()); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestBookingCommit_RepeatConfirmationIsIdempotent(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(nil, repo)
	ctx := context.Background()

	first, err := svc.Commit(ctx, 1, consultPayload())
	if err != nil {
		t.Fatalf("first commit: %v", err)
	}
	second, err := svc.Commit(ctx, 1, consultPayload())
	if err != nil {
		t.Fatalf("repeat commit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("repeat produced a new booking: %s vs %s", second.ID, first.ID)
	}
}

func TestBookingCommit_RetryOnDifferentSlotStillFails(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(nil, repo)
	ctx := context.Background()

	// User 1 holds 10:00. User 2 holds 11:00 and then tries 10:00.
	if _, err := svc.Commit(ctx, 1, consultPayload()); err != nil {
		t.Fatalf("seed commit: %v", err)
	}
	other := consultPayload()
	other.SelectedTime = "11:00"
	if _, err := svc.Commit(ctx, 2, other); err != nil {
		t.Fatalf("second user commit: %v", err)
	}
	steal := consultPayload()
	if _, err := svc.Commit(ctx, 2, steal); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestBookingCancel_ReleasesSlot(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(nil, repo)
	ctx := context.Background()

	b, err := svc.Commit(ctx, 1, consultPayload())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := svc.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Commit(ctx, 2, consultPayload()); err != nil {
		t.Fatalf("slot not claimable after cancel: %v", err)
	}
}
