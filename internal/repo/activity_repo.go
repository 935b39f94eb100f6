// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the append-only activity log and the
// email-export query used by the operator tooling.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
)

// RecordActivity appends one interaction log entry. The log is write-only
// from the core's perspective; failures here must never block a dialog
// transition, so callers log and move on.
func RecordActivity(ctx context.Context, db *gorm.DB, userID int64, username, firstName, actionType, detail string) error {
	a := &domain.Activity{
		ID:         uuid.NewString(),
		UserID:     userID,
		Username:   username,
		FirstName:  firstName,
		ActionType: actionType,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(a).Error
}

// RecentActivity returns the latest limit entries, newest first.
func RecentActivity(ctx context.Context, db *gorm.DB, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []domain.Activity
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CollectEmails returns the distinct contact emails captured across bookings,
// report requests, and free-report signups, deduplicated in first-seen order.
func CollectEmails(ctx context.Context, db *gorm.DB) ([]string, error) {
	var bookings, reports, sessions []string

	if err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Distinct("email").
		Pluck("email", &bookings).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).
		Model(&domain.ReportRequest{}).
		Distinct("email").
		Pluck("email", &reports).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).
		Model(&domain.AISession{}).
		Where("report_email <> ''").
		Distinct("report_email").
		Pluck("report_email", &sessions).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, len(bookings)+len(reports)+len(sessions))
	for _, group := range [][]string{bookings, reports, sessions} {
		for _, e := range group {
			if e == "" {
				continue
			}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out, nil
}
