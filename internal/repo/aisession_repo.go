// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the AISession
// model, which tracks free-tier conversation lifecycles.
//
// Invariant maintained here: at most one open session (completed_at IS NULL)
// per user. Updates always address the most recently started open row, the
// same row ActiveAISession would return.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
)

// CreateAISession inserts a new open session for userID. Callers are expected
// to have checked ActiveAISession first; a second open row for the same user
// would break the one-open-session invariant.
func CreateAISession(ctx context.Context, db *gorm.DB, s *domain.AISession) (*domain.AISession, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	if s.LastMessageAt.IsZero() {
		s.LastMessageAt = s.StartedAt
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ActiveAISession returns the open session for userID, or ErrNotFound.
func ActiveAISession(ctx context.Context, db *gorm.DB, userID int64) (*domain.AISession, error) {
	var s domain.AISession
	err := db.WithContext(ctx).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Order("started_at desc").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// TouchAISession records a new question count and last-message time on the
// open session. A missing open session is not an error; the update is a
// reporting aid, never a gate.
func TouchAISession(ctx context.Context, db *gorm.DB, userID int64, questionCount int) error {
	return db.WithContext(ctx).
		Model(&domain.AISession{}).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Updates(map[string]interface{}{
			"question_count":  questionCount,
			"last_message_at": time.Now().UTC(),
		}).Error
}

// CompleteAISession closes the open session for userID by stamping
// completed_at. Closing an already-closed (or absent) session is a no-op.
func CompleteAISession(ctx context.Context, db *gorm.DB, userID int64) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.AISession{}).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Update("completed_at", &now).Error
}

// MarkReportRequested flags the open session as having requested the free
// conversation report and records the destination email.
func MarkReportRequested(ctx context.Context, db *gorm.DB, userID int64, email string) error {
	return db.WithContext(ctx).
		Model(&domain.AISession{}).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Updates(map[string]interface{}{
			"report_requested": true,
			"report_email":     email,
		}).Error
}

// CountAISessions returns the total number of AI sessions (open and closed).
func CountAISessions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.AISession{}).Count(&total).Error
	return total, err
}
