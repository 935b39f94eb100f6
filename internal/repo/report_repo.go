// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ReportRequest and CVRequest models.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
)

// CreateReportRequest inserts a paid detailed-report order.
func CreateReportRequest(ctx context.Context, db *gorm.DB, r *domain.ReportRequest) (*domain.ReportRequest, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = domain.StatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// CountReportRequests returns the total number of report requests.
func CountReportRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.ReportRequest{}).Count(&total).Error
	return total, err
}

// CreateCVRequest inserts a CV / cover-letter order.
func CreateCVRequest(ctx context.Context, db *gorm.DB, r *domain.CVRequest) (*domain.CVRequest, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = domain.StatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// CountCVRequests returns the total number of CV / cover-letter orders.
func CountCVRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.CVRequest{}).Count(&total).Error
	return total, err
}
