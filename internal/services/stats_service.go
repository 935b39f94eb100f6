// Package services – StatsService
//
// Aggregated counters and operator tooling: platform totals, the recent
// activity feed, the email export, and the daily digest the scheduler mails
// to the operator inbox.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
)

// StatsRepo defines the repository contract required by StatsService.
type StatsRepo interface {
	CountBookings(ctx context.Context, db *gorm.DB) (int64, error)
	CountReportRequests(ctx context.Context, db *gorm.DB) (int64, error)
	CountCVRequests(ctx context.Context, db *gorm.DB) (int64, error)
	CountAISessions(ctx context.Context, db *gorm.DB) (int64, error)
	RecentActivity(ctx context.Context, db *gorm.DB, limit int) ([]domain.Activity, error)
	CollectEmails(ctx context.Context, db *gorm.DB) ([]string, error)
}

// Totals is the aggregate counter snapshot shown by the stats surfaces.
type Totals struct {
	AISessions int64
	Bookings   int64
	Reports    int64
	CVOrders   int64
}

// StatsService aggregates persisted counters for user-facing stats and
// operator reporting.
type StatsService struct {
	DB   *gorm.DB
	Repo StatsRepo
}

// NewStatsService constructs a StatsService.
func NewStatsService(db *gorm.DB, r StatsRepo) *StatsService {
	return &StatsService{DB: db, Repo: r}
}

// Totals returns the current aggregate counters.
func (s *StatsService) Totals(ctx context.Context) (Totals, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "Totals")
	defer span.End()

	var t Totals
	var err error
	if t.AISessions, err = s.Repo.CountAISessions(ctx, s.DB); err != nil {
		return t, err
	}
	if t.Bookings, err = s.Repo.CountBookings(ctx, s.DB); err != nil {
		return t, err
	}
	if t.Reports, err = s.Repo.CountReportRequests(ctx, s.DB); err != nil {
		return t, err
	}
	if t.CVOrders, err = s.Repo.CountCVRequests(ctx, s.DB); err != nil {
		return t, err
	}
	return t, nil
}

// Recent returns the latest activity entries for the operator feed.
func (s *StatsService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.Repo.RecentActivity(ctx, s.DB, limit)
}

// ExportEmails returns every captured contact email, deduplicated.
func (s *StatsService) ExportEmails(ctx context.Context) ([]string, error) {
	return s.Repo.CollectEmails(ctx, s.DB)
}

// DigestBody renders the daily operator digest: totals plus the most recent
// activity lines.
func (s *StatsService) DigestBody(ctx context.Context, now time.Time) (string, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return "", err
	}
	recent, err := s.Recent(ctx, 20)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Elevate daily digest — %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "AI sessions: %d\nBookings: %d\nReports: %d\nCV orders: %d\n\n", totals.AISessions, totals.Bookings, totals.Reports, totals.CVOrders)
	b.WriteString("Recent activity:\n")
	for _, a := range recent {
		fmt.Fprintf(&b, "%s  user=%d  %s  %s\n", a.CreatedAt.Format("01-02 15:04"), a.UserID, a.ActionType, a.Detail)
	}
	return b.String(), nil
}
