// Package services – ReportService
//
// This file implements the conversation-to-report pipeline. A paid report
// order runs as named steps: persist the order, notify the operator inbox,
// acknowledge the user by email. Persistence is the only hard dependency;
// email steps are failure-tolerant and reported honestly in the result so the
// dialog can tell the user what actually happened.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/domain"
	"github.com/elevatehq/go-booking-bot/internal/mail"
	"github.com/elevatehq/go-booking-bot/internal/state"
)

// EmptyConversationSummary is stored when a report is ordered before any AI
// exchange happened.
const EmptyConversationSummary = "User ordered detailed report without using AI assistant first."

// ReportRepo defines the repository contract required by ReportService.
type ReportRepo interface {
	// CreateReportRequest inserts a paid detailed-report order.
	CreateReportRequest(ctx context.Context, db *gorm.DB, r *domain.ReportRequest) (*domain.ReportRequest, error)

	// CreateCVRequest inserts a CV / cover-letter order.
	CreateCVRequest(ctx context.Context, db *gorm.DB, r *domain.CVRequest) (*domain.CVRequest, error)

	// MarkReportRequested flags the open AI session with the report email.
	MarkReportRequested(ctx context.Context, db *gorm.DB, userID int64, email string) error
}

// ReportResult reports what the pipeline achieved. Request is always set on
// success of the persist step; the notification flags reflect best-effort
// delivery.
type ReportResult struct {
	Request          *domain.ReportRequest
	OperatorNotified bool
	UserNotified     bool
}

// ReportService runs the report pipelines and CV intake.
type ReportService struct {
	DB       *gorm.DB
	Repo     ReportRepo
	Mailer   mail.Mailer
	Operator string // operator inbox for order notifications
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB, r ReportRepo, m mail.Mailer, operator string) *ReportService {
	return &ReportService{DB: db, Repo: r, Mailer: m, Operator: operator}
}

// Summarize renders a transcript as alternating Q:/A: blocks. An empty
// transcript yields the placeholder summary.
func Summarize(turns []state.Turn) string {
	if len(turns) == 0 {
		return EmptyConversationSummary
	}
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case domain.RoleUser:
			fmt.Fprintf(&b, "Q: %s\n", t.Content)
		case domain.RoleAssistant:
			fmt.Fprintf(&b, "A: %s\n\n", t.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// OrderReport runs the paid-report pipeline for a confirmed payment.
// Step 1 persists the order and is the only step that can fail the call.
// Steps 2 and 3 notify the operator and the user; their failures are logged
// and surfaced through the result flags.
func (s *ReportService) OrderReport(ctx context.Context, userID int64, data state.Payload) (*ReportResult, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "OrderReport",
		trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	if err := validateEmail(data.Email); err != nil {
		return nil, err
	}

	summary := Summarize(data.Conversation)

	// step: persist
	req, err := s.Repo.CreateReportRequest(ctx, s.DB, &domain.ReportRequest{
		UserID:              userID,
		Name:                data.Name,
		Email:               data.Email,
		Country:             data.Country,
		ServiceType:         data.ServiceType,
		ConversationSummary: summary,
		PaymentMethod:       data.PaymentMethod,
		PaymentConfirmed:    true,
	})
	if err != nil {
		return nil, err
	}
	res := &ReportResult{Request: req}

	// step: notify operator
	operatorBody := fmt.Sprintf(
		"New detailed report order #%s\n\nName: %s\nEmail: %s\nCountry: %s\nService: %s\nPayment: %s\n\nConversation:\n%s",
		req.ID, req.Name, req.Email, req.Country, req.ServiceType, req.PaymentMethod, summary)
	if err := s.Mailer.Send(s.Operator, "New report order #"+req.ID, operatorBody); err != nil {
		log.Warn().Err(err).Str("order", req.ID).Msg("operator notification failed")
	} else {
		res.OperatorNotified = true
	}

	// step: acknowledge user
	userBody := fmt.Sprintf(
		"Thank you %s!\n\nYour detailed report order #%s is confirmed. Our team will send the report to this address within 24 hours.",
		req.Name, req.ID)
	if err := s.Mailer.Send(req.Email, "Your Elevate report order", userBody); err != nil {
		log.Warn().Err(err).Str("order", req.ID).Msg("user acknowledgement failed")
	} else {
		res.UserNotified = true
	}

	return res, nil
}

// SendFreeSummary emails the current conversation to the user, free of
// charge, and forwards the transcript to the operator inbox. The signup flag
// and the operator copy are best effort; only the user delivery failure is
// returned, so the dialog can keep the collected email and offer a retry.
func (s *ReportService) SendFreeSummary(ctx context.Context, userID int64, email string, turns []state.Turn) error {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "SendFreeSummary",
		trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	if err := validateEmail(email); err != nil {
		return err
	}

	summary := Summarize(turns)

	// step: flag signup
	if err := s.Repo.MarkReportRequested(ctx, s.DB, userID, email); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("free summary signup flag failed")
	}

	// step: notify operator
	operatorBody := fmt.Sprintf(
		"Free summary requested\n\nUser: %d\nEmail: %s\n\nConversation:\n%s",
		userID, email, summary)
	if err := s.Mailer.Send(s.Operator, "Free summary request", operatorBody); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("operator notification failed")
	}

	// step: deliver to user
	body := "Your Elevate conversation summary:\n\n" + summary
	return s.Mailer.Send(email, "Your Elevate conversation summary", body)
}

// OrderCV persists a CV / cover-letter order and notifies the operator.
func (s *ReportService) OrderCV(ctx context.Context, userID int64, cvType, details string, data state.Payload) (*domain.CVRequest, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "OrderCV",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("cv.type", cvType),
		))
	defer span.End()

	req, err := s.Repo.CreateCVRequest(ctx, s.DB, &domain.CVRequest{
		UserID:        userID,
		RequestType:   cvType,
		FullName:      data.Name,
		Email:         data.Email,
		Details:       details,
		PaymentMethod: data.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("New %s order #%s\n\nName: %s\nEmail: %s\n\nDetails:\n%s",
		cvType, req.ID, req.FullName, req.Email, details)
	if err := s.Mailer.Send(s.Operator, "New CV order #"+req.ID, body); err != nil {
		log.Warn().Err(err).Str("order", req.ID).Msg("operator notification failed")
	}
	return req, nil
}
