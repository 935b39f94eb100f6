// Package domain defines the persistence models for bookings, report
// requests, CV requests, AI sessions, and the activity log. These types are
// mapped with GORM and form the durable data layer of the bot.
package domain

import (
	"fmt"
	"time"
)

// Booking statuses. A booking is never updated after creation except for its
// status (and the slot key rewrite that cancellation implies).
const (
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Conversation roles stored on transcript turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SlotKey builds the unique claim a non-cancelled booking holds on a
// (date, time) pair. Cancellation rewrites the stored key with FreedSlotKey so
// the claim returns to the pool while the row is retained.
func SlotKey(date, timeOfDay string) string {
	return date + "|" + timeOfDay
}

// FreedSlotKey derives the replacement key for a cancelled booking. The id
// suffix keeps cancelled rows from colliding with each other.
func FreedSlotKey(date, timeOfDay, id string) string {
	return fmt.Sprintf("%s|%s#%s", date, timeOfDay, id)
}

// Booking represents a confirmed consultation appointment.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: chat-platform identifier of the booking owner; indexed.
//   - BookingDate / BookingTime: the claimed slot ("2006-01-02", "15:04").
//   - SlotKey: uniquely-indexed claim on the (date, time) pair. At most one
//     non-cancelled booking can hold a given key; this is what makes the
//     commit safe against concurrent double-booking.
//   - PaymentMethod / PaymentConfirmed: the user's self-reported payment; no
//     verification is performed.
//   - CreatedAt: wall-clock time in the business timezone.
type Booking struct {
	ID               string    `json:"id"                gorm:"type:char(36);primaryKey"`
	UserID           int64     `json:"user_id"           gorm:"not null;index:idx_user_bookings"`
	Name             string    `json:"name"              gorm:"type:varchar(255);not null"`
	Email            string    `json:"email"             gorm:"type:varchar(255);not null"`
	ServiceType      string    `json:"service_type"      gorm:"type:varchar(32);not null"`
	Country          string    `json:"country"           gorm:"type:varchar(64)"`
	BookingDate      string    `json:"booking_date"      gorm:"type:varchar(10);not null"`
	BookingTime      string    `json:"booking_time"      gorm:"type:varchar(5);not null"`
	SlotKey          string    `json:"-"                 gorm:"type:varchar(64);not null;uniqueIndex:ux_booking_slot"`
	PaymentMethod    string    `json:"payment_method"    gorm:"type:varchar(16);not null"`
	PaymentConfirmed bool      `json:"payment_confirmed" gorm:"not null;default:false"`
	Status           string    `json:"status"            gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','cancelled','completed')"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// ReportRequest represents a paid detailed-report order. The conversation
// summary is captured at checkout time and never mutated afterwards.
type ReportRequest struct {
	ID                  string     `json:"id"                   gorm:"type:char(36);primaryKey"`
	UserID              int64      `json:"user_id"              gorm:"not null;index:idx_user_reports"`
	Name                string     `json:"name"                 gorm:"type:varchar(255);not null"`
	Email               string     `json:"email"                gorm:"type:varchar(255);not null"`
	Country             string     `json:"country"              gorm:"type:varchar(64)"`
	ServiceType         string     `json:"service_type"         gorm:"type:varchar(32)"`
	ConversationSummary string     `json:"conversation_summary" gorm:"type:text"`
	PaymentMethod       string     `json:"payment_method"       gorm:"type:varchar(16);not null"`
	PaymentConfirmed    bool       `json:"payment_confirmed"    gorm:"not null;default:false"`
	Status              string     `json:"status"               gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt           time.Time  `json:"created_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// TableName returns the database table name for ReportRequest.
func (ReportRequest) TableName() string { return "report_requests" }

// CVRequest represents a CV / cover-letter order. Details holds the raw text
// the user submitted; staff parse it by hand.
type CVRequest struct {
	ID            string     `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID        int64      `json:"user_id"        gorm:"not null;index:idx_user_cv"`
	RequestType   string     `json:"request_type"   gorm:"type:varchar(16);not null;check:request_type IN ('cv','cover','bundle')"`
	FullName      string     `json:"full_name"      gorm:"type:varchar(255);not null"`
	Email         string     `json:"email"          gorm:"type:varchar(255);not null"`
	Details       string     `json:"details"        gorm:"type:text"`
	PaymentMethod string     `json:"payment_method" gorm:"type:varchar(16);not null"`
	Status        string     `json:"status"         gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// TableName returns the database table name for CVRequest.
func (CVRequest) TableName() string { return "cv_requests" }

// AISession tracks one free-tier conversation lifecycle. At most one open
// session (CompletedAt IS NULL) exists per user; repositories always address
// the most recently started open row.
type AISession struct {
	ID              string     `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          int64      `json:"user_id"          gorm:"not null;index:idx_user_sessions"`
	Username        string     `json:"username"         gorm:"type:varchar(64)"`
	FirstName       string     `json:"first_name"       gorm:"type:varchar(128)"`
	Language        string     `json:"language"         gorm:"type:varchar(8)"`
	Country         string     `json:"country"          gorm:"type:varchar(64)"`
	ServiceType     string     `json:"service_type"     gorm:"type:varchar(32)"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	QuestionCount   int        `json:"question_count"   gorm:"not null;default:0"`
	ReportRequested bool       `json:"report_requested" gorm:"not null;default:false"`
	ReportEmail     string     `json:"report_email"     gorm:"type:varchar(255)"`
	LastMessageAt   time.Time  `json:"last_message_at"`
}

// TableName returns the database table name for AISession.
func (AISession) TableName() string { return "ai_sessions" }

// Activity is one append-only interaction log entry. The core only ever
// inserts these; nothing reads them back except offline reporting.
type Activity struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     int64     `json:"user_id"     gorm:"not null;index:idx_user_activity"`
	Username   string    `json:"username"    gorm:"type:varchar(64)"`
	FirstName  string    `json:"first_name"  gorm:"type:varchar(128)"`
	ActionType string    `json:"action_type" gorm:"type:varchar(64);not null"`
	Detail     string    `json:"detail"      gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for Activity.
func (Activity) TableName() string { return "user_activity" }
