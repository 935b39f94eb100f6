package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/ai"
	"github.com/elevatehq/go-booking-bot/internal/domain"
	"github.com/elevatehq/go-booking-bot/internal/rates"
	"github.com/elevatehq/go-booking-bot/internal/repo"
)

// fakeBookingRepo keeps slot claims in memory and mirrors the unique-index
// semantics of the real repository.
type fakeBookingRepo struct {
	mu      sync.Mutex
	claims  map[string]*domain.Booking // slot key -> holder
	nextID  int
	failErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{claims: make(map[string]*domain.Booking)}
}

func (f *fakeBookingRepo) CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	key := domain.SlotKey(b.BookingDate, b.BookingTime)
	if _, taken := f.claims[key]; taken {
		return nil, repo.ErrSlotTaken
	}
	f.nextID++
	b.ID = fmt.Sprintf("booking-%d", f.nextID)
	b.SlotKey = key
	b.Status = domain.StatusPending
	f.claims[key] = b
	return b, nil
}

func (f *fakeBookingRepo) LatestPendingBooking(ctx context.Context, db *gorm.DB, userID int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *domain.Booking
	for _, b := range f.claims {
		if b.UserID == userID && (latest == nil || b.ID > latest.ID) {
			latest = b
		}
	}
	if latest == nil {
		return nil, repo.ErrNotFound
	}
	return latest, nil
}

func (f *fakeBookingRepo) CancelBooking(ctx context.Context, db *gorm.DB, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, b := range f.claims {
		if b.ID == id {
			delete(f.claims, key)
			return nil
		}
	}
	return repo.ErrNotFound
}

// fakeReportRepo records created orders.
type fakeReportRepo struct {
	reports   []*domain.ReportRequest
	cvs       []*domain.CVRequest
	marked    map[int64]string // userID -> report email
	createErr error
	markErr   error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{marked: make(map[int64]string)}
}

func (f *fakeReportRepo) CreateReportRequest(ctx context.Context, db *gorm.DB, r *domain.ReportRequest) (*domain.ReportRequest, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	r.ID = fmt.Sprintf("report-%d", len(f.reports)+1)
	f.reports = append(f.reports, r)
	return r, nil
}

func (f *fakeReportRepo) CreateCVRequest(ctx context.Context, db *gorm.DB, r *domain.CVRequest) (*domain.CVRequest, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	r.ID = fmt.Sprintf("cv-%d", len(f.cvs)+1)
	f.cvs = append(f.cvs, r)
	return r, nil
}

func (f *fakeReportRepo) MarkReportRequested(ctx context.Context, db *gorm.DB, userID int64, email string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked[userID] = email
	return nil
}

// fakeAISessionRepo tracks free-tier lifecycle calls.
type fakeAISessionRepo struct {
	active    map[int64]*domain.AISession
	created   int
	touched   []int
	completed []int64
}

func newFakeAISessionRepo() *fakeAISessionRepo {
	return &fakeAISessionRepo{active: make(map[int64]*domain.AISession)}
}

func (f *fakeAISessionRepo) CreateAISession(ctx context.Context, db *gorm.DB, s *domain.AISession) (*domain.AISession, error) {
	f.created++
	s.ID = fmt.Sprintf("session-%d", f.created)
	f.active[s.UserID] = s
	return s, nil
}

func (f *fakeAISessionRepo) ActiveAISession(ctx context.Context, db *gorm.DB, userID int64) (*domain.AISession, error) {
	if s, ok := f.active[userID]; ok {
		return s, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAISessionRepo) TouchAISession(ctx context.Context, db *gorm.DB, userID int64, questionCount int) error {
	f.touched = append(f.touched, questionCount)
	return nil
}

func (f *fakeAISessionRepo) CompleteAISession(ctx context.Context, db *gorm.DB, userID int64) error {
	f.completed = append(f.completed, userID)
	delete(f.active, userID)
	return nil
}

// fakeActivityRepo counts log writes.
type fakeActivityRepo struct {
	entries []string
}

func (f *fakeActivityRepo) RecordActivity(ctx context.Context, db *gorm.DB, userID int64, username, firstName, actionType, detail string) error {
	f.entries = append(f.entries, actionType+":"+detail)
	return nil
}

// fakeStatsRepo serves fixed counters.
type fakeStatsRepo struct {
	bookings, reports, cvs, sessions int64
	activity                         []domain.Activity
	emails                           []string
}

func (f *fakeStatsRepo) CountBookings(ctx context.Context, db *gorm.DB) (int64, error) {
	return f.bookings, nil
}
func (f *fakeStatsRepo) CountReportRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	return f.reports, nil
}
func (f *fakeStatsRepo) CountCVRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	return f.cvs, nil
}
func (f *fakeStatsRepo) CountAISessions(ctx context.Context, db *gorm.DB) (int64, error) {
	return f.sessions, nil
}
func (f *fakeStatsRepo) RecentActivity(ctx context.Context, db *gorm.DB, limit int) ([]domain.Activity, error) {
	return f.activity, nil
}
func (f *fakeStatsRepo) CollectEmails(ctx context.Context, db *gorm.DB) ([]string, error) {
	return f.emails, nil
}

// fakeCompleter returns a canned answer or error.
type fakeCompleter struct {
	answer string
	err    error
	calls  [][]string // role:content pairs per call
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	var call []string
	for _, m := range messages {
		call = append(call, m.Role+":"+m.Content)
	}
	f.calls = append(f.calls, call)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeConverter returns a canned rate or error.
type fakeConverter struct {
	result *rates.Result
	err    error
	last   [3]interface{}
}

func (f *fakeConverter) Convert(ctx context.Context, amount float64, from, to string) (*rates.Result, error) {
	f.last = [3]interface{}{amount, from, to}
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.Amount = amount
	r.From = from
	r.To = to
	return &r, nil
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	To, Subject, Body string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
