// Package httpapi wires the HTTP transport (Gin) to the dialog services. The
// bot runs in webhook mode: the chat platform POSTs updates to /webhook and
// receives the replies to deliver in the response body. Health and Prometheus
// endpoints ride on the same engine.
//
// Middleware order: RequestID → Logger → Recovery → body limit → Metrics →
// IP rate limit. The per-sender rate limit runs inside the webhook handler,
// after the sender is known.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/ai"
	"github.com/elevatehq/go-booking-bot/internal/availability"
	"github.com/elevatehq/go-booking-bot/internal/config"
	"github.com/elevatehq/go-booking-bot/internal/domain"
	"github.com/elevatehq/go-booking-bot/internal/http/middleware"
	"github.com/elevatehq/go-booking-bot/internal/kb"
	"github.com/elevatehq/go-booking-bot/internal/mail"
	"github.com/elevatehq/go-booking-bot/internal/rates"
	"github.com/elevatehq/go-booking-bot/internal/repo"
	"github.com/elevatehq/go-booking-bot/internal/services"
	"github.com/elevatehq/go-booking-bot/internal/state"
)

// webhookSecretHeader carries the shared secret configured with the chat
// platform, when one is set.
const webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// bookingRepoShim adapts the repository free functions to the
// services.BookingRepo interface. The shims keep services decoupled from the
// concrete repo package while reusing its functions.
type bookingRepoShim struct{}

func (bookingRepoShim) CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error) {
	return repo.CreateBooking(ctx, db, b)
}

func (bookingRepoShim) LatestPendingBooking(ctx context.Context, db *gorm.DB, userID int64) (*domain.Booking, error) {
	return repo.LatestPendingBooking(ctx, db, userID)
}

func (bookingRepoShim) CancelBooking(ctx context.Context, db *gorm.DB, id string) error {
	return repo.CancelBooking(ctx, db, id)
}

// reportRepoShim adapts the repository free functions to services.ReportRepo.
type reportRepoShim struct{}

func (reportRepoShim) CreateReportRequest(ctx context.Context, db *gorm.DB, r *domain.ReportRequest) (*domain.ReportRequest, error) {
	return repo.CreateReportRequest(ctx, db, r)
}

func (reportRepoShim) CreateCVRequest(ctx context.Context, db *gorm.DB, r *domain.CVRequest) (*domain.CVRequest, error) {
	return repo.CreateCVRequest(ctx, db, r)
}

func (reportRepoShim) MarkReportRequested(ctx context.Context, db *gorm.DB, userID int64, email string) error {
	return repo.MarkReportRequested(ctx, db, userID, email)
}

// aiSessionRepoShim adapts the repository free functions to
// services.AISessionRepo.
type aiSessionRepoShim struct{}

func (aiSessionRepoShim) CreateAISession(ctx context.Context, db *gorm.DB, s *domain.AISession) (*domain.AISession, error) {
	return repo.CreateAISession(ctx, db, s)
}

func (aiSessionRepoShim) ActiveAISession(ctx context.Context, db *gorm.DB, userID int64) (*domain.AISession, error) {
	return repo.ActiveAISession(ctx, db, userID)
}

func (aiSessionRepoShim) TouchAISession(ctx context.Context, db *gorm.DB, userID int64, questionCount int) error {
	return repo.TouchAISession(ctx, db, userID, questionCount)
}

func (aiSessionRepoShim) CompleteAISession(ctx context.Context, db *gorm.DB, userID int64) error {
	return repo.CompleteAISession(ctx, db, userID)
}

// activityRepoShim adapts repo.RecordActivity to services.ActivityRepo.
type activityRepoShim struct{}

func (activityRepoShim) RecordActivity(ctx context.Context, db *gorm.DB, userID int64, username, firstName, actionType, detail string) error {
	return repo.RecordActivity(ctx, db, userID, username, firstName, actionType, detail)
}

// statsRepoShim adapts the counting queries to services.StatsRepo.
type statsRepoShim struct{}

func (statsRepoShim) CountBookings(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountBookings(ctx, db)
}

func (statsRepoShim) CountReportRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountReportRequests(ctx, db)
}

func (statsRepoShim) CountCVRequests(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountCVRequests(ctx, db)
}

func (statsRepoShim) CountAISessions(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountAISessions(ctx, db)
}

func (statsRepoShim) RecentActivity(ctx context.Context, db *gorm.DB, limit int) ([]domain.Activity, error) {
	return repo.RecentActivity(ctx, db, limit)
}

func (statsRepoShim) CollectEmails(ctx context.Context, db *gorm.DB) ([]string, error) {
	return repo.CollectEmails(ctx, db)
}

// Deps bundles the wired application services. The scheduler reuses Stats and
// Mailer for the daily digest.
type Deps struct {
	Router   *services.Router
	Stats    *services.StatsService
	Mailer   mail.Mailer
	Operator string
}

// BuildDeps constructs the full service graph from configuration.
func BuildDeps(db *gorm.DB, loc *time.Location, cfg config.Config) Deps {
	mailer := mail.New(cfg.Email)
	stats := services.NewStatsService(db, statsRepoShim{})

	var knowledge services.Knowledge
	if cfg.KBPath != "" {
		idx, err := kb.Load(cfg.KBPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.KBPath).Msg("knowledge base load failed, fallback answers disabled")
		} else {
			log.Info().Int("facts", idx.Len()).Msg("knowledge base loaded")
			knowledge = idx
		}
	}

	router := &services.Router{
		DB:         db,
		Sessions:   state.NewMemoryStore(),
		Avail:      availability.NewEngine(db, loc),
		Completer:  ai.New(cfg.Completion),
		KB:         knowledge,
		Rates:      rates.New(cfg.Rates.BaseURL, &http.Client{Timeout: cfg.Rates.Timeout}),
		Bookings:   services.NewBookingService(db, bookingRepoShim{}),
		Reports:    services.NewReportService(db, reportRepoShim{}, mailer, cfg.Email.Operator),
		Stats:      stats,
		AISessions: aiSessionRepoShim{},
		Activity:   activityRepoShim{},
		AdminID:    cfg.AdminUserID,
	}
	return Deps{Router: router, Stats: stats, Mailer: mailer, Operator: cfg.Email.Operator}
}

// update is the inbound webhook payload, the relevant subset of the chat
// platform's update object.
type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		From *sender `json:"from"`
		Text string  `json:"text"`
	} `json:"message"`
	CallbackQuery *struct {
		From *sender `json:"from"`
		Data string  `json:"data"`
	} `json:"callback_query"`
}

type sender struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// event extracts the normalized dialog event, reporting ok=false for update
// kinds the bot does not handle (edits, channel posts, attachments).
func (u *update) event() (services.Event, bool) {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil && u.CallbackQuery.Data != "":
		return services.Event{
			UserID:    u.CallbackQuery.From.ID,
			Username:  u.CallbackQuery.From.Username,
			FirstName: u.CallbackQuery.From.FirstName,
			Button:    u.CallbackQuery.Data,
		}, true
	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		return services.Event{
			UserID:    u.Message.From.ID,
			Username:  u.Message.From.Username,
			FirstName: u.Message.From.FirstName,
			Text:      u.Message.Text,
		}, true
	}
	return services.Event{}, false
}

// replyButton is the outbound keyboard entry wire shape.
type replyButton struct {
	Label string `json:"label"`
	Data  string `json:"data,omitempty"`
	URL   string `json:"url,omitempty"`
}

// replyMessage is one outbound message wire shape.
type replyMessage struct {
	Text     string          `json:"text"`
	Keyboard [][]replyButton `json:"keyboard,omitempty"`
	Edit     bool            `json:"edit,omitempty"`
}

func toWire(replies []services.Reply) []replyMessage {
	out := make([]replyMessage, 0, len(replies))
	for _, r := range replies {
		msg := replyMessage{Text: r.Text, Edit: r.Edit}
		for _, kbRow := range r.Keyboard {
			var wireRow []replyButton
			for _, b := range kbRow {
				wireRow = append(wireRow, replyButton{Label: b.Label, Data: b.Data, URL: b.URL})
			}
			msg.Keyboard = append(msg.Keyboard, wireRow)
		}
		out = append(out, msg)
	}
	return out
}

// RegisterRoutes attaches middleware and endpoints to the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg config.Config, deps Deps) {
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	r.Use(rl.Handler())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "message": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"code": "method_not_allowed", "message": "method not allowed"})
	})

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.POST("/webhook", webhookHandler(cfg, deps, rl))
}

// webhookHandler parses one update, applies the per-sender rate limit, and
// runs the dialog router. Unhandled update kinds are acknowledged empty so
// the platform does not retry them.
func webhookHandler(cfg config.Config, deps Deps, rl *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.WebhookSecret != "" && c.GetHeader(webhookSecretHeader) != cfg.WebhookSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "message": "bad webhook secret"})
			return
		}

		var u update
		if err := c.ShouldBindJSON(&u); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "message": "malformed update"})
			return
		}

		ev, ok := u.event()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"replies": []replyMessage{}})
			return
		}

		// Flooding senders are dropped with an empty ack; a 429 would only
		// make the platform redeliver.
		if !rl.AllowUser(ev.UserID) {
			middleware.LoggerFrom(c).Warn().Int64("user_id", ev.UserID).Msg("sender rate limited")
			c.JSON(http.StatusOK, gin.H{"replies": []replyMessage{}})
			return
		}

		replies := deps.Router.Handle(c.Request.Context(), ev)
		c.JSON(http.StatusOK, gin.H{"replies": toWire(replies)})
	}
}

// limitBody caps the request body size.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
