// Package services – Router
//
// The dialog router is the heart of the bot: it takes one normalized inbound
// event, consults the user's session, and produces the outbound replies while
// advancing the state machine. Dispatch is a closed switch over the step
// enum; any step the switch does not recognize falls through to the menu
// fallback rather than crashing or looping.
//
// Two inputs preempt the state machine entirely: slash commands, and the
// inline currency pattern ("100 USD EUR"), which answers immediately without
// touching whatever flow the user is in.
package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/ai"
	"github.com/elevatehq/go-booking-bot/internal/availability"
	"github.com/elevatehq/go-booking-bot/internal/domain"
	"github.com/elevatehq/go-booking-bot/internal/i18n"
	"github.com/elevatehq/go-booking-bot/internal/rates"
	"github.com/elevatehq/go-booking-bot/internal/repo"
	"github.com/elevatehq/go-booking-bot/internal/state"
	"github.com/elevatehq/go-booking-bot/internal/utils"
)

// MaxAIQuestions is the free question allowance per conversation.
const MaxAIQuestions = 5

// inlineCurrencyRe matches the shortcut conversion syntax, e.g. "100 USD EUR".
var inlineCurrencyRe = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Za-z]{3})\s+([A-Za-z]{3})$`)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bot_events_total",
	Help: "Inbound dialog events by kind.",
}, []string{"kind"})

var aiAnswersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bot_ai_answers_total",
	Help: "Free-tier AI answers by outcome.",
}, []string{"outcome"})

// RateConverter is the currency lookup contract the router depends on.
type RateConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (*rates.Result, error)
}

// AISessionRepo is the persistence contract for free-tier session tracking.
// All of it is reporting support; failures never gate the dialog.
type AISessionRepo interface {
	CreateAISession(ctx context.Context, db *gorm.DB, s *domain.AISession) (*domain.AISession, error)
	ActiveAISession(ctx context.Context, db *gorm.DB, userID int64) (*domain.AISession, error)
	TouchAISession(ctx context.Context, db *gorm.DB, userID int64, questionCount int) error
	CompleteAISession(ctx context.Context, db *gorm.DB, userID int64) error
}

// ActivityRepo appends interaction log entries.
type ActivityRepo interface {
	RecordActivity(ctx context.Context, db *gorm.DB, userID int64, username, firstName, actionType, detail string) error
}

// Knowledge is the local fact lookup consulted when the completion API is
// unavailable.
type Knowledge interface {
	Best(query string) (string, bool)
}

// Router drives the per-user dialog state machine.
type Router struct {
	DB        *gorm.DB
	Sessions  state.Store
	Avail     *availability.Engine
	Completer ai.Completer
	Rates     RateConverter

	// KB is optional; when set it answers questions the completion API
	// could not.
	KB Knowledge

	Bookings *BookingService
	Reports  *ReportService
	Stats    *StatsService

	AISessions AISessionRepo
	Activity   ActivityRepo

	// AdminID unlocks the operator commands. Zero disables them.
	AdminID int64
}

// Handle processes one inbound event and returns the replies to send.
func (r *Router) Handle(ctx context.Context, ev Event) []Reply {
	tr := otel.Tracer("services/Router")
	ctx, span := tr.Start(ctx, "Handle",
		trace.WithAttributes(attribute.Int64("user.id", ev.UserID)))
	defer span.End()

	if ev.IsButton() {
		eventsTotal.WithLabelValues("button").Inc()
		r.record(ctx, ev, "button", ev.Button)
		replies := r.handleButton(ctx, ev)
		// The first reply to a button press replaces the pressed message.
		if len(replies) > 0 {
			replies[0].Edit = true
		}
		return replies
	}
	eventsTotal.WithLabelValues("text").Inc()
	r.record(ctx, ev, "message", ev.Text)
	return r.handleText(ctx, ev)
}

// record appends to the activity log, best effort.
func (r *Router) record(ctx context.Context, ev Event, actionType, detail string) {
	if err := r.Activity.RecordActivity(ctx, r.DB, ev.UserID, ev.Username, ev.FirstName, actionType, detail); err != nil {
		log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("activity log write failed")
	}
}

func (r *Router) lang(userID int64) string {
	return r.Sessions.Language(userID)
}

// session fetches the live session, mapping a lapsed or absent one to
// ErrSessionExpired.
func (r *Router) session(userID int64) (state.Session, error) {
	sess, ok := r.Sessions.Get(userID)
	if !ok {
		return state.Session{}, ErrSessionExpired
	}
	return sess, nil
}

// closeAISession marks the free-tier session completed, best effort.
func (r *Router) closeAISession(ctx context.Context, userID int64) {
	if err := r.AISessions.CompleteAISession(ctx, r.DB, userID); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("ai session close failed")
	}
}

// questionBudget returns the answered count, or ErrQuestionLimit once the
// free allowance is spent.
func (r *Router) questionBudget(userID int64) (int, error) {
	asked := r.Sessions.QuestionCount(userID)
	if asked >= MaxAIQuestions {
		return asked, ErrQuestionLimit
	}
	return asked, nil
}

// ---- text dispatch ----

func (r *Router) handleText(ctx context.Context, ev Event) []Reply {
	text := strings.TrimSpace(ev.Text)
	lang := r.lang(ev.UserID)

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, ev, text)
	}

	// Inline conversion answers from any state and disturbs none.
	if m := inlineCurrencyRe.FindStringSubmatch(text); m != nil {
		amount, _ := strconv.ParseFloat(m[1], 64)
		return []Reply{r.convert(ctx, lang, amount, strings.ToUpper(m[2]), strings.ToUpper(m[3]))}
	}

	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}

	switch sess.Step {
	case state.StepAIConversation:
		return r.answerQuestion(ctx, ev, sess, text)

	case state.StepCollectInfoReport, state.StepCollectInfoConsultation:
		data := sess.Data
		data.Name = text
		r.Sessions.Set(ev.UserID, state.StepCollectEmail, data)
		return []Reply{{Text: i18n.T(lang, "ask_email")}}

	case state.StepCollectEmail:
		return r.collectEmail(ctx, ev, sess, text)

	case state.StepCollectEmailFreeReport:
		return r.sendFreeSummary(ctx, ev, text)

	case state.StepCurrencyWaitingAmount:
		amount, err := strconv.ParseFloat(text, 64)
		if err != nil || amount <= 0 {
			return []Reply{{Text: i18n.T(lang, "currency_bad_amt")}}
		}
		data := sess.Data
		data.Amount = amount
		r.Sessions.Set(ev.UserID, state.StepCurrencySelectFrom, data)
		return []Reply{{Text: i18n.T(lang, "currency_from"), Keyboard: currencyKeyboard(cbCurrFromPre, lang)}}

	case state.StepCVDataCollection:
		return r.collectCVDetails(ctx, ev, sess, text)

	case state.StepLanguageSelected, state.StepServiceSelected, state.StepCountrySelected,
		state.StepSelectingDate, state.StepSelectingTime, state.StepPaymentPending,
		state.StepCurrencySelectFrom, state.StepCurrencySelectTo, state.StepNone:
		// These steps only advance via buttons; free text gets the menu.
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}

	default:
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
}

func (r *Router) handleCommand(ctx context.Context, ev Event, text string) []Reply {
	lang := r.lang(ev.UserID)
	cmd := strings.SplitN(text, " ", 2)[0]

	switch cmd {
	case "/start":
		r.Sessions.Clear(ev.UserID)
		name := ev.FirstName
		if name == "" {
			name = ev.Username
		}
		return []Reply{{Text: i18n.T(lang, "welcome", name), Keyboard: languageKeyboard()}}

	case "/services":
		return r.showServices(ev.UserID)

	case "/language":
		return []Reply{{Text: i18n.T(lang, "btn_change_lang"), Keyboard: languageKeyboard()}}

	case "/study":
		return r.selectService(ev, "study")
	case "/work":
		return r.selectService(ev, "work")
	case "/travel":
		return []Reply{{Text: i18n.T(lang, "travel_menu"), Keyboard: travelKeyboard(lang)}}

	case "/currency":
		r.Sessions.Set(ev.UserID, state.StepCurrencyWaitingAmount, state.Payload{})
		return []Reply{{Text: i18n.T(lang, "currency_amount")}}

	case "/stats":
		return []Reply{r.statsReply(ctx, lang)}

	case "/contact":
		return []Reply{{Text: i18n.T(lang, "contact_info")}}

	case "/help":
		return []Reply{{Text: i18n.T(lang, "help")}}

	case "/admin_stats":
		if !r.isAdmin(ev.UserID) {
			return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
		}
		body, err := r.Stats.DigestBody(ctx, time.Now().UTC())
		if err != nil {
			log.Error().Err(err).Msg("admin digest failed")
			return []Reply{{Text: i18n.T(lang, "unknown")}}
		}
		return []Reply{{Text: body}}

	case "/recent":
		if !r.isAdmin(ev.UserID) {
			return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
		}
		limit := 20
		if parts := strings.Fields(text); len(parts) > 1 {
			limit = utils.AtoiDefault(parts[1], limit)
		}
		entries, err := r.Stats.Recent(ctx, limit)
		if err != nil {
			log.Error().Err(err).Msg("recent activity lookup failed")
			return []Reply{{Text: i18n.T(lang, "unknown")}}
		}
		if len(entries) == 0 {
			return []Reply{{Text: "No activity recorded yet."}}
		}
		var b strings.Builder
		for _, a := range entries {
			b.WriteString(a.CreatedAt.Format("01-02 15:04"))
			b.WriteString("  user=")
			b.WriteString(strconv.FormatInt(a.UserID, 10))
			b.WriteString("  ")
			b.WriteString(a.ActionType)
			b.WriteString("  ")
			b.WriteString(a.Detail)
			b.WriteString("\n")
		}
		return []Reply{{Text: b.String()}}

	case "/export_emails":
		if !r.isAdmin(ev.UserID) {
			return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
		}
		emails, err := r.Stats.ExportEmails(ctx)
		if err != nil {
			log.Error().Err(err).Msg("email export failed")
			return []Reply{{Text: i18n.T(lang, "unknown")}}
		}
		if len(emails) == 0 {
			return []Reply{{Text: "No emails captured yet."}}
		}
		return []Reply{{Text: strings.Join(emails, "\n")}}

	default:
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
}

func (r *Router) isAdmin(userID int64) bool {
	return r.AdminID != 0 && userID == r.AdminID
}

// ---- button dispatch ----

func (r *Router) handleButton(ctx context.Context, ev Event) []Reply {
	lang := r.lang(ev.UserID)
	data := ev.Button

	switch {
	case data == cbLangEN || data == cbLangAR:
		lang = i18n.LangEN
		if data == cbLangAR {
			lang = i18n.LangAR
		}
		r.Sessions.SetLanguage(ev.UserID, lang)
		return r.showServices(ev.UserID)

	case data == cbBackMain || data == cbBackServices:
		return r.showServices(ev.UserID)

	case data == cbChangeLang:
		return []Reply{{Text: i18n.T(lang, "btn_change_lang"), Keyboard: languageKeyboard()}}

	case data == cbStats:
		return []Reply{r.statsReply(ctx, lang)}

	case data == cbHelp:
		return []Reply{{Text: i18n.T(lang, "help")}}

	case data == cbContact:
		return []Reply{{Text: i18n.T(lang, "contact_info")}}

	case data == cbCurrency:
		r.Sessions.Set(ev.UserID, state.StepCurrencyWaitingAmount, state.Payload{})
		return []Reply{{Text: i18n.T(lang, "currency_amount")}}

	case strings.HasPrefix(data, cbCurrFromPre):
		return r.pickCurrencyFrom(ev, strings.TrimPrefix(data, cbCurrFromPre))

	case strings.HasPrefix(data, cbCurrToPre):
		return r.pickCurrencyTo(ctx, ev, strings.TrimPrefix(data, cbCurrToPre))

	case strings.HasPrefix(data, cbSvcPrefix):
		return r.handleServiceButton(ev, strings.TrimPrefix(data, cbSvcPrefix))

	case strings.HasPrefix(data, cbCountryPre):
		return r.selectCountry(ev, strings.TrimPrefix(data, cbCountryPre))

	case data == cbAIStart:
		return r.startAIConversation(ctx, ev)

	case data == cbOrderReport:
		return r.startOrder(ev, "report")

	case data == cbOrderConsult:
		return r.startConsultation(ev)

	case data == cbFreeReport:
		sess, ok := r.Sessions.Get(ev.UserID)
		if !ok {
			return r.expired(ev.UserID)
		}
		r.Sessions.Set(ev.UserID, state.StepCollectEmailFreeReport, sess.Data)
		return []Reply{{Text: i18n.T(lang, "free_report_email")}}

	case strings.HasPrefix(data, cbDatePrefix):
		return r.selectDate(ctx, ev, strings.TrimPrefix(data, cbDatePrefix))

	case strings.HasPrefix(data, cbTimePrefix):
		return r.selectTime(ctx, ev, strings.TrimPrefix(data, cbTimePrefix))

	case data == cbPayStripe || data == cbPayPaypal:
		method := "stripe"
		if data == cbPayPaypal {
			method = "paypal"
		}
		return r.pickPaymentMethod(ev, method)

	case data == cbPayConfirmed:
		return r.confirmPayment(ctx, ev)

	case strings.HasPrefix(data, cbCVPrefix):
		return r.pickCVType(ev, strings.TrimPrefix(data, cbCVPrefix))

	case data == cbNoop:
		return nil

	default:
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
}

// ---- flow pieces ----

func (r *Router) showServices(userID int64) []Reply {
	lang := r.lang(userID)
	r.Sessions.Set(userID, state.StepLanguageSelected, state.Payload{})
	return []Reply{{Text: i18n.T(lang, "services_title"), Keyboard: servicesKeyboard(lang)}}
}

func (r *Router) handleServiceButton(ev Event, svc string) []Reply {
	lang := r.lang(ev.UserID)
	switch svc {
	case "study", "work":
		return r.selectService(ev, svc)
	case "cv":
		r.Sessions.Set(ev.UserID, state.StepServiceSelected, state.Payload{ServiceType: "cv"})
		return []Reply{{Text: i18n.T(lang, "cv_intro"), Keyboard: cvKeyboard(lang)}}
	case "activities":
		return []Reply{{Text: i18n.T(lang, "activities_menu"), Keyboard: activitiesKeyboard(lang)}}
	case "travel":
		return []Reply{{Text: i18n.T(lang, "travel_menu"), Keyboard: travelKeyboard(lang)}}
	default:
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
}

func (r *Router) selectService(ev Event, svc string) []Reply {
	lang := r.lang(ev.UserID)
	r.Sessions.Set(ev.UserID, state.StepServiceSelected, state.Payload{ServiceType: svc})
	return []Reply{{Text: i18n.T(lang, "choose_country"), Keyboard: countryKeyboard(lang)}}
}

func (r *Router) selectCountry(ev Event, code string) []Reply {
	lang := r.lang(ev.UserID)
	if !i18n.IsCountry(code) {
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return r.expired(ev.UserID)
	}
	data := sess.Data
	data.Country = code
	r.Sessions.Set(ev.UserID, state.StepCountrySelected, data)
	return []Reply{{
		Text:     i18n.T(lang, "country_options", i18n.CountryName(code, lang), i18n.ServiceName(data.ServiceType, lang)),
		Keyboard: countryOptionsKeyboard(lang),
	}}
}

func (r *Router) startAIConversation(ctx context.Context, ev Event) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return r.expired(ev.UserID)
	}
	data := sess.Data
	r.Sessions.Set(ev.UserID, state.StepAIConversation, data)

	if _, err := r.AISessions.ActiveAISession(ctx, r.DB, ev.UserID); errors.Is(err, repo.ErrNotFound) {
		if _, err := r.AISessions.CreateAISession(ctx, r.DB, &domain.AISession{
			UserID:      ev.UserID,
			Username:    ev.Username,
			FirstName:   ev.FirstName,
			Language:    lang,
			Country:     data.Country,
			ServiceType: data.ServiceType,
		}); err != nil {
			log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("ai session create failed")
		}
	}

	return []Reply{{Text: i18n.T(lang, "ai_intro", MaxAIQuestions, i18n.CountryName(data.Country, lang))}}
}

func (r *Router) answerQuestion(ctx context.Context, ev Event, sess state.Session, question string) []Reply {
	lang := r.lang(ev.UserID)

	asked, err := r.questionBudget(ev.UserID)
	if errors.Is(err, ErrQuestionLimit) {
		r.closeAISession(ctx, ev.UserID)
		return []Reply{{Text: i18n.T(lang, "ai_limit", MaxAIQuestions), Keyboard: upsellKeyboard(lang)}}
	}

	r.Sessions.AddTurn(ev.UserID, domain.RoleUser, question)

	msgs := make([]ai.Message, 0, state.MaxTurns)
	for _, t := range r.Sessions.Conversation(ev.UserID) {
		msgs = append(msgs, ai.Message{Role: t.Role, Content: t.Content})
	}

	outcome := "ok"
	answer, err := r.Completer.Complete(ctx, msgs)
	if err != nil && r.KB != nil {
		// The local knowledge base covers the outage when it has a
		// relevant fact; otherwise the question stays buffered for a retry.
		if fact, ok := r.KB.Best(question); ok {
			answer, err, outcome = fact, nil, "kb"
		}
	}
	if err != nil {
		aiAnswersTotal.WithLabelValues("error").Inc()
		return []Reply{{Text: i18n.T(lang, "ai_unavailable")}}
	}
	aiAnswersTotal.WithLabelValues(outcome).Inc()
	r.Sessions.AddTurn(ev.UserID, domain.RoleAssistant, answer)

	if err := r.AISessions.TouchAISession(ctx, r.DB, ev.UserID, asked+1); err != nil {
		log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("ai session touch failed")
	}

	replies := []Reply{{Text: answer}}
	if asked+1 >= MaxAIQuestions {
		// The allowance is spent; the free-tier session ends here.
		r.closeAISession(ctx, ev.UserID)
		replies = append(replies, Reply{Text: i18n.T(lang, "ai_limit", MaxAIQuestions), Keyboard: upsellKeyboard(lang)})
	}
	return replies
}

func (r *Router) startOrder(ev Event, orderType string) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return r.expired(ev.UserID)
	}
	data := sess.Data
	data.OrderType = orderType
	r.Sessions.Set(ev.UserID, state.StepCollectInfoReport, data)
	return []Reply{{Text: i18n.T(lang, "ask_name")}}
}

func (r *Router) startConsultation(ev Event) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return r.expired(ev.UserID)
	}
	data := sess.Data
	data.OrderType = "consultation"
	r.Sessions.Set(ev.UserID, state.StepSelectingDate, data)
	return []Reply{{Text: i18n.T(lang, "choose_date"), Keyboard: dateKeyboard(r.Avail.Dates(), lang)}}
}

func (r *Router) selectDate(ctx context.Context, ev Event, date string) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return r.expired(ev.UserID)
	}
	if !r.Avail.IsDateOffered(date) {
		return []Reply{{Text: i18n.T(lang, "date_unavailable"), Keyboard: dateKeyboard(r.Avail.Dates(), lang)}}
	}
	data := sess.Data
	data.SelectedDate = date
	r.Sessions.Set(ev.UserID, state.StepSelectingTime, data)

	slots, err := r.Avail.DaySlots(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("slot lookup failed")
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
	return []Reply{{Text: i18n.T(lang, "choose_time", availability.DateLabel(date)), Keyboard: timeKeyboard(slots, lang)}}
}

func (r *Router) selectTime(ctx context.Context, ev Event, timeOfDay string) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok {
		return r.expired(ev.UserID)
	}
	data := sess.Data

	free, err := r.Avail.IsAvailable(ctx, data.SelectedDate, timeOfDay)
	if err != nil {
		log.Error().Err(err).Msg("availability check failed")
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
	if !free {
		slots, slotErr := r.Avail.DaySlots(ctx, data.SelectedDate)
		if slotErr != nil {
			return []Reply{{Text: i18n.T(lang, "slot_taken")}}
		}
		return []Reply{{Text: i18n.T(lang, "slot_taken"), Keyboard: timeKeyboard(slots, lang)}}
	}

	data.SelectedTime = timeOfDay
	r.Sessions.Set(ev.UserID, state.StepCollectInfoConsultation, data)
	return []Reply{{Text: i18n.T(lang, "ask_name")}}
}

func (r *Router) collectEmail(ctx context.Context, ev Event, sess state.Session, text string) []Reply {
	lang := r.lang(ev.UserID)
	email := strings.TrimSpace(text)
	if err := validateEmail(email); err != nil {
		return []Reply{{Text: i18n.T(lang, "invalid_email")}}
	}

	data := sess.Data
	data.Email = email
	// Snapshot the transcript now: the buffer may roll or be cleared before
	// payment lands.
	data.Conversation = r.Sessions.Conversation(ev.UserID)
	r.Sessions.Set(ev.UserID, state.StepPaymentPending, data)

	return []Reply{{Text: i18n.T(lang, "choose_payment"), Keyboard: paymentMethodKeyboard(lang)}}
}

func (r *Router) pickPaymentMethod(ev Event, method string) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok || sess.Step != state.StepPaymentPending {
		return r.expired(ev.UserID)
	}
	data := sess.Data
	data.PaymentMethod = method
	r.Sessions.Set(ev.UserID, state.StepPaymentPending, data)

	var text string
	if data.OrderType == "consultation" {
		text = i18n.T(lang, "payment_consult", availability.DateLabel(data.SelectedDate), data.SelectedTime)
	} else {
		text = i18n.T(lang, "payment_report")
	}
	return []Reply{{Text: text, Keyboard: paymentLinkKeyboard(data.OrderType, method, lang)}}
}

// confirmPayment handles the trust-based "I Paid" press. Consultations commit
// through the atomic slot claim; a repeated press resolves to the existing
// booking instead of duplicating it. Session state is cleared only after the
// order is durably recorded.
func (r *Router) confirmPayment(ctx context.Context, ev Event) []Reply {
	lang := r.lang(ev.UserID)
	sess, err := r.session(ev.UserID)
	if errors.Is(err, ErrSessionExpired) || sess.Step != state.StepPaymentPending {
		return r.expired(ev.UserID)
	}
	data := sess.Data

	switch data.OrderType {
	case "consultation":
		b, err := r.Bookings.Commit(ctx, ev.UserID, data)
		if errors.Is(err, ErrNothingToConfirm) {
			// A replayed press with a hollow payload has no order behind it.
			return r.expired(ev.UserID)
		}
		if errors.Is(err, ErrSlotTaken) {
			// Someone else won the slot between selection and payment.
			r.Sessions.Set(ev.UserID, state.StepSelectingDate, data)
			return []Reply{{Text: i18n.T(lang, "slot_taken"), Keyboard: dateKeyboard(r.Avail.Dates(), lang)}}
		}
		if err != nil {
			log.Error().Err(err).Int64("user_id", ev.UserID).Msg("booking commit failed")
			return []Reply{{Text: i18n.T(lang, "paid_retry")}}
		}
		r.closeAISession(ctx, ev.UserID)
		r.Sessions.Clear(ev.UserID)
		return []Reply{{Text: i18n.T(lang, "paid_consult_ok",
			availability.DateLabel(b.BookingDate), b.BookingTime, shortID(b.ID), b.Email)}}

	case "report":
		res, err := r.Reports.OrderReport(ctx, ev.UserID, data)
		if errors.Is(err, ErrInvalidEmail) {
			r.Sessions.Set(ev.UserID, state.StepCollectEmail, data)
			return []Reply{{Text: i18n.T(lang, "invalid_email")}}
		}
		if err != nil {
			log.Error().Err(err).Int64("user_id", ev.UserID).Msg("report order failed")
			return []Reply{{Text: i18n.T(lang, "paid_retry")}}
		}
		r.closeAISession(ctx, ev.UserID)
		r.Sessions.Clear(ev.UserID)
		return []Reply{{Text: i18n.T(lang, "paid_report_ok", shortID(res.Request.ID), res.Request.Email)}}

	default:
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
}

func (r *Router) sendFreeSummary(ctx context.Context, ev Event, text string) []Reply {
	lang := r.lang(ev.UserID)
	email := strings.TrimSpace(text)

	turns := r.Sessions.Conversation(ev.UserID)
	if err := r.Reports.SendFreeSummary(ctx, ev.UserID, email, turns); err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			return []Reply{{Text: i18n.T(lang, "invalid_email")}}
		}
		log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("free summary send failed")
		// State stays put so the user can retry with the same or another
		// address.
		return []Reply{{Text: i18n.T(lang, "free_report_fail")}}
	}
	r.closeAISession(ctx, ev.UserID)
	r.Sessions.Clear(ev.UserID)
	return []Reply{{Text: i18n.T(lang, "free_report_sent", email)}}
}

func (r *Router) pickCVType(ev Event, cvType string) []Reply {
	lang := r.lang(ev.UserID)
	switch cvType {
	case "cv", "cover", "bundle":
	default:
		return []Reply{{Text: i18n.T(lang, "unknown"), Keyboard: servicesKeyboard(lang)}}
	}
	r.Sessions.Set(ev.UserID, state.StepCVDataCollection, state.Payload{ServiceType: "cv", CVType: cvType})
	return []Reply{{Text: i18n.T(lang, "cv_collect")}}
}

func (r *Router) collectCVDetails(ctx context.Context, ev Event, sess state.Session, details string) []Reply {
	lang := r.lang(ev.UserID)

	email := emailRe.FindString(details)
	if email == "" {
		// The intake message must carry a reachable address.
		return []Reply{{Text: i18n.T(lang, "invalid_email")}}
	}

	data := sess.Data
	data.Email = email
	data.Name = ev.FirstName
	if line := strings.TrimSpace(strings.SplitN(details, "\n", 2)[0]); line != "" && !strings.Contains(line, "@") {
		data.Name = line
	}
	data.PaymentMethod = "stripe"

	req, err := r.Reports.OrderCV(ctx, ev.UserID, data.CVType, details, data)
	if err != nil {
		log.Error().Err(err).Int64("user_id", ev.UserID).Msg("cv order failed")
		return []Reply{{Text: i18n.T(lang, "paid_retry")}}
	}
	r.Sessions.Clear(ev.UserID)

	label := strings.ToUpper(data.CVType)
	return []Reply{{
		Text: i18n.T(lang, "cv_received", label, i18n.CVPrices[data.CVType], shortID(req.ID)),
		Keyboard: [][]Button{
			row(urlBtn(i18n.T(lang, "btn_pay_stripe"), i18n.PaymentLinks[data.CVType]["stripe"])),
			row(urlBtn(i18n.T(lang, "btn_pay_paypal"), i18n.PaymentLinks[data.CVType]["paypal"])),
		},
	}}
}

// ---- currency flow ----

func (r *Router) pickCurrencyFrom(ev Event, code string) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok || sess.Step != state.StepCurrencySelectFrom {
		return r.expired(ev.UserID)
	}
	if err := checkCurrency(code); err != nil {
		return []Reply{{Text: i18n.T(lang, "currency_unknown", code, len(i18n.SupportedCurrencies))}}
	}
	data := sess.Data
	data.FromCurrency = code
	r.Sessions.Set(ev.UserID, state.StepCurrencySelectTo, data)
	return []Reply{{Text: i18n.T(lang, "currency_to"), Keyboard: currencyKeyboard(cbCurrToPre, lang)}}
}

func (r *Router) pickCurrencyTo(ctx context.Context, ev Event, code string) []Reply {
	lang := r.lang(ev.UserID)
	sess, ok := r.Sessions.Get(ev.UserID)
	if !ok || sess.Step != state.StepCurrencySelectTo {
		return r.expired(ev.UserID)
	}
	data := sess.Data

	reply := r.convert(ctx, lang, data.Amount, data.FromCurrency, code)
	r.Sessions.Set(ev.UserID, state.StepLanguageSelected, state.Payload{})
	return []Reply{reply}
}

// convert runs one conversion and renders the outcome. All failures are soft.
func (r *Router) convert(ctx context.Context, lang string, amount float64, from, to string) Reply {
	for _, code := range []string{from, to} {
		if err := checkCurrency(code); err != nil {
			return Reply{Text: i18n.T(lang, "currency_unknown", code, len(i18n.SupportedCurrencies))}
		}
	}
	res, err := r.Rates.Convert(ctx, amount, from, to)
	if err != nil {
		return Reply{Text: i18n.T(lang, "currency_fail")}
	}
	return Reply{Text: i18n.T(lang, "currency_result",
		res.Amount, res.From, res.Converted, res.To, res.From, res.Rate, res.To)}
}

// ---- shared ----

func (r *Router) expired(userID int64) []Reply {
	lang := r.lang(userID)
	r.Sessions.Clear(userID)
	return []Reply{
		{Text: i18n.T(lang, "session_expired"), Keyboard: servicesKeyboard(lang)},
	}
}

func (r *Router) statsReply(ctx context.Context, lang string) Reply {
	totals, err := r.Stats.Totals(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stats lookup failed")
		return Reply{Text: i18n.T(lang, "unknown")}
	}
	return Reply{Text: i18n.T(lang, "stats", totals.AISessions, totals.Bookings, totals.Reports, totals.CVOrders)}
}

// shortID compresses a UUID to the order-number form shown to users.
func shortID(id string) string {
	if len(id) >= 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
