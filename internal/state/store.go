// Package state implements the per-user ephemeral session store that drives
// the dialog state machine: the current step with its typed payload, the
// rolling conversation transcript, and the sticky language choice.
//
// The store is deliberately an interface so the in-process map used in
// production and tests could later be swapped for a shared store in a
// multi-process deployment without touching the router.
//
// Lifecycle rules:
//   - A session older than TTL (1 hour of inactivity) is treated as absent on
//     read, and the read purges it. Eviction is lazy; there is no sweeper.
//   - Setting a step fully replaces the payload.
//   - The conversation buffer lives beside the step with its own lifecycle:
//     it survives step changes and is only dropped by Clear. It holds at most
//     MaxTurns turns; older turns are evicted oldest-first.
//   - Language is sticky across sessions and never expires.
package state

import (
	"sync"
	"time"
)

// TTL is the inactivity window after which a session is considered expired.
const TTL = time.Hour

// MaxTurns caps the rolling conversation buffer.
const MaxTurns = 10

// DefaultLanguage is used when a user never picked one.
const DefaultLanguage = "en"

// Step identifies one dialog state from the closed set the router matches on.
type Step int

// The closed step set. StepNone is the zero value and never stored: a user
// with no live session simply has no entry.
const (
	StepNone Step = iota
	StepLanguageSelected
	StepServiceSelected
	StepCountrySelected
	StepAIConversation
	StepCollectInfoReport
	StepSelectingDate
	StepSelectingTime
	StepCollectInfoConsultation
	StepCollectEmail
	StepCollectEmailFreeReport
	StepPaymentPending
	StepCurrencyWaitingAmount
	StepCurrencySelectFrom
	StepCurrencySelectTo
	StepCVDataCollection
)

var stepNames = map[Step]string{
	StepNone:                    "none",
	StepLanguageSelected:        "language_selected",
	StepServiceSelected:         "service_selected",
	StepCountrySelected:         "country_selected",
	StepAIConversation:          "ai_conversation",
	StepCollectInfoReport:       "collect_info_report",
	StepSelectingDate:           "selecting_date",
	StepSelectingTime:           "selecting_time",
	StepCollectInfoConsultation: "collect_info_consultation",
	StepCollectEmail:            "collect_email",
	StepCollectEmailFreeReport:  "collect_email_free_report",
	StepPaymentPending:          "payment_pending",
	StepCurrencyWaitingAmount:   "currency_waiting_amount",
	StepCurrencySelectFrom:      "currency_select_from",
	StepCurrencySelectTo:        "currency_select_to",
	StepCVDataCollection:        "cv_data_collection",
}

// String returns the wire-stable step name, mostly for logs.
func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// Turn is one transcript entry, authored by "user" or "assistant".
type Turn struct {
	Role    string
	Content string
}

// Payload carries the state-specific fields a step needs. Each step reads
// only the fields its flow populated; everything else stays zero.
type Payload struct {
	ServiceType string
	Country     string
	OrderType   string // "report" or "consultation"
	Name        string
	Email       string

	// Consultation slot selection.
	SelectedDate string // "2006-01-02"
	SelectedTime string // "15:04"

	PaymentMethod string // "stripe" or "paypal"

	// Currency converter flow.
	Amount       float64
	FromCurrency string

	// CV flow.
	CVType string // "cv", "cover", "bundle"

	// Snapshot of the conversation buffer, taken by value at capture time
	// and independent of later buffer mutation.
	Conversation []Turn
}

// Session is one user's live dialog state.
type Session struct {
	Step        Step
	Data        Payload
	CreatedAt   time.Time
	LastTouched time.Time
}

// Store is the session-store contract the router depends on.
type Store interface {
	// Get returns the live session for userID. An expired session is purged
	// and reported as absent.
	Get(userID int64) (Session, bool)

	// Set replaces the session for userID with the given step and payload.
	Set(userID int64, step Step, data Payload)

	// Clear drops the session and the conversation buffer for userID.
	Clear(userID int64)

	// AddTurn appends a transcript turn, evicting the oldest beyond MaxTurns.
	AddTurn(userID int64, role, content string)

	// Conversation returns a copy of the current transcript buffer.
	Conversation(userID int64) []Turn

	// QuestionCount derives the number of user-authored turns in the buffer.
	QuestionCount(userID int64) int

	// SetLanguage pins the user's language across sessions.
	SetLanguage(userID int64, lang string)

	// Language returns the pinned language, or DefaultLanguage.
	Language(userID int64) string
}

// MemoryStore is the in-process Store implementation: a mutex-guarded map
// keyed by user id. Concurrent events for different users never contend
// beyond the map lock; same-user races are accepted (see the router).
type MemoryStore struct {
	mu            sync.Mutex
	sessions      map[int64]Session
	conversations map[int64][]Turn
	languages     map[int64]string

	ttl time.Duration
	now func() time.Time
}

// NewMemoryStore returns an empty store with the default TTL.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:      make(map[int64]Session),
		conversations: make(map[int64][]Turn),
		languages:     make(map[int64]string),
		ttl:           TTL,
		now:           time.Now,
	}
}

// WithClock overrides the store's clock. Test hook.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(userID int64) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Session{}, false
	}
	if m.now().Sub(s.LastTouched) > m.ttl {
		delete(m.sessions, userID)
		return Session{}, false
	}
	return s, true
}

// Set implements Store.
func (m *MemoryStore) Set(userID int64, step Step, data Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	created := now
	if prev, ok := m.sessions[userID]; ok {
		created = prev.CreatedAt
	}
	m.sessions[userID] = Session{
		Step:        step,
		Data:        data,
		CreatedAt:   created,
		LastTouched: now,
	}
}

// Clear implements Store.
func (m *MemoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	delete(m.conversations, userID)
}

// AddTurn implements Store.
func (m *MemoryStore) AddTurn(userID int64, role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := append(m.conversations[userID], Turn{Role: role, Content: content})
	if len(buf) > MaxTurns {
		buf = buf[len(buf)-MaxTurns:]
	}
	m.conversations[userID] = buf
}

// Conversation implements Store. The returned slice is a copy; callers may
// stash it in a payload without fearing later buffer mutation.
func (m *MemoryStore) Conversation(userID int64) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := m.conversations[userID]
	out := make([]Turn, len(buf))
	copy(out, buf)
	return out
}

// QuestionCount implements Store.
func (m *MemoryStore) QuestionCount(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.conversations[userID] {
		if t.Role == "user" {
			n++
		}
	}
	return n
}

// SetLanguage implements Store.
func (m *MemoryStore) SetLanguage(userID int64, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.languages[userID] = lang
}

// Language implements Store.
func (m *MemoryStore) Language(userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.languages[userID]; ok && l != "" {
		return l
	}
	return DefaultLanguage
}
