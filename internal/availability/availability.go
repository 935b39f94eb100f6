// Package availability computes the bookable consultation calendar: which
// dates are offered, which times exist, and which of those slots are still
// free given committed bookings.
//
// Offered dates are the weekdays within the next DaysAhead calendar days,
// evaluated in the business timezone. Times are a fixed daily grid. Freshness
// is point-in-time: a slot reported free here can still lose the commit race,
// which the booking repository resolves via its unique slot claim.
package availability

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/elevatehq/go-booking-bot/internal/repo"
)

// DaysAhead is how many calendar days forward the booking window extends.
const DaysAhead = 14

// DateFormat is the canonical wire format for booking dates.
const DateFormat = "2006-01-02"

// SlotTimes is the fixed daily grid of bookable consultation times.
var SlotTimes = []string{"10:00", "11:00", "14:00", "15:00", "16:00"}

// Slot is one time on one date with its current availability.
type Slot struct {
	Time      string
	Available bool
}

// Engine answers calendar questions against the booking store.
type Engine struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewEngine builds an Engine evaluating dates in loc.
func NewEngine(db *gorm.DB, loc *time.Location) *Engine {
	return &Engine{db: db, loc: loc, now: time.Now}
}

// WithClock overrides the engine's clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Dates returns the offered booking dates: weekdays starting tomorrow, within
// the DaysAhead window, in chronological order.
func (e *Engine) Dates() []string {
	today := e.now().In(e.loc)
	out := make([]string, 0, DaysAhead)
	for i := 1; i <= DaysAhead; i++ {
		d := today.AddDate(0, 0, i)
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			out = append(out, d.Format(DateFormat))
		}
	}
	return out
}

// IsDateOffered reports whether date is in the current offered window.
// A stale date picked from an old keyboard fails this check.
func (e *Engine) IsDateOffered(date string) bool {
	for _, d := range e.Dates() {
		if d == date {
			return true
		}
	}
	return false
}

// IsSlotTime reports whether timeOfDay is on the daily grid.
func IsSlotTime(timeOfDay string) bool {
	for _, t := range SlotTimes {
		if t == timeOfDay {
			return true
		}
	}
	return false
}

// DateLabel renders a date value as its keyboard label, e.g. "Mon 02.03".
func DateLabel(date string) string {
	d, err := time.Parse(DateFormat, date)
	if err != nil {
		return date
	}
	return d.Format("Mon 02.01")
}

// DaySlots returns the full time grid for date annotated with current
// availability, in grid order.
func (e *Engine) DaySlots(ctx context.Context, date string) ([]Slot, error) {
	out := make([]Slot, 0, len(SlotTimes))
	for _, t := range SlotTimes {
		free, err := repo.SlotAvailable(ctx, e.db, date, t)
		if err != nil {
			return nil, err
		}
		out = append(out, Slot{Time: t, Available: free})
	}
	return out, nil
}

// IsAvailable reports whether (date, timeOfDay) is both offered and currently
// unclaimed.
func (e *Engine) IsAvailable(ctx context.Context, date, timeOfDay string) (bool, error) {
	if !e.IsDateOffered(date) || !IsSlotTime(timeOfDay) {
		return false, nil
	}
	return repo.SlotAvailable(ctx, e.db, date, timeOfDay)
}
