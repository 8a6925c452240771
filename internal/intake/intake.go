package intake

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	DayKeyLayout = "2006-01-02"
	MaxAmountMl  = 5000
)

var QuickAmounts = []int{250, 500, 750, 1000}

var (
	ErrInvalidAmount = errors.New("amount must be between 1 and 5000 ml")
	ErrInvalidDayKey = errors.New("date must be formatted as YYYY-MM-DD")
)

// Event is a single logged drink. Events are append-only; DayKey is always the
// calendar date of OccurredAt in the owner's timezone.
type Event struct {
	ID         string    `json:"id" db:"id" firestore:"id"`
	UserID     string    `json:"userId" db:"user_id" firestore:"userId"`
	AmountMl   int       `json:"amountMl" db:"amount_ml" firestore:"amount"`
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at" firestore:"timestamp"`
	DayKey     string    `json:"dayKey" db:"day_key" firestore:"date"`
}

type DailyTotal struct {
	UserID  string `json:"userId"`
	DayKey  string `json:"dayKey"`
	TotalMl int    `json:"totalMl"`
}

func ValidateAmount(amountMl int) error {
	if amountMl <= 0 || amountMl > MaxAmountMl {
		return ErrInvalidAmount
	}
	return nil
}

func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayKeyLayout)
}

func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, ErrInvalidDayKey
	}
	return t, nil
}

func NewEvent(userID string, amountMl int, occurredAt time.Time, loc *time.Location) (*Event, error) {
	if err := ValidateAmount(amountMl); err != nil {
		return nil, err
	}
	return &Event{
		ID:         uuid.New().String(),
		UserID:     userID,
		AmountMl:   amountMl,
		OccurredAt: occurredAt.UTC(),
		DayKey:     DayKey(occurredAt, loc),
	}, nil
}

// SumMl adds up event amounts, ignoring anything outside the valid amount range.
func SumMl(events []*Event) int {
	total := 0
	for _, e := range events {
		if e == nil || ValidateAmount(e.AmountMl) != nil {
			continue
		}
		total += e.AmountMl
	}
	return total
}

func TotalForDay(userID, dayKey string, events []*Event) DailyTotal {
	total := 0
	for _, e := range events {
		if e == nil || e.DayKey != dayKey || ValidateAmount(e.AmountMl) != nil {
			continue
		}
		total += e.AmountMl
	}
	return DailyTotal{UserID: userID, DayKey: dayKey, TotalMl: total}
}

// DailyTotals groups events by day, oldest day first.
func DailyTotals(userID string, events []*Event) []DailyTotal {
	byDay := make(map[string]int)
	for _, e := range events {
		if e == nil || ValidateAmount(e.AmountMl) != nil {
			continue
		}
		if _, err := ParseDayKey(e.DayKey); err != nil {
			continue
		}
		byDay[e.DayKey] += e.AmountMl
	}

	totals := make([]DailyTotal, 0, len(byDay))
	for day, ml := range byDay {
		totals = append(totals, DailyTotal{UserID: userID, DayKey: day, TotalMl: ml})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].DayKey < totals[j].DayKey })
	return totals
}

// NewestFirst returns a copy of events ordered by OccurredAt descending.
func NewestFirst(events []*Event) []*Event {
	out := make([]*Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out
}
