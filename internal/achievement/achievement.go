package achievement

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

var ErrUnknownType = errors.New("unknown achievement type")

const (
	TypeFirstDrop         Type = "first_drop"
	TypePerfectlyHydrated Type = "perfectly_hydrated"
	TypeWeekWarrior       Type = "week_warrior"
	TypeHydrationHero     Type = "hydration_hero"
	TypeMarathonSipper    Type = "marathon_sipper"
	TypeSocialButterfly   Type = "social_butterfly"
	TypeOverachiever      Type = "overachiever"
)

const (
	WeekWarriorDays     = 7
	HydrationHeroDays   = 30
	MarathonSipperMl    = 1_000_000
	SocialButterflyMin  = 5
	OverachieverGoalDay = 10
)

type Definition struct {
	Type        Type   `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Definitions is the display catalogue, in presentation order.
var Definitions = []Definition{
	{Type: TypeFirstDrop, Name: "First Drop", Description: "Log your first water intake", Icon: "💧"},
	{Type: TypePerfectlyHydrated, Name: "Perfectly Hydrated", Description: "Reach 100% of your daily goal", Icon: "🎯"},
	{Type: TypeWeekWarrior, Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "🔥"},
	{Type: TypeHydrationHero, Name: "Hydration Hero", Description: "Maintain a 30-day streak", Icon: "🦸"},
	{Type: TypeMarathonSipper, Name: "Marathon Sipper", Description: "Drink 1000 total liters", Icon: "🏃"},
	{Type: TypeSocialButterfly, Name: "Social Butterfly", Description: "Add 5 friends", Icon: "🦋"},
	{Type: TypeOverachiever, Name: "Overachiever", Description: "Exceed daily goal 10 times", Icon: "⭐"},
}

func (t Type) Valid() bool {
	for _, d := range Definitions {
		if d.Type == t {
			return true
		}
	}
	return false
}

func DefinitionFor(t Type) (Definition, bool) {
	for _, d := range Definitions {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

// Unlock records that a user earned an achievement. At most one exists per (UserID, Type).
type Unlock struct {
	ID         string    `json:"id" db:"id" firestore:"id"`
	UserID     string    `json:"userId" db:"user_id" firestore:"userId"`
	Type       Type      `json:"type" db:"type" firestore:"type"`
	UnlockedAt time.Time `json:"unlockedAt" db:"unlocked_at" firestore:"unlockedAt"`
}

// Validate rejects unlocks that are not tied to a user or name a type outside the catalogue.
func (u *Unlock) Validate() error {
	if u == nil || u.UserID == "" {
		return errors.New("achievement unlock needs a user ID")
	}
	if !u.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, u.Type)
	}
	return nil
}

func NewUnlock(userID string, t Type, at time.Time) *Unlock {
	return &Unlock{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       t,
		UnlockedAt: at.UTC(),
	}
}

type WithStatus struct {
	Definition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

type Summary struct {
	Achievements  []*WithStatus `json:"achievements"`
	UnlockedCount int           `json:"unlockedCount"`
	TotalCount    int           `json:"totalCount"`
	Percentage    float64       `json:"percentage"`
}

// Summarize joins the catalogue with a user's recorded unlocks.
func Summarize(unlocks []*Unlock) *Summary {
	byType := make(map[Type]*Unlock, len(unlocks))
	for _, u := range unlocks {
		if u == nil {
			continue
		}
		if prev, ok := byType[u.Type]; !ok || u.UnlockedAt.Before(prev.UnlockedAt) {
			byType[u.Type] = u
		}
	}

	summary := &Summary{TotalCount: len(Definitions)}
	for _, def := range Definitions {
		ws := &WithStatus{Definition: def}
		if u, ok := byType[def.Type]; ok {
			at := u.UnlockedAt
			ws.Unlocked = true
			ws.UnlockedAt = &at
			summary.UnlockedCount++
		}
		summary.Achievements = append(summary.Achievements, ws)
	}
	summary.Percentage = float64(summary.UnlockedCount) / float64(summary.TotalCount) * 100
	return summary
}
