package user

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// KgPerLiter is the body weight that earns one liter of daily goal.
	KgPerLiter = 20.0

	MaxWeightKg    = 500.0
	FriendCodeSize = 8
)

var (
	ErrInvalidWeight     = errors.New("weight must be between 0 and 500 kg")
	ErrInvalidGoal       = errors.New("daily goal must be greater than zero")
	ErrInvalidFriendCode = errors.New("friend code must be 8 uppercase letters or digits")
	ErrInvalidTimezone   = errors.New("unknown timezone")
)

type User struct {
	ID              string    `json:"id" db:"id" firestore:"id"`
	AuthID          string    `json:"authId" db:"auth_id" firestore:"authId"`
	Email           string    `json:"email" db:"email" firestore:"email"`
	DisplayName     string    `json:"displayName" db:"display_name" firestore:"displayName"`
	WeightKg        float64   `json:"weightKg" db:"weight_kg" firestore:"weight"`
	DailyGoalLiters float64   `json:"dailyGoalLiters" db:"daily_goal_liters" firestore:"dailyGoal"`
	FriendIDs       []string  `json:"friendIds" db:"-" firestore:"friends"`
	FriendCode      string    `json:"friendCode" db:"friend_code" firestore:"friendCode"`
	Timezone        string    `json:"timezone" db:"timezone" firestore:"timezone"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at" firestore:"updatedAt"`
}

// DailyGoalLiters derives the hydration goal from body weight.
func DailyGoalLiters(weightKg float64) float64 {
	return weightKg / KgPerLiter
}

func ValidateWeight(weightKg float64) error {
	if weightKg <= 0 || weightKg > MaxWeightKg {
		return ErrInvalidWeight
	}
	return nil
}

// New builds a profile for a freshly authenticated identity. The friend code is
// generated here and never changes afterwards.
func New(authID, email, displayName string, weightKg float64, timezone string) (*User, error) {
	if err := ValidateWeight(weightKg); err != nil {
		return nil, err
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, timezone)
	}

	code, err := NewFriendCode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		ID:          uuid.New().String(),
		AuthID:      authID,
		Email:       email,
		DisplayName: displayName,
		FriendIDs:   []string{},
		FriendCode:  code,
		Timezone:    timezone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	u.applyWeight(weightKg)
	return u, nil
}

// SetWeight is the only way to change weight; the goal moves with it.
func (u *User) SetWeight(weightKg float64) error {
	if err := ValidateWeight(weightKg); err != nil {
		return err
	}
	u.applyWeight(weightKg)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) applyWeight(weightKg float64) {
	u.WeightKg = weightKg
	u.DailyGoalLiters = DailyGoalLiters(weightKg)
}

// GoalMl returns the daily goal rounded to whole milliliters, or ErrInvalidGoal
// when the stored profile carries no usable goal. Intake is logged in whole
// milliliters, so an unrounded goal such as 8050.000000000001 could never be met.
func (u *User) GoalMl() (float64, error) {
	if u == nil || u.DailyGoalLiters <= 0 {
		return 0, ErrInvalidGoal
	}
	return math.Round(u.DailyGoalLiters * 1000), nil
}

func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (u *User) HasFriend(id string) bool {
	for _, f := range u.FriendIDs {
		if f == id {
			return true
		}
	}
	return false
}

const friendCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Bytes at or above this bound are discarded so every symbol stays equally likely.
const friendCodeByteLimit = 256 - 256%len(friendCodeAlphabet)

func NewFriendCode() (string, error) {
	return newFriendCode(rand.Reader)
}

func newFriendCode(src io.Reader) (string, error) {
	code := make([]byte, 0, FriendCodeSize)
	buf := make([]byte, FriendCodeSize)
	for len(code) < FriendCodeSize {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("failed to generate friend code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= friendCodeByteLimit {
				continue
			}
			code = append(code, friendCodeAlphabet[int(b)%len(friendCodeAlphabet)])
			if len(code) == FriendCodeSize {
				break
			}
		}
	}
	return string(code), nil
}

func NormalizeFriendCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidFriendCode(code string) bool {
	if len(code) != FriendCodeSize {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(friendCodeAlphabet, c) {
			return false
		}
	}
	return true
}
