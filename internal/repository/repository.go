package repository

import (
	"context"
	"errors"
	"fmt"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/user"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go hydrateMeAPI/internal/repository Repository

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")

	// ErrFriendCodeTaken is the ErrAlreadyExists case a new code can fix.
	ErrFriendCodeTaken = fmt.Errorf("friend code taken: %w", ErrAlreadyExists)
)

// Repository is the backing document store. It only answers exact-match queries
// by user id and day key; every aggregate is computed by the caller.
type Repository interface {
	// CreateUser stores a new profile. ErrAlreadyExists when the auth id is taken,
	// ErrFriendCodeTaken when only the friend code collides.
	CreateUser(ctx context.Context, u *user.User) error

	GetUserByID(ctx context.Context, id string) (*user.User, error)
	GetUserByAuthID(ctx context.Context, authID string) (*user.User, error)
	GetUserByFriendCode(ctx context.Context, code string) (*user.User, error)

	// GetUsersByIDs returns the profiles that exist; unknown ids are simply absent.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*user.User, error)

	// UpdateWeight writes weight and daily goal together in a single write.
	UpdateWeight(ctx context.Context, u *user.User) error

	// AddFriendship links both users to each other. Adding an existing pair is a no-op.
	AddFriendship(ctx context.Context, userID, friendID string) error
	RemoveFriendship(ctx context.Context, userID, friendID string) error

	AppendIntake(ctx context.Context, e *intake.Event) error
	ListIntakeByDay(ctx context.Context, userID, dayKey string) ([]*intake.Event, error)

	// ListIntakeRange returns events with fromDay <= DayKey <= toDay. Empty bounds are open.
	ListIntakeRange(ctx context.Context, userID, fromDay, toDay string) ([]*intake.Event, error)

	ListAchievements(ctx context.Context, userID string) ([]*achievement.Unlock, error)

	// RecordAchievement stores the unlock unless the user already has that type.
	// It reports whether a new record was written.
	RecordAchievement(ctx context.Context, u *achievement.Unlock) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}
