package services

import (
	"context"
	"errors"
	"fmt"

	"hydrateMeAPI/internal/notification"
	"hydrateMeAPI/internal/repository"
	"hydrateMeAPI/internal/user"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go hydrateMeAPI/services Notifier

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrFriendNotFound      = errors.New("no user with that friend code")
	ErrCannotFriendSelf    = errors.New("cannot add yourself as a friend")
	ErrFriendCodeExhausted = errors.New("could not allocate a unique friend code")
)

// Notifier queues a push for delivery. Implementations must not block the caller
// for long and never report delivery failures back.
type Notifier interface {
	Notify(n *notification.Notification)
}

type noopNotifier struct{}

func (noopNotifier) Notify(*notification.Notification) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// loadProfile resolves the authenticated subject to its stored profile.
func loadProfile(ctx context.Context, repo repository.Repository, authID string) (*user.User, error) {
	if authID == "" {
		return nil, ErrUserNotFound
	}
	u, err := repo.GetUserByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return u, nil
}
