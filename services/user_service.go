package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"hydrateMeAPI/internal/notification"
	"hydrateMeAPI/internal/repository"
	"hydrateMeAPI/internal/user"
)

const maxFriendCodeAttempts = 5

type UserService struct {
	repo            repository.Repository
	achievements    *AchievementService
	notifier        Notifier
	defaultTimezone string
}

func NewUserService(repo repository.Repository, achievements *AchievementService, notifier Notifier, defaultTimezone string) *UserService {
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &UserService{
		repo:            repo,
		achievements:    achievements,
		notifier:        notifierOrNoop(notifier),
		defaultTimezone: defaultTimezone,
	}
}

// CreateUser creates the profile for authID, or returns the existing one. The
// boolean reports whether a new profile was written.
func (s *UserService) CreateUser(ctx context.Context, authID string, req *user.CreateUserRequest) (*user.User, bool, error) {
	if existing, err := s.repo.GetUserByAuthID(ctx, authID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	for attempt := 0; attempt < maxFriendCodeAttempts; attempt++ {
		u, err := user.New(authID, req.Email, req.DisplayName, req.WeightKg, timezone)
		if err != nil {
			return nil, false, err
		}

		err = s.repo.CreateUser(ctx, u)
		if err == nil {
			log.Printf("CreateUser: created user %s with friend code %s", u.ID, u.FriendCode)
			return u, true, nil
		}
		if !errors.Is(err, repository.ErrAlreadyExists) {
			return nil, false, err
		}

		// A concurrent request may have created this identity in the meantime.
		if existing, lookupErr := s.repo.GetUserByAuthID(ctx, authID); lookupErr == nil {
			return existing, false, nil
		}
		if !errors.Is(err, repository.ErrFriendCodeTaken) {
			return nil, false, fmt.Errorf("auth id %s is reserved without a profile: %w", authID, err)
		}
		log.Printf("CreateUser: friend code %s taken, retrying (%d/%d)", u.FriendCode, attempt+1, maxFriendCodeAttempts)
	}
	return nil, false, ErrFriendCodeExhausted
}

// GetProfile fails with user.ErrInvalidGoal when the stored profile has no usable goal.
func (s *UserService) GetProfile(ctx context.Context, authID string) (*user.User, error) {
	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}
	if _, err := u.GoalMl(); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetByFriendCode(ctx context.Context, code string) (*user.User, error) {
	code = user.NormalizeFriendCode(code)
	if !user.ValidFriendCode(code) {
		return nil, user.ErrInvalidFriendCode
	}

	u, err := s.repo.GetUserByFriendCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, fmt.Errorf("failed to find friend code: %w", err)
	}
	return u, nil
}

// UpdateWeight stores the new weight and the goal derived from it in one write.
func (s *UserService) UpdateWeight(ctx context.Context, authID string, weightKg float64) (*user.User, error) {
	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}
	if err := u.SetWeight(weightKg); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateWeight(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update weight: %w", err)
	}
	return u, nil
}

// AddFriend links the caller with the owner of code on both sides. Adding an
// existing friend succeeds and reports AlreadyFriends.
func (s *UserService) AddFriend(ctx context.Context, authID, code string) (*user.AddFriendResponse, error) {
	me, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}

	friend, err := s.GetByFriendCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if friend.ID == me.ID {
		return nil, ErrCannotFriendSelf
	}

	if me.HasFriend(friend.ID) && friend.HasFriend(me.ID) {
		return &user.AddFriendResponse{Friend: friend, AlreadyFriends: true}, nil
	}

	if err := s.repo.AddFriendship(ctx, me.ID, friend.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, fmt.Errorf("failed to add friend: %w", err)
	}
	log.Printf("AddFriend: %s and %s are now friends", me.ID, friend.ID)

	s.notifier.Notify(notification.FriendAdded(friend.ID, me.DisplayName))
	s.evaluateFriendAchievements(ctx, me.ID, friend.ID)

	if !friend.HasFriend(me.ID) {
		friend.FriendIDs = append(friend.FriendIDs, me.ID)
	}
	return &user.AddFriendResponse{Friend: friend}, nil
}

// evaluateFriendAchievements re-checks both sides after the friend count changed.
// Failures are logged; the friendship itself is already stored.
func (s *UserService) evaluateFriendAchievements(ctx context.Context, ids ...string) {
	if s.achievements == nil {
		return
	}
	profiles, err := s.repo.GetUsersByIDs(ctx, ids)
	if err != nil {
		log.Printf("evaluateFriendAchievements: failed to reload profiles: %v", err)
		return
	}
	for _, id := range ids {
		p, ok := profiles[id]
		if !ok {
			continue
		}
		if _, err := s.achievements.EvaluateAndRecord(ctx, p); err != nil {
			log.Printf("evaluateFriendAchievements: user %s: %v", id, err)
		}
	}
}

func (s *UserService) RemoveFriend(ctx context.Context, authID, friendID string) error {
	me, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return err
	}
	if friendID == "" || friendID == me.ID {
		return ErrFriendNotFound
	}
	if err := s.repo.RemoveFriendship(ctx, me.ID, friendID); err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return nil
}

// GetFriends returns friend profiles in the order they were added. Friends whose
// profile no longer exists are skipped.
func (s *UserService) GetFriends(ctx context.Context, authID string) ([]*user.User, error) {
	me, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.repo.GetUsersByIDs(ctx, me.FriendIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}

	friends := make([]*user.User, 0, len(me.FriendIDs))
	for _, id := range me.FriendIDs {
		p, ok := profiles[id]
		if !ok {
			log.Printf("GetFriends: user %s lists missing friend %s", me.ID, id)
			continue
		}
		friends = append(friends, p)
	}
	return friends, nil
}

// CheckFriendships lists the caller's relations that are not mirrored on the other side.
func (s *UserService) CheckFriendships(ctx context.Context, authID string) ([]user.FriendshipIssue, error) {
	me, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}
	return s.friendshipIssues(ctx, me)
}

func (s *UserService) friendshipIssues(ctx context.Context, me *user.User) ([]user.FriendshipIssue, error) {
	profiles, err := s.repo.GetUsersByIDs(ctx, me.FriendIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}

	issues := []user.FriendshipIssue{}
	for _, id := range me.FriendIDs {
		friend, ok := profiles[id]
		switch {
		case !ok:
			issues = append(issues, user.FriendshipIssue{UserID: me.ID, FriendID: id, Missing: true})
		case !friend.HasFriend(me.ID):
			issues = append(issues, user.FriendshipIssue{UserID: me.ID, FriendID: id})
		}
	}
	return issues, nil
}

// RepairFriendships mirrors one-sided relations and drops links to deleted
// profiles. Returns the issues that were fixed.
func (s *UserService) RepairFriendships(ctx context.Context, authID string) ([]user.FriendshipIssue, error) {
	me, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}

	issues, err := s.friendshipIssues(ctx, me)
	if err != nil {
		return nil, err
	}

	for _, issue := range issues {
		if issue.Missing {
			err = s.repo.RemoveFriendship(ctx, issue.UserID, issue.FriendID)
		} else {
			err = s.repo.AddFriendship(ctx, issue.UserID, issue.FriendID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to repair friendship with %s: %w", issue.FriendID, err)
		}
		log.Printf("RepairFriendships: fixed %s -> %s (missing=%v)", issue.UserID, issue.FriendID, issue.Missing)
	}
	return issues, nil
}
