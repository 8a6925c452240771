package services

import (
	"context"
	"fmt"
	"log"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/common/clock"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/notification"
	"hydrateMeAPI/internal/repository"
	"hydrateMeAPI/internal/user"
)

type AchievementService struct {
	repo     repository.Repository
	notifier Notifier
	clock    clock.Clock
}

func NewAchievementService(repo repository.Repository, notifier Notifier, clk clock.Clock) *AchievementService {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &AchievementService{repo: repo, notifier: notifierOrNoop(notifier), clock: clk}
}

// EvaluateAndRecord checks the user's full history against every achievement and
// records the ones not unlocked yet. Returns only the unlocks written by this call.
func (s *AchievementService) EvaluateAndRecord(ctx context.Context, u *user.User) ([]achievement.Definition, error) {
	events, err := s.repo.ListIntakeRange(ctx, u.ID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load intake history: %w", err)
	}

	// A profile without a usable goal still earns the goal-independent types.
	goalMl, err := u.GoalMl()
	if err != nil {
		log.Printf("EvaluateAndRecord: user %s has no valid goal, skipping goal achievements", u.ID)
		goalMl = 0
	}

	satisfied := achievement.Evaluate(achievement.Facts{
		EventCount:  len(events),
		DailyTotals: intake.DailyTotals(u.ID, events),
		GoalMl:      goalMl,
		FriendCount: len(u.FriendIDs),
	})

	recorded, err := s.repo.ListAchievements(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	unlocked := []achievement.Definition{}
	now := s.clock.Now()
	for _, t := range achievement.NewlyUnlocked(satisfied, recorded) {
		created, err := s.repo.RecordAchievement(ctx, achievement.NewUnlock(u.ID, t, now))
		if err != nil {
			return unlocked, fmt.Errorf("failed to record %s: %w", t, err)
		}
		if !created {
			// Another request recorded it first.
			continue
		}

		def, _ := achievement.DefinitionFor(t)
		unlocked = append(unlocked, def)
		s.notifier.Notify(notification.AchievementUnlocked(u.ID, def))
		log.Printf("EvaluateAndRecord: user %s unlocked %s", u.ID, t)
	}
	return unlocked, nil
}

func (s *AchievementService) GetAchievements(ctx context.Context, authID string) (*achievement.Summary, error) {
	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.repo.ListAchievements(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	return achievement.Summarize(unlocks), nil
}
