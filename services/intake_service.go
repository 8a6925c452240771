package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/common/clock"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/notification"
	"hydrateMeAPI/internal/progress"
	"hydrateMeAPI/internal/repository"
)

type LogIntakeRequest struct {
	AmountMl int `json:"amountMl"`
}

type LogIntakeResult struct {
	Event           *intake.Event            `json:"event"`
	Progress        *progress.DailyProgress  `json:"progress"`
	GoalReached     bool                     `json:"goalReached"`
	NewAchievements []achievement.Definition `json:"newAchievements"`
}

type IntakeService struct {
	repo         repository.Repository
	achievements *AchievementService
	notifier     Notifier
	clock        clock.Clock
}

func NewIntakeService(repo repository.Repository, achievements *AchievementService, notifier Notifier, clk clock.Clock) *IntakeService {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &IntakeService{
		repo:         repo,
		achievements: achievements,
		notifier:     notifierOrNoop(notifier),
		clock:        clk,
	}
}

// LogIntake appends a drink for the caller and returns the day's progress computed
// from the stored events plus the new one.
func (s *IntakeService) LogIntake(ctx context.Context, authID string, amountMl int) (*LogIntakeResult, error) {
	if err := intake.ValidateAmount(amountMl); err != nil {
		return nil, err
	}

	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}
	goalMl, err := u.GoalMl()
	if err != nil {
		return nil, err
	}

	event, err := intake.NewEvent(u.ID, amountMl, s.clock.Now(), u.Location())
	if err != nil {
		return nil, err
	}

	before, err := s.repo.ListIntakeByDay(ctx, u.ID, event.DayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's intake: %w", err)
	}

	if err := s.repo.AppendIntake(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to log intake: %w", err)
	}

	beforeMl := intake.SumMl(before)
	afterMl := intake.SumMl(append(before, event))

	p, err := progress.Calculate(event.DayKey, afterMl, goalMl)
	if err != nil {
		return nil, err
	}

	result := &LogIntakeResult{
		Event:           event,
		Progress:        p,
		GoalReached:     progress.CrossedGoal(beforeMl, afterMl, goalMl),
		NewAchievements: []achievement.Definition{},
	}
	if result.GoalReached {
		s.notifier.Notify(notification.GoalMet(u.ID, p))
	}

	if s.achievements != nil {
		unlocked, err := s.achievements.EvaluateAndRecord(ctx, u)
		if err != nil {
			log.Printf("LogIntake: achievement evaluation failed for user %s: %v", u.ID, err)
		}
		result.NewAchievements = append(result.NewAchievements, unlocked...)
	}

	return result, nil
}

// GetDayProgress reports progress for dayKey, or for today in the caller's
// timezone when dayKey is empty.
func (s *IntakeService) GetDayProgress(ctx context.Context, authID, dayKey string) (*progress.DailyProgress, error) {
	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}
	goalMl, err := u.GoalMl()
	if err != nil {
		return nil, err
	}

	dayKey, err = s.resolveDay(dayKey, u.Location())
	if err != nil {
		return nil, err
	}

	events, err := s.repo.ListIntakeByDay(ctx, u.ID, dayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load intake: %w", err)
	}
	return progress.Calculate(dayKey, intake.SumMl(events), goalMl)
}

// GetHistory lists the events of one day, newest first.
func (s *IntakeService) GetHistory(ctx context.Context, authID, dayKey string) ([]*intake.Event, error) {
	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}

	dayKey, err = s.resolveDay(dayKey, u.Location())
	if err != nil {
		return nil, err
	}

	events, err := s.repo.ListIntakeByDay(ctx, u.ID, dayKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load intake: %w", err)
	}
	return intake.NewestFirst(events), nil
}

func (s *IntakeService) resolveDay(dayKey string, loc *time.Location) (string, error) {
	if dayKey == "" {
		return intake.DayKey(s.clock.Now(), loc), nil
	}
	if _, err := intake.ParseDayKey(dayKey); err != nil {
		return "", err
	}
	return dayKey, nil
}
