package services

import (
	"context"
	"fmt"
	"log"

	"hydrateMeAPI/internal/common/clock"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/repository"
	"hydrateMeAPI/internal/stats"
)

type StatsService struct {
	repo         repository.Repository
	leaderboards *LeaderboardService
	clock        clock.Clock
}

func NewStatsService(repo repository.Repository, leaderboards *LeaderboardService, clk clock.Clock) *StatsService {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &StatsService{repo: repo, leaderboards: leaderboards, clock: clk}
}

func (s *StatsService) GetUserStats(ctx context.Context, authID string) (*stats.UserStats, error) {
	u, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}
	goalMl, err := u.GoalMl()
	if err != nil {
		return nil, err
	}

	events, err := s.repo.ListIntakeRange(ctx, u.ID, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load intake history: %w", err)
	}

	unlocks, err := s.repo.ListAchievements(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	rank := 0
	if s.leaderboards != nil {
		board, err := s.leaderboards.GetFriendsLeaderboard(ctx, authID)
		if err != nil {
			log.Printf("GetUserStats: leaderboard unavailable for user %s: %v", u.ID, err)
		} else if board.UserPosition != nil {
			rank = board.UserPosition.Rank
		}
	}

	return stats.Compute(stats.Input{
		TodayKey:          intake.DayKey(s.clock.Now(), u.Location()),
		GoalMl:            goalMl,
		DailyTotals:       intake.DailyTotals(u.ID, events),
		AchievementsCount: len(unlocks),
		FriendsCount:      len(u.FriendIDs),
		Rank:              rank,
	})
}
