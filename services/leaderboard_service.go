package services

import (
	"context"
	"fmt"
	"log"

	"hydrateMeAPI/internal/common/clock"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/leaderboard"
	"hydrateMeAPI/internal/repository"
)

type LeaderboardService struct {
	repo  repository.Repository
	clock clock.Clock
}

func NewLeaderboardService(repo repository.Repository, clk clock.Clock) *LeaderboardService {
	if clk == nil {
		clk = &clock.DefaultClock{}
	}
	return &LeaderboardService{repo: repo, clock: clk}
}

// GetFriendsLeaderboard ranks the caller and their friends by today's completion.
// "Today" is the caller's calendar day for everyone on the board.
func (s *LeaderboardService) GetFriendsLeaderboard(ctx context.Context, authID string) (*leaderboard.Leaderboard, error) {
	me, err := loadProfile(ctx, s.repo, authID)
	if err != nil {
		return nil, err
	}

	input := &leaderboard.RankInput{UserID: me.ID, FriendIDs: me.FriendIDs}
	ids := input.Order()

	profiles, err := s.repo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard profiles: %w", err)
	}
	profiles[me.ID] = me

	todayKey := intake.DayKey(s.clock.Now(), me.Location())
	input.Standings = make(map[string]*leaderboard.Standing, len(profiles))
	for _, id := range ids {
		p, ok := profiles[id]
		if !ok {
			continue
		}
		events, err := s.repo.ListIntakeByDay(ctx, id, todayKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load intake for %s: %w", id, err)
		}
		// A zero goal lands the profile in the ranker's InvalidGoal list.
		goal, _ := p.GoalMl()
		input.Standings[id] = &leaderboard.Standing{
			DisplayName:  p.DisplayName,
			TodayTotalMl: intake.SumMl(events),
			GoalMl:       goal,
		}
	}

	board := leaderboard.Rank(input)
	if len(board.Missing) > 0 {
		log.Printf("GetFriendsLeaderboard: user %s lists missing profiles %v", me.ID, board.Missing)
	}
	if len(board.InvalidGoal) > 0 {
		log.Printf("GetFriendsLeaderboard: excluded profiles with invalid goal %v", board.InvalidGoal)
	}
	return board, nil
}
