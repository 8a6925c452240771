package leaderboard

import (
	"sort"

	"hydrateMeAPI/internal/progress"
)

// Standing is one person's raw numbers for today.
type Standing struct {
	DisplayName  string
	TodayTotalMl int
	GoalMl       float64
}

type LeaderboardEntry struct {
	UserID            string  `json:"userId"`
	DisplayName       string  `json:"displayName"`
	TodayTotalMl      int     `json:"todayIntake"`
	CompletionPercent float64 `json:"completionPercent"`
	Rank              int     `json:"rank"`
}

type Leaderboard struct {
	Entries      []*LeaderboardEntry `json:"entries"`
	UserPosition *LeaderboardEntry   `json:"userPosition"`
	TotalUsers   int                 `json:"totalUsers"`

	// Ids that were asked for but left out of the ranking.
	Missing     []string `json:"missing,omitempty"`
	InvalidGoal []string `json:"invalidGoal,omitempty"`
}

type RankInput struct {
	UserID    string
	FriendIDs []string
	Standings map[string]*Standing
}

// Order is the sequence ids are ranked in before sorting: friends as listed, then
// the user. Duplicates and self-references in FriendIDs are skipped.
func (in *RankInput) Order() []string {
	seen := make(map[string]bool, len(in.FriendIDs)+1)
	ids := make([]string, 0, len(in.FriendIDs)+1)
	for _, id := range in.FriendIDs {
		if id == "" || id == in.UserID || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if in.UserID != "" {
		ids = append(ids, in.UserID)
	}
	return ids
}

// Rank sorts by completion percentage, highest first. Equal percentages keep the
// order from Order(); ranks are 1 + position, so ties never share a rank.
// Ids without a standing, or with a goal <= 0, are excluded and reported.
func Rank(in *RankInput) *Leaderboard {
	board := &Leaderboard{Entries: []*LeaderboardEntry{}}
	if in == nil {
		return board
	}

	for _, id := range in.Order() {
		st, ok := in.Standings[id]
		if !ok || st == nil {
			board.Missing = append(board.Missing, id)
			continue
		}
		pct, err := progress.Percentage(st.TodayTotalMl, st.GoalMl)
		if err != nil {
			board.InvalidGoal = append(board.InvalidGoal, id)
			continue
		}
		board.Entries = append(board.Entries, &LeaderboardEntry{
			UserID:            id,
			DisplayName:       st.DisplayName,
			TodayTotalMl:      st.TodayTotalMl,
			CompletionPercent: pct,
		})
	}

	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].CompletionPercent > board.Entries[j].CompletionPercent
	})

	for i, entry := range board.Entries {
		entry.Rank = i + 1
		if entry.UserID == in.UserID {
			board.UserPosition = entry
		}
	}
	board.TotalUsers = len(board.Entries)
	return board
}
