package stats

import (
	"time"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/progress"
)

type UserStats struct {
	Today             *progress.DailyProgress `json:"today"`
	DaysThisWeek      int                     `json:"daysThisWeek"`
	DaysThisMonth     int                     `json:"daysThisMonth"`
	DaysThisYear      int                     `json:"daysThisYear"`
	TotalDaysGoalMet  int                     `json:"totalDaysGoalMet"`
	TotalDaysLogged   int                     `json:"totalDaysLogged"`
	AllTimeLiters     float64                 `json:"allTimeLiters"`
	CurrentStreak     int                     `json:"currentStreak"`
	LongestStreak     int                     `json:"longestStreak"`
	AchievementsCount int                     `json:"achievementsCount"`
	FriendsCount      int                     `json:"friendsCount"`
	Rank              int                     `json:"rank"`
}

type Input struct {
	TodayKey          string
	GoalMl            float64
	DailyTotals       []intake.DailyTotal
	AchievementsCount int
	FriendsCount      int
	Rank              int
}

// Compute derives the stats page from a user's day totals. Week starts on Monday.
func Compute(in Input) (*UserStats, error) {
	today, err := intake.ParseDayKey(in.TodayKey)
	if err != nil {
		return nil, err
	}

	todayMl := 0
	allTimeMl := 0
	logged := 0
	for _, d := range in.DailyTotals {
		if d.DayKey == in.TodayKey {
			todayMl += d.TotalMl
		}
		if d.TotalMl > 0 {
			allTimeMl += d.TotalMl
			logged++
		}
	}

	todayProgress, err := progress.Calculate(in.TodayKey, todayMl, in.GoalMl)
	if err != nil {
		return nil, err
	}

	weekday := (int(today.Weekday()) + 6) % 7
	weekStart := today.AddDate(0, 0, -weekday)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	return &UserStats{
		Today:             todayProgress,
		DaysThisWeek:      goalDaysBetween(in.DailyTotals, in.GoalMl, weekStart, today),
		DaysThisMonth:     goalDaysBetween(in.DailyTotals, in.GoalMl, monthStart, today),
		DaysThisYear:      goalDaysBetween(in.DailyTotals, in.GoalMl, yearStart, today),
		TotalDaysGoalMet:  achievement.GoalDays(in.DailyTotals, in.GoalMl),
		TotalDaysLogged:   logged,
		AllTimeLiters:     float64(allTimeMl) / 1000,
		CurrentStreak:     achievement.CurrentStreak(in.DailyTotals, in.GoalMl, in.TodayKey),
		LongestStreak:     achievement.LongestStreak(in.DailyTotals, in.GoalMl),
		AchievementsCount: in.AchievementsCount,
		FriendsCount:      in.FriendsCount,
		Rank:              in.Rank,
	}, nil
}

func goalDaysBetween(totals []intake.DailyTotal, goalMl float64, from, to time.Time) int {
	var inRange []intake.DailyTotal
	for _, d := range totals {
		date, err := intake.ParseDayKey(d.DayKey)
		if err != nil || date.Before(from) || date.After(to) {
			continue
		}
		inRange = append(inRange, d)
	}
	return achievement.GoalDays(inRange, goalMl)
}
