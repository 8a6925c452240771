package achievement

import (
	"sort"
	"time"

	"hydrateMeAPI/internal/intake"
)

// Facts is everything the evaluator looks at for one user.
type Facts struct {
	EventCount  int
	DailyTotals []intake.DailyTotal
	GoalMl      float64
	FriendCount int
}

type Set map[Type]struct{}

func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}

func (s Set) Add(t Type) { s[t] = struct{}{} }

// Types lists the set in catalogue order.
func (s Set) Types() []Type {
	out := make([]Type, 0, len(s))
	for _, def := range Definitions {
		if s.Has(def.Type) {
			out = append(out, def.Type)
		}
	}
	return out
}

// Evaluate returns every achievement type the facts satisfy. It has no memory of
// earlier calls, so the same facts always give the same set.
func Evaluate(f Facts) Set {
	satisfied := Set{}

	days := normalize(f.DailyTotals)
	allTime := 0
	for _, d := range days {
		allTime += d.totalMl
	}

	if f.EventCount > 0 || allTime > 0 {
		satisfied.Add(TypeFirstDrop)
	}
	if allTime >= MarathonSipperMl {
		satisfied.Add(TypeMarathonSipper)
	}
	if f.FriendCount >= SocialButterflyMin {
		satisfied.Add(TypeSocialButterfly)
	}

	if f.GoalMl <= 0 {
		return satisfied
	}

	goalDays := countGoalDays(days, f.GoalMl)
	if goalDays > 0 {
		satisfied.Add(TypePerfectlyHydrated)
	}
	if goalDays >= OverachieverGoalDay {
		satisfied.Add(TypeOverachiever)
	}

	longest := longestRun(days, f.GoalMl)
	if longest >= WeekWarriorDays {
		satisfied.Add(TypeWeekWarrior)
	}
	if longest >= HydrationHeroDays {
		satisfied.Add(TypeHydrationHero)
	}

	return satisfied
}

// NewlyUnlocked drops the types that already have a recorded unlock.
func NewlyUnlocked(satisfied Set, recorded []*Unlock) []Type {
	have := make(map[Type]bool, len(recorded))
	for _, u := range recorded {
		if u != nil {
			have[u.Type] = true
		}
	}

	var out []Type
	for _, t := range satisfied.Types() {
		if !have[t] {
			out = append(out, t)
		}
	}
	return out
}

// LongestStreak is the longest run of consecutive calendar days at or above goal,
// anywhere in the history.
func LongestStreak(totals []intake.DailyTotal, goalMl float64) int {
	if goalMl <= 0 {
		return 0
	}
	return longestRun(normalize(totals), goalMl)
}

// CurrentStreak counts qualifying days ending today, or ending yesterday when today
// has not reached the goal yet.
func CurrentStreak(totals []intake.DailyTotal, goalMl float64, todayKey string) int {
	if goalMl <= 0 {
		return 0
	}
	today, err := intake.ParseDayKey(todayKey)
	if err != nil {
		return 0
	}

	byDay := make(map[time.Time]int)
	for _, d := range normalize(totals) {
		byDay[d.date] = d.totalMl
	}

	cursor := today
	if float64(byDay[cursor]) < goalMl {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		ml, ok := byDay[cursor]
		if !ok || float64(ml) < goalMl {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

func GoalDays(totals []intake.DailyTotal, goalMl float64) int {
	if goalMl <= 0 {
		return 0
	}
	return countGoalDays(normalize(totals), goalMl)
}

type day struct {
	date    time.Time
	totalMl int
}

// normalize merges totals per calendar day and sorts them newest first. Entries
// with unparsable keys or negative totals are dropped.
func normalize(totals []intake.DailyTotal) []day {
	merged := make(map[time.Time]int)
	for _, t := range totals {
		date, err := intake.ParseDayKey(t.DayKey)
		if err != nil || t.TotalMl < 0 {
			continue
		}
		merged[date] += t.TotalMl
	}

	days := make([]day, 0, len(merged))
	for date, ml := range merged {
		days = append(days, day{date: date, totalMl: ml})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.After(days[j].date) })
	return days
}

func countGoalDays(days []day, goalMl float64) int {
	n := 0
	for _, d := range days {
		if float64(d.totalMl) >= goalMl {
			n++
		}
	}
	return n
}

// longestRun walks newest to oldest. A run breaks on a day below goal or on a
// missing calendar day.
func longestRun(days []day, goalMl float64) int {
	longest, run := 0, 0
	var prev time.Time
	for _, d := range days {
		if float64(d.totalMl) < goalMl {
			run = 0
			prev = d.date
			continue
		}
		if run > 0 && prev.AddDate(0, 0, -1).Equal(d.date) {
			run++
		} else {
			run = 1
		}
		prev = d.date
		if run > longest {
			longest = run
		}
	}
	return longest
}
