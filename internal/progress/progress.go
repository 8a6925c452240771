package progress

import (
	"errors"
	"math"
)

type Tier string

const (
	TierNotStarted       Tier = "not-started"
	TierEarlyProgress    Tier = "early-progress"
	TierAdvancedProgress Tier = "advanced-progress"
	TierGoalMet          Tier = "goal-met"
)

var ErrInvalidGoal = errors.New("invalid goal: must be greater than zero")

type DailyProgress struct {
	Date       string  `json:"date"`
	ConsumedMl int     `json:"consumed"`
	GoalMl     float64 `json:"goal"`
	Percentage float64 `json:"percentage"`
	Tier       Tier    `json:"tier"`
	Completed  bool    `json:"completed"`
}

// Percentage is consumed/goal as a percentage clamped to [0, 100].
func Percentage(consumedMl int, goalMl float64) (float64, error) {
	if goalMl <= 0 || math.IsNaN(goalMl) || math.IsInf(goalMl, 0) {
		return 0, ErrInvalidGoal
	}
	if consumedMl <= 0 {
		return 0, nil
	}
	return math.Min(float64(consumedMl)/goalMl*100, 100), nil
}

func TierFor(percentage float64) Tier {
	switch {
	case percentage <= 0:
		return TierNotStarted
	case percentage < 50:
		return TierEarlyProgress
	case percentage < 100:
		return TierAdvancedProgress
	default:
		return TierGoalMet
	}
}

func Calculate(dayKey string, consumedMl int, goalMl float64) (*DailyProgress, error) {
	pct, err := Percentage(consumedMl, goalMl)
	if err != nil {
		return nil, err
	}
	if consumedMl < 0 {
		consumedMl = 0
	}

	tier := TierFor(pct)
	return &DailyProgress{
		Date:       dayKey,
		ConsumedMl: consumedMl,
		GoalMl:     goalMl,
		Percentage: pct,
		Tier:       tier,
		Completed:  tier == TierGoalMet,
	}, nil
}

// CrossedGoal reports whether adding to a day moved it from below goal to at or above it.
func CrossedGoal(beforeMl, afterMl int, goalMl float64) bool {
	if goalMl <= 0 {
		return false
	}
	return float64(beforeMl) < goalMl && float64(afterMl) >= goalMl
}
