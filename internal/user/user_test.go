package user

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydrateMeAPI/internal/progress"
)

func TestNewDerivesGoalFromWeight(t *testing.T) {
	u, err := New("auth_1", "a@example.com", "Alice", 70, "")
	require.NoError(t, err)

	assert.Equal(t, 3.5, u.DailyGoalLiters)
	assert.Equal(t, "UTC", u.Timezone)
	assert.NotEmpty(t, u.ID)
	assert.Empty(t, u.FriendIDs)
	assert.True(t, ValidFriendCode(u.FriendCode))

	goal, err := u.GoalMl()
	require.NoError(t, err)
	assert.Equal(t, 3500.0, goal)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		timezone string
		wantErr  error
	}{
		{"zero weight", 0, "UTC", ErrInvalidWeight},
		{"negative weight", -5, "UTC", ErrInvalidWeight},
		{"too heavy", 500.1, "UTC", ErrInvalidWeight},
		{"max weight", 500, "UTC", nil},
		{"unknown timezone", 70, "Mars/Olympus", ErrInvalidTimezone},
		{"named timezone", 70, "Europe/Sofia", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("auth", "", "Name", tt.weight, tt.timezone)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSetWeightMovesGoal(t *testing.T) {
	u, err := New("auth_1", "", "Alice", 70, "UTC")
	require.NoError(t, err)

	require.NoError(t, u.SetWeight(80))
	assert.Equal(t, 80.0, u.WeightKg)
	assert.Equal(t, 4.0, u.DailyGoalLiters)

	assert.ErrorIs(t, u.SetWeight(0), ErrInvalidWeight)
	assert.Equal(t, 80.0, u.WeightKg, "rejected weight must not change the profile")
}

func TestGoalMlRejectsMissingGoal(t *testing.T) {
	_, err := (&User{}).GoalMl()
	assert.ErrorIs(t, err, ErrInvalidGoal)

	var nilUser *User
	_, err = nilUser.GoalMl()
	assert.ErrorIs(t, err, ErrInvalidGoal)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, "UTC", (&User{}).Location().String())
	assert.Equal(t, "UTC", (&User{Timezone: "bogus"}).Location().String())
	assert.Equal(t, "Asia/Tokyo", (&User{Timezone: "Asia/Tokyo"}).Location().String())
}

func TestFriendCodes(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewFriendCode()
		require.NoError(t, err)
		assert.Len(t, code, FriendCodeSize)
		assert.True(t, ValidFriendCode(code), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)

	assert.Equal(t, "AB12CD34", NormalizeFriendCode("  ab12cd34 "))
	assert.False(t, ValidFriendCode("AB12CD3"))
	assert.False(t, ValidFriendCode("ab12cd34"))
	assert.False(t, ValidFriendCode("AB12CD3!"))
}

func TestHasFriend(t *testing.T) {
	u := &User{FriendIDs: []string{"a", "b"}}
	assert.True(t, u.HasFriend("b"))
	assert.False(t, u.HasFriend("c"))
}

func TestGoalMlIsWholeMilliliters(t *testing.T) {
	u, err := New("auth_1", "", "Big", 161, "")
	require.NoError(t, err)

	goal, err := u.GoalMl()
	require.NoError(t, err)
	assert.Equal(t, 8050.0, goal)

	p, err := progress.Calculate("2025-06-10", 8050, goal)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Percentage)
	assert.True(t, p.Completed)
}

func TestDrinkingExactGoalCompletesForFractionalWeights(t *testing.T) {
	for tenths := 1; tenths <= 5000; tenths++ {
		u, err := New("auth_1", "", "W", float64(tenths)/10, "")
		require.NoError(t, err)

		goal, err := u.GoalMl()
		require.NoError(t, err)
		// 0.1 kg is worth 5 ml of goal.
		require.Equal(t, float64(tenths*5), goal, "weight %.1f", u.WeightKg)

		p, err := progress.Calculate("2025-06-10", tenths*5, goal)
		require.NoError(t, err)
		require.True(t, p.Completed, "weight %.1f", u.WeightKg)
		require.True(t, progress.CrossedGoal(0, tenths*5, goal), "weight %.1f", u.WeightKg)
	}
}

func TestNewFriendCodeSkipsBiasedBytes(t *testing.T) {
	src := bytes.NewReader([]byte{
		255, 252, 0, 1, 2, 3, 4, 5,
		253, 35, 36, 100, 0, 0, 0, 0,
	})

	code, err := newFriendCode(src)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF9A", code)
	assert.True(t, ValidFriendCode(code))
}

func TestNewFriendCodeFailsOnShortSource(t *testing.T) {
	_, err := newFriendCode(bytes.NewReader([]byte{255, 255, 255, 255, 255, 255, 255, 255}))
	assert.Error(t, err)
}
