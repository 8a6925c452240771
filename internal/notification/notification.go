package notification

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/progress"
)

type NotificationType string

const (
	NotificationGoalMet     NotificationType = "goal_met"
	NotificationAchievement NotificationType = "achievement"
	NotificationFriendAdded NotificationType = "friend_added"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Data      map[string]any   `json:"data"`
	CreatedAt time.Time        `json:"createdAt"`
}

func newNotification(userID string, t NotificationType, title, body string, data map[string]any) *Notification {
	if data == nil {
		data = map[string]any{}
	}
	data["type"] = string(t)
	return &Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      t,
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

func GoalMet(userID string, p *progress.DailyProgress) *Notification {
	return newNotification(userID, NotificationGoalMet,
		"Daily goal achieved! 🎉",
		fmt.Sprintf("You drank %.1f L today. Keep it up!", float64(p.ConsumedMl)/1000),
		map[string]any{"date": p.Date, "consumed": p.ConsumedMl, "goal": math.Round(p.GoalMl)},
	)
}

func AchievementUnlocked(userID string, def achievement.Definition) *Notification {
	return newNotification(userID, NotificationAchievement,
		fmt.Sprintf("%s %s unlocked", def.Icon, def.Name),
		def.Description,
		map[string]any{"achievement": string(def.Type)},
	)
}

func FriendAdded(userID, friendName string) *Notification {
	return newNotification(userID, NotificationFriendAdded,
		"New friend",
		fmt.Sprintf("%s added you as a friend", friendName),
		nil,
	)
}
