package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/user"
)

const (
	// Key prefixes for Redis
	userKeyPrefix        = "user:"
	userAuthKeyPrefix    = "user_auth:"
	friendCodeKeyPrefix  = "friend_code:"
	friendsKeyPrefix     = "friends:"
	intakeKeyPrefix      = "intake:"
	intakeDaysKeyPrefix  = "intake_days:"
	achievementKeyPrefix = "achievements:"
)

// RedisConfig holds configuration for the Redis repository
type RedisConfig struct {
	RedisClient *redis.Client
}

type RedisRepository struct {
	client *redis.Client
}

func NewRedis(cfg *RedisConfig) (*RedisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRepository{client: cfg.RedisClient}, nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func userKey(id string) string { return userKeyPrefix + id }
func userAuthKey(authID string) string { return userAuthKeyPrefix + authID }
func friendCodeKey(code string) string { return friendCodeKeyPrefix + code }
func friendsKey(id string) string { return friendsKeyPrefix + id }
func intakeDaysKey(userID string) string { return intakeDaysKeyPrefix + userID }
func achievementsKey(userID string) string { return achievementKeyPrefix + userID }

func intakeKey(userID, dayKey string) string {
	return fmt.Sprintf("%s%s:%s", intakeKeyPrefix, userID, dayKey)
}

// dayScore orders day keys numerically inside the per-user day index.
func dayScore(dayKey string) (float64, error) {
	t, err := intake.ParseDayKey(dayKey)
	if err != nil {
		return 0, err
	}
	return float64(t.Unix() / 86400), nil
}

// storedUser is the JSON blob for a profile; friends live in their own sorted set.
type storedUser struct {
	ID              string    `json:"id"`
	AuthID          string    `json:"authId"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"displayName"`
	WeightKg        float64   `json:"weightKg"`
	DailyGoalLiters float64   `json:"dailyGoalLiters"`
	FriendCode      string    `json:"friendCode"`
	Timezone        string    `json:"timezone"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toStored(u *user.User) storedUser {
	return storedUser{
		ID:              u.ID,
		AuthID:          u.AuthID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		WeightKg:        u.WeightKg,
		DailyGoalLiters: u.DailyGoalLiters,
		FriendCode:      u.FriendCode,
		Timezone:        u.Timezone,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (s storedUser) toUser(friendIDs []string) *user.User {
	if friendIDs == nil {
		friendIDs = []string{}
	}
	return &user.User{
		ID:              s.ID,
		AuthID:          s.AuthID,
		Email:           s.Email,
		DisplayName:     s.DisplayName,
		WeightKg:        s.WeightKg,
		DailyGoalLiters: s.DailyGoalLiters,
		FriendIDs:       friendIDs,
		FriendCode:      s.FriendCode,
		Timezone:        s.Timezone,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

const maxCreateUserAttempts = 3

// CreateUser writes the profile and both index keys in one MULTI under WATCH. An
// auth index whose profile is gone is stale and gets reclaimed.
func (r *RedisRepository) CreateUser(ctx context.Context, u *user.User) error {
	if u == nil || u.ID == "" {
		return errors.New("user and user ID cannot be empty")
	}

	userJSON, err := json.Marshal(toStored(u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	authKey, codeKey := userAuthKey(u.AuthID), friendCodeKey(u.FriendCode)
	create := func(tx *redis.Tx) error {
		owner, err := tx.Get(ctx, authKey).Result()
		switch {
		case err == nil:
			n, err := tx.Exists(ctx, userKey(owner)).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrAlreadyExists
			}
			log.Printf("CreateUser: reclaiming stale auth index %s -> %s", u.AuthID, owner)
		case !errors.Is(err, redis.Nil):
			return err
		}

		n, err := tx.Exists(ctx, codeKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrFriendCodeTaken
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, authKey, u.ID, 0)
			pipe.Set(ctx, codeKey, u.ID, 0)
			pipe.Set(ctx, userKey(u.ID), userJSON, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxCreateUserAttempts; attempt++ {
		err = r.client.Watch(ctx, create, authKey, codeKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrAlreadyExists):
		return err
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}

func (r *RedisRepository) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	pipe := r.client.Pipeline()
	userCmd := pipe.Get(ctx, userKey(id))
	friendsCmd := pipe.ZRange(ctx, friendsKey(id), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	userJSON, err := userCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(userJSON), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return stored.toUser(friendsCmd.Val()), nil
}

func (r *RedisRepository) GetUserByAuthID(ctx context.Context, authID string) (*user.User, error) {
	return r.getUserByIndex(ctx, userAuthKey(authID))
}

func (r *RedisRepository) GetUserByFriendCode(ctx context.Context, code string) (*user.User, error) {
	return r.getUserByIndex(ctx, friendCodeKey(code))
}

func (r *RedisRepository) getUserByIndex(ctx context.Context, indexKey string) (*user.User, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *RedisRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	users := make(map[string]*user.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	pipe := r.client.Pipeline()
	userCmds := make(map[string]*redis.StringCmd, len(ids))
	friendCmds := make(map[string]*redis.StringSliceCmd, len(ids))
	for _, id := range ids {
		userCmds[id] = pipe.Get(ctx, userKey(id))
		friendCmds[id] = pipe.ZRange(ctx, friendsKey(id), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	for id, cmd := range userCmds {
		userJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get user %s: %w", id, err)
		}

		var stored storedUser
		if err := json.Unmarshal([]byte(userJSON), &stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
		}
		users[id] = stored.toUser(friendCmds[id].Val())
	}
	return users, nil
}

func (r *RedisRepository) UpdateWeight(ctx context.Context, u *user.User) error {
	current, err := r.GetUserByID(ctx, u.ID)
	if err != nil {
		return err
	}

	stored := toStored(current)
	stored.WeightKg = u.WeightKg
	stored.DailyGoalLiters = u.DailyGoalLiters
	stored.UpdatedAt = u.UpdatedAt

	userJSON, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	ok, err := r.client.SetXX(ctx, userKey(u.ID), userJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update weight: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRepository) AddFriendship(ctx context.Context, userID, friendID string) error {
	n, err := r.client.Exists(ctx, userKey(userID), userKey(friendID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}
	if n != 2 {
		return ErrNotFound
	}

	score := float64(time.Now().UnixNano())
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, friendsKey(userID), redis.Z{Score: score, Member: friendID})
		pipe.ZAddNX(ctx, friendsKey(friendID), redis.Z{Score: score, Member: userID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *RedisRepository) RemoveFriendship(ctx context.Context, userID, friendID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, friendsKey(userID), friendID)
		pipe.ZRem(ctx, friendsKey(friendID), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	return nil
}

func (r *RedisRepository) AppendIntake(ctx context.Context, e *intake.Event) error {
	if e == nil || e.UserID == "" {
		return errors.New("event and user ID cannot be empty")
	}
	score, err := dayScore(e.DayKey)
	if err != nil {
		return err
	}

	eventJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal intake: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, intakeKey(e.UserID, e.DayKey), eventJSON)
		pipe.ZAdd(ctx, intakeDaysKey(e.UserID), redis.Z{Score: score, Member: e.DayKey})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to log intake: %w", err)
	}
	return nil
}

func (r *RedisRepository) ListIntakeByDay(ctx context.Context, userID, dayKey string) ([]*intake.Event, error) {
	raw, err := r.client.LRange(ctx, intakeKey(userID, dayKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch intake: %w", err)
	}
	return decodeEvents(raw)
}

func (r *RedisRepository) ListIntakeRange(ctx context.Context, userID, fromDay, toDay string) ([]*intake.Event, error) {
	rng := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if fromDay != "" {
		score, err := dayScore(fromDay)
		if err != nil {
			return nil, err
		}
		rng.Min = strconv.FormatFloat(score, 'f', 0, 64)
	}
	if toDay != "" {
		score, err := dayScore(toDay)
		if err != nil {
			return nil, err
		}
		rng.Max = strconv.FormatFloat(score, 'f', 0, 64)
	}

	days, err := r.client.ZRangeByScore(ctx, intakeDaysKey(userID), rng).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch intake days: %w", err)
	}
	if len(days) == 0 {
		return []*intake.Event{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, 0, len(days))
	for _, day := range days {
		cmds = append(cmds, pipe.LRange(ctx, intakeKey(userID, day), 0, -1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch intake: %w", err)
	}

	events := []*intake.Event{}
	for _, cmd := range cmds {
		dayEvents, err := decodeEvents(cmd.Val())
		if err != nil {
			return nil, err
		}
		events = append(events, dayEvents...)
	}
	return events, nil
}

func decodeEvents(raw []string) ([]*intake.Event, error) {
	events := make([]*intake.Event, 0, len(raw))
	for _, item := range raw {
		var e intake.Event
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intake: %w", err)
		}
		events = append(events, &e)
	}
	return events, nil
}

func (r *RedisRepository) ListAchievements(ctx context.Context, userID string) ([]*achievement.Unlock, error) {
	raw, err := r.client.HGetAll(ctx, achievementsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}

	unlocks := make([]*achievement.Unlock, 0, len(raw))
	for _, item := range raw {
		var a achievement.Unlock
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal achievement: %w", err)
		}
		unlocks = append(unlocks, &a)
	}
	sort.Slice(unlocks, func(i, j int) bool { return unlocks[i].UnlockedAt.Before(unlocks[j].UnlockedAt) })
	return unlocks, nil
}

func (r *RedisRepository) RecordAchievement(ctx context.Context, a *achievement.Unlock) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	unlockJSON, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("failed to marshal achievement: %w", err)
	}

	created, err := r.client.HSetNX(ctx, achievementsKey(a.UserID), string(a.Type), unlockJSON).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record achievement: %w", err)
	}
	return created, nil
}
