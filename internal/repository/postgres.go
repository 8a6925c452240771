package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/user"
)

//go:embed schema.sql
var schemaSQL string

const (
	pgUniqueViolation     = "23505"
	friendCodeConstraint  = "users_friend_code_key"
	pgForeignKeyViolation = "23503"
)

const userColumns = `
	u.id, u.auth_id, u.email, u.display_name, u.weight_kg, u.daily_goal_liters,
	u.friend_code, u.timezone, u.created_at, u.updated_at,
	COALESCE(
		(SELECT array_agg(f.friend_id ORDER BY f.created_at, f.friend_id)
		 FROM friendships f WHERE f.user_id = u.id),
		'{}'
	)`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) (*PostgresRepository, error) {
	if db == nil {
		return nil, errors.New("database pool cannot be nil")
	}
	return &PostgresRepository{db: db}, nil
}

// Migrate creates the tables if they are missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepository) Close() error {
	r.db.Close()
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (id, auth_id, email, display_name, weight_kg, daily_goal_liters, friend_code, timezone, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.AuthID,
		u.Email,
		u.DisplayName,
		u.WeightKg,
		u.DailyGoalLiters,
		u.FriendCode,
		u.Timezone,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == friendCodeConstraint {
				return ErrFriendCodeTaken
			}
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	return r.getUser(ctx, `SELECT`+userColumns+` FROM users u WHERE u.id = $1`, id)
}

func (r *PostgresRepository) GetUserByAuthID(ctx context.Context, authID string) (*user.User, error) {
	return r.getUser(ctx, `SELECT`+userColumns+` FROM users u WHERE u.auth_id = $1`, authID)
}

func (r *PostgresRepository) GetUserByFriendCode(ctx context.Context, code string) (*user.User, error) {
	return r.getUser(ctx, `SELECT`+userColumns+` FROM users u WHERE u.friend_code = $1`, code)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	users := make(map[string]*user.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := r.db.Query(ctx, `SELECT`+userColumns+` FROM users u WHERE u.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *PostgresRepository) UpdateWeight(ctx context.Context, u *user.User) error {
	query := `
	UPDATE users
	SET weight_kg = $2, daily_goal_liters = $3, updated_at = $4
	WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, u.ID, u.WeightKg, u.DailyGoalLiters, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update weight: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AddFriendship(ctx context.Context, userID, friendID string) error {
	// Both directions go in one statement so a pair is never half written.
	query := `
	INSERT INTO friendships (user_id, friend_id, created_at)
	VALUES ($1, $2, NOW()), ($2, $1, NOW())
	ON CONFLICT (user_id, friend_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, friendID); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFriendship(ctx context.Context, userID, friendID string) error {
	query := `
	DELETE FROM friendships
	WHERE (user_id = $1 AND friend_id = $2)
	   OR (user_id = $2 AND friend_id = $1)
	`

	if _, err := r.db.Exec(ctx, query, userID, friendID); err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AppendIntake(ctx context.Context, e *intake.Event) error {
	query := `
	INSERT INTO water_intakes (id, user_id, amount_ml, occurred_at, day_key)
	VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.Exec(ctx, query, e.ID, e.UserID, e.AmountMl, e.OccurredAt, e.DayKey); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to log intake: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListIntakeByDay(ctx context.Context, userID, dayKey string) ([]*intake.Event, error) {
	query := `
	SELECT id, user_id, amount_ml, occurred_at, day_key
	FROM water_intakes
	WHERE user_id = $1 AND day_key = $2
	ORDER BY occurred_at
	`
	return r.listIntake(ctx, query, userID, dayKey)
}

func (r *PostgresRepository) ListIntakeRange(ctx context.Context, userID, fromDay, toDay string) ([]*intake.Event, error) {
	query := `
	SELECT id, user_id, amount_ml, occurred_at, day_key
	FROM water_intakes
	WHERE user_id = $1
		AND ($2 = '' OR day_key >= $2)
		AND ($3 = '' OR day_key <= $3)
	ORDER BY occurred_at
	`
	return r.listIntake(ctx, query, userID, fromDay, toDay)
}

func (r *PostgresRepository) listIntake(ctx context.Context, query string, args ...any) ([]*intake.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch intake: %w", err)
	}
	defer rows.Close()

	events := []*intake.Event{}
	for rows.Next() {
		e := &intake.Event{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.AmountMl, &e.OccurredAt, &e.DayKey); err != nil {
			return nil, fmt.Errorf("failed to scan intake: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intake: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) ListAchievements(ctx context.Context, userID string) ([]*achievement.Unlock, error) {
	query := `
	SELECT id, user_id, type, unlocked_at
	FROM achievements
	WHERE user_id = $1
	ORDER BY unlocked_at
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	unlocks := []*achievement.Unlock{}
	for rows.Next() {
		a := &achievement.Unlock{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocks = append(unlocks, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return unlocks, nil
}

func (r *PostgresRepository) RecordAchievement(ctx context.Context, a *achievement.Unlock) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	query := `
	INSERT INTO achievements (id, user_id, type, unlocked_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, type) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, a.ID, a.UserID, string(a.Type), a.UnlockedAt)
	if err != nil {
		return false, fmt.Errorf("failed to record achievement: %w", err)
	}
	if result.RowsAffected() == 0 {
		log.Printf("RecordAchievement: %s already unlocked for user %s", a.Type, a.UserID)
		return false, nil
	}
	return true, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.AuthID,
		&u.Email,
		&u.DisplayName,
		&u.WeightKg,
		&u.DailyGoalLiters,
		&u.FriendCode,
		&u.Timezone,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.FriendIDs,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
