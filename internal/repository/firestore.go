package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/user"
)

const (
	usersCollection        = "users"
	intakesCollection      = "waterIntakes"
	achievementsCollection = "achievements"
)

type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) (*FirestoreRepository, error) {
	if client == nil {
		return nil, errors.New("firestore client cannot be nil")
	}
	return &FirestoreRepository{client: client}, nil
}

func (r *FirestoreRepository) Ping(ctx context.Context) error {
	_, err := r.client.Collection(usersCollection).Limit(1).Documents(ctx).GetAll()
	return err
}

func (r *FirestoreRepository) Close() error {
	return r.client.Close()
}

func isCode(err error, code codes.Code) bool {
	return status.Code(err) == code
}

func (r *FirestoreRepository) CreateUser(ctx context.Context, u *user.User) error {
	users := r.client.Collection(usersCollection)

	// Auth id and friend code have no unique index in Firestore, so both are
	// checked inside the same transaction that creates the document.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		checks := []struct {
			query firestore.Query
			err   error
		}{
			{users.Where("authId", "==", u.AuthID).Limit(1), ErrAlreadyExists},
			{users.Where("friendCode", "==", u.FriendCode).Limit(1), ErrFriendCodeTaken},
		}
		for _, c := range checks {
			docs, err := tx.Documents(c.query).GetAll()
			if err != nil {
				return err
			}
			if len(docs) > 0 {
				return c.err
			}
		}
		return tx.Create(users.Doc(u.ID), u)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return err
		}
		if isCode(err, codes.AlreadyExists) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	snap, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if isCode(err, codes.NotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return decodeUser(snap)
}

func (r *FirestoreRepository) GetUserByAuthID(ctx context.Context, authID string) (*user.User, error) {
	return r.firstUser(ctx, r.client.Collection(usersCollection).Where("authId", "==", authID))
}

func (r *FirestoreRepository) GetUserByFriendCode(ctx context.Context, code string) (*user.User, error) {
	return r.firstUser(ctx, r.client.Collection(usersCollection).Where("friendCode", "==", code))
}

func (r *FirestoreRepository) firstUser(ctx context.Context, q firestore.Query) (*user.User, error) {
	iter := q.Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return decodeUser(snap)
}

func (r *FirestoreRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	users := make(map[string]*user.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		refs = append(refs, r.client.Collection(usersCollection).Doc(id))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users[u.ID] = u
	}
	return users, nil
}

func (r *FirestoreRepository) UpdateWeight(ctx context.Context, u *user.User) error {
	_, err := r.client.Collection(usersCollection).Doc(u.ID).Update(ctx, []firestore.Update{
		{Path: "weight", Value: u.WeightKg},
		{Path: "dailyGoal", Value: u.DailyGoalLiters},
		{Path: "updatedAt", Value: u.UpdatedAt},
	})
	if err != nil {
		if isCode(err, codes.NotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update weight: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) AddFriendship(ctx context.Context, userID, friendID string) error {
	users := r.client.Collection(usersCollection)
	userRef, friendRef := users.Doc(userID), users.Doc(friendID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, ref := range []*firestore.DocumentRef{userRef, friendRef} {
			if _, err := tx.Get(ref); err != nil {
				if isCode(err, codes.NotFound) {
					return ErrNotFound
				}
				return err
			}
		}
		if err := tx.Update(userRef, []firestore.Update{{Path: "friends", Value: firestore.ArrayUnion(friendID)}}); err != nil {
			return err
		}
		return tx.Update(friendRef, []firestore.Update{{Path: "friends", Value: firestore.ArrayUnion(userID)}})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) RemoveFriendship(ctx context.Context, userID, friendID string) error {
	users := r.client.Collection(usersCollection)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		pairs := []struct {
			ref    *firestore.DocumentRef
			remove string
		}{
			{users.Doc(userID), friendID},
			{users.Doc(friendID), userID},
		}

		// Reads must come before writes inside a transaction.
		var existing []int
		for i, p := range pairs {
			if _, err := tx.Get(p.ref); err != nil {
				if isCode(err, codes.NotFound) {
					continue
				}
				return err
			}
			existing = append(existing, i)
		}
		for _, i := range existing {
			p := pairs[i]
			if err := tx.Update(p.ref, []firestore.Update{{Path: "friends", Value: firestore.ArrayRemove(p.remove)}}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) AppendIntake(ctx context.Context, e *intake.Event) error {
	if _, err := r.client.Collection(intakesCollection).Doc(e.ID).Set(ctx, e); err != nil {
		return fmt.Errorf("failed to log intake: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) ListIntakeByDay(ctx context.Context, userID, dayKey string) ([]*intake.Event, error) {
	q := r.client.Collection(intakesCollection).
		Where("userId", "==", userID).
		Where("date", "==", dayKey)
	return r.listIntake(ctx, q)
}

func (r *FirestoreRepository) ListIntakeRange(ctx context.Context, userID, fromDay, toDay string) ([]*intake.Event, error) {
	q := r.client.Collection(intakesCollection).Where("userId", "==", userID)
	if fromDay != "" {
		q = q.Where("date", ">=", fromDay)
	}
	if toDay != "" {
		q = q.Where("date", "<=", toDay)
	}
	return r.listIntake(ctx, q)
}

func (r *FirestoreRepository) listIntake(ctx context.Context, q firestore.Query) ([]*intake.Event, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch intake: %w", err)
	}

	events := make([]*intake.Event, 0, len(snaps))
	for _, snap := range snaps {
		var e intake.Event
		if err := snap.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to decode intake %s: %w", snap.Ref.ID, err)
		}
		if e.ID == "" {
			e.ID = snap.Ref.ID
		}
		events = append(events, &e)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].OccurredAt.Before(events[j].OccurredAt) })
	return events, nil
}

func (r *FirestoreRepository) ListAchievements(ctx context.Context, userID string) ([]*achievement.Unlock, error) {
	snaps, err := r.client.Collection(achievementsCollection).Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}

	unlocks := make([]*achievement.Unlock, 0, len(snaps))
	for _, snap := range snaps {
		var a achievement.Unlock
		if err := snap.DataTo(&a); err != nil {
			return nil, fmt.Errorf("failed to decode achievement %s: %w", snap.Ref.ID, err)
		}
		unlocks = append(unlocks, &a)
	}
	sort.Slice(unlocks, func(i, j int) bool { return unlocks[i].UnlockedAt.Before(unlocks[j].UnlockedAt) })
	return unlocks, nil
}

// RecordAchievement keys the document by user and type so Create rejects duplicates.
func (r *FirestoreRepository) RecordAchievement(ctx context.Context, a *achievement.Unlock) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}

	docID := a.UserID + "_" + string(a.Type)
	if _, err := r.client.Collection(achievementsCollection).Doc(docID).Create(ctx, a); err != nil {
		if isCode(err, codes.AlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record achievement: %w", err)
	}
	return true, nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*user.User, error) {
	var u user.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	if u.ID == "" {
		u.ID = snap.Ref.ID
	}
	if u.FriendIDs == nil {
		u.FriendIDs = []string{}
	}
	return &u, nil
}
