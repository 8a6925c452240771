package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hydrateMeAPI/internal/repository"
	repoMocks "hydrateMeAPI/internal/repository/mocks"
	"hydrateMeAPI/internal/user"
)

func TestGetProfileRejectsInvalidGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repoMocks.NewMockRepository(ctrl)
	svc := NewUserService(repo, nil, nil, "")

	repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").
		Return(&user.User{ID: "u1", AuthID: "auth-1", WeightKg: 70}, nil)

	_, err := svc.GetProfile(context.Background(), "auth-1")
	assert.ErrorIs(t, err, user.ErrInvalidGoal)
}

func TestGetProfileMapsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repoMocks.NewMockRepository(ctrl)
	svc := NewUserService(repo, nil, nil, "")

	repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").Return(nil, repository.ErrNotFound)

	_, err := svc.GetProfile(context.Background(), "auth-1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetProfile(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserRetriesFriendCodeCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repoMocks.NewMockRepository(ctrl)
	svc := NewUserService(repo, nil, nil, "UTC")

	gomock.InOrder(
		repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").Return(nil, repository.ErrNotFound),
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(repository.ErrFriendCodeTaken),
		repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").Return(nil, repository.ErrNotFound),
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil),
	)

	u, created, err := svc.CreateUser(context.Background(), "auth-1", &user.CreateUserRequest{DisplayName: "A", WeightKg: 60})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 3.0, u.DailyGoalLiters)
}

func TestCreateUserGivesUpAfterRepeatedCollisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repoMocks.NewMockRepository(ctrl)
	svc := NewUserService(repo, nil, nil, "UTC")

	repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").Return(nil, repository.ErrNotFound).Times(maxFriendCodeAttempts + 1)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(repository.ErrFriendCodeTaken).Times(maxFriendCodeAttempts)

	_, _, err := svc.CreateUser(context.Background(), "auth-1", &user.CreateUserRequest{DisplayName: "A", WeightKg: 60})
	assert.ErrorIs(t, err, ErrFriendCodeExhausted)
}

func TestCreateUserDoesNotRetryAuthCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repoMocks.NewMockRepository(ctrl)
	svc := NewUserService(repo, nil, nil, "UTC")

	repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").Return(nil, repository.ErrNotFound).Times(2)
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(repository.ErrAlreadyExists).Times(1)

	_, _, err := svc.CreateUser(context.Background(), "auth-1", &user.CreateUserRequest{DisplayName: "A", WeightKg: 60})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.NotErrorIs(t, err, ErrFriendCodeExhausted)
}

func TestUpdateWeightPropagatesStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repoMocks.NewMockRepository(ctrl)
	svc := NewUserService(repo, nil, nil, "UTC")

	repo.EXPECT().GetUserByAuthID(gomock.Any(), "auth-1").
		Return(&user.User{ID: "u1", WeightKg: 70, DailyGoalLiters: 3.5}, nil)
	repo.EXPECT().UpdateWeight(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.Equal(t, 80.0, u.WeightKg)
			assert.Equal(t, 4.0, u.DailyGoalLiters)
			return errors.New("connection reset")
		})

	_, err := svc.UpdateWeight(context.Background(), "auth-1", 80)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update weight")
}
