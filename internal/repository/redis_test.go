package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/user"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&RedisConfig{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newUser(authID, code string, weight float64) *user.User {
	u, err := user.New(authID, authID+"@example.com", "User "+authID, weight, "UTC")
	s.Require().NoError(err)
	u.FriendCode = code
	return u
}

func (s *RedisRepositoryTestSuite) TestNewRedisValidatesConfig() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&RedisConfig{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestCreateAndGetUser() {
	u := s.newUser("auth-1", "ABCD1234", 70)
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	byID, err := s.repo.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.AuthID, byID.AuthID)
	s.Equal(70.0, byID.WeightKg)
	s.InDelta(3.5, byID.DailyGoalLiters, 1e-9)
	s.Empty(byID.FriendIDs)
	s.NotNil(byID.FriendIDs)

	byAuth, err := s.repo.GetUserByAuthID(s.ctx, "auth-1")
	s.Require().NoError(err)
	s.Equal(u.ID, byAuth.ID)

	byCode, err := s.repo.GetUserByFriendCode(s.ctx, "ABCD1234")
	s.Require().NoError(err)
	s.Equal(u.ID, byCode.ID)
}

func (s *RedisRepositoryTestSuite) TestGetUserNotFound() {
	_, err := s.repo.GetUserByID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.GetUserByAuthID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.GetUserByFriendCode(s.ctx, "ZZZZZZZZ")
	s.ErrorIs(err, ErrNotFound)
}

func (s *RedisRepositoryTestSuite) TestCreateUserRejectsDuplicates() {
	first := s.newUser("auth-1", "ABCD1234", 70)
	s.Require().NoError(s.repo.CreateUser(s.ctx, first))

	sameAuth := s.newUser("auth-1", "WXYZ9876", 80)
	err := s.repo.CreateUser(s.ctx, sameAuth)
	s.ErrorIs(err, ErrAlreadyExists)
	s.NotErrorIs(err, ErrFriendCodeTaken)

	sameCode := s.newUser("auth-2", "ABCD1234", 80)
	err = s.repo.CreateUser(s.ctx, sameCode)
	s.ErrorIs(err, ErrFriendCodeTaken)
	s.ErrorIs(err, ErrAlreadyExists)
	s.False(s.mr.Exists("user_auth:auth-2"))

	// The failed attempt reserved nothing.
	retry := s.newUser("auth-2", "QRST5678", 80)
	s.NoError(s.repo.CreateUser(s.ctx, retry))
}

func (s *RedisRepositoryTestSuite) TestUpdateWeight() {
	u := s.newUser("auth-1", "ABCD1234", 70)
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	s.Require().NoError(u.SetWeight(80))
	s.Require().NoError(s.repo.UpdateWeight(s.ctx, u))

	got, err := s.repo.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(80.0, got.WeightKg)
	s.InDelta(4.0, got.DailyGoalLiters, 1e-9)
	s.Equal(u.FriendCode, got.FriendCode)

	missing := s.newUser("ghost", "GHOST000", 70)
	s.ErrorIs(s.repo.UpdateWeight(s.ctx, missing), ErrNotFound)
}

func (s *RedisRepositoryTestSuite) TestFriendshipIsSymmetric() {
	a := s.newUser("auth-a", "AAAAAAAA", 70)
	b := s.newUser("auth-b", "BBBBBBBB", 60)
	s.Require().NoError(s.repo.CreateUser(s.ctx, a))
	s.Require().NoError(s.repo.CreateUser(s.ctx, b))

	s.Require().NoError(s.repo.AddFriendship(s.ctx, a.ID, b.ID))
	// Adding twice is a no-op.
	s.Require().NoError(s.repo.AddFriendship(s.ctx, b.ID, a.ID))

	gotA, err := s.repo.GetUserByID(s.ctx, a.ID)
	s.Require().NoError(err)
	gotB, err := s.repo.GetUserByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal([]string{b.ID}, gotA.FriendIDs)
	s.Equal([]string{a.ID}, gotB.FriendIDs)

	s.Require().NoError(s.repo.RemoveFriendship(s.ctx, a.ID, b.ID))
	gotA, err = s.repo.GetUserByID(s.ctx, a.ID)
	s.Require().NoError(err)
	gotB, err = s.repo.GetUserByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Empty(gotA.FriendIDs)
	s.Empty(gotB.FriendIDs)
}

func (s *RedisRepositoryTestSuite) TestAddFriendshipUnknownUser() {
	a := s.newUser("auth-a", "AAAAAAAA", 70)
	s.Require().NoError(s.repo.CreateUser(s.ctx, a))

	s.ErrorIs(s.repo.AddFriendship(s.ctx, a.ID, "ghost"), ErrNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetUsersByIDsSkipsMissing() {
	a := s.newUser("auth-a", "AAAAAAAA", 70)
	b := s.newUser("auth-b", "BBBBBBBB", 60)
	s.Require().NoError(s.repo.CreateUser(s.ctx, a))
	s.Require().NoError(s.repo.CreateUser(s.ctx, b))

	users, err := s.repo.GetUsersByIDs(s.ctx, []string{a.ID, "ghost", b.ID})
	s.Require().NoError(err)
	s.Len(users, 2)
	s.Contains(users, a.ID)
	s.Contains(users, b.ID)
	s.NotContains(users, "ghost")

	empty, err := s.repo.GetUsersByIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *RedisRepositoryTestSuite) TestIntakeByDayAndRange() {
	loc := time.UTC
	for _, in := range []struct {
		amount int
		at     time.Time
	}{
		{500, s.testNow.AddDate(0, 0, -2)},
		{250, s.testNow.AddDate(0, 0, -1)},
		{750, s.testNow},
		{1000, s.testNow.Add(time.Hour)},
	} {
		e, err := intake.NewEvent("u1", in.amount, in.at, loc)
		s.Require().NoError(err)
		s.Require().NoError(s.repo.AppendIntake(s.ctx, e))
	}

	today, err := s.repo.ListIntakeByDay(s.ctx, "u1", "2025-06-10")
	s.Require().NoError(err)
	s.Len(today, 2)
	s.Equal(1750, intake.SumMl(today))

	none, err := s.repo.ListIntakeByDay(s.ctx, "u1", "2025-01-01")
	s.Require().NoError(err)
	s.Empty(none)

	lastTwo, err := s.repo.ListIntakeRange(s.ctx, "u1", "2025-06-09", "2025-06-10")
	s.Require().NoError(err)
	s.Equal(2000, intake.SumMl(lastTwo))

	all, err := s.repo.ListIntakeRange(s.ctx, "u1", "", "")
	s.Require().NoError(err)
	s.Len(all, 4)

	_, err = s.repo.ListIntakeRange(s.ctx, "u1", "June 9", "")
	s.ErrorIs(err, intake.ErrInvalidDayKey)
}

func (s *RedisRepositoryTestSuite) TestRecordAchievementOncePerType() {
	first := achievement.NewUnlock("u1", achievement.TypeFirstDrop, s.testNow)
	created, err := s.repo.RecordAchievement(s.ctx, first)
	s.Require().NoError(err)
	s.True(created)

	again := achievement.NewUnlock("u1", achievement.TypeFirstDrop, s.testNow.Add(time.Hour))
	created, err = s.repo.RecordAchievement(s.ctx, again)
	s.Require().NoError(err)
	s.False(created)

	hero := achievement.NewUnlock("u1", achievement.TypeHydrationHero, s.testNow.Add(2*time.Hour))
	_, err = s.repo.RecordAchievement(s.ctx, hero)
	s.Require().NoError(err)

	unlocks, err := s.repo.ListAchievements(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(unlocks, 2)
	s.Equal(achievement.TypeFirstDrop, unlocks[0].Type)
	s.Equal(first.ID, unlocks[0].ID)
	s.Equal(achievement.TypeHydrationHero, unlocks[1].Type)
}

func (s *RedisRepositoryTestSuite) TestCreateUserReclaimsStaleAuthIndex() {
	s.Require().NoError(s.mr.Set("user_auth:auth-1", "ghost-id"))

	u := s.newUser("auth-1", "ABCD1234", 70)
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	got, err := s.repo.GetUserByAuthID(s.ctx, "auth-1")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	byCode, err := s.repo.GetUserByFriendCode(s.ctx, "ABCD1234")
	s.Require().NoError(err)
	s.Equal(u.ID, byCode.ID)
}

func (s *RedisRepositoryTestSuite) TestCreateUserWritesNothingOnCodeCollision() {
	s.Require().NoError(s.mr.Set("friend_code:ABCD1234", "someone"))

	u := s.newUser("auth-1", "ABCD1234", 70)
	s.ErrorIs(s.repo.CreateUser(s.ctx, u), ErrFriendCodeTaken)
	s.False(s.mr.Exists("user_auth:auth-1"))
	s.False(s.mr.Exists("user:" + u.ID))
}

func (s *RedisRepositoryTestSuite) TestRecordAchievementRejectsUnknownType() {
	created, err := s.repo.RecordAchievement(s.ctx, achievement.NewUnlock("u1", achievement.Type("night_owl"), s.testNow))
	s.ErrorIs(err, achievement.ErrUnknownType)
	s.False(created)
	s.False(s.mr.Exists("achievements:u1"))
}
