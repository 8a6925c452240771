package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hydrateMeAPI/internal/achievement"
	"hydrateMeAPI/internal/common/clock"
	"hydrateMeAPI/internal/intake"
	"hydrateMeAPI/internal/notification"
	repoMocks "hydrateMeAPI/internal/repository/mocks"
	"hydrateMeAPI/internal/user"
	"hydrateMeAPI/services/mocks"
)

type AchievementServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockRepo     *repoMocks.MockRepository
	mockNotifier *mocks.MockNotifier
	service      *AchievementService
	ctx          context.Context

	testTime time.Time
	testUser *user.User
}

func (s *AchievementServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = repoMocks.NewMockRepository(s.mockCtrl)
	s.mockNotifier = mocks.NewMockNotifier(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	s.service = NewAchievementService(s.mockRepo, s.mockNotifier, &clock.Fixed{At: s.testTime})

	s.testUser = &user.User{
		ID:              "user-1",
		AuthID:          "auth-1",
		DisplayName:     "Test",
		WeightKg:        70,
		DailyGoalLiters: 3.5,
		FriendIDs:       []string{},
		Timezone:        "UTC",
	}
}

func TestAchievementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AchievementServiceTestSuite))
}

func (s *AchievementServiceTestSuite) event(ml int) *intake.Event {
	e, err := intake.NewEvent(s.testUser.ID, ml, s.testTime, time.UTC)
	s.Require().NoError(err)
	return e
}

func (s *AchievementServiceTestSuite) TestRecordsAndNotifiesNewUnlock() {
	s.mockRepo.EXPECT().ListIntakeRange(s.ctx, "user-1", "", "").Return([]*intake.Event{s.event(250)}, nil)
	s.mockRepo.EXPECT().ListAchievements(s.ctx, "user-1").Return(nil, nil)
	s.mockRepo.EXPECT().RecordAchievement(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *achievement.Unlock) (bool, error) {
			s.Equal(achievement.TypeFirstDrop, u.Type)
			s.Equal(s.testTime, u.UnlockedAt)
			return true, nil
		})
	s.mockNotifier.EXPECT().Notify(gomock.Any()).Do(func(n *notification.Notification) {
		s.Equal(notification.NotificationAchievement, n.Type)
		s.Equal("user-1", n.UserID)
	})

	unlocked, err := s.service.EvaluateAndRecord(s.ctx, s.testUser)
	s.Require().NoError(err)
	s.Require().Len(unlocked, 1)
	s.Equal(achievement.TypeFirstDrop, unlocked[0].Type)
}

func (s *AchievementServiceTestSuite) TestAlreadyRecordedIsNotRecordedAgain() {
	s.mockRepo.EXPECT().ListIntakeRange(s.ctx, "user-1", "", "").Return([]*intake.Event{s.event(250)}, nil)
	s.mockRepo.EXPECT().ListAchievements(s.ctx, "user-1").Return([]*achievement.Unlock{
		achievement.NewUnlock("user-1", achievement.TypeFirstDrop, s.testTime.AddDate(0, 0, -3)),
	}, nil)

	unlocked, err := s.service.EvaluateAndRecord(s.ctx, s.testUser)
	s.Require().NoError(err)
	s.Empty(unlocked)
}

func (s *AchievementServiceTestSuite) TestConcurrentDuplicateIsSilent() {
	s.mockRepo.EXPECT().ListIntakeRange(s.ctx, "user-1", "", "").Return([]*intake.Event{s.event(250)}, nil)
	s.mockRepo.EXPECT().ListAchievements(s.ctx, "user-1").Return(nil, nil)
	s.mockRepo.EXPECT().RecordAchievement(s.ctx, gomock.Any()).Return(false, nil)
	s.mockNotifier.EXPECT().Notify(gomock.Any()).Times(0)

	unlocked, err := s.service.EvaluateAndRecord(s.ctx, s.testUser)
	s.Require().NoError(err)
	s.Empty(unlocked)
}

func (s *AchievementServiceTestSuite) TestInvalidGoalStillEarnsFirstDrop() {
	s.testUser.DailyGoalLiters = 0

	// 4000 ml would satisfy any positive goal.
	s.mockRepo.EXPECT().ListIntakeRange(s.ctx, "user-1", "", "").Return([]*intake.Event{s.event(4000)}, nil)
	s.mockRepo.EXPECT().ListAchievements(s.ctx, "user-1").Return(nil, nil)
	s.mockRepo.EXPECT().RecordAchievement(s.ctx, gomock.Any()).Return(true, nil)
	s.mockNotifier.EXPECT().Notify(gomock.Any())

	unlocked, err := s.service.EvaluateAndRecord(s.ctx, s.testUser)
	s.Require().NoError(err)
	s.Require().Len(unlocked, 1)
	s.Equal(achievement.TypeFirstDrop, unlocked[0].Type)
}

func (s *AchievementServiceTestSuite) TestRepositoryErrors() {
	boom := errors.New("boom")

	s.mockRepo.EXPECT().ListIntakeRange(s.ctx, "user-1", "", "").Return(nil, boom)
	_, err := s.service.EvaluateAndRecord(s.ctx, s.testUser)
	s.ErrorIs(err, boom)

	s.mockRepo.EXPECT().ListIntakeRange(s.ctx, "user-1", "", "").Return([]*intake.Event{s.event(250)}, nil)
	s.mockRepo.EXPECT().ListAchievements(s.ctx, "user-1").Return(nil, nil)
	s.mockRepo.EXPECT().RecordAchievement(s.ctx, gomock.Any()).Return(false, boom)
	_, err = s.service.EvaluateAndRecord(s.ctx, s.testUser)
	s.ErrorIs(err, boom)

	s.mockRepo.EXPECT().GetUserByAuthID(s.ctx, "auth-1").Return(nil, boom)
	_, err = s.service.GetAchievements(s.ctx, "auth-1")
	s.ErrorIs(err, boom)
}

func (s *AchievementServiceTestSuite) TestGetAchievementsSummary() {
	s.mockRepo.EXPECT().GetUserByAuthID(s.ctx, "auth-1").Return(s.testUser, nil)
	s.mockRepo.EXPECT().ListAchievements(s.ctx, "user-1").Return([]*achievement.Unlock{
		achievement.NewUnlock("user-1", achievement.TypeFirstDrop, s.testTime),
	}, nil)

	summary, err := s.service.GetAchievements(s.ctx, "auth-1")
	s.Require().NoError(err)
	s.Equal(1, summary.UnlockedCount)
	s.Equal(len(achievement.Definitions), summary.TotalCount)
}
