package profile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/user"
	"github.com/snacktrack/assessor/internal/ports/inbound"
	"github.com/snacktrack/assessor/internal/ports/outbound"
	"github.com/snacktrack/assessor/pkg/errors"
	"github.com/snacktrack/assessor/pkg/validation"
	"github.com/snacktrack/assessor/test/testutils"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	users   *testutils.MockUserRepository
	cache   *testutils.MockCacheRepository
	events  *testutils.RecordingPublisher
	metrics *testutils.RecordingMetrics
	service inbound.ProfileService
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.users = new(testutils.MockUserRepository)
	suite.cache = new(testutils.MockCacheRepository)
	suite.events = &testutils.RecordingPublisher{}
	suite.metrics = testutils.NewRecordingMetrics()

	logger := zaptest.NewLogger(suite.T())
	suite.service = NewService(
		suite.users,
		suite.cache,
		suite.events,
		suite.metrics,
		physiology.Default(),
		validation.New(logger),
		Config{MetricsTTL: 10 * time.Minute},
		logger,
	)
}

func (suite *ServiceTestSuite) registerCommand() inbound.RegisterUserCommand {
	return inbound.RegisterUserCommand{
		Email: "ada@example.com",
		Name:  "Ada",
		Profile: inbound.HealthProfileInput{
			Age:               25,
			Sex:               "male",
			HeightCm:          175,
			WeightKg:          70,
			ActivityLevel:     "moderate",
			Goal:              "maintain",
			DietaryPreference: "vegan",
			Allergies:         []string{" Nuts ", "nuts", "Soy"},
		},
	}
}

func (suite *ServiceTestSuite) TestRegisterUser() {
	suite.Run("ValidCommand_ShouldCreateNormalizedProfile", func() {
		suite.SetupTest()
		suite.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, outbound.ErrNotFound)
		suite.users.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)

		// Act
		dto, err := suite.service.RegisterUser(suite.ctx, suite.registerCommand())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{"nuts", "soy"}, dto.Profile.Allergies)
		assert.Equal(suite.T(), 1, dto.ProfileVersion)
		assert.Equal(suite.T(), []string{user.EventUserRegistered}, suite.events.Names())
	})

	suite.Run("TakenEmail_ShouldConflict", func() {
		suite.SetupTest()
		existing := testutils.NewUserBuilder().WithEmail("ada@example.com").MustBuild()
		suite.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(existing, nil)

		_, err := suite.service.RegisterUser(suite.ctx, suite.registerCommand())

		testutils.ErrorCode(suite.T(), err, errors.CodeEmailAlreadyExists)
		suite.users.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	})

	suite.Run("UniqueViolationOnCreate_ShouldConflict", func() {
		suite.SetupTest()
		suite.users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, outbound.ErrNotFound)
		suite.users.On("Create", mock.Anything, mock.Anything).Return(outbound.ErrDuplicate)

		_, err := suite.service.RegisterUser(suite.ctx, suite.registerCommand())

		testutils.ErrorCode(suite.T(), err, errors.CodeEmailAlreadyExists)
	})

	suite.Run("UnknownVocabulary_ShouldFailValidation", func() {
		suite.SetupTest()
		cmd := suite.registerCommand()
		cmd.Profile.ActivityLevel = "couch_potato"

		_, err := suite.service.RegisterUser(suite.ctx, cmd)

		testutils.ErrorCode(suite.T(), err, errors.CodeValidationFailed)
	})
}

func (suite *ServiceTestSuite) TestUpdateHealthProfile() {
	u := testutils.NewUserBuilder().MustBuild()
	suite.users.On("FindByID", mock.Anything, u.ID()).Return(u, nil)
	suite.users.On("Update", mock.Anything, u).Return(nil)
	suite.cache.On("Delete", mock.Anything, []string{metricsKey(u.ID(), 1)}).Return(nil)

	dto, err := suite.service.UpdateHealthProfile(suite.ctx, inbound.UpdateProfileCommand{
		UserID:  u.ID(),
		Profile: inbound.HealthProfileInput{Age: 40, HeightCm: 180, WeightKg: 90, Goal: "lose_weight"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, dto.ProfileVersion)
	assert.Equal(suite.T(), 40, dto.Profile.Age)
	assert.Equal(suite.T(), []string{user.EventHealthProfileUpdated}, suite.events.Names())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *ServiceTestSuite) TestGetHealthMetrics() {
	suite.Run("CacheMiss_ShouldComputeAndStore", func() {
		suite.SetupTest()
		u := testutils.NewUserBuilder().MustBuild()
		key := metricsKey(u.ID(), 1)
		suite.users.On("FindByID", mock.Anything, u.ID()).Return(u, nil)
		suite.cache.On("Get", mock.Anything, key).Return(nil, outbound.ErrCacheMiss)
		suite.cache.On("Set", mock.Anything, key, mock.Anything, 10*time.Minute).Return(nil)

		dto, err := suite.service.GetHealthMetrics(suite.ctx, u.ID())

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), dto.Metrics.BMI)
		assert.InDelta(suite.T(), 22.9, *dto.Metrics.BMI, 0.001)
		require.NotNil(suite.T(), dto.Metrics.TDEE)
		assert.Equal(suite.T(), 2594, *dto.Metrics.TDEE)
		suite.cache.AssertExpectations(suite.T())
	})

	suite.Run("CacheHit_ShouldReturnStoredMetrics", func() {
		suite.SetupTest()
		u := testutils.NewUserBuilder().MustBuild()
		tdee := 1234
		stored, err := json.Marshal(inbound.HealthMetricsDTO{
			UserID:         u.ID(),
			ProfileVersion: 1,
			Metrics:        physiology.Metrics{TDEE: &tdee},
		})
		require.NoError(suite.T(), err)
		suite.users.On("FindByID", mock.Anything, u.ID()).Return(u, nil)
		suite.cache.On("Get", mock.Anything, metricsKey(u.ID(), 1)).Return(stored, nil)

		dto, err := suite.service.GetHealthMetrics(suite.ctx, u.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 1234, *dto.Metrics.TDEE)
		assert.Equal(suite.T(), 1, suite.metrics.CacheHits[true])
	})
}

func (suite *ServiceTestSuite) TestGetDailyTargets() {
	suite.Run("CompleteProfile_ShouldReturnTargets", func() {
		suite.SetupTest()
		u := testutils.NewUserBuilder().MustBuild()
		suite.users.On("FindByID", mock.Anything, u.ID()).Return(u, nil)

		targets, err := suite.service.GetDailyTargets(suite.ctx, u.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 2594, targets.TDEE)
		assert.Equal(suite.T(), 2594, targets.Calories)
	})

	suite.Run("IncompleteProfile_ShouldReturnInvalidProfileData", func() {
		suite.SetupTest()
		u := testutils.NewUserBuilder().WithProfile(user.HealthProfile{}).MustBuild()
		suite.users.On("FindByID", mock.Anything, u.ID()).Return(u, nil)

		_, err := suite.service.GetDailyTargets(suite.ctx, u.ID())

		testutils.ErrorCode(suite.T(), err, errors.CodeInvalidProfileData)
		assert.True(suite.T(), stderrors.Is(err, physiology.ErrInvalidProfileData))
	})
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
