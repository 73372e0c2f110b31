package assessment

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/health"
	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/domain/user"
	"github.com/snacktrack/assessor/internal/ports/inbound"
	"github.com/snacktrack/assessor/internal/ports/outbound"
	"github.com/snacktrack/assessor/pkg/errors"
	"github.com/snacktrack/assessor/pkg/validation"
	"github.com/snacktrack/assessor/test/testutils"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	users       *testutils.MockUserRepository
	products    *testutils.MockProductRepository
	assessments *testutils.MockAssessmentRepository
	cache       *testutils.MockCacheRepository
	events      *testutils.RecordingPublisher
	metrics     *testutils.RecordingMetrics
	service     *Service

	user    *user.User
	product *product.Product
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.users = new(testutils.MockUserRepository)
	suite.products = new(testutils.MockProductRepository)
	suite.assessments = new(testutils.MockAssessmentRepository)
	suite.cache = new(testutils.MockCacheRepository)
	suite.events = &testutils.RecordingPublisher{}
	suite.metrics = testutils.NewRecordingMetrics()

	logger := zaptest.NewLogger(suite.T())
	suite.service = NewService(
		suite.users,
		suite.products,
		suite.assessments,
		suite.cache,
		suite.events,
		suite.metrics,
		assessment.NewDefaultEngine(),
		validation.New(logger),
		Config{CacheTTL: time.Hour},
		logger,
	).(*Service)

	suite.user = testutils.NewUserBuilder().MustBuild()
	suite.product = testutils.NewProductBuilder().MustBuild()

	suite.cache.On("Get", mock.Anything, mock.Anything).Return(nil, outbound.ErrCacheMiss).Maybe()
	suite.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil).Maybe()
	suite.cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *ServiceTestSuite) existingAssessment() *assessment.Assessment {
	eval, err := assessment.NewDefaultEngine().Evaluate(assessment.Input{
		Profile:   suite.user.Profile(),
		Nutrition: suite.product.Nutrition(),
	})
	require.NoError(suite.T(), err)

	a := assessment.NewAssessment(suite.user.ID(), suite.product.ID(), eval)
	a.Events()
	return a
}

func (suite *ServiceTestSuite) command(force bool) inbound.AssessCommand {
	return inbound.AssessCommand{
		UserID:        suite.user.ID(),
		ProductID:     suite.product.ID(),
		ForceReassess: force,
	}
}

func (suite *ServiceTestSuite) expectLoads() {
	suite.users.On("FindByID", mock.Anything, suite.user.ID()).Return(suite.user, nil)
	suite.products.On("FindByID", mock.Anything, suite.product.ID()).Return(suite.product, nil)
}

func (suite *ServiceTestSuite) TestAssess() {
	suite.Run("NewPair_ShouldCreateAndPublish", func() {
		suite.SetupTest()
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).
			Return(nil, outbound.ErrNotFound)
		suite.expectLoads()
		suite.assessments.On("Create", mock.Anything, mock.AnythingOfType("*assessment.Assessment")).Return(nil)

		// Act
		dto, err := suite.service.Assess(suite.ctx, suite.command(false))

		// Assert
		require.NoError(suite.T(), err)
		testutils.NewAssessmentAssertions(suite.T()).Consistent(dto)
		assert.Equal(suite.T(), suite.user.ID(), dto.UserID)
		assert.True(suite.T(), dto.Active)
		assert.Equal(suite.T(), []string{assessment.EventAssessmentCreated}, suite.events.Names())
		assert.Equal(suite.T(), 1, suite.metrics.Outcome(outbound.OutcomeCreated))
		suite.assessments.AssertExpectations(suite.T())
	})

	suite.Run("ExistingActive_ShouldReturnUnchanged", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).Return(existing, nil)

		dto, err := suite.service.Assess(suite.ctx, suite.command(false))

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), existing.ID(), dto.ID)
		assert.Equal(suite.T(), existing.Score(), dto.PersonalizedScore)
		assert.Empty(suite.T(), suite.events.Names())
		suite.assessments.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
		suite.users.AssertNotCalled(suite.T(), "FindByID", mock.Anything, mock.Anything)
	})

	suite.Run("CachedActive_ShouldSkipRepository", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		data, err := json.Marshal(inbound.NewAssessmentDTO(existing))
		require.NoError(suite.T(), err)

		suite.cache.ExpectedCalls = nil
		suite.cache.On("Get", mock.Anything, activeKey(suite.user.ID(), suite.product.ID())).Return(data, nil)

		dto, err := suite.service.Assess(suite.ctx, suite.command(false))

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), existing.ID(), dto.ID)
		assert.Equal(suite.T(), existing.Recommendation(), dto.Recommendation)
		assert.Equal(suite.T(), 1, suite.metrics.CacheHits[true])
		suite.assessments.AssertNotCalled(suite.T(), "FindActive", mock.Anything, mock.Anything, mock.Anything)
	})

	suite.Run("LostRace_ShouldReturnWinner", func() {
		suite.SetupTest()
		winner := suite.existingAssessment()
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).
			Return(nil, outbound.ErrNotFound).Once()
		suite.expectLoads()
		suite.assessments.On("Create", mock.Anything, mock.Anything).Return(outbound.ErrDuplicateAssessment)
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).
			Return(winner, nil).Once()

		dto, err := suite.service.Assess(suite.ctx, suite.command(false))

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), winner.ID(), dto.ID)
		assert.Empty(suite.T(), suite.events.Names())
		assert.Equal(suite.T(), 1, suite.metrics.Outcome(outbound.OutcomeRaceLost))
	})

	suite.Run("ForceReassess_ShouldSupersedePrevious", func() {
		suite.SetupTest()
		previous := suite.existingAssessment()
		suite.expectLoads()
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).Return(previous, nil)
		suite.assessments.On("Replace", mock.Anything,
			mock.MatchedBy(func(a *assessment.Assessment) bool { return a.ID() == previous.ID() && !a.IsActive() }),
			mock.MatchedBy(func(a *assessment.Assessment) bool { return a.ID() != previous.ID() && a.IsActive() }),
		).Return(nil)

		dto, err := suite.service.Assess(suite.ctx, suite.command(true))

		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), previous.ID(), dto.ID)
		assert.Equal(suite.T(), []string{
			assessment.EventAssessmentSuperseded,
			assessment.EventAssessmentCreated,
		}, suite.events.Names())
		assert.Equal(suite.T(), 1, suite.metrics.Outcome(outbound.OutcomeReassessed))
		suite.assessments.AssertExpectations(suite.T())
	})

	suite.Run("ForceReassessWithoutPrevious_ShouldCreate", func() {
		suite.SetupTest()
		suite.expectLoads()
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).
			Return(nil, outbound.ErrNotFound)
		suite.assessments.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := suite.service.Assess(suite.ctx, suite.command(true))

		require.NoError(suite.T(), err)
		suite.assessments.AssertNotCalled(suite.T(), "Replace", mock.Anything, mock.Anything, mock.Anything)
	})

	suite.Run("MissingNutrition_ShouldReturnDomainCause", func() {
		suite.SetupTest()
		suite.product = testutils.NewProductBuilder().WithNutrition(nil).MustBuild()
		suite.expectLoads()
		suite.assessments.On("FindActive", mock.Anything, suite.user.ID(), suite.product.ID()).
			Return(nil, outbound.ErrNotFound)

		dto, err := suite.service.Assess(suite.ctx, suite.command(false))

		assert.Nil(suite.T(), dto)
		testutils.ErrorCode(suite.T(), err, errors.CodeMissingNutritionData)
		assert.True(suite.T(), stderrors.Is(err, assessment.ErrMissingNutritionData))
		assert.Equal(suite.T(), 1, suite.metrics.Outcome(outbound.OutcomeMissingNutrition))
		suite.assessments.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	})

	suite.Run("UnknownUser_ShouldFail", func() {
		suite.SetupTest()
		suite.assessments.On("FindActive", mock.Anything, mock.Anything, mock.Anything).Return(nil, outbound.ErrNotFound)
		suite.users.On("FindByID", mock.Anything, mock.Anything).Return(nil, outbound.ErrNotFound)

		_, err := suite.service.Assess(suite.ctx, suite.command(false))

		testutils.ErrorCode(suite.T(), err, errors.CodeUserNotFound)
	})

	suite.Run("UnknownProduct_ShouldFail", func() {
		suite.SetupTest()
		suite.assessments.On("FindActive", mock.Anything, mock.Anything, mock.Anything).Return(nil, outbound.ErrNotFound)
		suite.users.On("FindByID", mock.Anything, suite.user.ID()).Return(suite.user, nil)
		suite.products.On("FindByID", mock.Anything, mock.Anything).Return(nil, outbound.ErrNotFound)

		_, err := suite.service.Assess(suite.ctx, suite.command(false))

		testutils.ErrorCode(suite.T(), err, errors.CodeProductNotFound)
	})

	suite.Run("MissingIDs_ShouldFailValidation", func() {
		suite.SetupTest()

		_, err := suite.service.Assess(suite.ctx, inbound.AssessCommand{})

		testutils.ErrorCode(suite.T(), err, errors.CodeValidationFailed)
	})

	suite.Run("RepositoryFailure_ShouldReturnDatabaseError", func() {
		suite.SetupTest()
		suite.assessments.On("FindActive", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, stderrors.New("connection reset"))

		_, err := suite.service.Assess(suite.ctx, suite.command(false))

		testutils.ErrorCode(suite.T(), err, errors.CodeDatabaseError)
		assert.Equal(suite.T(), 1, suite.metrics.Outcome(outbound.OutcomeFailed))
	})
}

func (suite *ServiceTestSuite) TestAttachFeedback() {
	rating := 4
	notes := "  <i>too</i>   salty "

	suite.Run("Owner_ShouldStoreFeedback", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)
		suite.assessments.On("Update", mock.Anything, existing).Return(nil)

		dto, err := suite.service.AttachFeedback(suite.ctx, inbound.FeedbackCommand{
			AssessmentID: existing.ID(),
			UserID:       suite.user.ID(),
			Rating:       &rating,
			Notes:        &notes,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 4, *dto.UserRating)
		assert.Equal(suite.T(), "too salty", *dto.UserNotes)
		assert.Equal(suite.T(), existing.Score(), dto.PersonalizedScore)
		assert.Equal(suite.T(), []string{assessment.EventFeedbackAttached}, suite.events.Names())
		suite.cache.AssertCalled(suite.T(), "Delete", mock.Anything, []string{activeKey(suite.user.ID(), suite.product.ID())})
	})

	suite.Run("OutOfRangeRating_ShouldRejectAsInvalidFeedback", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)
		bad := 6

		_, err := suite.service.AttachFeedback(suite.ctx, inbound.FeedbackCommand{
			AssessmentID: existing.ID(),
			UserID:       suite.user.ID(),
			Rating:       &bad,
		})

		testutils.ErrorCode(suite.T(), err, errors.CodeInvalidFeedback)
		assert.True(suite.T(), stderrors.Is(err, assessment.ErrInvalidFeedback))
		assert.Nil(suite.T(), existing.UserRating())
		suite.assessments.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
	})

	suite.Run("EmptyFeedback_ShouldReject", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)

		_, err := suite.service.AttachFeedback(suite.ctx, inbound.FeedbackCommand{
			AssessmentID: existing.ID(),
			UserID:       suite.user.ID(),
		})

		testutils.ErrorCode(suite.T(), err, errors.CodeInvalidFeedback)
	})

	suite.Run("OtherUser_ShouldBeForbidden", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)

		_, err := suite.service.AttachFeedback(suite.ctx, inbound.FeedbackCommand{
			AssessmentID: existing.ID(),
			UserID:       uuid.New(),
			Rating:       &rating,
		})

		testutils.ErrorCode(suite.T(), err, errors.CodeInsufficientPermissions)
	})

	suite.Run("UnknownAssessment_ShouldBeNotFound", func() {
		suite.SetupTest()
		suite.assessments.On("FindByID", mock.Anything, mock.Anything).Return(nil, outbound.ErrNotFound)

		_, err := suite.service.AttachFeedback(suite.ctx, inbound.FeedbackCommand{
			AssessmentID: uuid.New(),
			UserID:       suite.user.ID(),
			Rating:       &rating,
		})

		testutils.ErrorCode(suite.T(), err, errors.CodeAssessmentNotFound)
	})
}

func (suite *ServiceTestSuite) TestDeleteAssessment() {
	suite.Run("Owner_ShouldDelete", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)
		suite.assessments.On("Delete", mock.Anything, existing.ID()).Return(nil)

		err := suite.service.DeleteAssessment(suite.ctx, existing.ID(), suite.user.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []string{assessment.EventAssessmentDeleted}, suite.events.Names())
		suite.assessments.AssertExpectations(suite.T())
	})

	suite.Run("OtherUser_ShouldBeForbidden", func() {
		suite.SetupTest()
		existing := suite.existingAssessment()
		suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)

		err := suite.service.DeleteAssessment(suite.ctx, existing.ID(), uuid.New())

		testutils.ErrorCode(suite.T(), err, errors.CodeInsufficientPermissions)
		assert.True(suite.T(), stderrors.Is(err, assessment.ErrNotAssessmentOwner))
		suite.assessments.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
	})
}

func (suite *ServiceTestSuite) TestGetAssessment() {
	suite.SetupTest()
	existing := suite.existingAssessment()
	suite.assessments.On("FindByID", mock.Anything, existing.ID()).Return(existing, nil)

	dto, err := suite.service.GetAssessment(suite.ctx, existing.ID(), suite.user.ID())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), existing.ID(), dto.ID)

	_, err = suite.service.GetAssessment(suite.ctx, existing.ID(), uuid.New())
	testutils.ErrorCode(suite.T(), err, errors.CodeAssessmentNotFound)
}

func (suite *ServiceTestSuite) TestListAssessments() {
	suite.SetupTest()
	items := []*assessment.Assessment{suite.existingAssessment(), suite.existingAssessment()}
	suite.assessments.On("FindByUser", mock.Anything, suite.user.ID(), 0, defaultPageSize).Return(items, 7, nil)

	list, err := suite.service.ListAssessments(suite.ctx, suite.user.ID(), inbound.PaginationParams{})

	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list.Assessments, 2)
	assert.Equal(suite.T(), 7, list.Total)
	assert.Equal(suite.T(), defaultPageSize, list.Limit)
}

func (suite *ServiceTestSuite) TestStats() {
	suite.Run("MixedTiers_ShouldWeightAndZeroFill", func() {
		suite.SetupTest()
		suite.users.On("FindByID", mock.Anything, suite.user.ID()).Return(suite.user, nil)
		suite.assessments.On("CountByRecommendation", mock.Anything, suite.user.ID()).Return(map[assessment.Recommendation]int{
			assessment.RecommendationExcellent: 2,
			assessment.RecommendationAvoid:     1,
		}, nil)

		stats, err := suite.service.Stats(suite.ctx, suite.user.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 3, stats.Total)
		assert.Equal(suite.T(), 75, stats.OverallHealthScore)
		assert.Equal(suite.T(), 0, stats.Counts[assessment.RecommendationGood])
		assert.Len(suite.T(), stats.Counts, 4)
	})

	suite.Run("NoAssessments_ShouldScoreZero", func() {
		suite.SetupTest()
		suite.users.On("FindByID", mock.Anything, suite.user.ID()).Return(suite.user, nil)
		suite.assessments.On("CountByRecommendation", mock.Anything, suite.user.ID()).
			Return(map[assessment.Recommendation]int{}, nil)

		stats, err := suite.service.Stats(suite.ctx, suite.user.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 0, stats.Total)
		assert.Equal(suite.T(), 0, stats.OverallHealthScore)
	})
}

func (suite *ServiceTestSuite) TestScanIngredients() {
	suite.SetupTest()
	vegan := testutils.NewUserBuilder().WithDiet(health.DietVegan).MustBuild()
	suite.users.On("FindByID", mock.Anything, vegan.ID()).Return(vegan, nil)

	result, err := suite.service.ScanIngredients(suite.ctx, inbound.ScanCommand{
		UserID:      vegan.ID(),
		Ingredients: []string{"whey protein", "oats"},
	})

	require.NoError(suite.T(), err)
	require.Len(suite.T(), result.Verdicts, 2)
	assert.Equal(suite.T(), compatibility.ImpactAvoid, result.Verdicts[0].Impact)
	assert.Equal(suite.T(), compatibility.ImpactSafe, result.Verdicts[1].Impact)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
