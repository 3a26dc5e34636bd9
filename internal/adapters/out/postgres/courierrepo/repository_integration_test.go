package courierrepo_test

import (
	"context"
	"testing"
	"time"

	"dropmarket/internal/adapters/out/postgres/courierrepo"
	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// CourierRepositoryIntegrationTestSuite provides integration tests for
// CourierRepository using PostgreSQL containers to verify persistence
// behavior.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *courierrepo.GormCourierRepository
	tracker    *MockAggregateTracker
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&courierrepo.CourierDTO{}))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE couriers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = courierrepo.NewGormCourierRepository(suite.db, suite.tracker)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_ValidCourier_Success() {
	ctx := context.Background()
	testCourier := suite.createTestCourier(40.7138, -74.0050)

	suite.tracker.On("TrackAggregate", testCourier.ID(), testCourier).Once()

	err := suite.repository.Add(ctx, testCourier)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Table("couriers").Count(&count).Error)
	suite.Equal(int64(1), count)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_RoundTrip() {
	ctx := context.Background()
	testCourier := suite.createTestCourier(40.7138, -74.0050)
	suite.Require().NoError(testCourier.Approve())
	suite.Require().NoError(testCourier.SetAvailability(true))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testCourier))

	retrieved, err := suite.repository.Get(ctx, testCourier.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(testCourier.ID()))
	suite.Equal(testCourier.Name(), retrieved.Name())
	suite.Equal(testCourier.Phone(), retrieved.Phone())
	suite.Equal(courier.VerificationApproved, retrieved.Verification())
	suite.True(retrieved.IsAvailable())
	suite.Equal(testCourier.MaxConcurrent(), retrieved.MaxConcurrent())
	suite.InDelta(testCourier.ServiceRadiusKm(), retrieved.ServiceRadiusKm(), 0.001)
	suite.InDelta(testCourier.Location().Latitude(), retrieved.Location().Latitude(), 0.000001)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_PersistsRatingAggregate() {
	ctx := context.Background()
	testCourier := suite.createTestCourier(40.7138, -74.0050)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testCourier))

	suite.Require().NoError(testCourier.Approve())
	suite.Require().NoError(testCourier.RecalculateRating(9, 2))
	suite.Require().NoError(suite.repository.Update(ctx, testCourier))

	retrieved, err := suite.repository.Get(ctx, testCourier.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(9), retrieved.RatingSum())
	suite.Equal(int64(2), retrieved.RatingCount())
	suite.InDelta(4.5, retrieved.AverageRating(), 0.001)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetEligibleForPickup_Filters() {
	ctx := context.Background()
	pickup, err := kernel.NewGeoPoint(40.7128, -74.0060)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	eligible := suite.createTestCourier(40.7138, -74.0050)
	suite.Require().NoError(eligible.Approve())
	suite.Require().NoError(eligible.SetAvailability(true))
	suite.Require().NoError(suite.repository.Add(ctx, eligible))

	pending := suite.createTestCourier(40.7138, -74.0050)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	offline := suite.createTestCourier(40.7138, -74.0050)
	suite.Require().NoError(offline.Approve())
	suite.Require().NoError(suite.repository.Add(ctx, offline))

	// London is far outside a 50 km service radius around New York.
	farAway := suite.createTestCourier(51.5074, -0.1278)
	suite.Require().NoError(farAway.Approve())
	suite.Require().NoError(farAway.SetAvailability(true))
	suite.Require().NoError(suite.repository.Add(ctx, farAway))

	atCapacity := suite.createTestCourier(40.7138, -74.0050)
	suite.Require().NoError(atCapacity.Approve())
	suite.Require().NoError(atCapacity.SetAvailability(true))
	for range atCapacity.MaxConcurrent() {
		suite.Require().NoError(atCapacity.Reserve())
	}
	suite.Require().NoError(suite.repository.Add(ctx, atCapacity))

	couriers, err := suite.repository.GetEligibleForPickup(ctx, pickup)
	suite.Require().NoError(err)

	suite.Require().Len(couriers, 1)
	suite.True(couriers[0].ID().IsEqual(eligible.ID()))
}

func (suite *CourierRepositoryIntegrationTestSuite) createTestCourier(lat, lon float64) *courier.Courier {
	location, err := kernel.NewGeoPoint(lat, lon)
	suite.Require().NoError(err)

	testCourier, err := courier.NewCourier(kernel.NewUUID(), "Jane Smith", "+15550100", 3, 50, location)
	suite.Require().NoError(err)
	return testCourier
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
