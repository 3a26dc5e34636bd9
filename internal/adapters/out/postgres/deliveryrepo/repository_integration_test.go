package deliveryrepo_test

import (
	"context"
	"testing"
	"time"

	"dropmarket/internal/adapters/out/postgres/deliveryrepo"
	"dropmarket/internal/core/domain/model/delivery"
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

// DeliveryRepositoryIntegrationTestSuite provides integration tests for
// DeliveryRepository using PostgreSQL containers. The delivery aggregate
// spans three tables, so the round-trip tests cover packages and tracking
// alongside the delivery row.
type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *deliveryrepo.GormDeliveryRepository
	tracker    *MockAggregateTracker
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.PackageDTO{},
		&deliveryrepo.TrackingRecordDTO{},
	))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE tracking_records, packages, deliveries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.db, suite.tracker)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery(5 * time.Minute)

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.True(retrieved.ID().IsEqual(aggregate.ID()))
	suite.Equal(aggregate.Number(), retrieved.Number())
	suite.True(retrieved.SenderID().IsEqual(aggregate.SenderID()))
	suite.Equal(delivery.Requested, retrieved.Status())
	suite.Equal(delivery.PaymentPending, retrieved.PaymentStatus())
	suite.Equal(aggregate.InstrumentRef(), retrieved.InstrumentRef())
	suite.Equal(aggregate.Pickup().Street(), retrieved.Pickup().Street())
	suite.Equal(aggregate.Dropoff().Street(), retrieved.Dropoff().Street())
	suite.Nil(retrieved.Courier())

	suite.Require().Len(retrieved.Packages(), len(aggregate.Packages()))
	suite.True(retrieved.Packages()[0].ID().IsEqual(aggregate.Packages()[0].ID()))
	suite.Equal(aggregate.Packages()[0].WeightGrams(), retrieved.Packages()[0].WeightGrams())

	quote := retrieved.Quote()
	suite.Equal(aggregate.Quote().Total().AmountCents(), quote.Total().AmountCents())
	suite.Equal(aggregate.Quote().SurgeBasisPoints(), quote.SurgeBasisPoints())
	suite.InDelta(aggregate.Quote().DistanceKm(), quote.DistanceKm(), 0.001)

	suite.Require().Len(retrieved.Tracking(), 1)
	suite.Equal(delivery.Requested, retrieved.Tracking()[0].Status())
	suite.True(retrieved.Tracking()[0].IsMilestone())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_AppendsTracking() {
	ctx := context.Background()
	aggregate := suite.createTestDelivery(5 * time.Minute)
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	courierID := kernel.NewUUID()
	suite.Require().NoError(aggregate.Assign(courierID, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	retrieved, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.Equal(delivery.CourierAssigned, retrieved.Status())
	suite.Require().NotNil(retrieved.Courier())
	suite.True(retrieved.Courier().IsEqual(courierID))

	// One record from creation, one from the assignment, in order.
	suite.Require().Len(retrieved.Tracking(), 2)
	suite.Equal(delivery.Requested, retrieved.Tracking()[0].Status())
	suite.Equal(delivery.CourierAssigned, retrieved.Tracking()[1].Status())

	// A second update of the same state must not duplicate tracking rows.
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))
	retrieved, err = suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Len(retrieved.Tracking(), 2)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetOpenExpired() {
	ctx := context.Background()

	expired := suite.createTestDelivery(time.Millisecond)
	suite.Require().NoError(suite.repository.Add(ctx, expired))

	open := suite.createTestDelivery(time.Hour)
	suite.Require().NoError(suite.repository.Add(ctx, open))

	assigned := suite.createTestDelivery(time.Millisecond)
	suite.Require().NoError(assigned.Assign(kernel.NewUUID(), time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, assigned))

	deliveries, err := suite.repository.GetOpenExpired(ctx, time.Now().Add(time.Second))
	suite.Require().NoError(err)

	suite.Require().Len(deliveries, 1)
	suite.True(deliveries[0].ID().IsEqual(expired.ID()))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetDeliveredUnpaid() {
	ctx := context.Background()

	delivered := suite.createDeliveredDelivery()
	suite.Require().NoError(suite.repository.Add(ctx, delivered))

	paid := suite.createDeliveredDelivery()
	suite.Require().NoError(paid.MarkPaid(time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, paid))

	requested := suite.createTestDelivery(time.Hour)
	suite.Require().NoError(suite.repository.Add(ctx, requested))

	ids, err := suite.repository.GetDeliveredUnpaid(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(ids, 1)
	suite.True(ids[0].IsEqual(delivered.ID()))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) createTestDelivery(offerTTL time.Duration) *delivery.Delivery {
	pickup := suite.createAddress("1 Main St", 40.7128, -74.0060)
	dropoff := suite.createAddress("2 Broad St", 40.7484, -73.9857)

	declaredValue, err := kernel.NewMoney(2_000, "USD")
	suite.Require().NoError(err)
	pkg, err := delivery.NewPackage(kernel.NewUUID(), delivery.SizeSmall, 1_500, declaredValue, false, false)
	suite.Require().NoError(err)

	quote := suite.createQuote()

	aggregate, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		pickup,
		dropoff,
		[]*delivery.Package{pkg},
		delivery.KindStandard,
		quote,
		"tok_4242",
		offerTTL,
		time.Now(),
	)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *DeliveryRepositoryIntegrationTestSuite) createDeliveredDelivery() *delivery.Delivery {
	aggregate := suite.createTestDelivery(time.Hour)
	courierID := kernel.NewUUID()
	point, err := kernel.NewGeoPoint(40.7300, -73.9950)
	suite.Require().NoError(err)

	suite.Require().NoError(aggregate.Assign(courierID, time.Now()))
	suite.Require().NoError(aggregate.MarkPickedUp(courierID, "https://photos/pickup.jpg", point, time.Now()))
	suite.Require().NoError(aggregate.MarkDelivered(courierID, "https://photos/drop.jpg", point, time.Now()))
	return aggregate
}

func (suite *DeliveryRepositoryIntegrationTestSuite) createAddress(street string, lat, lon float64) delivery.Address {
	point, err := kernel.NewGeoPoint(lat, lon)
	suite.Require().NoError(err)

	address, err := delivery.NewAddress(street, point)
	suite.Require().NoError(err)
	return address
}

func (suite *DeliveryRepositoryIntegrationTestSuite) createQuote() delivery.Quote {
	money := func(cents int64) kernel.Money {
		m, err := kernel.NewMoney(cents, "USD")
		suite.Require().NoError(err)
		return m
	}

	quote, err := delivery.NewQuote(
		money(250), money(300), money(150), money(0), money(0), money(0),
		10_000, 5.0, 15, false, "")
	suite.Require().NoError(err)
	return quote
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
