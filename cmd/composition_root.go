package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	httpin "dropmarket/internal/adapters/in/http"
	"dropmarket/internal/adapters/out/eventbus"
	"dropmarket/internal/adapters/out/geo"
	"dropmarket/internal/adapters/out/kafka"
	"dropmarket/internal/adapters/out/notify"
	"dropmarket/internal/adapters/out/payment"
	"dropmarket/internal/adapters/out/postgres"
	"dropmarket/internal/adapters/out/postgres/courierrepo"
	"dropmarket/internal/adapters/out/postgres/deliveryrepo"
	"dropmarket/internal/adapters/out/postgres/paymentrepo"
	"dropmarket/internal/adapters/out/postgres/promorepo"
	"dropmarket/internal/adapters/out/postgres/reviewrepo"
	"dropmarket/internal/adapters/out/storage"
	"dropmarket/internal/core/application/usecases/commands"
	"dropmarket/internal/core/application/usecases/queries"
	"dropmarket/internal/core/domain/services"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/jobs"
	"dropmarket/internal/metrics"
	"dropmarket/internal/pkg/backoff"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	geoTimeout     = 5 * time.Second
	paymentTimeout = 10 * time.Second
)

// ErrKafkaNotConfigured reports that a Kafka-backed component was requested
// without KAFKA_HOSTS being set.
var ErrKafkaNotConfigured = errors.New("kafka is not configured")

// CompositionRoot wires adapters, handlers and jobs together. Optional
// subsystems come up only when configured; everything else falls back to a
// local implementation so a bare database is enough to run the service.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	hub       *eventbus.Hub
	publisher ports.EventPublisher
	planner   ports.RoutePlanner
	gateway   ports.PaymentGateway
	storage   ports.PhotoStorage
	notifier  ports.Notifier

	apiMetrics httpin.Metrics

	closers []func() error
}

// NewCompositionRoot builds the object graph from configuration.
func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	published := metrics.NewBroadcastEventsTotal()
	dropped := metrics.NewDroppedSubscriberSendsTotal()
	fallbacks := metrics.NewRoutingFallbacksTotal()
	root.apiMetrics = httpin.Metrics{
		DeliveriesCreated:   metrics.NewDeliveriesCreatedTotal(),
		AssignmentWins:      metrics.NewAssignmentWinsTotal(),
		AssignmentConflicts: metrics.NewAssignmentConflictsTotal(),
		IneligibleAccepts:   metrics.NewIneligibleAcceptsTotal(),
		Settlements:         metrics.NewSettlementsTotal(),
	}
	prometheus.MustRegister(
		published, dropped, fallbacks,
		root.apiMetrics.DeliveriesCreated,
		root.apiMetrics.AssignmentWins,
		root.apiMetrics.AssignmentConflicts,
		root.apiMetrics.IneligibleAccepts,
		root.apiMetrics.Settlements,
	)

	root.hub = eventbus.NewHub(logger, published, dropped)

	var bridge ports.EventPublisher
	if config.KafkaHosts != "" {
		kafkaPublisher, err := kafka.NewPublisher(
			strings.Split(config.KafkaHosts, ","),
			config.KafkaDeliveryEventsTopic,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		root.closers = append(root.closers, kafkaPublisher.Close)
		bridge = kafkaPublisher
	}
	root.publisher = eventbus.NewFanout(root.hub, bridge, logger)

	var planner ports.RoutePlanner = geo.NewClient(config.GeoServiceURL, geoTimeout, backoff.DefaultPolicy(), logger)
	if config.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		root.closers = append(root.closers, redisClient.Close)
		planner = geo.NewCachingPlanner(planner, redisClient, logger)
	}
	root.planner = geo.NewFallbackPlanner(planner, logger, fallbacks)

	if config.PaymentBaseURL != "" {
		root.gateway = payment.NewHTTPGateway(
			config.PaymentBaseURL,
			config.PaymentAPIKey,
			paymentTimeout,
			backoff.DefaultPolicy(),
			logger,
		)
	} else {
		root.gateway = payment.NewStubGateway()
	}

	if config.StorageBucket != "" {
		s3Storage, err := storage.NewS3PhotoStorage(ctx, storage.Config{
			Endpoint:      config.StorageEndpoint,
			Region:        config.StorageRegion,
			Bucket:        config.StorageBucket,
			AccessKey:     config.StorageAccessKey,
			SecretKey:     config.StorageSecretKey,
			UsePathStyle:  config.StorageUsePathStyle,
			PublicBaseURL: config.StoragePublicBaseURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create photo storage: %w", err)
		}
		root.storage = s3Storage
	} else {
		root.storage = storage.NewStubPhotoStorage()
	}

	if config.TelegramToken != "" {
		telegram, err := notify.NewTelegramNotifier(config.TelegramToken, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
		}
		root.notifier = telegram
	} else {
		root.notifier = notify.NewSlogNotifier(logger)
	}

	return root, nil
}

// Close shuts down every adapter that holds a connection.
func (c *CompositionRoot) Close() {
	c.hub.Close()
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			c.logger.Error("Failed to close adapter", "error", err)
		}
	}
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	var f commands.CreationUoWFactory = FuncCreationUoWFactory(func() commands.CreationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDeliveryCommandHandler(f, c.planner, services.NewPricer(), c.publisher)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptDeliveryCommandHandler(f, c.publisher, c.notifier)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelDeliveryCommandHandler(f, c.publisher, c.notifier)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkPickedUpCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	var f commands.DispatchUoWFactory = FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkDeliveredCommandHandler(f, c.publisher, c.notifier)
}

func (c *CompositionRoot) CreateRecordCourierLocationCommandHandler() commands.RecordCourierLocationCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordCourierLocationCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateSettlePaymentCommandHandler() commands.SettlePaymentCommandHandler {
	var f commands.SettlementUoWFactory = FuncSettlementUoWFactory(func() commands.SettlementUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSettlePaymentCommandHandler(f, c.gateway, c.publisher, c.notifier)
}

func (c *CompositionRoot) CreateSweepExpiredOffersCommandHandler() commands.SweepExpiredOffersCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepExpiredOffersCommandHandler(f, c.publisher, c.notifier)
}

func (c *CompositionRoot) CreateRetrySettlementsCommandHandler() commands.RetrySettlementsCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRetrySettlementsCommandHandler(f, c.CreateSettlePaymentCommandHandler())
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	return commands.NewRegisterCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	return commands.NewSetCourierAvailabilityCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateVerifyCourierCommandHandler() commands.VerifyCourierCommandHandler {
	return commands.NewVerifyCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateSubmitReviewCommandHandler() commands.SubmitReviewCommandHandler {
	var f commands.ReviewUoWFactory = FuncReviewUoWFactory(func() commands.ReviewUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitReviewCommandHandler(f)
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryTrackingQueryHandler() queries.GetDeliveryTrackingQueryHandler {
	return queries.NewGetDeliveryTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOpenDeliveriesQueryHandler() queries.ListOpenDeliveriesQueryHandler {
	return queries.NewListOpenDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierQueryHandler() queries.GetCourierQueryHandler {
	return queries.NewGetCourierQueryHandler(c.gormDB)
}

// CreateServer assembles the HTTP server with every handler wired in.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	handlers := httpin.Handlers{
		CreateDelivery:        c.CreateCreateDeliveryCommandHandler(),
		CancelDelivery:        c.CreateCancelDeliveryCommandHandler(),
		AcceptDelivery:        c.CreateAcceptDeliveryCommandHandler(),
		MarkPickedUp:          c.CreateMarkPickedUpCommandHandler(),
		MarkDelivered:         c.CreateMarkDeliveredCommandHandler(),
		RecordLocation:        c.CreateRecordCourierLocationCommandHandler(),
		SettlePayment:         c.CreateSettlePaymentCommandHandler(),
		SubmitReview:          c.CreateSubmitReviewCommandHandler(),
		RegisterCourier:       c.CreateRegisterCourierCommandHandler(),
		SetAvailability:       c.CreateSetCourierAvailabilityCommandHandler(),
		UpdateCourierLocation: c.CreateUpdateCourierLocationCommandHandler(),
		VerifyCourier:         c.CreateVerifyCourierCommandHandler(),
		GetDelivery:           c.CreateGetDeliveryQueryHandler(),
		GetDeliveryTracking:   c.CreateGetDeliveryTrackingQueryHandler(),
		ListOpenDeliveries:    c.CreateListOpenDeliveriesQueryHandler(),
		GetCourier:            c.CreateGetCourierQueryHandler(),
	}

	return httpin.NewServer(handlers, c.hub, c.publisher, c.storage, c.apiMetrics, c.logger)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepExpiredOffersCommandHandler(),
		c.CreateRetrySettlementsCommandHandler(),
		c.logger,
	)
}

// CreatePartnerOrderConsumer assembles the Kafka consumer that turns partner
// orders into deliveries. Returns an error when Kafka is not configured.
func (c *CompositionRoot) CreatePartnerOrderConsumer() (*kafka.PartnerOrderConsumer, error) {
	if c.config.KafkaHosts == "" {
		return nil, ErrKafkaNotConfigured
	}

	return kafka.NewPartnerOrderConsumer(
		strings.Split(c.config.KafkaHosts, ","),
		c.config.KafkaConsumerGroup,
		c.config.KafkaPartnerOrdersTopic,
		c.CreateCreateDeliveryCommandHandler(),
		c.logger,
	)
}

// ConnectDB opens the Postgres connection. TranslateError turns driver
// errors into gorm sentinels the repositories match on.
func ConnectDB(config Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode,
	)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// MigrateDB creates or updates the schema for every persisted model.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.PackageDTO{},
		&deliveryrepo.TrackingRecordDTO{},
		&courierrepo.CourierDTO{},
		&promorepo.PromoCodeDTO{},
		&promorepo.PromoUsageDTO{},
		&reviewrepo.ReviewDTO{},
		&paymentrepo.TransactionDTO{},
	)
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncCreationUoWFactory func() commands.CreationUoW

func (f FuncCreationUoWFactory) Create() commands.CreationUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}
