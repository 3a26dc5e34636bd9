package deliveryrepo

import (
	"context"
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery with its packages and the initial tracking
// record.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing delivery. Packages never change after creation
// and are skipped; tracking rows are append-only, so rows already persisted
// are left untouched and only new ones are inserted.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Tracking) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dto.Tracking).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery by ID with its packages and tracking history.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a delivery by ID with a row lock. Concurrent
// acceptance attempts serialize on this lock; it must run inside a
// transaction.
func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormDeliveryRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	err := db.WithContext(ctx).
		Preload("Packages").
		Preload("Tracking", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenExpired retrieves deliveries still waiting for a courier whose
// offer deadline passed. The rows are locked so concurrent sweeps and late
// acceptance attempts serialize on them.
func (r *GormDeliveryRepository) GetOpenExpired(ctx context.Context, now time.Time) ([]*delivery.Delivery, error) {
	return r.find(ctx, r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ?", int(delivery.Requested)).
		Where("offer_expires_at <= ?", now))
}

// GetDeliveredUnpaid retrieves delivered deliveries whose settlement is
// still pending or failed. Used by the settlement retry sweep.
func (r *GormDeliveryRepository) GetDeliveredUnpaid(ctx context.Context) ([]kernel.UUID, error) {
	var rawIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("status = ?", int(delivery.Delivered)).
		Where("payment_status IN ?", []int{int(delivery.PaymentPending), int(delivery.PaymentFailed)}).
		Order("updated_at").
		Pluck("id", &rawIDs).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rawIDs))
	for _, rawID := range rawIDs {
		id, idErr := kernel.UUIDFromBytes(rawID[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *GormDeliveryRepository) find(ctx context.Context, db *gorm.DB) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := db.WithContext(ctx).
		Preload("Packages").
		Preload("Tracking", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, aggregate)
	}

	return deliveries, nil
}
