// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. The aggregate spans three tables: the delivery
// row with its embedded quote, the packages, and the append-only tracking
// records.
package deliveryrepo

import (
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. The quote breakdown is embedded with a quote_ column prefix so
// the priced components stay queryable without a join.
type DeliveryDTO struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Number           string              `gorm:"type:varchar(16);not null;uniqueIndex"`
	SenderID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	PickupStreet     string              `gorm:"type:varchar(255);not null"`
	PickupLat        float64             `gorm:"type:decimal(9,6);not null"`
	PickupLon        float64             `gorm:"type:decimal(9,6);not null"`
	DropoffStreet    string              `gorm:"type:varchar(255);not null"`
	DropoffLat       float64             `gorm:"type:decimal(9,6);not null"`
	DropoffLon       float64             `gorm:"type:decimal(9,6);not null"`
	Kind             int                 `gorm:"type:int;not null"`
	Status           int                 `gorm:"type:int;not null;index"`
	PaymentStatus    int                 `gorm:"type:int;not null"`
	CourierID        *uuid.UUID          `gorm:"type:uuid;index"`
	InstrumentRef    string              `gorm:"type:varchar(255);not null"`
	Quote            QuoteDTO            `gorm:"embedded;embeddedPrefix:quote_"`
	OfferExpiresAt   time.Time           `gorm:"not null;index"`
	RebroadcastCount int                 `gorm:"type:int;not null"`
	PickupProofURL   string              `gorm:"type:varchar(512)"`
	DeliveryProofURL string              `gorm:"type:varchar(512)"`
	CreatedAt        time.Time           `gorm:"not null"`
	UpdatedAt        time.Time           `gorm:"not null"`
	Packages         []PackageDTO        `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	Tracking         []TrackingRecordDTO `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// QuoteDTO represents the embedded price breakdown within the delivery
// table. All components share one currency.
type QuoteDTO struct {
	BaseCents              int64   `gorm:"type:bigint;not null"`
	DistanceCents          int64   `gorm:"type:bigint;not null"`
	PackageFeeCents        int64   `gorm:"type:bigint;not null"`
	PrioritySurchargeCents int64   `gorm:"type:bigint;not null"`
	InsuranceCents         int64   `gorm:"type:bigint;not null"`
	DiscountCents          int64   `gorm:"type:bigint;not null"`
	TotalCents             int64   `gorm:"type:bigint;not null"`
	Currency               string  `gorm:"type:varchar(3);not null"`
	SurgeBasisPoints       int64   `gorm:"type:bigint;not null"`
	DistanceKm             float64 `gorm:"type:decimal(8,3);not null"`
	DurationMin            int     `gorm:"type:int;not null"`
	Degraded               bool    `gorm:"type:boolean;not null"`
	PromoCode              string  `gorm:"type:varchar(64)"`
}

// PackageDTO represents one parcel row. Packages are written once with the
// delivery and never updated afterwards.
type PackageDTO struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Size                  int       `gorm:"type:int;not null"`
	WeightGrams           int       `gorm:"type:int;not null"`
	DeclaredValueCents    int64     `gorm:"type:bigint;not null"`
	DeclaredValueCurrency string    `gorm:"type:varchar(3);not null"`
	Fragile               bool      `gorm:"type:boolean;not null"`
	Insured               bool      `gorm:"type:boolean;not null"`
}

// TableName specifies the database table name for package entities.
func (PackageDTO) TableName() string {
	return "packages"
}

// TrackingRecordDTO represents one append-only tracking row, keyed by the
// delivery and its position in the history.
type TrackingRecordDTO struct {
	DeliveryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"type:int;primaryKey;autoIncrement:false"`
	Status     int       `gorm:"type:int;not null"`
	Lat        *float64  `gorm:"type:decimal(9,6)"`
	Lon        *float64  `gorm:"type:decimal(9,6)"`
	PhotoURL   string    `gorm:"type:varchar(512)"`
	Note       string    `gorm:"type:varchar(255)"`
	Milestone  bool      `gorm:"type:boolean;not null"`
	RecordedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for tracking records.
func (TrackingRecordDTO) TableName() string {
	return "tracking_records"
}

// fromDomain converts a delivery domain aggregate to its database
// representation. Tracking rows are numbered by their position in the
// history; the numbering is stable because the history is append-only.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	deliveryID := aggregate.ID().Bytes()

	var courierID *uuid.UUID
	if aggregate.Courier() != nil {
		raw := aggregate.Courier().Bytes()
		courierID = &raw
	}

	quote := aggregate.Quote()
	packages := make([]PackageDTO, 0, len(aggregate.Packages()))
	for _, pkg := range aggregate.Packages() {
		packages = append(packages, PackageDTO{
			ID:                    pkg.ID().Bytes(),
			DeliveryID:            deliveryID,
			Size:                  int(pkg.Size()),
			WeightGrams:           pkg.WeightGrams(),
			DeclaredValueCents:    pkg.DeclaredValue().AmountCents(),
			DeclaredValueCurrency: pkg.DeclaredValue().Currency(),
			Fragile:               pkg.Fragile(),
			Insured:               pkg.Insured(),
		})
	}

	tracking := make([]TrackingRecordDTO, 0, len(aggregate.Tracking()))
	for i, record := range aggregate.Tracking() {
		var lat, lon *float64
		if record.Point() != nil {
			latValue := record.Point().Latitude()
			lonValue := record.Point().Longitude()
			lat, lon = &latValue, &lonValue
		}

		tracking = append(tracking, TrackingRecordDTO{
			DeliveryID: deliveryID,
			Seq:        i + 1,
			Status:     int(record.Status()),
			Lat:        lat,
			Lon:        lon,
			PhotoURL:   record.PhotoURL(),
			Note:       record.Note(),
			Milestone:  record.IsMilestone(),
			RecordedAt: record.At(),
		})
	}

	return DeliveryDTO{
		ID:            deliveryID,
		Number:        aggregate.Number(),
		SenderID:      aggregate.SenderID().Bytes(),
		PickupStreet:  aggregate.Pickup().Street(),
		PickupLat:     aggregate.Pickup().Point().Latitude(),
		PickupLon:     aggregate.Pickup().Point().Longitude(),
		DropoffStreet: aggregate.Dropoff().Street(),
		DropoffLat:    aggregate.Dropoff().Point().Latitude(),
		DropoffLon:    aggregate.Dropoff().Point().Longitude(),
		Kind:          int(aggregate.Kind()),
		Status:        int(aggregate.Status()),
		PaymentStatus: int(aggregate.PaymentStatus()),
		CourierID:     courierID,
		InstrumentRef: aggregate.InstrumentRef(),
		Quote: QuoteDTO{
			BaseCents:              quote.Base().AmountCents(),
			DistanceCents:          quote.Distance().AmountCents(),
			PackageFeeCents:        quote.PackageFee().AmountCents(),
			PrioritySurchargeCents: quote.PrioritySurcharge().AmountCents(),
			InsuranceCents:         quote.Insurance().AmountCents(),
			DiscountCents:          quote.Discount().AmountCents(),
			TotalCents:             quote.Total().AmountCents(),
			Currency:               quote.Total().Currency(),
			SurgeBasisPoints:       quote.SurgeBasisPoints(),
			DistanceKm:             quote.DistanceKm(),
			DurationMin:            quote.DurationMin(),
			Degraded:               quote.Degraded(),
			PromoCode:              quote.PromoCode(),
		},
		OfferExpiresAt:   aggregate.OfferExpiresAt(),
		RebroadcastCount: aggregate.RebroadcastCount(),
		PickupProofURL:   aggregate.PickupProofURL(),
		DeliveryProofURL: aggregate.DeliveryProofURL(),
		CreatedAt:        aggregate.CreatedAt(),
		UpdatedAt:        aggregate.UpdatedAt(),
		Packages:         packages,
		Tracking:         tracking,
	}
}

// toDomain converts a database DTO to a delivery domain aggregate via
// RestoreDelivery, which re-checks the cross-field invariants the database
// cannot express.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		restored, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &restored
	}

	pickup, err := addressToDomain(dto.PickupStreet, dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}

	dropoff, err := addressToDomain(dto.DropoffStreet, dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}

	quote, err := quoteToDomain(dto.Quote)
	if err != nil {
		return nil, err
	}

	packages := make([]*delivery.Package, 0, len(dto.Packages))
	for _, pkgDto := range dto.Packages {
		pkg, pkgErr := packageToDomain(pkgDto)
		if pkgErr != nil {
			return nil, pkgErr
		}
		packages = append(packages, pkg)
	}

	tracking := make([]delivery.TrackingRecord, 0, len(dto.Tracking))
	for _, recordDto := range dto.Tracking {
		record, recordErr := trackingToDomain(recordDto)
		if recordErr != nil {
			return nil, recordErr
		}
		tracking = append(tracking, record)
	}

	return delivery.RestoreDelivery(
		id,
		dto.Number,
		senderID,
		pickup,
		dropoff,
		packages,
		delivery.Kind(dto.Kind),
		delivery.Status(dto.Status),
		quote,
		courierID,
		delivery.PaymentStatus(dto.PaymentStatus),
		dto.InstrumentRef,
		dto.OfferExpiresAt,
		dto.RebroadcastCount,
		dto.PickupProofURL,
		dto.DeliveryProofURL,
		dto.CreatedAt,
		dto.UpdatedAt,
		tracking,
	)
}

func addressToDomain(street string, lat float64, lon float64) (delivery.Address, error) {
	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.NewAddress(street, point)
}

func quoteToDomain(dto QuoteDTO) (delivery.Quote, error) {
	components := make([]kernel.Money, 0, 6)
	for _, cents := range []int64{
		dto.BaseCents,
		dto.DistanceCents,
		dto.PackageFeeCents,
		dto.PrioritySurchargeCents,
		dto.InsuranceCents,
		dto.DiscountCents,
	} {
		component, err := kernel.NewMoney(cents, dto.Currency)
		if err != nil {
			return delivery.Quote{}, err
		}
		components = append(components, component)
	}

	return delivery.NewQuote(
		components[0],
		components[1],
		components[2],
		components[3],
		components[4],
		components[5],
		dto.SurgeBasisPoints,
		dto.DistanceKm,
		dto.DurationMin,
		dto.Degraded,
		dto.PromoCode,
	)
}

func packageToDomain(dto PackageDTO) (*delivery.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	declaredValue, err := kernel.NewMoney(dto.DeclaredValueCents, dto.DeclaredValueCurrency)
	if err != nil {
		return nil, err
	}

	return delivery.RestorePackage(
		id,
		delivery.SizeClass(dto.Size),
		dto.WeightGrams,
		declaredValue,
		dto.Fragile,
		dto.Insured,
	)
}

func trackingToDomain(dto TrackingRecordDTO) (delivery.TrackingRecord, error) {
	var point *kernel.GeoPoint
	if dto.Lat != nil && dto.Lon != nil {
		restored, err := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if err != nil {
			return delivery.TrackingRecord{}, err
		}
		point = &restored
	}

	return delivery.NewTrackingRecord(
		delivery.Status(dto.Status),
		point,
		dto.PhotoURL,
		dto.Note,
		dto.Milestone,
		dto.RecordedAt,
	)
}
