// Package paymentrepo provides data transfer objects and mapping functions
// for settlement transaction persistence. A unique index on delivery_id
// guarantees at most one completed transaction per delivery.
package paymentrepo

import (
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// TransactionDTO represents the database structure for persisting settlement
// transactions.
type TransactionDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AmountCents int64     `gorm:"type:bigint;not null"`
	Currency    string    `gorm:"type:varchar(3);not null"`
	ProviderID  string    `gorm:"type:varchar(255);not null"`
	FeeCents    int64     `gorm:"type:bigint;not null"`
	ReceiptURL  string    `gorm:"type:varchar(512)"`
	ChargedAt   time.Time `gorm:"not null"`
}

// TableName specifies the database table name for settlement transactions.
func (TransactionDTO) TableName() string {
	return "transactions"
}

// fromDomain converts a transaction domain object to its database
// representation.
func fromDomain(txn *payment.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          txn.ID().Bytes(),
		DeliveryID:  txn.DeliveryID().Bytes(),
		AmountCents: txn.Amount().AmountCents(),
		Currency:    txn.Amount().Currency(),
		ProviderID:  txn.ProviderID(),
		FeeCents:    txn.FeeCents(),
		ReceiptURL:  txn.ReceiptURL(),
		ChargedAt:   txn.ChargedAt(),
	}
}

// toDomain converts a database DTO to a transaction domain object.
func toDomain(dto TransactionDTO) (*payment.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoney(dto.AmountCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	return payment.RestoreTransaction(
		id,
		deliveryID,
		amount,
		dto.ProviderID,
		dto.FeeCents,
		dto.ReceiptURL,
		dto.ChargedAt,
	)
}
