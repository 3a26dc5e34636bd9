// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence; broadcast events and
// notifications go out only after commit.
package commands

import (
	"context"

	"dropmarket/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Each handler names the narrowest combination of repositories it
// touches; the composition root satisfies them all with the same concrete
// unit of work.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DeliveryRepoFactory provides access to the delivery repository within
	// a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// CourierRepoFactory provides access to the courier repository within a
	// transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// PromoRepoFactory provides access to the promo repository within a
	// transaction.
	PromoRepoFactory interface {
		PromoRepository() ports.PromoRepository
	}

	// ReviewRepoFactory provides access to the review repository within a
	// transaction.
	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// TransactionRepoFactory provides access to the settlement transaction
	// repository within a transaction.
	TransactionRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	// DeliveryUoW manages transactions for delivery-only operations.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// DispatchUoW manages transactions that coordinate a delivery and a
	// courier: acceptance, pickup, completion, cancellation.
	DispatchUoW interface {
		TxManager
		DeliveryRepoFactory
		CourierRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// CreationUoW manages the delivery creation transaction: the new
	// aggregate plus the idempotent promo usage record.
	CreationUoW interface {
		TxManager
		DeliveryRepoFactory
		PromoRepoFactory
	}

	// CreationUoWFactory creates new creation unit of work instances.
	CreationUoWFactory interface {
		Create() CreationUoW
	}

	// SettlementUoW manages the settlement transaction: the payment status
	// flip and the single completed transaction row.
	SettlementUoW interface {
		TxManager
		DeliveryRepoFactory
		TransactionRepoFactory
	}

	// SettlementUoWFactory creates new settlement unit of work instances.
	SettlementUoWFactory interface {
		Create() SettlementUoW
	}

	// ReviewUoW manages the review transaction: the new review row plus the
	// full recompute of the courier's rating aggregate.
	ReviewUoW interface {
		TxManager
		DeliveryRepoFactory
		ReviewRepoFactory
		CourierRepoFactory
	}

	// ReviewUoWFactory creates new review unit of work instances.
	ReviewUoWFactory interface {
		Create() ReviewUoW
	}
)
