// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"codship/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PartnerRepoFactory provides access to the partner repository within a transaction.
	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	// AllocationRepoFactory provides access to the allocation repository within a transaction.
	AllocationRepoFactory interface {
		AllocationRepository() ports.AllocationRepository
	}

	// FallbackRepoFactory provides access to the fallback log within a transaction.
	FallbackRepoFactory interface {
		FallbackRepository() ports.FallbackRepository
	}

	// TrackingRepoFactory provides access to the tracking log within a transaction.
	TrackingRepoFactory interface {
		TrackingRepository() ports.TrackingRepository
	}

	// OutboxFactory provides access to the notification outbox within a transaction.
	OutboxFactory interface {
		NotificationOutbox() ports.NotificationOutbox
	}

	// OrderUoW manages transactions for order creation: the order itself plus
	// its first tracking log entry.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		TrackingRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// StageUoW manages transactions for stage updates: the order, the
	// append-only tracking log, and the notification outbox all commit
	// together so a lifecycle change and its side effects are atomic.
	StageUoW interface {
		TxManager
		OrderRepoFactory
		TrackingRepoFactory
		OutboxFactory
	}

	// StageUoWFactory creates new stage unit of work instances.
	StageUoWFactory interface {
		Create() StageUoW
	}

	// CancelUoW manages transactions for order cancellation: the order, the
	// tracking log, and the allocation records that must be superseded.
	CancelUoW interface {
		TxManager
		OrderRepoFactory
		TrackingRepoFactory
		AllocationRepoFactory
	}

	// CancelUoWFactory creates new cancel unit of work instances.
	CancelUoWFactory interface {
		Create() CancelUoW
	}

	// AllocationUoW manages transactions for partner allocation. The
	// pending-record supersede, the new record insert, the order reassignment,
	// and the tracking entry happen in one transaction so at most one pending
	// allocation record can ever exist per order.
	//
	// Example:
	//
	//	uow := factory.Create()
	//	err := uow.Begin(ctx)
	//	defer uow.Rollback(ctx)
	//
	//	orderRepo := uow.OrderRepository()
	//	allocRepo := uow.AllocationRepository()
	//	// ... perform operations
	//
	//	err = uow.Commit(ctx)
	AllocationUoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		AllocationRepoFactory
		TrackingRepoFactory
	}

	// AllocationUoWFactory creates new allocation unit of work instances.
	AllocationUoWFactory interface {
		Create() AllocationUoW
	}

	// FallbackUoW extends the allocation unit of work with the fallback audit
	// log, so failing the old record, inserting the new one, and logging the
	// reassignment are a single transaction.
	FallbackUoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		AllocationRepoFactory
		TrackingRepoFactory
		FallbackRepoFactory
	}

	// FallbackUoWFactory creates new fallback unit of work instances.
	FallbackUoWFactory interface {
		Create() FallbackUoW
	}
)
