package cmd

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"codship/internal/adapters/out/notify"
	"codship/internal/adapters/out/postgres"
	"codship/internal/adapters/out/postgres/notificationrepo"
	"codship/internal/core/application/usecases/commands"
	"codship/internal/core/application/usecases/queries"
	"codship/internal/core/domain/services"
	"codship/internal/core/ports"
	"codship/internal/jobs"
	"codship/internal/pkg/orderlock"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	allocator  services.Allocator
	locks      *orderlock.KeyedMutex
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	gatewayTimeout, err := time.ParseDuration(config.GatewayTimeout)
	if err != nil {
		gatewayTimeout = 0
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		allocator:  services.NewAllocator(services.NewScorer(config.CostReferenceCap)),
		locks:      orderlock.NewKeyedMutex(),
		notifier:   notify.NewGateway(config.GatewayURL, config.GatewayAPIKey, gatewayTimeout),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAllocatePartnerCommandHandler() commands.AllocatePartnerCommandHandler {
	var f commands.AllocationUoWFactory = FuncAllocationUoWFactory(func() commands.AllocationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAllocatePartnerCommandHandler(f, c.allocator, c.locks)
}

func (c *CompositionRoot) CreateUpdateStageCommandHandler() commands.UpdateStageCommandHandler {
	var f commands.StageUoWFactory = FuncStageUoWFactory(func() commands.StageUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateStageCommandHandler(f, c.locks)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.CancelUoWFactory = FuncCancelUoWFactory(func() commands.CancelUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.locks)
}

func (c *CompositionRoot) CreateFallbackCommandHandler() commands.FallbackCommandHandler {
	var f commands.FallbackUoWFactory = FuncFallbackUoWFactory(func() commands.FallbackUoW {
		return c.uowFactory.Create()
	})
	return commands.NewFallbackCommandHandler(f, c.allocator, c.locks)
}

func (c *CompositionRoot) CreateGetTrackingStatusQueryHandler() queries.GetTrackingStatusQueryHandler {
	return queries.NewGetTrackingStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGenerateReportQueryHandler() queries.GenerateReportQueryHandler {
	return queries.NewGenerateReportQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

// CreateJobManager wires the notification dispatcher against the main
// database connection; outbox drains run outside any unit of work.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	outbox := notificationrepo.NewGormNotificationOutbox(c.gormDB)
	return jobs.NewJobManager(outbox, c.notifier, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAllocationUoWFactory func() commands.AllocationUoW

func (f FuncAllocationUoWFactory) Create() commands.AllocationUoW {
	return f()
}

type FuncStageUoWFactory func() commands.StageUoW

func (f FuncStageUoWFactory) Create() commands.StageUoW {
	return f()
}

type FuncCancelUoWFactory func() commands.CancelUoW

func (f FuncCancelUoWFactory) Create() commands.CancelUoW {
	return f()
}

type FuncFallbackUoWFactory func() commands.FallbackUoW

func (f FuncFallbackUoWFactory) Create() commands.FallbackUoW {
	return f()
}
