package setup

import (
	"github.com/andrescamacho/colony-engine/internal/adapters/metrics"
	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	colonyCommands "github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	colonyQueries "github.com/andrescamacho/colony-engine/internal/application/colony/queries"
	"github.com/andrescamacho/colony-engine/internal/application/common"
	ledgerQueries "github.com/andrescamacho/colony-engine/internal/application/ledger/queries"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	executor        *appColony.Executor
	transactionRepo ledger.TransactionRepository
	logger          common.Logger
	commandMetrics  *metrics.CommandMetricsCollector
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// logger and commandMetrics may be nil.
func NewHandlerRegistry(
	executor *appColony.Executor,
	transactionRepo ledger.TransactionRepository,
	logger common.Logger,
	commandMetrics *metrics.CommandMetricsCollector,
) *HandlerRegistry {
	return &HandlerRegistry{
		executor:        executor,
		transactionRepo: transactionRepo,
		logger:          logger,
		commandMetrics:  commandMetrics,
	}
}

// RegisterColonyHandlers registers the colony command and query handlers:
//   - InitPlayerCommand, GrantResourcesCommand
//   - StartBuildCommand, CancelBuildCommand, RefreshColonyCommand
//   - GetResourcesQuery, GetTrackQuery
func (r *HandlerRegistry) RegisterColonyHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*colonyCommands.InitPlayerCommand](
		m, colonyCommands.NewInitPlayerHandler(r.executor),
	); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*colonyCommands.GrantResourcesCommand](
		m, colonyCommands.NewGrantResourcesHandler(r.executor),
	); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*colonyCommands.StartBuildCommand](
		m, colonyCommands.NewStartBuildHandler(r.executor),
	); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*colonyCommands.CancelBuildCommand](
		m, colonyCommands.NewCancelBuildHandler(r.executor),
	); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*colonyCommands.RefreshColonyCommand](
		m, colonyCommands.NewRefreshColonyHandler(r.executor),
	); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*colonyQueries.GetResourcesQuery](
		m, colonyQueries.NewGetResourcesHandler(r.executor),
	); err != nil {
		return err
	}
	return mediator.RegisterHandler[*colonyQueries.GetTrackQuery](
		m, colonyQueries.NewGetTrackHandler(r.executor),
	)
}

// RegisterLedgerHandlers registers the read-only ledger queries:
//   - GetTransactionsQuery (history with filters and paging)
//   - GetTransactionQuery (one entry by id)
//   - GetResourceFlowQuery (spent and returned per category)
func (r *HandlerRegistry) RegisterLedgerHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*ledgerQueries.GetTransactionsQuery](
		m, ledgerQueries.NewGetTransactionsHandler(r.transactionRepo),
	); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*ledgerQueries.GetTransactionQuery](
		m, ledgerQueries.NewGetTransactionHandler(r.transactionRepo),
	); err != nil {
		return err
	}
	return mediator.RegisterHandler[*ledgerQueries.GetResourceFlowQuery](
		m, ledgerQueries.NewGetResourceFlowHandler(r.transactionRepo),
	)
}

// CreateConfiguredMediator creates a mediator with middleware and every handler registered.
// Middleware order: request logging outermost, then Prometheus timing.
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()

	if r.logger != nil {
		m.Use(common.RequestLoggingMiddleware(r.logger))
	}
	m.Use(metrics.PrometheusMiddleware(r.commandMetrics))

	if err := r.RegisterColonyHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterLedgerHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
