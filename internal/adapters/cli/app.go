package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/andrescamacho/colony-engine/internal/adapters/persistence"
	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/application/setup"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/config"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/database"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/logging"
)

// app is the in-process wiring a command needs: config, database and a configured mediator
type app struct {
	cfg      *config.Config
	mediator mediator.Mediator
	closers  []io.Closer
}

// openApp loads config, connects to the database and builds the mediator.
// CLI logs go to stderr so they never mix with command output.
func openApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Logging
	if logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	logger, logCloser, err := logging.FromConfig(logCfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	uow := persistence.NewGormUnitOfWork(db)
	executor := appColony.NewExecutor(uow, appColony.NewPlayerLocks(), cfg.Economy.Policy(), nil)
	registry := setup.NewHandlerRegistry(executor, persistence.NewGormTransactionRepository(db), logger, nil)

	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		database.Close(db)
		logCloser.Close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	return &app{
		cfg:      cfg,
		mediator: m,
		closers:  []io.Closer{closerFunc(func() error { return database.Close(db) }), logCloser},
	}, nil
}

// send dispatches request through the middleware chain
func (a *app) send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return a.mediator.Send(ctx, request)
}

func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// withApp opens the app, runs fn and closes the app
func withApp(fn func(ctx context.Context, a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(context.Background(), a)
}
