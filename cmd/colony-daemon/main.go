package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrescamacho/colony-engine/internal/adapters/metrics"
	"github.com/andrescamacho/colony-engine/internal/adapters/persistence"
	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/application/setup"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/config"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/database"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/logging"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default: search ./config.yaml, ./configs, /etc/colony)")
	flag.Parse()

	fmt.Println("Colony Daemon v0.1.0")
	fmt.Println("====================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger, logCloser, err := logging.FromConfig(cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	uow := persistence.NewGormUnitOfWork(db)
	executor := appColony.NewExecutor(uow, appColony.NewPlayerLocks(), cfg.Economy.Policy(), nil)
	fmt.Printf("Economy policy loaded (refund ratio %.2f)\n", cfg.Economy.RefundRatio)

	var commandMetrics *metrics.CommandMetricsCollector
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		economyMetrics := metrics.NewEconomyMetricsCollector()
		if err := economyMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register economy metrics: %w", err)
		}
		metrics.SetGlobalEconomyCollector(economyMetrics)

		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}

		metricsServer, err = metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return err
		}
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Log(common.LevelError, "Metrics server stopped", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
		fmt.Printf("Metrics server listening on %s%s\n", metricsServer.Addr(), cfg.Metrics.Path)
	}

	registry := setup.NewHandlerRegistry(executor, persistence.NewGormTransactionRepository(db), logger, commandMetrics)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	fmt.Println("Handlers registered")

	ctx, cancel := context.WithCancel(common.WithLogger(context.Background(), logger))
	defer cancel()

	sweepDone := make(chan struct{})
	if cfg.Economy.Sweep.Enabled {
		sweeper := appColony.NewSweeper(uow, executor, appColony.SweeperConfig{
			Interval:         cfg.Economy.Sweep.Interval,
			PlayersPerSecond: cfg.Economy.Sweep.PlayersPerSecond,
			BatchSize:        cfg.Economy.Sweep.BatchSize,
		})
		// sweeps go through the mediator so request logging and command metrics cover them
		sweeper.SetRefresher(func(ctx context.Context, key shared.PlayerKey) error {
			_, err := m.Send(ctx, &commands.RefreshColonyCommand{PlayerKey: key.String()})
			return err
		})
		go func() {
			defer close(sweepDone)
			sweeper.Run(ctx)
		}()
		fmt.Printf("Completion sweeper started (every %s)\n", cfg.Economy.Sweep.Interval)
	} else {
		close(sweepDone)
		fmt.Println("Completion sweeper disabled; builds resolve on the next request")
	}

	fmt.Println("Daemon running. Press Ctrl+C to stop.")

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	<-shutdownChan

	fmt.Println("\nShutdown signal received, stopping daemon...")
	cancel()
	<-sweepDone

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}

	fmt.Println("Daemon stopped")
	return nil
}
