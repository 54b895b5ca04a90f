package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/mcharbonnier/wikitally-go/internal/adapters/persistence"
	"github.com/mcharbonnier/wikitally-go/internal/adapters/relay"
	"github.com/mcharbonnier/wikitally-go/internal/application/calculator"
	"github.com/mcharbonnier/wikitally-go/internal/application/common"
	"github.com/mcharbonnier/wikitally-go/internal/application/preset"
	storeCmd "github.com/mcharbonnier/wikitally-go/internal/application/store/commands"
	storeQuery "github.com/mcharbonnier/wikitally-go/internal/application/store/queries"
	"github.com/mcharbonnier/wikitally-go/internal/application/watch"
	"github.com/mcharbonnier/wikitally-go/internal/domain/goods"
	"github.com/mcharbonnier/wikitally-go/internal/infrastructure/config"
	"github.com/mcharbonnier/wikitally-go/internal/infrastructure/database"
	"github.com/mcharbonnier/wikitally-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	flag.Parse()

	fmt.Println("Wikitally Daemon v0.1.0")
	fmt.Println("=======================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig("") // Empty string = search default paths

	// Acquire PID file lock to prevent multiple owner contexts
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	err := pf.Acquire()
	if err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := setupLogger(&cfg.Logging)

	// 1. Setup database connection
	logger.Infof("Connecting to %s database...", cfg.Database.Type)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database connected")

	// 2. Initialize repositories (nil clock = real clock)
	entityRepo := persistence.NewGormEntityRepository(db, nil)
	snapshotRepo := persistence.NewGormSnapshotRepository(db, nil)
	selectionRepo := persistence.NewGormSelectionRepository(db, nil)

	// 3. Change bus and watch controller
	bus := watch.NewBus()
	controller := watch.NewController(bus, entityRepo)

	// 4. Mediator and handlers
	med := common.NewMediator()
	allied := goods.NewAlliedCurrencies(cfg.Calculator.AlliedCurrencies...)

	if err := registerHandlers(med, controller, entityRepo, snapshotRepo, selectionRepo, allied, bus); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	logger.Info("Handlers registered")

	// 5. Owner loop and websocket gateway
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner := relay.NewOwner(med, controller, logger.WithField("component", "owner"))
	go owner.Run(ctx)

	gateway := relay.NewGateway(owner,
		cfg.Daemon.RateLimit.Requests, cfg.Daemon.RateLimit.Burst,
		logger.WithField("component", "gateway"))

	mux := http.NewServeMux()
	mux.HandleFunc("/relay", gateway.Handler())

	server := &http.Server{Addr: cfg.Daemon.Address, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Gateway listening on %s", cfg.Daemon.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gateway: %w", err)
	}
	return nil
}

func registerHandlers(
	med common.Mediator,
	controller *watch.Controller,
	entityRepo *persistence.GormEntityRepository,
	snapshotRepo *persistence.GormSnapshotRepository,
	selectionRepo *persistence.GormSelectionRepository,
	allied goods.AlliedCurrencies,
	bus *watch.Bus,
) error {
	registrations := []func() error{
		func() error {
			return common.RegisterHandler[*storeCmd.PutEntityCommand](med, storeCmd.NewPutEntityHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.DeleteEntityCommand](med, storeCmd.NewDeleteEntityHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.BulkPutCommand](med, storeCmd.NewBulkPutHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.BulkDeleteCommand](med, storeCmd.NewBulkDeleteHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.ClearCollectionCommand](med, storeCmd.NewClearCollectionHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.SetQuantityCommand](med, storeCmd.NewSetQuantityHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.ToggleHiddenCommand](med, storeCmd.NewToggleHiddenHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.ToggleLevelCommand](med, storeCmd.NewToggleLevelHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.ToggleAreaCommand](med, storeCmd.NewToggleAreaHandler(entityRepo, bus))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.ReplaceSnapshotCommand](med, storeCmd.NewReplaceSnapshotHandler(snapshotRepo))
		},
		func() error {
			return common.RegisterHandler[*storeCmd.SetSelectionCommand](med, storeCmd.NewSetSelectionHandler(selectionRepo))
		},
		func() error {
			return common.RegisterHandler[*storeQuery.ListEntitiesQuery](med, storeQuery.NewListEntitiesHandler(entityRepo))
		},
		func() error {
			return common.RegisterHandler[*storeQuery.GetEntityQuery](med, storeQuery.NewGetEntityHandler(entityRepo))
		},
		func() error {
			return common.RegisterHandler[*storeQuery.GetSnapshotQuery](med, storeQuery.NewGetSnapshotHandler(snapshotRepo))
		},
		func() error {
			return common.RegisterHandler[*storeQuery.GetSelectionsQuery](med, storeQuery.NewGetSelectionsHandler(selectionRepo))
		},
		func() error {
			return common.RegisterHandler[*calculator.ComputeTotalsQuery](med,
				calculator.NewComputeTotalsHandler(entityRepo, snapshotRepo, selectionRepo, allied))
		},
		func() error {
			return common.RegisterHandler[*preset.LoadPresetCommand](med, preset.NewLoadPresetHandler(med, controller))
		},
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func setupLogger(cfg *config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
