package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/thinktars/playground/internal/api"
	contactapi "github.com/thinktars/playground/internal/api/contact"
	playgroundapi "github.com/thinktars/playground/internal/api/playground"
	"github.com/thinktars/playground/internal/config"
	"github.com/thinktars/playground/internal/integration/demos"
	"github.com/thinktars/playground/internal/integration/telegramnotify"
	"github.com/thinktars/playground/internal/integration/whatsapp"
	"github.com/thinktars/playground/internal/pkg/validator"
	"github.com/thinktars/playground/internal/repository"
	"github.com/thinktars/playground/internal/usecase/contact"
	"github.com/thinktars/playground/internal/usecase/playground"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Lead storage: PostgreSQL when configured, process memory otherwise.
	var leadRepo contact.LeadRepository
	app := &App{logger: logger}

	if cfg.DatabaseURL != "" {
		db, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		app.db = db

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		leadRepo = repository.NewLeadPostgres(db)
	} else {
		logger.Warn("DATABASE_URL not set, leads are kept in memory only")
		leadRepo = repository.NewLeadMemory()
	}

	// Demos backend connector (with mock support)
	var demosConnector playground.DemosConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the demos backend")
		demosConnector = demos.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the demos backend")
		demosConnector = demos.NewConnector(cfg.DemosConnectorCfg, logger)
	}

	// Lead notifier
	var notifier contact.LeadNotifier
	if cfg.TelegramCfg.Enabled {
		tgNotifier, err := telegramnotify.NewNotifier(cfg.TelegramCfg, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize telegram notifier: %w", err)
		}
		notifier = tgNotifier
		logger.Info("Telegram lead notifications enabled")
	} else {
		notifier = telegramnotify.NoopNotifier{}
	}

	linkBuilder := whatsapp.NewLinkBuilder(cfg.HandoffCfg)
	fileValidator := validator.NewValidator(cfg.FileUploadCfg)

	// Assistant catalog: warmed up at startup, never fatal when empty.
	catalog := playground.NewCatalog(demosConnector, cfg.CatalogTTL, cfg.DemosConnectorCfg.Retry, logger)
	if err := catalog.WarmUp(ctx); err != nil {
		logger.Warn("assistant catalog starts empty", zap.Error(err))
	}

	playgroundUC := playground.NewUsecase(
		catalog,
		demosConnector,
		fileValidator,
		cfg.SessionTTL, cfg.SessionSweep, cfg.NoticeTTL,
		logger,
	)

	contactUC := contact.NewUsecase(
		cfg.QuizQuestions,
		linkBuilder,
		leadRepo,
		notifier,
		fileValidator,
		cfg.SessionTTL, cfg.SessionSweep, cfg.ContactResetTTL,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	playgroundHandler := playgroundapi.NewHandler(playgroundUC, fileValidator, cfg.FileUploadCfg.MaxUploadSize)
	contactHandler := contactapi.NewHandler(contactUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(playgroundHandler, contactHandler, logger)
	logger.Info("HTTP router configured")

	app.server = &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return app, nil
}
