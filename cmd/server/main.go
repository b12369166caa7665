package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/techverse-private-limited/stock-blueprints-54/internal/application/billing"
	printingapp "github.com/techverse-private-limited/stock-blueprints-54/internal/application/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/auth"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/cache"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/config"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/event"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/logger"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/migration"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/persistence"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing/providers"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/scheduler"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/storage"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/telemetry"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/handler"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// receiptStorage is what the printing stack needs from a PDF backend
type receiptStorage interface {
	infra.PDFStorage
	handler.ReceiptFileReader
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration (.env, config.toml and POS_ environment variables)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Telemetry providers are no-ops unless enabled
	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize log exporter: %w", err)
	}
	log := logProvider.Bridge(baseLog, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Tasty Bite POS",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	posMetrics, err := telemetry.NewPOSMetrics(meterProvider.Meter("tasty-bite-pos"))
	if err != nil {
		return fmt.Errorf("failed to register business metrics: %w", err)
	}

	// Apply migrations before the pool opens so the schema is ready
	if cfg.App.RunMigrations {
		if err := migration.RunUp(&cfg.Database, log.Named("migrate")); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}

	// Repositories
	billRepo := persistence.NewGormBillRepository(db.DB)
	jobRepo := persistence.NewGormPrintJobRepository(db.DB)

	// Event bus, forwarding selected events to RabbitMQ when enabled
	eventBus := event.NewInMemoryEventBus(log)
	var amqpPublisher *event.AMQPPublisher
	if cfg.RabbitMQ.Enabled {
		amqpPublisher, err = event.NewAMQPPublisher(event.AMQPPublisherConfig{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Logger:   log,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				log.Warn("Error closing RabbitMQ publisher", zap.Error(err))
			}
		}()

		serializer := event.NewEventSerializer()
		event.RegisterPOSEvents(serializer)
		eventBus.Subscribe(event.NewForwarder(amqpPublisher, serializer, log,
			billing.EventTypeBillCreated,
			printing.EventTypePrintJobCompleted,
		))
		log.Info("Forwarding POS events to RabbitMQ",
			zap.String("exchange", cfg.RabbitMQ.Exchange),
			zap.Strings("registered_events", serializer.RegisteredTypes()))
	}
	if err := eventBus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}

	// Idempotency store for retried bill submissions
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		return err
	}
	defer idempotencyStore.Close()
	idemCfg := shared.DefaultIdempotencyConfig()
	if cfg.Redis.IdempotencyTTL > 0 {
		idemCfg.TTL = cfg.Redis.IdempotencyTTL
	}

	// Printing stack
	pdfStorage, err := newReceiptStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	templates, err := infra.NewTemplateStore(&infra.TemplateStoreConfig{
		ExternalDir: cfg.Printing.TemplateDir,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to load receipt templates: %w", err)
	}
	renderer := infra.NewChromedpRenderer(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Printing.RenderTimeout,
		RemoteURL:      cfg.Printing.ChromeRemoteURL,
		NoSandbox:      true,
		Logger:         log,
	})
	defer renderer.Close()

	shop := infra.ShopInfo{
		Name:         cfg.Shop.Name,
		AddressLines: cfg.Shop.AddressLines,
		Phones:       cfg.Shop.Phones,
		CompanyName:  cfg.Shop.CompanyName,
		GSTIN:        cfg.Shop.GSTIN,
	}
	dataProviders := providers.NewDataProviderRegistry()
	dataProviders.Register(providers.NewBillReceiptProvider(billRepo, shop, time.Local))

	// Application services
	billService := billingapp.NewBillService(billRepo, log,
		billingapp.WithEventPublisher(eventBus),
		billingapp.WithMetrics(posMetrics),
	)
	receiptService := printingapp.NewReceiptService(printingapp.ReceiptServiceConfig{
		Loader:           dataProviders,
		Templates:        templates,
		Renderer:         renderer,
		Storage:          pdfStorage,
		JobRepo:          jobRepo,
		EventPublisher:   eventBus,
		Metrics:          posMetrics,
		Shop:             shop,
		DefaultPaperSize: printing.PaperSize(cfg.Printing.DefaultPaperSize),
		Location:         time.Local,
		Logger:           log,
	})

	retentionCfg := scheduler.DefaultRetentionTriggerConfig()
	if cfg.Printing.Retention > 0 {
		retentionCfg.Retention = cfg.Printing.Retention
	}
	retention, err := scheduler.NewRetentionTrigger(retentionCfg, pdfStorage, log)
	if err != nil {
		return err
	}

	// HTTP handlers
	billHandler := handler.NewBillHandler(billService, handler.WithIdempotencyStore(idempotencyStore, idemCfg))
	receiptHandler := handler.NewReceiptHandler(receiptService, pdfStorage)
	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if amqpPublisher != nil {
		checks["rabbitmq"] = func(context.Context) error { return amqpPublisher.HealthCheck() }
	}
	systemHandler := handler.NewSystemHandler(handler.SystemInfo{
		Name:    cfg.App.Name,
		Env:     cfg.App.Env,
		Version: version,
	}, checks)

	engineCfg := router.EngineConfig{
		Config: cfg,
		Logger: log,
		Meter:  meterProvider.Meter("tasty-bite-pos/http"),
	}
	// Without a secret no token can be checked; the API stays anonymous
	if cfg.JWT.Secret != "" {
		engineCfg.Validator = auth.NewJWTService(cfg.JWT)
	}
	engine, err := router.NewEngine(engineCfg)
	if err != nil {
		return fmt.Errorf("failed to build HTTP engine: %w", err)
	}

	// Health check and stored receipt files sit outside API versioning
	engine.GET("/health", systemHandler.Health)
	if cfg.Printing.StorageBackend != config.StorageBackendS3 {
		handler.FileRoutes(receiptHandler, cfg.Printing.BaseURL).RegisterRoutes(&engine.RouterGroup)
	}

	router.NewRouter(engine).Register(
		handler.SystemRoutes(systemHandler),
		handler.BillRoutes(billHandler, receiptHandler),
		handler.ReceiptRoutes(receiptHandler),
		handler.PrintJobRoutes(receiptHandler),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := retention.Start(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
		}
		if err := retention.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := eventBus.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server exited")
	return nil
}

// newReceiptStorage selects the PDF backend from printing.storage_backend
func newReceiptStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (receiptStorage, error) {
	if cfg.Printing.StorageBackend == config.StorageBackendS3 {
		s3Storage, err := storage.NewS3ReceiptStorage(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiry),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare bucket: %w", err)
		}
		log.Info("Storing receipt PDFs in S3", zap.String("bucket", s3Storage.GetBucket()))
		return s3Storage, nil
	}

	fsStorage, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
		BasePath: cfg.Printing.StoragePath,
		BaseURL:  cfg.Printing.BaseURL,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt storage: %w", err)
	}
	log.Info("Storing receipt PDFs on disk", zap.String("path", cfg.Printing.StoragePath))
	return fsStorage, nil
}
