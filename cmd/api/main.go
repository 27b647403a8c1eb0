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

	"estate_dashboard_backend/internal/adapters"
	"estate_dashboard_backend/internal/adapters/storage"
	"estate_dashboard_backend/internal/auth"
	"estate_dashboard_backend/internal/auth/directory"
	"estate_dashboard_backend/internal/auth/session"
	"estate_dashboard_backend/internal/auth/sessionstore"
	"estate_dashboard_backend/internal/auth/token"
	"estate_dashboard_backend/internal/events"
	apphttp "estate_dashboard_backend/internal/http"
	"estate_dashboard_backend/internal/http/router"
	"estate_dashboard_backend/internal/leads"
	leadrepo "estate_dashboard_backend/internal/leads/repository"
	"estate_dashboard_backend/internal/metrics"
	"estate_dashboard_backend/internal/properties"
	proprepo "estate_dashboard_backend/internal/properties/repository"
	"estate_dashboard_backend/internal/records"
	"estate_dashboard_backend/internal/scheduler"
	"estate_dashboard_backend/platform/config"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/phone"
	"estate_dashboard_backend/platform/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	dir, err := directory.New(bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to initialize identity directory", "error", err)
		panic("failed to initialize identity directory: " + err.Error())
	}

	leadRepo := leadrepo.New()
	propertyRepo := proprepo.New()
	if err := loadRecords(ctx, cfg, log, records.Targets{Directory: dir, Leads: leadRepo, Properties: propertyRepo}); err != nil {
		log.Error("failed to load sample records", "error", err)
		panic("failed to load sample records: " + err.Error())
	}

	store, health, closeStore, err := initSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize session store", "error", err)
		panic("failed to initialize session store: " + err.Error())
	}
	defer closeStore()

	reminderClient, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	phoneNormalizer := phone.NewNormalizer(cfg.GetPhoneDefaultRegion())

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	sessions := session.New(dir, store, eventBus, log)
	sessions.SetMetrics(appMetrics)
	if p, ok, err := sessions.RestoreSession(ctx); err != nil {
		log.Warn("session restore failed", "error", err)
	} else if ok {
		log.Info("session restored", "principalId", p.ID, "role", p.Role)
		if !sessions.Rehydrate(ctx) {
			log.Warn("restored principal not found in directory", "principalId", p.ID)
		}
	}

	authModule := auth.NewModule(sessions, token.NewIssuer(cfg), val)

	leadsModule, err := leads.NewModule(leadRepo, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}
	leadsModule.ManagementService().SetMetrics(appMetrics)
	leadsModule.ManagementService().SetPrincipalLookup(dir)
	leadsModule.ManagementService().SetPhoneNormalizer(phoneNormalizer)
	leadsModule.SchedulingService().SetMetrics(appMetrics)
	leadsModule.SchedulingService().SetPrincipalLookup(dir)
	leadsModule.ForecastService().SetMetrics(appMetrics)
	if reminderClient != nil {
		reminderClient.SetDirectory(dir)
		reminderClient.RegisterHandlers(eventBus)
		leadsModule.SchedulingService().SetReminderScheduler(reminderClient)
	}

	propertiesModule := properties.NewModule(propertyRepo, eventBus, val, log)
	propertiesModule.Service().SetPhoneNormalizer(phoneNormalizer)
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketPropertyDocuments()
		if err := withRetry(ctx, log, "ensure property-documents bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		propertiesModule.Service().SetDocumentLinker(adapters.NewPropertyDocumentLinker(storageSvc, bucket))
		log.Info("storage service initialized", "propertyDocumentsBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; property documents are listed without download links")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		Sessions: sessions,
		Gatherer: registry,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			propertiesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func loadRecords(ctx context.Context, cfg config.SeedConfig, log *logger.Logger, targets records.Targets) error {
	path := cfg.GetSeedFile()
	if path == "" {
		log.Warn("SEED_FILE not configured; starting with empty records")
		return nil
	}
	fixture, err := records.LoadFile(path)
	if err != nil {
		return err
	}
	stats, err := fixture.Apply(ctx, targets)
	if err != nil {
		return err
	}
	log.Info("sample records loaded",
		"file", path,
		"principals", stats.Principals,
		"leads", stats.Leads,
		"followUps", stats.FollowUps,
		"properties", stats.Properties,
	)
	return nil
}

// initSessionStore opens the durable session record. The file backend is
// the default so restoring a session touches only the local disk.
func initSessionStore(ctx context.Context, cfg config.SessionStoreConfig, log *logger.Logger) (sessionstore.Store, apphttp.HealthChecker, func(), error) {
	switch cfg.GetSessionBackend() {
	case "redis":
		var store *sessionstore.RedisStore
		var closeFn func()
		err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			client, err := sessionstore.OpenRedis(ctx, cfg.GetRedisURL())
			if err != nil {
				return err
			}
			store = sessionstore.NewRedisStore(client, cfg.GetSessionKey())
			closeFn = func() { _ = client.Close() }
			return nil
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("session store initialized", "backend", "redis", "key", cfg.GetSessionKey())
		return store, store, closeFn, nil
	case "memory":
		log.Warn("in-memory session store; sessions do not survive restarts")
		return sessionstore.NewMemoryStore(), nil, func() {}, nil
	default:
		log.Info("session store initialized", "backend", "file", "path", cfg.GetSessionFile())
		return sessionstore.NewFileStore(cfg.GetSessionFile()), nil, func() {}, nil
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
