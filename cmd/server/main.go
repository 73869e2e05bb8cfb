// Package main - точка входа для Katysym, сервиса учёта посещаемости.
//
// Katysym превращает ежедневные отметки посещаемости в отчёты: периоды
// (день, неделя, месяц, четверть, год), KPI по статусам, списки проблемных
// учеников и CSV-выгрузку для администрации школы.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: календарь, периоды, агрегация отчётов
// - Application: use cases (Commands/Queries)
// - Infrastructure: провайдер отчётов, PostgreSQL, Redis
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alga4school/katysym/config"

	// Application layer
	"github.com/alga4school/katysym/internal/application/command"
	"github.com/alga4school/katysym/internal/application/query"

	// Domain layer
	"github.com/alga4school/katysym/internal/domain/calendar"
	"github.com/alga4school/katysym/internal/domain/shared"

	// Infrastructure layer
	"github.com/alga4school/katysym/internal/infrastructure/external/sheets"
	"github.com/alga4school/katysym/internal/infrastructure/persistence/postgres"
	"github.com/alga4school/katysym/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/alga4school/katysym/internal/interface/http"

	// Packages
	"github.com/alga4school/katysym/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Katysym",
		logger.String("env", string(cfg.App.Environment)),
		logger.Bool("debug", cfg.App.Debug),
		logger.String("timezone", cfg.App.Timezone),
		logger.String("version", cfg.App.Version),
	)

	// Timezone handling lives in pkg/timeutil (fixed UTC+5 for Almaty).
	log.Info("using Almaty timezone (UTC+5)", logger.String("configured", cfg.App.Timezone))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbCfg := postgres.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.Database = cfg.Database.Name
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.SSLMode = cfg.Database.SSLMode
	dbCfg.MaxConns = cfg.Database.MaxConns
	dbCfg.MinConns = cfg.Database.MinConns
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.ConnectTimeout = cfg.Database.ConnectTimeout

	dbConn, err := postgres.Connect(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	if err := dbConn.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations completed")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (идемпотентность сохранений)
	// ─────────────────────────────────────────────────────────────────────────
	var saveGuard command.SaveGuard
	if cfg.Redis.Disabled {
		log.Warn("Redis disabled, using in-memory save guard")
		saveGuard = newMemoryGuard()
	} else {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		guard, err := redis.NewSaveGuard(redisCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer func() {
			log.Info("closing Redis connection...")
			_ = guard.Close()
		}()
		saveGuard = guard
		log.Info("Redis connection established")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	holidayRepo := postgres.NewHolidayRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing report provider client...")
	providerCfg := sheets.DefaultClientConfig(cfg.Provider.BaseURL, cfg.Provider.APIKey)
	providerCfg.Timeout = cfg.Provider.RequestTimeout
	providerCfg.Logger = log
	providerClient := sheets.NewClient(providerCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	clock := shared.SystemClock{}
	breaks := calendar.Breaks2025()

	statisticsQuery := query.NewGetStatisticsHandler(providerClient, clock, breaks, holidayRepo, log)
	exportQuery := query.NewExportReportHandler(providerClient, clock, log)
	schoolDaysQuery := query.NewGetSchoolDaysHandler(clock, breaks, holidayRepo)
	rosterQuery := query.NewGetRosterHandler(providerClient)

	saveCmd := command.NewSaveAttendanceHandler(providerClient, providerClient, saveGuard, log)
	holidaysCmd := command.NewManageHolidaysHandler(holidayRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Server.Host
	httpConfig.Port = cfg.Server.Port
	httpConfig.ReadTimeout = cfg.Server.ReadTimeout
	httpConfig.WriteTimeout = cfg.Server.WriteTimeout
	httpConfig.IdleTimeout = cfg.Server.IdleTimeout
	httpConfig.EnableCORS = cfg.Server.EnableCORS
	httpConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	httpDeps := httpserver.Dependencies{
		GetStatisticsHandler:  statisticsQuery,
		ExportReportHandler:   exportQuery,
		GetSchoolDaysHandler:  schoolDaysQuery,
		GetRosterHandler:      rosterQuery,
		SaveAttendanceHandler: saveCmd,
		ManageHolidaysHandler: holidaysCmd,
		Logger:                log,
		HealthChecker:         &healthChecker{db: dbConn},
		QuarterBaseYear:       cfg.Calendar.QuarterBaseYear,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting services...")

	errCh := make(chan error, 1)

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Katysym is running", logger.String("http_address", httpServer.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	case <-ctx.Done():
		log.Info("root context cancelled")
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

// healthChecker probes the backing services for /healthz.
type healthChecker struct {
	db *postgres.Connection
}

func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	checks := make(map[string]string)
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	status := httpserver.HealthStatus{Healthy: healthy, Checks: checks}
	if !healthy {
		status.Message = "backing service unavailable"
	}
	return status
}

// memoryGuard is the development fallback when Redis is disabled. Keys live
// for the process lifetime only.
type memoryGuard struct {
	mu    sync.Mutex
	saved map[string]struct{}
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{saved: make(map[string]struct{})}
}

func (g *memoryGuard) key(date, grade, letter string) string {
	return date + ":" + grade + ":" + letter
}

func (g *memoryGuard) IsSaved(ctx context.Context, date, grade, letter string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.saved[g.key(date, grade, letter)]
	return ok, nil
}

func (g *memoryGuard) MarkSaved(ctx context.Context, date, grade, letter string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved[g.key(date, grade, letter)] = struct{}{}
	return nil
}
