// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	assessmentapp "github.com/snacktrack/assessor/internal/application/assessment"
	productapp "github.com/snacktrack/assessor/internal/application/product"
	profileapp "github.com/snacktrack/assessor/internal/application/profile"
	"github.com/snacktrack/assessor/internal/domain/assessment"
	"github.com/snacktrack/assessor/internal/domain/compatibility"
	"github.com/snacktrack/assessor/internal/domain/nutrition"
	"github.com/snacktrack/assessor/internal/domain/physiology"
	"github.com/snacktrack/assessor/internal/domain/shared"
	"github.com/snacktrack/assessor/internal/infrastructure/config"
	"github.com/snacktrack/assessor/internal/infrastructure/events"
	"github.com/snacktrack/assessor/internal/infrastructure/http/server"
	"github.com/snacktrack/assessor/internal/infrastructure/monitoring"
	gormRepo "github.com/snacktrack/assessor/internal/infrastructure/persistence/gorm"
	"github.com/snacktrack/assessor/internal/infrastructure/persistence/memory"
	"github.com/snacktrack/assessor/internal/infrastructure/persistence/migrations"
	"github.com/snacktrack/assessor/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/snacktrack/assessor/internal/infrastructure/persistence/redis"
	"github.com/snacktrack/assessor/internal/infrastructure/persistence/sqlite"
	"github.com/snacktrack/assessor/internal/ports/outbound"
	"github.com/snacktrack/assessor/pkg/healthcheck"
	"github.com/snacktrack/assessor/pkg/logger"
	"github.com/snacktrack/assessor/pkg/validation"
)

// ConfigPath is the configuration file to load; empty means the default
// search locations
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,

	// Domain and service modules
	DomainModule,
	ServiceModule,

	// Event modules
	EventModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.IsDevelopment(),
		})
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	NewDatabase,
	func(db *gorm.DB) (*sql.DB, error) {
		return db.DB()
	},
)

// NewDatabase opens the configured backend. SQLite is migrated through
// AutoMigrate, Postgres through the versioned SQL migrations.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "postgres":
		cm, err := postgres.NewConnectionManager(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := migrate(cm.SQLDB(), cfg.Database.Database, log); err != nil {
				cm.Close()
				return nil, err
			}
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return cm.Close()
			},
		})
		return cm.DB(), nil

	default:
		db, err := sqlite.SetupDatabase(cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == ":memory:"),
		)
		return db, nil
	}
}

func migrate(db *sql.DB, databaseName string, log *zap.Logger) error {
	m, err := migrations.New(db, databaseName, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// CacheBackend carries the selected cache and, when Redis is enabled, its
// client for readiness checks
type CacheBackend struct {
	Repository outbound.CacheRepository
	Redis      redis.UniversalClient
}

// CacheModule provides caching
var CacheModule = fx.Provide(
	NewCacheBackend,
	func(b *CacheBackend) outbound.CacheRepository {
		return b.Repository
	},
)

// NewCacheBackend uses Redis when enabled and the in-process cache
// otherwise. The in-process cache is swept on CleanupInterval.
func NewCacheBackend(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*CacheBackend, error) {
	if cfg.Redis.Enabled {
		client, err := redisRepo.NewClient(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		log.Info("Using Redis cache", zap.String("addr", cfg.RedisAddr()))
		return &CacheBackend{
			Repository: redisRepo.NewCacheRepository(client, "snacktrack:", log),
			Redis:      client,
		}, nil
	}

	cache := memory.NewCacheRepository()
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go cache.Run(ctx, cfg.Cache.CleanupInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	log.Info("Using in-memory cache", zap.Duration("cleanup_interval", cfg.Cache.CleanupInterval))
	return &CacheBackend{Repository: cache}, nil
}

// MonitoringModule provides the metrics registry, collectors and tracing
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	},
	func(reg *prometheus.Registry, log *zap.Logger) *monitoring.Metrics {
		return monitoring.NewMetrics(reg, log)
	},
	func(m *monitoring.Metrics) outbound.MetricsRecorder {
		return m
	},
	NewTracingProvider,
)

// NewTracingProvider installs the global tracer and meter providers
func NewTracingProvider(lc fx.Lifecycle, cfg *config.Config, reg *prometheus.Registry, log *zap.Logger) (*monitoring.TracingProvider, error) {
	tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, reg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return tp, nil
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUserRepository,
	gormRepo.NewProductRepository,
	gormRepo.NewAssessmentRepository,
)

// DomainModule provides the scoring engine and its collaborators
var DomainModule = fx.Provide(
	physiology.Default,
	func(cfg *config.Config, calc *physiology.Calculator) *assessment.Engine {
		return assessment.NewEngine(
			nutrition.NewAnalyzer(nutrition.DefaultRules()),
			compatibility.NewChecker(compatibility.DefaultRules()),
			calc,
			assessment.Policy{
				AllergyPenalty:  cfg.Scoring.AllergyPenalty,
				DietPenalty:     cfg.Scoring.DietPenalty,
				ConfidenceScore: cfg.Scoring.ConfidenceScore,
			},
		)
	},
	validation.New,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config) assessmentapp.Config {
		return assessmentapp.Config{CacheTTL: cfg.Cache.AssessmentTTL}
	},
	func(cfg *config.Config) profileapp.Config {
		return profileapp.Config{MetricsTTL: cfg.Cache.MetricsTTL}
	},
	assessmentapp.NewService,
	profileapp.NewService,
	productapp.NewService,
)

// EventModule provides event handling
var EventModule = fx.Options(
	fx.Provide(
		events.NewDispatcher,
		func(d *events.Dispatcher) outbound.EventPublisher {
			return d
		},
	),
	fx.Invoke(RegisterEventHandlers),
)

// RegisterEventHandlers subscribes metrics and event logging to every event
func RegisterEventHandlers(d *events.Dispatcher, metrics *monitoring.Metrics, log *zap.Logger) {
	eventLog := log.Named("domain-events")
	d.Subscribe(events.Wildcard, metrics.HandleEvent)
	d.Subscribe(events.Wildcard, func(event shared.DomainEvent) error {
		eventLog.Debug("Domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
		return nil
	})
}

// HTTPModule provides the ops server and its health checks
var HTTPModule = fx.Provide(
	NewHealthCheck,
	func(cfg *config.Config, hc *healthcheck.HealthCheck, reg *prometheus.Registry, log *zap.Logger) *server.Server {
		return server.NewServer(cfg.Monitoring, hc, reg, log)
	},
)

// NewHealthCheck registers the database check and, with Redis enabled,
// the cache check
func NewHealthCheck(cfg *config.Config, db *sql.DB, cache *CacheBackend, log *zap.Logger) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log)
	hc.Register("database", healthcheck.NewSQLChecker(db))
	if cache.Redis != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(cache.Redis))
	}
	return hc
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterDBStats,
	RegisterLifecycleHooks,
)

// RegisterDBStats exports connection pool statistics
func RegisterDBStats(cfg *config.Config, reg *prometheus.Registry, db *sql.DB) error {
	return monitoring.RegisterDBStats(reg, db, cfg.Database.Driver)
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	path ConfigPath,
	cfg *config.Config,
	log *zap.Logger,
	level zap.AtomicLevel,
	_ *monitoring.TracingProvider,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting assessor",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
			)

			err := config.Watch(string(path),
				func(next *config.Config) {
					level.SetLevel(logger.ParseLevel(next.App.LogLevel))
					log.Info("Configuration reloaded", zap.String("log_level", next.App.LogLevel))
				},
				func(err error) {
					log.Warn("Ignoring invalid configuration change", zap.Error(err))
				},
			)
			if err != nil {
				log.Warn("Configuration hot reload disabled", zap.Error(err))
			}

			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down assessor")

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Monitoring.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown ops server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
