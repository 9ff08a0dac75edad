// Package wire provides dependency injection for the GMAO application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	cliadapter "github.com/example/gmao/internal/adapters/cli"
	"github.com/example/gmao/internal/adapters/httpapi"
	"github.com/example/gmao/internal/adapters/kafka"
	"github.com/example/gmao/internal/adapters/redis"
	"github.com/example/gmao/internal/adapters/sqldb"
	"github.com/example/gmao/internal/app"
	"github.com/example/gmao/internal/config"
	"github.com/example/gmao/internal/db"
	"github.com/example/gmao/internal/logging"
	"github.com/example/gmao/internal/metrics"
	"github.com/example/gmao/internal/ports/primary"
	"github.com/example/gmao/internal/ports/secondary"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	metric  *metrics.Metrics
	closers []func() error

	elevatorService   primary.ElevatorService
	siteService       primary.SiteService
	technicianService primary.TechnicianService
	riskService       primary.RiskService
	analyticsService  primary.AnalyticsService

	once sync.Once
)

// ElevatorService returns the singleton ElevatorService instance.
func ElevatorService() primary.ElevatorService {
	once.Do(initServices)
	return elevatorService
}

// SiteService returns the singleton SiteService instance.
func SiteService() primary.SiteService {
	once.Do(initServices)
	return siteService
}

// TechnicianService returns the singleton TechnicianService instance.
func TechnicianService() primary.TechnicianService {
	once.Do(initServices)
	return technicianService
}

// RiskService returns the singleton RiskService instance.
func RiskService() primary.RiskService {
	once.Do(initServices)
	return riskService
}

// AnalyticsService returns the singleton AnalyticsService instance.
func AnalyticsService() primary.AnalyticsService {
	once.Do(initServices)
	return analyticsService
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err = logging.NewLogger(cfg.Log.Level, cfg.Log.Format, logging.ServiceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	metric = metrics.NewMetrics()

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	closers = append(closers, db.Close)

	driver := cfg.Storage.Driver
	siteRepo := sqldb.NewSiteRepository(database, driver)
	elevatorRepo := sqldb.NewElevatorRepository(database, driver)
	technicianRepo := sqldb.NewTechnicianRepository(database, driver)
	eventRepo := sqldb.NewEventRepository(database, driver)

	// Optional adapters stay untyped nil when disabled.
	var riskCache secondary.RiskCache
	if cfg.RedisEnabled() {
		client, err := connectRedis()
		if err != nil {
			logger.Warn("redis unavailable, risk cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			riskCache = redis.NewRiskCache(redis.NewRedisKV(client))
			closers = append(closers, client.Close)
		}
	}

	var publisher secondary.EventPublisher
	if cfg.KafkaEnabled() {
		p, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("kafka publisher disabled", zap.Error(err))
		} else {
			publisher = p
			closers = append(closers, p.Close)
		}
	}

	elevatorService = app.NewElevatorService(elevatorRepo, siteRepo, technicianRepo, eventRepo, riskCache, publisher, logger, metric)
	siteService = app.NewSiteService(siteRepo, elevatorRepo, riskCache, logger)
	technicianService = app.NewTechnicianService(technicianRepo, siteRepo, elevatorRepo, logger)
	riskService = app.NewRiskService(elevatorRepo, siteRepo, eventRepo, riskCache, cfg.Redis.TTL, logger, metric)
	analyticsService = app.NewAnalyticsService(siteRepo, elevatorRepo, technicianRepo, eventRepo, logger)
}

func connectRedis() (*goredis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
}

// Shutdown releases the connections opened by initServices, newest first.
func Shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && logger != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}
	closers = nil
	if logger != nil {
		_ = logger.Sync()
	}
}

// HTTPServer returns the REST API wired to the singleton services.
func HTTPServer() *httpapi.Server {
	once.Do(initServices)
	return httpapi.NewServer(httpapi.Services{
		Elevators:   elevatorService,
		Sites:       siteService,
		Technicians: technicianService,
		Risk:        riskService,
		Analytics:   analyticsService,
	}, logger, metric)
}

// ElevatorAdapter returns a new ElevatorAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ElevatorAdapter() *cliadapter.ElevatorAdapter {
	return ElevatorAdapterWithOutput(os.Stdout)
}

// ElevatorAdapterWithOutput returns a new ElevatorAdapter writing to the given output.
func ElevatorAdapterWithOutput(out io.Writer) *cliadapter.ElevatorAdapter {
	once.Do(initServices)
	return cliadapter.NewElevatorAdapter(elevatorService, riskService, out)
}

// SiteAdapter returns a new SiteAdapter writing to stdout.
func SiteAdapter() *cliadapter.SiteAdapter {
	return SiteAdapterWithOutput(os.Stdout)
}

// SiteAdapterWithOutput returns a new SiteAdapter writing to the given output.
func SiteAdapterWithOutput(out io.Writer) *cliadapter.SiteAdapter {
	once.Do(initServices)
	return cliadapter.NewSiteAdapter(siteService, technicianService, out)
}

// TechnicianAdapter returns a new TechnicianAdapter writing to stdout.
func TechnicianAdapter() *cliadapter.TechnicianAdapter {
	return TechnicianAdapterWithOutput(os.Stdout)
}

// TechnicianAdapterWithOutput returns a new TechnicianAdapter writing to the given output.
func TechnicianAdapterWithOutput(out io.Writer) *cliadapter.TechnicianAdapter {
	once.Do(initServices)
	return cliadapter.NewTechnicianAdapter(technicianService, out)
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
func ReportAdapter() *cliadapter.ReportAdapter {
	return ReportAdapterWithOutput(os.Stdout)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) *cliadapter.ReportAdapter {
	once.Do(initServices)
	return cliadapter.NewReportAdapter(riskService, analyticsService, out)
}
