package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rrayyhanep/Heaven-receipt/internal/config"
	"github.com/rrayyhanep/Heaven-receipt/internal/employee"
	"github.com/rrayyhanep/Heaven-receipt/internal/payroll"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/connection"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/keylock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	connectRetries = 5
	lockTTL        = 30 * time.Second
	lockRetry      = 50 * time.Millisecond
)

// Infra is the set of backends opened for one process.
type Infra struct {
	Repo   employee.Repository
	Redis  *redis.Client
	Locker keylock.Locker

	closers []func()
}

// Close releases connections in reverse order of opening.
func (i *Infra) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
	i.closers = nil
}

// OpenInfra connects the configured employee store and, when REDIS_ADDR is
// set, the list cache and distributed lock.
func OpenInfra(cfg config.Config, logger *zap.Logger) (*Infra, error) {
	infra := &Infra{}

	repo, closeRepo, err := NewEmployeeRepository(cfg, logger)
	if err != nil {
		return nil, err
	}
	infra.Repo = repo
	infra.closers = append(infra.closers, closeRepo)

	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, connectRetries)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = rdb
		infra.Locker = keylock.NewRedis(rdb, lockTTL, lockRetry, logger)
		infra.closers = append(infra.closers, func() { _ = rdb.Close() })
	} else {
		infra.Locker = keylock.NewLocal()
	}

	return infra, nil
}

// NewEmployeeRepository opens the store named by cfg.Store.Driver.
func NewEmployeeRepository(cfg config.Config, logger *zap.Logger) (employee.Repository, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Info("employee store: memory", zap.Int("seeded", len(cfg.SeedEmployees)))
		return employee.NewMemoryRepository(seedEmployees(cfg.SeedEmployees)), noop, nil

	case config.DriverFile:
		logger.Info("employee store: file", zap.String("path", cfg.Store.FilePath))
		return employee.NewFileRepository(cfg.Store.FilePath), noop, nil

	case config.DriverPostgres:
		pg := cfg.Postgres
		db, err := connection.ConnectGORMWithRetry(pg.Host, pg.User, pg.Password, pg.Name, pg.Port, pg.SSLMode, connectRetries)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if err := employee.AutoMigrate(db); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate employees: %w", err)
		}
		logger.Info("employee store: postgres", zap.String("host", pg.Host), zap.String("db", pg.Name))
		return employee.NewRepository(db), closeDB, nil

	case config.DriverMongo:
		if cfg.Mongo.URI == "" {
			return nil, nil, fmt.Errorf("MONGO_URI is required for the mongo store")
		}
		client, err := connection.ConnectMongoWithRetry(cfg.Mongo.URI, connectRetries)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(employee.CollectionName)
		closeClient := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		logger.Info("employee store: mongo", zap.String("database", cfg.Mongo.Database))
		return employee.NewMongoRepository(coll), closeClient, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func seedEmployees(seed []config.SeedEmployee) []employee.Employee {
	out := make([]employee.Employee, 0, len(seed))
	for i, s := range seed {
		id := s.ID
		if id == "" {
			id = fmt.Sprintf("seed-%d", i+1)
		}
		out = append(out, employee.Employee{
			ID:             id,
			Name:           s.Name,
			BasicSalary:    s.BasicSalary,
			PendingBalance: s.PendingBalance,
		})
	}
	return out
}

// Services are the domain services shared by the HTTP server and the CLI.
type Services struct {
	Employees employee.Service
	Payroll   payroll.Service
}

func NewServices(cfg config.Config, infra *Infra, logger *zap.Logger) Services {
	employees := employee.NewService(infra.Repo, infra.Locker, infra.Redis, logger)
	slips := payroll.NewService(employees, payroll.NewPDFRenderer(), payroll.Options{
		CompanyName:   cfg.CompanyName,
		CurrencyLabel: cfg.CurrencyLabel,
	}, logger)

	return Services{Employees: employees, Payroll: slips}
}

// BuildApp opens the backends and returns the router plus a cleanup func
// that closes them.
func BuildApp(cfg config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	infra, err := OpenInfra(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	router, err := NewRouter(cfg, NewServices(cfg, infra, logger), infra.Redis, logger)
	if err != nil {
		infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}
