package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mrlokans/kotoba/internal/config"
	"github.com/mrlokans/kotoba/internal/entities"
	"github.com/mrlokans/kotoba/internal/logger"
)

// Options selects the backing store and its runtime behaviour.
type Options struct {
	Driver string // config.DriverSQLite or config.DriverPostgres
	Path   string // sqlite file
	DSN    string // postgres DSN
	LogSQL bool
	Retry  Retrier
	Logger *logger.Logger
}

// OptionsFromConfig maps application config onto database options.
func OptionsFromConfig(cfg *config.Config, log *logger.Logger) Options {
	return Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
		LogSQL: cfg.Database.LogSQL,
		Retry: Retrier{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			CallTimeout:     cfg.Retry.CallTimeout,
		},
		Logger: log,
	}
}

// Database is the process-wide persistence handle. It is opened once at
// start, passed explicitly to every repository and closed at exit.
type Database struct {
	DB    *gorm.DB
	Log   *logger.Logger
	Retry Retrier
}

func NewDatabase(opts Options) (*Database, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", config.DriverSQLite:
		// Foreign keys are per connection in sqlite, so they go in the DSN.
		dialector = sqlite.Open(opts.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	case config.DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	level := gormLogger.Warn
	if opts.LogSQL {
		level = gormLogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(log, gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", Translate(err))
	}

	if opts.Driver == "" || opts.Driver == config.DriverSQLite {
		// sqlite has a single writer; one connection avoids busy errors
		// between pooled connections of the same process.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database initialized", "driver", opts.Driver, "path", opts.Path)

	return &Database{DB: db, Log: log, Retry: opts.Retry}, nil
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Lesson{},
		&entities.VocabEntry{},
		&entities.KanjiEntry{},
		&entities.ReviewState{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the store is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return Translate(err)
	}
	return Translate(sqlDB.PingContext(ctx))
}

// Run executes op against the store with the handle's retry policy. op may
// run more than once and must not keep state between attempts.
func (d *Database) Run(ctx context.Context, op func(db *gorm.DB) error) error {
	return d.Retry.Do(ctx, func(ctx context.Context) error {
		return op(d.DB.WithContext(ctx))
	})
}

// Transaction runs fn inside one transaction. The handle given to fn does not
// retry individual calls; the whole transaction is retried instead when the
// store is unavailable, so fn must be safe to run again after a rollback.
func (d *Database) Transaction(ctx context.Context, fn func(tx *Database) error) error {
	r := d.Retry
	r.CallTimeout = 0
	return r.Do(ctx, func(ctx context.Context) error {
		return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&Database{DB: tx, Log: d.Log, Retry: NoRetry()})
		})
	})
}
