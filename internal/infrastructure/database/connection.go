package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/gradenet/internal/infrastructure/config"
)

// DB is an open database handle together with the ent dialect used to build its queries.
type DB struct {
	*sql.DB
	Dialect string
}

// Open connects to the configured database and returns a cleanup that closes it.
func Open(cfg *config.Config, logger *logrus.Logger) (*DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	var db *DB
	switch driver {
	case "postgres":
		db, err = openPostgres(cfg, dsn)
	case "pgx":
		db, err = openPgx(cfg, dsn, logger)
	case "sqlite3":
		db, err = OpenSQLite(dsn)
	default:
		err = fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.WithFields(logrus.Fields{"driver": driver, "dialect": db.Dialect}).Debug("database connected")
	return db, func() {
		_ = db.Close()
	}, nil
}

func openPostgres(cfg *config.Config, dsn string) (*DB, error) {
	rawDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		rawDB.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if err := ping(rawDB); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	return &DB{DB: rawDB, Dialect: dialect.Postgres}, nil
}

func openPgx(cfg *config.Config, dsn string, logger *logrus.Logger) (*DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if cfg.Database.LogSQL {
		connCfg.Tracer = &tracelog.TraceLog{
			Logger:   tracelog.LoggerFunc(pgxLogFunc(logger)),
			LogLevel: tracelog.LogLevelTrace,
		}
	}

	rawDB := stdlib.OpenDB(*connCfg)
	if cfg.Database.MaxConns > 0 {
		rawDB.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if err := ping(rawDB); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("ping pgx db: %w", err)
	}
	return &DB{DB: rawDB, Dialect: dialect.Postgres}, nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced.
func OpenSQLite(dsn string) (*DB, error) {
	rawDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)

	if err := ping(rawDB); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := rawDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return &DB{DB: rawDB, Dialect: dialect.SQLite}, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func pgxLogFunc(logger *logrus.Logger) func(context.Context, tracelog.LogLevel, string, map[string]any) {
	return func(ctx context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
		entry := logger.WithContext(ctx).WithFields(logrus.Fields(data)).WithField("component", "pgx")
		switch lvl {
		case tracelog.LogLevelError:
			entry.Error(msg)
		case tracelog.LogLevelWarn:
			entry.Warn(msg)
		case tracelog.LogLevelInfo:
			entry.Info(msg)
		default:
			entry.Debug(msg)
		}
	}
}
