package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/msrikanth38/90s-jar/internal/store/schema"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Dialect captures what differs between the supported backends.
type Dialect interface {
	Name() string
	DriverName() string
	SchemaFile() string
	Configure(db *sqlx.DB)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite" }
func (sqliteDialect) SchemaFile() string { return "sqlite.sql" }

// Configure limits the pool to one connection so writers never contend
// for the file lock.
func (sqliteDialect) Configure(db *sqlx.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "postgres" }
func (postgresDialect) SchemaFile() string { return "postgres.sql" }

func (postgresDialect) Configure(db *sqlx.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// Options selects and locates the backend.
type Options struct {
	// DatabaseURL, when set, selects postgres.
	DatabaseURL string
	// File is the sqlite database path used otherwise.
	File string
}

// Store is the persistence adapter. Repository methods come from the
// embedded Queries, which run directly against the pool.
type Store struct {
	*Queries
	db      *sqlx.DB
	dialect Dialect
}

// Queries runs statements against either the pool or an open transaction.
type Queries struct {
	ext sqlx.ExtContext
}

// Open connects to the configured backend, applies the schema and seeds the
// baseline catalog into an empty database.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var (
		dialect Dialect
		dsn     string
	)
	if opts.DatabaseURL != "" {
		dialect = postgresDialect{}
		dsn = opts.DatabaseURL
	} else {
		if strings.TrimSpace(opts.File) == "" {
			return nil, errors.New("database file is required")
		}
		dialect = sqliteDialect{}
		dsn = filepath.Clean(opts.File) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sqlx.ConnectContext(ctx, dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect.Name(), err)
	}
	dialect.Configure(db)

	s := &Store{Queries: &Queries{ext: db}, db: db, dialect: dialect}
	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seed(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	ddl, err := schema.FS.ReadFile(s.dialect.SchemaFile())
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	for _, stmt := range strings.Split(string(ddl), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Dialect returns the backend chosen at start-up
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside one transaction, committing when it returns nil and
// rolling back otherwise. fn must only use the Queries it is given.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{ext: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (q *Queries) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *Queries) getOptional(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := q.get(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (q *Queries) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *Queries) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return q.ext.ExecContext(ctx, q.ext.Rebind(query), args...)
}
