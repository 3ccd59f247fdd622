package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

const postgresServiceName = "postgres"

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// PostgresStore reads the paid flag straight from the profile table.
type PostgresStore struct {
	db    *sql.DB
	query string
}

// OpenPostgres opens a connection pool for dsn. The connection is checked
// lazily; use Check to ping.
func OpenPostgres(dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	store, err := NewPostgresStore(db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// NewPostgresStore wraps an open pool. table is interpolated into the query,
// so it must be a plain (optionally schema qualified) identifier.
func NewPostgresStore(db *sql.DB, table string) (*PostgresStore, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, domain.NewValidationErrorWithValue("profiles.table", "must be a plain identifier", table)
	}

	return &PostgresStore{
		db:    db,
		query: fmt.Sprintf("SELECT overall_unlocked FROM %s WHERE id = $1", table),
	}, nil
}

// OverallUnlocked implements ports.ProfileStore.
func (s *PostgresStore) OverallUnlocked(ctx context.Context, userID string) (bool, error) {
	var unlocked sql.NullBool

	err := s.db.QueryRowContext(ctx, s.query, userID).Scan(&unlocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, domain.NewUnavailableError(postgresServiceName, fmt.Sprintf("reading profile: %v", err))
	}

	return unlocked.Valid && unlocked.Bool, nil
}

// Name implements ports.HealthChecker.
func (s *PostgresStore) Name() string {
	return postgresServiceName
}

// Check implements ports.HealthChecker.
func (s *PostgresStore) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
