/*
Package sqlite provides SQLite-backed persistence for the loan engine.

PURPOSE:
  Stores calculation history, named rate cards, and the holiday calendar.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  calculations: History of optimization runs (request + ranked result)
  rate_cards:   Named rate card configurations (versioned)
  holidays:     Bank holiday calendar

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/loans.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - api/handlers.go: HTTP layer persisting calculations here
  - api/scheduler.go: Retention scheduler pruning old calculations
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/loan-engine/loan"
)

// Store persists calculations, rate cards, and holidays in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Calculation history (one row per optimization run)
	CREATE TABLE IF NOT EXISTS calculations (
		id TEXT PRIMARY KEY,
		request_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		best_strategy TEXT NOT NULL,
		total_interest TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_created_at
		ON calculations(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_calculations_best
		ON calculations(best_strategy);

	-- Named rate card configurations (versioned)
	CREATE TABLE IF NOT EXISTS rate_cards (
		name TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Bank holiday calendar
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALCULATION HISTORY
// =============================================================================

// CalculationRecord is a stored optimization run.
type CalculationRecord struct {
	ID            string
	RequestJSON   string
	ResultJSON    string
	BestStrategy  string
	TotalInterest string
	CreatedAt     time.Time
}

// SaveCalculation stores a finished optimization run.
func (s *Store) SaveCalculation(ctx context.Context, rec CalculationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calculations (id, request_json, result_json, best_strategy, total_interest, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.RequestJSON, rec.ResultJSON,
		rec.BestStrategy, rec.TotalInterest,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// GetCalculation retrieves a calculation by ID. Returns nil when not found.
func (s *Store) GetCalculation(ctx context.Context, id string) (*CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec CalculationRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, request_json, result_json, best_strategy, total_interest, created_at FROM calculations WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.RequestJSON, &rec.ResultJSON, &rec.BestStrategy, &rec.TotalInterest, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// ListCalculations returns the most recent runs, newest first.
func (s *Store) ListCalculations(ctx context.Context, limit int) ([]CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, request_json, result_json, best_strategy, total_interest, created_at FROM calculations ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CalculationRecord
	for rows.Next() {
		var rec CalculationRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.RequestJSON, &rec.ResultJSON, &rec.BestStrategy, &rec.TotalInterest, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteCalculationsBefore removes runs older than the cutoff and returns
// how many rows were deleted. Used by the retention scheduler.
func (s *Store) DeleteCalculationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM calculations WHERE created_at < ?",
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune calculations: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// RATE CARDS
// =============================================================================

// RateCardRecord is a stored rate card configuration.
type RateCardRecord struct {
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveRateCard inserts or updates a named rate card, bumping the version
// on update.
func (s *Store) SaveRateCard(ctx context.Context, rec RateCardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rate_cards (name, config_json, version, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			config_json = excluded.config_json,
			version = rate_cards.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query, rec.Name, rec.ConfigJSON, now, now)
	return err
}

// GetRateCard retrieves a rate card by name. Returns nil when not found.
func (s *Store) GetRateCard(ctx context.Context, name string) (*RateCardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec RateCardRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT name, config_json, version, created_at, updated_at FROM rate_cards WHERE name = ?",
		name,
	).Scan(&rec.Name, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// ListRateCards returns all rate cards by name.
func (s *Store) ListRateCards(ctx context.Context) ([]RateCardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, config_json, version, created_at, updated_at FROM rate_cards ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RateCardRecord
	for rows.Next() {
		var rec RateCardRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&rec.Name, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRateCard removes a rate card.
func (s *Store) DeleteRateCard(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM rate_cards WHERE name = ?", name)
	return err
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayRecord is a stored bank holiday.
type HolidayRecord struct {
	ID        string
	Date      loan.TimePoint
	Name      string
	CreatedAt time.Time
}

// SaveHoliday saves a holiday. Saving the same date+name pair again is a
// no-op.
func (s *Store) SaveHoliday(ctx context.Context, h HolidayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, name) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.Date.String(), h.Name,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// ListHolidays returns holidays for a year, or all holidays when year is 0.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]HolidayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rows *sql.Rows
		err  error
	)
	if year > 0 {
		rows, err = s.db.QueryContext(ctx,
			"SELECT id, date, name, created_at FROM holidays WHERE strftime('%Y', date) = ? ORDER BY date ASC",
			fmt.Sprintf("%d", year),
		)
	} else {
		rows, err = s.db.QueryContext(ctx,
			"SELECT id, date, name, created_at FROM holidays ORDER BY date ASC",
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []HolidayRecord
	for rows.Next() {
		var h HolidayRecord
		var dateStr, createdAt string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &createdAt); err != nil {
			return nil, err
		}
		h.Date, _ = loan.ParseDate(dateStr)
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// HolidayDates returns just the dates, ready for a business calendar.
func (s *Store) HolidayDates(ctx context.Context, year int) ([]loan.TimePoint, error) {
	holidays, err := s.ListHolidays(ctx, year)
	if err != nil {
		return nil, err
	}
	dates := make([]loan.TimePoint, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date
	}
	return dates, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"calculations", "rate_cards", "holidays"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
