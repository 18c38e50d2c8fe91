// Package repository provides durable relational storage for quotes.
package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/elizabethsiegle/quotes-rag/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MinQuoteID is the corpus-hygiene floor: rows with ids at or below this
// value are administrative/sample seed rows, not quotes, and must never be
// surfaced as answer candidates.
const MinQuoteID int64 = 100000

// ErrInsertFailed indicates an insert produced no row.
var ErrInsertFailed = errors.New("failed to create quote")

// Open opens the SQLite database at path and applies pending migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies all pending migrations from the embedded filesystem.
func Migrate(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// QuoteRepository owns all reads and writes against the quotes table.
// It is safe for concurrent use; database/sql handles pooling.
type QuoteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewQuoteRepository creates a repository over an open database handle.
// A nil logger falls back to slog.Default().
func NewQuoteRepository(db *sql.DB, logger *slog.Logger) *QuoteRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteRepository{db: db, logger: logger}
}

// Insert stores a new quote and returns the created row. The returned id is
// authoritative and is used as the vector index entry id.
func (r *QuoteRepository) Insert(ctx context.Context, text string) (models.Quote, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO quotes (quote) VALUES (?) RETURNING id, quote, author`, text)

	var q models.Quote
	var author sql.NullString
	if err := row.Scan(&q.ID, &q.Text, &author); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Quote{}, ErrInsertFailed
		}
		return models.Quote{}, fmt.Errorf("failed to insert quote: %w", err)
	}
	q.Author = author.String

	r.logger.Debug("inserted quote", "id", q.ID, "length", len(q.Text))
	return q, nil
}

// FetchRange returns the quotes whose id is in ids, excluding excludeID when
// non-nil, restricted to ids strictly greater than minID. The minID floor
// keeps known non-quote seed rows out of the candidate set; callers pass
// MinQuoteID unless they have a reason not to.
func (r *QuoteRepository) FetchRange(ctx context.Context, ids []int64, excludeID *int64, minID int64) ([]models.Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+2)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT id, quote, author FROM quotes WHERE id IN (%s) AND id > ?`,
		strings.Join(placeholders, ", "))
	args = append(args, minID)
	if excludeID != nil {
		query += ` AND id <> ?`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// FetchPage returns up to limit quotes ordered by ascending id. Used by the
// bulk populate path.
func (r *QuoteRepository) FetchPage(ctx context.Context, limit int) ([]models.Quote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quote, author FROM quotes ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote page: %w", err)
	}
	defer rows.Close()

	return scanQuotes(rows)
}

func scanQuotes(rows *sql.Rows) ([]models.Quote, error) {
	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		var author sql.NullString
		if err := rows.Scan(&q.ID, &q.Text, &author); err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		q.Author = author.String
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read quote rows: %w", err)
	}
	return quotes, nil
}
