package watchlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantweb/quantbot/internal/contracts"
)

// ErrDuplicateSymbol is returned when adding a symbol that already exists
var ErrDuplicateSymbol = errors.New("symbol already exists in watchlist")

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations
const pgUniqueViolation = "23505"

// Repository persists the watchlist in PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new watchlist repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns all watchlist entries, most recently added first
func (r *Repository) List(ctx context.Context) ([]contracts.WatchlistEntry, error) {
	query := `
		SELECT symbol, mode, strategy, timeframe, period
		FROM watchlist
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []contracts.WatchlistEntry
	for rows.Next() {
		var entry contracts.WatchlistEntry
		if err := rows.Scan(&entry.Symbol, &entry.Mode, &entry.Strategy, &entry.Timeframe, &entry.Period); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist rows: %w", err)
	}

	return entries, nil
}

// Add inserts a watchlist entry. The symbol is stored uppercase; a
// duplicate symbol returns ErrDuplicateSymbol.
func (r *Repository) Add(ctx context.Context, entry contracts.WatchlistEntry) error {
	query := `
		INSERT INTO watchlist (symbol, mode, strategy, timeframe, period)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		strings.ToUpper(entry.Symbol),
		entry.Mode,
		entry.Strategy,
		entry.Timeframe,
		entry.Period,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateSymbol
		}
		return fmt.Errorf("insert watchlist entry: %w", err)
	}

	return nil
}

// Remove deletes a watchlist entry by symbol
func (r *Repository) Remove(ctx context.Context, symbol string) error {
	query := `DELETE FROM watchlist WHERE symbol = $1`

	if _, err := r.db.Exec(ctx, query, strings.ToUpper(symbol)); err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}

	return nil
}
