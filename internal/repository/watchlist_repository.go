package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"oraclex/internal/models"
)

// Ошибки репозитория списка наблюдения
var (
	ErrWatchlistItemNotFound = errors.New("watchlist item not found")
	ErrWatchlistItemExists   = errors.New("watchlist item already exists")
)

// WatchlistRepository - работа с таблицей watchlist
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository создает новый экземпляр репозитория
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Create добавляет символ в список наблюдения
// Символ в списке уникален - повторное добавление возвращает ErrWatchlistItemExists
func (r *WatchlistRepository) Create(ctx context.Context, item *models.WatchlistItem) error {
	query := `
		INSERT INTO watchlist (symbol, label, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		item.Symbol,
		item.Label,
		item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrWatchlistItemExists
		}
		return err
	}

	return nil
}

// GetAll возвращает весь список наблюдения в порядке добавления
func (r *WatchlistRepository) GetAll(ctx context.Context) ([]*models.WatchlistItem, error) {
	query := `
		SELECT id, symbol, label, created_at
		FROM watchlist
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.WatchlistItem
	for rows.Next() {
		item := &models.WatchlistItem{}
		if err := rows.Scan(&item.ID, &item.Symbol, &item.Label, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete удаляет элемент списка наблюдения
func (r *WatchlistRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM watchlist WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWatchlistItemNotFound
	}
	return nil
}

// ExistsBySymbol проверяет наличие символа в списке
func (r *WatchlistRepository) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM watchlist WHERE symbol = $1)`,
		symbol,
	).Scan(&exists)
	return exists, err
}

// isUniqueViolation распознает нарушение unique constraint от Postgres
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
