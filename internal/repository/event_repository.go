package repository

import (
	"context"
	"database/sql"

	"oraclex/internal/models"
)

// EventRepository - работа с таблицей alert_events
//
// Журнал срабатываний: одна запись на одно уведомление.
// Лента уведомлений дашборда читает отсюда.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository создает новый экземпляр репозитория
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create записывает событие срабатывания
func (r *EventRepository) Create(ctx context.Context, event *models.AlertEvent) error {
	query := `
		INSERT INTO alert_events (alert_id, symbol, direction, threshold, observed_price, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return r.db.QueryRowContext(
		ctx,
		query,
		event.AlertID,
		event.Symbol,
		event.Direction,
		event.Threshold,
		event.ObservedPrice,
		event.ObservedAt,
	).Scan(&event.ID)
}

// GetRecent возвращает последние события (новые сверху)
func (r *EventRepository) GetRecent(ctx context.Context, limit int) ([]*models.AlertEvent, error) {
	query := `
		SELECT id, alert_id, symbol, direction, threshold, observed_price, observed_at
		FROM alert_events
		ORDER BY id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.AlertEvent
	for rows.Next() {
		event := &models.AlertEvent{}
		if err := rows.Scan(
			&event.ID,
			&event.AlertID,
			&event.Symbol,
			&event.Direction,
			&event.Threshold,
			&event.ObservedPrice,
			&event.ObservedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// DeleteAll очищает журнал
func (r *EventRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM alert_events`)
	return err
}

// Count возвращает количество событий в журнале
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alert_events`).Scan(&count)
	return count, err
}
