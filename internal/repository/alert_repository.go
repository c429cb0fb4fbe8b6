package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"oraclex/internal/models"
)

// Ошибки репозитория алертов
var (
	ErrAlertNotFound = errors.New("alert not found")
)

// AlertRepository - работа с таблицей alerts
//
// Таблица - персистентная копия in-memory хранилища движка:
// при старте процесса из нее гидрируется хранилище, все мутации
// (создание, удаление, пауза, срабатывание) пишутся насквозь.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository создает новый экземпляр репозитория
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create сохраняет новый алерт и присваивает ему id
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (symbol, direction, threshold, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	alert.IsActive = true

	err := r.db.QueryRowContext(
		ctx,
		query,
		alert.Symbol,
		alert.Direction,
		alert.Threshold,
		alert.IsActive,
		alert.CreatedAt,
	).Scan(&alert.ID)

	return err
}

// GetByID возвращает алерт по id
func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	query := `
		SELECT id, symbol, direction, threshold, is_active, created_at
		FROM alerts
		WHERE id = $1`

	alert := &models.Alert{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&alert.ID,
		&alert.Symbol,
		&alert.Direction,
		&alert.Threshold,
		&alert.IsActive,
		&alert.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	return alert, nil
}

// GetAll возвращает все алерты в порядке создания
// Используется для гидрации in-memory хранилища при старте
func (r *AlertRepository) GetAll(ctx context.Context) ([]*models.Alert, error) {
	query := `
		SELECT id, symbol, direction, threshold, is_active, created_at
		FROM alerts
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert := &models.Alert{}
		if err := rows.Scan(
			&alert.ID,
			&alert.Symbol,
			&alert.Direction,
			&alert.Threshold,
			&alert.IsActive,
			&alert.CreatedAt,
		); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

// Delete удаляет алерт
// Идемпотентно: удаление несуществующего id - no-op
func (r *AlertRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	return err
}

// SetActive включает/выключает алерт
func (r *AlertRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE alerts SET is_active = $1 WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// Count возвращает общее количество алертов
func (r *AlertRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&count)
	return count, err
}
