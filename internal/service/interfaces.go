package service

import (
	"context"

	"oraclex/internal/models"
	"oraclex/internal/repository"
)

// AlertRepositoryInterface определяет интерфейс репозитория алертов
type AlertRepositoryInterface interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id int64) (*models.Alert, error)
	GetAll(ctx context.Context) ([]*models.Alert, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	Count(ctx context.Context) (int, error)
}

// WatchlistRepositoryInterface определяет интерфейс репозитория списка наблюдения
type WatchlistRepositoryInterface interface {
	Create(ctx context.Context, item *models.WatchlistItem) error
	GetAll(ctx context.Context) ([]*models.WatchlistItem, error)
	Delete(ctx context.Context, id int64) error
	ExistsBySymbol(ctx context.Context, symbol string) (bool, error)
}

// EventRepositoryInterface определяет интерфейс репозитория журнала событий
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *models.AlertEvent) error
	GetRecent(ctx context.Context, limit int) ([]*models.AlertEvent, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Проверяем, что реальные репозитории реализуют интерфейсы
var _ AlertRepositoryInterface = (*repository.AlertRepository)(nil)
var _ WatchlistRepositoryInterface = (*repository.WatchlistRepository)(nil)
var _ EventRepositoryInterface = (*repository.EventRepository)(nil)

// ============ Интерфейсы сервисов для Dependency Injection ============

// AlertServiceInterface определяет интерфейс сервиса алертов
type AlertServiceInterface interface {
	CreateAlert(ctx context.Context, symbol, direction string, threshold float64) (*models.Alert, error)
	ListAlerts(ctx context.Context) []models.Alert
	DeleteAlert(ctx context.Context, id int64) error
	SetAlertActive(ctx context.Context, id int64, active bool) error
}

// WatchlistServiceInterface определяет интерфейс сервиса списка наблюдения
type WatchlistServiceInterface interface {
	GetWatchlist(ctx context.Context) ([]*models.WatchlistItem, error)
	AddToWatchlist(ctx context.Context, symbol, label string) (*models.WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, id int64) error
}

// EventServiceInterface определяет интерфейс сервиса журнала событий
type EventServiceInterface interface {
	GetEvents(ctx context.Context, limit int) ([]*models.AlertEvent, error)
	ClearEvents(ctx context.Context) error
}

// MarketServiceInterface определяет интерфейс прокси к аналитическому бэкенду
type MarketServiceInterface interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Analyze(ctx context.Context, payload []byte) ([]byte, error)
}

// Проверяем, что реальные сервисы реализуют интерфейсы
var _ AlertServiceInterface = (*AlertService)(nil)
var _ WatchlistServiceInterface = (*WatchlistService)(nil)
var _ EventServiceInterface = (*EventService)(nil)
var _ MarketServiceInterface = (*MarketService)(nil)
