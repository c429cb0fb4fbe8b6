package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oraclex/internal/models"
	"oraclex/internal/repository"
	"oraclex/internal/watcher"
	"oraclex/pkg/utils"
)

// ErrValidation - входные данные отклонены на границе API
//
// Валидация происходит на границе API (fail fast), а не в момент
// оценки: до цикла опроса некорректный алерт не доживает.
var ErrValidation = errors.New("validation failed")

// AlertService предоставляет бизнес-логику для управления алертами
//
// Связывает два представления одного и того же состояния:
// - in-memory хранилище, которое читает движок опроса
// - таблицу alerts, переживающую перезапуск процесса
//
// Все мутации пишутся в оба. Персистентная запись создается первой,
// чтобы id алерта присваивала БД.
type AlertService struct {
	alertRepo AlertRepositoryInterface
	store     *watcher.Store
}

// NewAlertService создает новый экземпляр AlertService
func NewAlertService(alertRepo AlertRepositoryInterface, store *watcher.Store) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		store:     store,
	}
}

// Hydrate загружает персистентные алерты в in-memory хранилище
//
// Вызывается один раз при старте процесса, до запуска движка опроса.
func (s *AlertService) Hydrate(ctx context.Context) (int, error) {
	alerts, err := s.alertRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load alerts: %w", err)
	}
	s.store.Hydrate(alerts)
	return len(alerts), nil
}

// CreateAlert создает новый алерт
//
// Направление нормализуется к нижнему регистру. Дубликаты
// (символ, направление, порог) разрешены: пользователь вправе
// хотеть два отдельных уведомления.
func (s *AlertService) CreateAlert(ctx context.Context, symbol, direction string, threshold float64) (*models.Alert, error) {
	symbol = strings.TrimSpace(symbol)
	direction = strings.ToLower(strings.TrimSpace(direction))

	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !models.ValidDirection(direction) {
		return nil, fmt.Errorf("%w: direction must be %q or %q, got %q",
			ErrValidation, models.DirectionAbove, models.DirectionBelow, direction)
	}
	if err := utils.ValidateThreshold(threshold); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	alert := &models.Alert{
		Symbol:    symbol,
		Direction: direction,
		Threshold: threshold,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to persist alert: %w", err)
	}

	if _, err := s.store.Add(*alert); err != nil {
		// Направление уже провалидировано, сюда попасть нельзя;
		// если попали - откатываем персистентную запись
		_ = s.alertRepo.Delete(ctx, alert.ID)
		return nil, err
	}

	return alert, nil
}

// ListAlerts возвращает все алерты в порядке создания
func (s *AlertService) ListAlerts(ctx context.Context) []models.Alert {
	return s.store.All()
}

// DeleteAlert удаляет алерт
// Идемпотентно: повторное удаление - no-op
//
// Сначала персистентное хранилище, потом память: при ошибке БД алерт
// остается в store и не воскресает после рестарта.
func (s *AlertService) DeleteAlert(ctx context.Context, id int64) error {
	if err := s.alertRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.store.Remove(id)
	return nil
}

// SetAlertActive ставит алерт на паузу или возобновляет его
//
// Возобновление - единственный путь повторного взведения после
// срабатывания: автоматического re-arm нет.
func (s *AlertService) SetAlertActive(ctx context.Context, id int64, active bool) error {
	if ok := s.store.SetActive(id, active); !ok {
		return repository.ErrAlertNotFound
	}
	return s.alertRepo.SetActive(ctx, id, active)
}

// MarkFired фиксирует срабатывание алерта в персистентном хранилище
// Реализует watcher.FiredRecorder.
func (s *AlertService) MarkFired(ctx context.Context, alertID int64) error {
	return s.alertRepo.SetActive(ctx, alertID, false)
}

// Компилятор проверяет контракт с движком
var _ watcher.FiredRecorder = (*AlertService)(nil)
