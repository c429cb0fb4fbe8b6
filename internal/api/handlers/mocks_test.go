package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"oraclex/internal/models"
	"oraclex/internal/repository"
	"oraclex/internal/service"
)

// ============ Mock Alert Service ============

// MockAlertService мок для AlertServiceInterface
type MockAlertService struct {
	mu        sync.RWMutex
	alerts    map[int64]*models.Alert
	order     []int64
	nextID    int64
	createErr error
	setErr    error
	deleteErr error
}

// NewMockAlertService создает новый мок сервиса алертов
func NewMockAlertService() *MockAlertService {
	return &MockAlertService{
		alerts: make(map[int64]*models.Alert),
		nextID: 1,
	}
}

func (m *MockAlertService) CreateAlert(ctx context.Context, symbol, direction string, threshold float64) (*models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", service.ErrValidation)
	}
	if direction != models.DirectionAbove && direction != models.DirectionBelow {
		return nil, fmt.Errorf("%w: bad direction %q", service.ErrValidation, direction)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: bad threshold", service.ErrValidation)
	}

	alert := &models.Alert{
		ID:        m.nextID,
		Symbol:    symbol,
		Direction: direction,
		Threshold: threshold,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.alerts[alert.ID] = alert
	m.order = append(m.order, alert.ID)
	m.nextID++
	return alert, nil
}

func (m *MockAlertService) ListAlerts(ctx context.Context) []models.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Alert, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.alerts[id])
	}
	return out
}

func (m *MockAlertService) DeleteAlert(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.alerts, id)
	for i, aid := range m.order {
		if aid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockAlertService) SetAlertActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	a, ok := m.alerts[id]
	if !ok {
		return repository.ErrAlertNotFound
	}
	a.IsActive = active
	return nil
}

// ============ Mock Event Service ============

// MockEventService мок для EventServiceInterface
type MockEventService struct {
	mu       sync.RWMutex
	events   []*models.AlertEvent
	getErr   error
	clearErr error
}

// NewMockEventService создает новый мок сервиса журнала
func NewMockEventService() *MockEventService {
	return &MockEventService{}
}

// AddEvent добавляет событие в мок
func (m *MockEventService) AddEvent(alertID int64, symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, &models.AlertEvent{
		ID:            int64(len(m.events) + 1),
		AlertID:       alertID,
		Symbol:        symbol,
		Direction:     models.DirectionAbove,
		Threshold:     price,
		ObservedPrice: price,
		ObservedAt:    time.Now(),
	})
}

func (m *MockEventService) GetEvents(ctx context.Context, limit int) ([]*models.AlertEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}

	// Новые сверху
	out := make([]*models.AlertEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *MockEventService) ClearEvents(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clearErr != nil {
		return m.clearErr
	}
	m.events = nil
	return nil
}

// ============ Mock Watchlist Service ============

// MockWatchlistService мок для WatchlistServiceInterface
type MockWatchlistService struct {
	mu        sync.RWMutex
	items     map[int64]*models.WatchlistItem
	order     []int64
	nextID    int64
	addErr    error
	getErr    error
	removeErr error
}

// NewMockWatchlistService создает новый мок сервиса списка наблюдения
func NewMockWatchlistService() *MockWatchlistService {
	return &MockWatchlistService{
		items:  make(map[int64]*models.WatchlistItem),
		nextID: 1,
	}
}

func (m *MockWatchlistService) GetWatchlist(ctx context.Context) ([]*models.WatchlistItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]*models.WatchlistItem, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *MockWatchlistService) AddToWatchlist(ctx context.Context, symbol, label string) (*models.WatchlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.addErr != nil {
		return nil, m.addErr
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", service.ErrValidation)
	}
	for _, item := range m.items {
		if item.Symbol == symbol {
			return nil, repository.ErrWatchlistItemExists
		}
	}

	item := &models.WatchlistItem{
		ID:        m.nextID,
		Symbol:    symbol,
		Label:     label,
		CreatedAt: time.Now(),
	}
	m.items[item.ID] = item
	m.order = append(m.order, item.ID)
	m.nextID++
	return item, nil
}

func (m *MockWatchlistService) RemoveFromWatchlist(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removeErr != nil {
		return m.removeErr
	}
	if _, ok := m.items[id]; !ok {
		return repository.ErrWatchlistItemNotFound
	}
	delete(m.items, id)
	for i, iid := range m.order {
		if iid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ============ Mock Market Service ============

// MockMarketService мок для MarketServiceInterface
type MockMarketService struct {
	responses  map[string][]byte
	getErr     error
	analyzeErr error
}

// NewMockMarketService создает новый мок прокси-сервиса
func NewMockMarketService() *MockMarketService {
	return &MockMarketService{
		responses: make(map[string][]byte),
	}
}

func (m *MockMarketService) Get(ctx context.Context, path string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if body, ok := m.responses[path]; ok {
		return body, nil
	}
	return []byte(`{}`), nil
}

func (m *MockMarketService) Analyze(ctx context.Context, payload []byte) ([]byte, error) {
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	return []byte(`{"analysis":"ok"}`), nil
}
