package service

import (
	"context"
	"sync"

	"oraclex/internal/models"
	"oraclex/internal/repository"
)

// ============ Mock Alert Repository ============

type mockAlertRepo struct {
	mu        sync.Mutex
	alerts    map[int64]*models.Alert
	order     []int64
	nextID    int64
	createErr error
	getAllErr error
	setErr    error
	deleteErr error
}

func newMockAlertRepo() *mockAlertRepo {
	return &mockAlertRepo{
		alerts: make(map[int64]*models.Alert),
		nextID: 1,
	}
}

func (m *mockAlertRepo) Create(ctx context.Context, alert *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	alert.ID = m.nextID
	m.nextID++
	cp := *alert
	m.alerts[cp.ID] = &cp
	m.order = append(m.order, cp.ID)
	return nil
}

func (m *mockAlertRepo) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.alerts[id]
	if !ok {
		return nil, repository.ErrAlertNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAlertRepo) GetAll(ctx context.Context) ([]*models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make([]*models.Alert, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.alerts[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockAlertRepo) Delete(ctx context.Context, id int64) error {
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

func (m *mockAlertRepo) SetActive(ctx context.Context, id int64, active bool) error {
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

func (m *mockAlertRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts), nil
}

// ============ Mock Event Repository ============

type mockEventRepo struct {
	mu        sync.Mutex
	events    []*models.AlertEvent
	createErr error
	getErr    error
	deleteErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{}
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.AlertEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	event.ID = int64(len(m.events) + 1)
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

func (m *mockEventRepo) GetRecent(ctx context.Context, limit int) ([]*models.AlertEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]*models.AlertEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.events[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockEventRepo) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.events = nil
	return nil
}

func (m *mockEventRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events), nil
}

// ============ Mock Watchlist Repository ============

type mockWatchlistRepo struct {
	mu        sync.Mutex
	items     map[int64]*models.WatchlistItem
	order     []int64
	nextID    int64
	createErr error
	deleteErr error
}

func newMockWatchlistRepo() *mockWatchlistRepo {
	return &mockWatchlistRepo{
		items:  make(map[int64]*models.WatchlistItem),
		nextID: 1,
	}
}

func (m *mockWatchlistRepo) Create(ctx context.Context, item *models.WatchlistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.items {
		if existing.Symbol == item.Symbol {
			return repository.ErrWatchlistItemExists
		}
	}
	item.ID = m.nextID
	m.nextID++
	cp := *item
	m.items[cp.ID] = &cp
	m.order = append(m.order, cp.ID)
	return nil
}

func (m *mockWatchlistRepo) GetAll(ctx context.Context) ([]*models.WatchlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.WatchlistItem, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockWatchlistRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
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

func (m *mockWatchlistRepo) ExistsBySymbol(ctx context.Context, symbol string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range m.items {
		if item.Symbol == symbol {
			return true, nil
		}
	}
	return false, nil
}

// ============ Mock Broadcaster ============

type broadcastCall struct {
	kind   string
	action string
}

type mockBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (m *mockBroadcaster) BroadcastAlertFired(event *models.AlertEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, broadcastCall{kind: "alertFired"})
}

func (m *mockBroadcaster) BroadcastWatchlistUpdate(action string, item *models.WatchlistItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, broadcastCall{kind: "watchlistUpdate", action: action})
}

func (m *mockBroadcaster) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
