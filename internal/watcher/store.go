// Package watcher реализует цикл опроса цен и проверку ценовых алертов.
package watcher

import (
	"errors"
	"sync"
	"time"

	"oraclex/internal/models"
)

// Ошибки хранилища алертов
var (
	ErrInvalidDirection = errors.New("direction must be above or below")
)

// Store - in-memory хранилище алертов
//
// Единственный разделяемый мутабельный ресурс движка. Мутации приходят
// с двух сторон: пользовательские действия (HTTP горутины) и цикл опроса
// (горутина движка), поэтому доступ сериализован мьютексом - никакой
// другой синхронизации движку не требуется.
//
// Порядок вставки сохраняется: ListActiveBySymbol возвращает алерты
// в том порядке, в котором они были добавлены.
//
// Дедупликации нет: два одинаковых алерта (символ, направление, порог) -
// это два независимых уведомления, так и задумано.
type Store struct {
	mu     sync.RWMutex
	alerts []*models.Alert          // порядок вставки
	byID   map[int64]*models.Alert  // O(1) доступ по id
	nextID int64                    // для алертов без заранее присвоенного id
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		byID:   make(map[int64]*models.Alert),
		nextID: 1,
	}
}

// Hydrate загружает персистентные алерты при старте процесса
//
// Вызывается один раз до запуска движка. Порядок входного среза
// становится порядком вставки.
func (s *Store) Hydrate(alerts []*models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range alerts {
		if a == nil {
			continue
		}
		if _, exists := s.byID[a.ID]; exists {
			continue
		}
		cp := *a
		s.alerts = append(s.alerts, &cp)
		s.byID[cp.ID] = &cp
		if cp.ID >= s.nextID {
			s.nextID = cp.ID + 1
		}
	}
}

// Add вставляет алерт и возвращает присвоенный id
//
// Валидация - обязанность вызывающего (fail fast на границе API),
// здесь проверяется только минимальный инвариант направления,
// без которого вычисление срабатывания не определено.
func (s *Store) Add(a models.Alert) (int64, error) {
	if !models.ValidDirection(a.Direction) {
		return 0, ErrInvalidDirection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == 0 {
		a.ID = s.nextID
	}
	if a.ID >= s.nextID {
		s.nextID = a.ID + 1
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.IsActive = true

	cp := a
	s.alerts = append(s.alerts, &cp)
	s.byID[cp.ID] = &cp
	return cp.ID, nil
}

// Remove удаляет алерт по id
//
// Идемпотентно: удаление несуществующего id - no-op, не ошибка.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)

	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			break
		}
	}
}

// SetActive включает/выключает алерт
//
// Возвращает false если алерт не найден (toggle удаленного id - no-op).
func (s *Store) SetActive(id int64, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return false
	}
	a.IsActive = active
	return true
}

// Get возвращает копию алерта по id
func (s *Store) Get(id int64) (models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return models.Alert{}, false
	}
	return *a, true
}

// All возвращает копии всех алертов в порядке вставки
func (s *Store) All() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, *a)
	}
	return out
}

// ListActiveBySymbol возвращает активные алерты символа в порядке вставки
//
// Отдает копии: вызывающий работает со снимком на момент вызова,
// мутации идут только через Store.
func (s *Store) ListActiveBySymbol(symbol string) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Alert
	for _, a := range s.alerts {
		if a.IsActive && a.Symbol == symbol {
			out = append(out, *a)
		}
	}
	return out
}

// ActiveSymbols возвращает различные символы с хотя бы одним активным алертом
//
// Порядок - первое появление символа среди алертов. Символы без активных
// алертов не попадают в результат: по ним не будет сетевых запросов.
func (s *Store) ActiveSymbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, a := range s.alerts {
		if !a.IsActive {
			continue
		}
		if _, ok := seen[a.Symbol]; ok {
			continue
		}
		seen[a.Symbol] = struct{}{}
		out = append(out, a.Symbol)
	}
	return out
}

// ActiveCount возвращает количество активных алертов (для метрик)
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.alerts {
		if a.IsActive {
			n++
		}
	}
	return n
}

// Len возвращает общее количество алертов
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}
