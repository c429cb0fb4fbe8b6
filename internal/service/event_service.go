package service

import (
	"context"

	"oraclex/internal/models"
)

// EventService предоставляет доступ к журналу срабатываний
type EventService struct {
	eventRepo EventRepositoryInterface
}

// NewEventService создает новый экземпляр EventService
func NewEventService(eventRepo EventRepositoryInterface) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// GetEvents возвращает последние события (новые сверху)
//
// limit <= 0 трактуется как значение по умолчанию (100),
// верхняя граница - 500 записей за запрос.
func (s *EventService) GetEvents(ctx context.Context, limit int) ([]*models.AlertEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return s.eventRepo.GetRecent(ctx, limit)
}

// ClearEvents очищает журнал срабатываний
// Действие необратимо.
func (s *EventService) ClearEvents(ctx context.Context) error {
	return s.eventRepo.DeleteAll(ctx)
}
