package service

import (
	"context"
	"fmt"
	"strings"

	"oraclex/internal/models"
	"oraclex/pkg/utils"
)

// WatchlistBroadcaster рассылает изменения списка наблюдения клиентам
type WatchlistBroadcaster interface {
	BroadcastWatchlistUpdate(action string, item *models.WatchlistItem)
}

// WatchlistService предоставляет бизнес-логику списка наблюдения
//
// Список наблюдения - чисто персистентная сущность: движок опроса
// его не читает, дашборд использует для отрисовки тикеров.
type WatchlistService struct {
	watchlistRepo WatchlistRepositoryInterface
	hub           WatchlistBroadcaster
}

// NewWatchlistService создает новый экземпляр WatchlistService
//
// hub может быть nil если рассылка по websocket не нужна.
func NewWatchlistService(watchlistRepo WatchlistRepositoryInterface, hub WatchlistBroadcaster) *WatchlistService {
	return &WatchlistService{watchlistRepo: watchlistRepo, hub: hub}
}

// GetWatchlist возвращает список наблюдения в порядке добавления
func (s *WatchlistService) GetWatchlist(ctx context.Context) ([]*models.WatchlistItem, error) {
	return s.watchlistRepo.GetAll(ctx)
}

// AddToWatchlist добавляет символ в список наблюдения
func (s *WatchlistService) AddToWatchlist(ctx context.Context, symbol, label string) (*models.WatchlistItem, error) {
	symbol = strings.TrimSpace(symbol)
	if err := utils.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	item := &models.WatchlistItem{
		Symbol: symbol,
		Label:  strings.TrimSpace(label),
	}

	if err := s.watchlistRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastWatchlistUpdate("added", item)
	}

	return item, nil
}

// RemoveFromWatchlist удаляет элемент списка наблюдения
func (s *WatchlistService) RemoveFromWatchlist(ctx context.Context, id int64) error {
	if err := s.watchlistRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastWatchlistUpdate("removed", &models.WatchlistItem{ID: id})
	}

	return nil
}
