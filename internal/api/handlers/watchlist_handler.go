package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"oraclex/internal/repository"
	"oraclex/internal/service"
)

// WatchlistHandler отвечает за список наблюдения дашборда
//
// Endpoints:
// - GET /api/home/watchlist - получение списка
// - POST /api/home/watchlist - добавление символа
// - DELETE /api/home/watchlist/{id} - удаление символа
type WatchlistHandler struct {
	watchlistService service.WatchlistServiceInterface
}

// NewWatchlistHandler создает новый WatchlistHandler с внедрением зависимости
func NewWatchlistHandler(watchlistService service.WatchlistServiceInterface) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// AddWatchlistItemRequest представляет тело запроса добавления символа
type AddWatchlistItemRequest struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

// WatchlistItemDTO представляет элемент списка наблюдения в API
type WatchlistItemDTO struct {
	ID        int64  `json:"id"`
	Symbol    string `json:"symbol"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at"`
}

// GetWatchlistResponse представляет ответ списка наблюдения
type GetWatchlistResponse struct {
	Items []WatchlistItemDTO `json:"items"`
	Total int                `json:"total"`
}

// GetWatchlist возвращает список наблюдения в порядке добавления
//
// GET /api/home/watchlist
//
// HTTP коды:
// - 200 OK: успешно
// - 500 Internal Server Error: ошибка сервера
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.watchlistService.GetWatchlist(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get watchlist: "+err.Error())
		return
	}

	dtos := make([]WatchlistItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, WatchlistItemDTO{
			ID:        item.ID,
			Symbol:    item.Symbol,
			Label:     item.Label,
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondWithJSON(w, http.StatusOK, GetWatchlistResponse{
		Items: dtos,
		Total: len(dtos),
	})
}

// AddToWatchlist добавляет символ в список наблюдения
//
// POST /api/home/watchlist
//
// Тело запроса:
//
//	{"symbol": "BINANCE:ETHUSDT", "label": "Ethereum"}
//
// HTTP коды:
// - 201 Created: символ добавлен
// - 400 Bad Request: невалидный JSON или символ
// - 409 Conflict: символ уже в списке
// - 500 Internal Server Error: ошибка персистентности
func (h *WatchlistHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req AddWatchlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.watchlistService.AddToWatchlist(r.Context(), req.Symbol, req.Label)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, repository.ErrWatchlistItemExists) {
			respondWithError(w, http.StatusConflict, "Symbol already in watchlist")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to add to watchlist: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, WatchlistItemDTO{
		ID:        item.ID,
		Symbol:    item.Symbol,
		Label:     item.Label,
		CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// RemoveFromWatchlist удаляет элемент списка наблюдения
//
// DELETE /api/home/watchlist/{id}
//
// HTTP коды:
// - 200 OK: элемент удален
// - 400 Bad Request: невалидный id
// - 404 Not Found: элемент не существует
// - 500 Internal Server Error: ошибка персистентности
func (h *WatchlistHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid watchlist item id")
		return
	}

	if err := h.watchlistService.RemoveFromWatchlist(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrWatchlistItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Watchlist item not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to remove from watchlist: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Message: "Watchlist item removed"})
}
