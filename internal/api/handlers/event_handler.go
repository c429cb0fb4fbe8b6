package handlers

import (
	"net/http"
	"strconv"

	"oraclex/internal/service"
)

// EventHandler отвечает за журнал срабатываний алертов
//
// Endpoints:
// - GET /api/v1/events - получение журнала (новые сверху)
// - GET /api/v1/events?limit=50 - с ограничением количества
// - DELETE /api/v1/events - очистка журнала
type EventHandler struct {
	eventService service.EventServiceInterface
}

// NewEventHandler создает новый EventHandler с внедрением зависимости
func NewEventHandler(eventService service.EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GetEventsResponse представляет ответ списка событий
type GetEventsResponse struct {
	Events []EventDTO `json:"events"`
	Total  int        `json:"total"`
}

// EventDTO представляет событие срабатывания в API
type EventDTO struct {
	ID            int64   `json:"id"`
	AlertID       int64   `json:"alert_id"`
	Symbol        string  `json:"symbol"`
	Direction     string  `json:"direction"`
	Threshold     float64 `json:"threshold"`
	ObservedPrice float64 `json:"observed_price"`
	ObservedAt    string  `json:"observed_at"`
}

// GetEvents возвращает журнал срабатываний
//
// GET /api/v1/events
//
// Query параметры:
// - limit (int): количество записей (по умолчанию 100, максимум 500)
//
// HTTP коды:
// - 200 OK: успешно, возвращает массив событий
// - 500 Internal Server Error: ошибка сервера
func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := h.eventService.GetEvents(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get events: "+err.Error())
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventDTO{
			ID:            e.ID,
			AlertID:       e.AlertID,
			Symbol:        e.Symbol,
			Direction:     e.Direction,
			Threshold:     e.Threshold,
			ObservedPrice: e.ObservedPrice,
			ObservedAt:    e.ObservedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondWithJSON(w, http.StatusOK, GetEventsResponse{
		Events: dtos,
		Total:  len(dtos),
	})
}

// ClearEvents очищает журнал срабатываний
//
// DELETE /api/v1/events
//
// Это действие необратимо.
//
// HTTP коды:
// - 200 OK: журнал успешно очищен
// - 500 Internal Server Error: ошибка при очистке
func (h *EventHandler) ClearEvents(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.ClearEvents(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear events: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Message: "Events cleared successfully"})
}
