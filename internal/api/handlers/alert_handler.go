package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"oraclex/internal/repository"
	"oraclex/internal/service"
)

// AlertHandler отвечает за управление ценовыми алертами
//
// Endpoints:
// - GET /api/v1/alerts - список алертов
// - POST /api/v1/alerts - создание алерта
// - DELETE /api/v1/alerts/{id} - удаление алерта
// - POST /api/v1/alerts/{id}/pause - пауза алерта
// - POST /api/v1/alerts/{id}/resume - возобновление алерта
//
// Назначение:
// Тонкий транспортный слой над AlertService: парсинг запросов,
// маппинг ошибок на HTTP коды, сериализация ответов.
type AlertHandler struct {
	alertService service.AlertServiceInterface
}

// NewAlertHandler создает новый AlertHandler с внедрением зависимости
func NewAlertHandler(alertService service.AlertServiceInterface) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// CreateAlertRequest представляет тело запроса создания алерта
type CreateAlertRequest struct {
	Symbol    string  `json:"symbol"`
	Direction string  `json:"direction"`
	Threshold float64 `json:"threshold"`
}

// GetAlertsResponse представляет ответ списка алертов
type GetAlertsResponse struct {
	Alerts []AlertDTO `json:"alerts"`
	Total  int        `json:"total"`
}

// AlertDTO представляет алерт в API
type AlertDTO struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	Direction string  `json:"direction"`
	Threshold float64 `json:"threshold"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}

// GetAlerts возвращает все алерты в порядке создания
//
// GET /api/v1/alerts
//
// HTTP коды:
// - 200 OK: успешно, возвращает массив алертов
func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.alertService.ListAlerts(r.Context())

	dtos := make([]AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		dtos = append(dtos, AlertDTO{
			ID:        a.ID,
			Symbol:    a.Symbol,
			Direction: a.Direction,
			Threshold: a.Threshold,
			IsActive:  a.IsActive,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondWithJSON(w, http.StatusOK, GetAlertsResponse{
		Alerts: dtos,
		Total:  len(dtos),
	})
}

// CreateAlert создает новый алерт
//
// POST /api/v1/alerts
//
// Тело запроса:
//
//	{"symbol": "BINANCE:BTCUSDT", "direction": "above", "threshold": 100000}
//
// HTTP коды:
// - 201 Created: алерт создан
// - 400 Bad Request: невалидный JSON или данные не прошли валидацию
// - 500 Internal Server Error: ошибка персистентности
func (h *AlertHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	alert, err := h.alertService.CreateAlert(r.Context(), req.Symbol, req.Direction, req.Threshold)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create alert: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, AlertDTO{
		ID:        alert.ID,
		Symbol:    alert.Symbol,
		Direction: alert.Direction,
		Threshold: alert.Threshold,
		IsActive:  alert.IsActive,
		CreatedAt: alert.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// DeleteAlert удаляет алерт
//
// DELETE /api/v1/alerts/{id}
//
// Удаление идемпотентно: повторный запрос для того же id вернет 200.
//
// HTTP коды:
// - 200 OK: алерт удален (или уже отсутствовал)
// - 400 Bad Request: невалидный id
// - 500 Internal Server Error: ошибка персистентности
func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := h.alertService.DeleteAlert(r.Context(), id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete alert: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Message: "Alert deleted"})
}

// PauseAlert приостанавливает алерт
//
// POST /api/v1/alerts/{id}/pause
//
// Приостановленный алерт не участвует в циклах опроса,
// но остается в системе.
//
// HTTP коды:
// - 200 OK: алерт приостановлен
// - 400 Bad Request: невалидный id
// - 404 Not Found: алерт не существует
func (h *AlertHandler) PauseAlert(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "Alert paused")
}

// ResumeAlert возобновляет алерт
//
// POST /api/v1/alerts/{id}/resume
//
// Единственный способ повторно взвести сработавший алерт.
//
// HTTP коды:
// - 200 OK: алерт возобновлен
// - 400 Bad Request: невалидный id
// - 404 Not Found: алерт не существует
func (h *AlertHandler) ResumeAlert(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "Alert resumed")
}

func (h *AlertHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, message string) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := h.alertService.SetAlertActive(r.Context(), id, active); err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			respondWithError(w, http.StatusNotFound, "Alert not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update alert: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Message: message})
}

// parseID извлекает числовой id из path параметров
func parseID(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}
