package websocket

import (
	"time"

	"oraclex/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypeAlertFired - срабатывание ценового алерта
	// Отправляется один раз в момент пересечения порога
	MessageTypeAlertFired MessageType = "alertFired"

	// MessageTypeWatchlistUpdate - изменение списка наблюдения
	// Отправляется при добавлении или удалении инструмента
	MessageTypeWatchlistUpdate MessageType = "watchlistUpdate"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// AlertFiredMessage - сообщение о срабатывании алерта
//
// Содержит полный контекст срабатывания:
// - Параметры алерта (символ, направление, порог)
// - Наблюдаемую цену и момент наблюдения
//
// Алерт одноразовый, повторное сообщение для того же алерта не отправляется
type AlertFiredMessage struct {
	BaseMessage
	Data *AlertFiredData `json:"data"`
}

// AlertFiredData - данные срабатывания
type AlertFiredData struct {
	// ID события в журнале
	EventID int64 `json:"event_id"`

	// ID сработавшего алерта
	AlertID int64 `json:"alert_id"`

	// Символ инструмента
	Symbol string `json:"symbol"`

	// Направление пересечения (above, below)
	Direction string `json:"direction"`

	// Пороговая цена
	Threshold float64 `json:"threshold"`

	// Цена в момент срабатывания
	ObservedPrice float64 `json:"observed_price"`

	// Момент наблюдения цены
	ObservedAt time.Time `json:"observed_at"`
}

// WatchlistUpdateMessage - сообщение об изменении списка наблюдения
type WatchlistUpdateMessage struct {
	BaseMessage
	// Действие (added, removed)
	Action string `json:"action"`
	// Затронутый элемент
	Item *models.WatchlistItem `json:"item"`
}

// ============ Фабричные функции для создания сообщений ============

// NewAlertFiredMessage создает сообщение о срабатывании алерта
func NewAlertFiredMessage(event *models.AlertEvent) *AlertFiredMessage {
	return &AlertFiredMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeAlertFired,
			Timestamp: time.Now(),
		},
		Data: &AlertFiredData{
			EventID:       event.ID,
			AlertID:       event.AlertID,
			Symbol:        event.Symbol,
			Direction:     event.Direction,
			Threshold:     event.Threshold,
			ObservedPrice: event.ObservedPrice,
			ObservedAt:    event.ObservedAt,
		},
	}
}

// NewWatchlistUpdateMessage создает сообщение об изменении списка наблюдения
func NewWatchlistUpdateMessage(action string, item *models.WatchlistItem) *WatchlistUpdateMessage {
	return &WatchlistUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeWatchlistUpdate,
			Timestamp: time.Now(),
		},
		Action: action,
		Item:   item,
	}
}
