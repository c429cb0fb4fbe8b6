package models

import "time"

// AlertEvent представляет запись журнала о сработавшем алерте
//
// Журнал - источник данных для ленты уведомлений в дашборде.
// Запись создается ровно один раз на срабатывание.
type AlertEvent struct {
	ID            int64     `json:"id" db:"id"`
	AlertID       int64     `json:"alert_id" db:"alert_id"`
	Symbol        string    `json:"symbol" db:"symbol"`
	Direction     string    `json:"direction" db:"direction"`
	Threshold     float64   `json:"threshold" db:"threshold"`
	ObservedPrice float64   `json:"observed_price" db:"observed_price"`
	ObservedAt    time.Time `json:"observed_at" db:"observed_at"`
}
