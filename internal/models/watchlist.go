package models

import "time"

// WatchlistItem представляет элемент списка наблюдения пользователя
type WatchlistItem struct {
	ID        int64     `json:"id" db:"id"`
	Symbol    string    `json:"symbol" db:"symbol"` // BINANCE:ETHUSDT
	Label     string    `json:"label" db:"label"`   // отображаемое имя, опционально
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
