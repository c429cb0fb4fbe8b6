package models

import "time"

// Alert представляет пользовательский ценовой алерт
//
// Один алерт следит за одним символом и срабатывает один раз:
// при пересечении порога в заданном направлении алерт деактивируется
// (IsActive = false) и больше не проверяется. Повторное включение -
// только явным действием пользователя (resume).
type Alert struct {
	ID        int64     `json:"id" db:"id"`
	Symbol    string    `json:"symbol" db:"symbol"`       // BINANCE:BTCUSDT
	Direction string    `json:"direction" db:"direction"` // above, below
	Threshold float64   `json:"threshold" db:"threshold"` // порог в валюте котировки
	IsActive  bool      `json:"is_active" db:"is_active"` // false после срабатывания или паузы
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Направления срабатывания
const (
	DirectionAbove = "above" // цена >= порога
	DirectionBelow = "below" // цена <= порога
)

// ValidDirection проверяет допустимость направления
func ValidDirection(d string) bool {
	return d == DirectionAbove || d == DirectionBelow
}

// PriceSnapshot - цена символа, наблюдаемая в рамках одного цикла опроса.
// Живет только внутри цикла, нигде не сохраняется.
type PriceSnapshot struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}
