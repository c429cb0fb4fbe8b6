// Package pricefeed предоставляет доступ к актуальным ценам инструментов.
package pricefeed

import (
	"context"
	"errors"
)

// ErrUnavailable - цена не получена в этом цикле
//
// Единственный контракт для вызывающего: "цены нет, попробуй в следующем
// цикле". Сетевая ошибка, не-2xx ответ, битое тело и неподдерживаемый
// класс инструмента намеренно неразличимы - вызывающему нечего делать
// по-разному в этих случаях.
var ErrUnavailable = errors.New("price unavailable")

// Source - источник текущих цен
//
// Реализация не делает retry внутри вызова: механизм повтора -
// следующий цикл опроса. Кэширования нет, каждый вызов - свежий
// запрос к провайдеру.
type Source interface {
	// GetPrice возвращает текущую цену символа.
	// Любая невозможность получить цену возвращается как ErrUnavailable
	// (возможно обернутый), не как fatal ошибка.
	GetPrice(ctx context.Context, symbol string) (float64, error)
}
