package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Ошибки валидации
var (
	ErrEmptySymbol      = errors.New("symbol cannot be empty")
	ErrMalformedSymbol  = errors.New("symbol has invalid format")
	ErrInvalidThreshold = errors.New("threshold must be positive")
)

// ValidateSymbol проверяет формат идентификатора инструмента
//
// Допустимые формы:
//   - BTCUSDT           (без квалификатора биржи)
//   - BINANCE:BTCUSDT   (с квалификатором)
//
// Тикер: латинские буквы и цифры в верхнем регистре, 1-20 символов.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return ErrEmptySymbol
	}

	ticker := symbol
	if idx := strings.Index(symbol, ":"); idx >= 0 {
		prefix := symbol[:idx]
		ticker = symbol[idx+1:]
		if prefix == "" || !isUpperAlnum(prefix) {
			return fmt.Errorf("%w: bad exchange prefix %q", ErrMalformedSymbol, prefix)
		}
	}

	if ticker == "" || len(ticker) > 20 || !isUpperAlnum(ticker) {
		return fmt.Errorf("%w: bad ticker %q", ErrMalformedSymbol, ticker)
	}

	return nil
}

// ValidateThreshold проверяет порог срабатывания алерта
//
// Порог должен быть строго положительным: цены не бывают отрицательными,
// а нулевой порог для направления below срабатывал бы никогда или всегда.
func ValidateThreshold(threshold float64) error {
	if threshold <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// isUpperAlnum проверяет что строка состоит из A-Z и 0-9
func isUpperAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
