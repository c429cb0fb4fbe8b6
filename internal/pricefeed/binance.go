package pricefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"oraclex/pkg/ratelimit"
)

const defaultBinanceBaseURL = "https://api.binance.com"

// json - compatible конфигурация jsoniter (drop-in замена encoding/json)
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Binance реализует Source поверх публичного REST API Binance
//
// Используется единственный endpoint: /api/v3/ticker/price.
// Аутентификация не нужна, endpoint публичный.
type Binance struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.RateLimiter
}

// BinanceOption - опция конструктора
type BinanceOption func(*Binance)

// WithBaseURL переопределяет базовый URL (тесты, зеркала api1-api4.binance.com)
func WithBaseURL(base string) BinanceOption {
	return func(b *Binance) {
		b.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient переопределяет HTTP клиент
func WithHTTPClient(c *http.Client) BinanceOption {
	return func(b *Binance) {
		b.httpClient = c
	}
}

// WithRateLimiter задает rate limiter для запросов
func WithRateLimiter(l *ratelimit.RateLimiter) BinanceOption {
	return func(b *Binance) {
		b.limiter = l
	}
}

// NewBinance создает новый ценовой клиент Binance
// По умолчанию использует общий HTTP клиент с connection pooling
func NewBinance(opts ...BinanceOption) *Binance {
	b := &Binance{
		baseURL:    defaultBinanceBaseURL,
		httpClient: GetGlobalHTTPClient(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetPrice возвращает последнюю цену символа
//
// Принимает символы в форме BTCUSDT и BINANCE:BTCUSDT. Символы с чужим
// квалификатором биржи (NASDAQ:AAPL и т.п.) этому провайдеру недоступны
// и возвращаются как ErrUnavailable - для цикла опроса это то же самое,
// что и временный сетевой сбой.
func (b *Binance) GetPrice(ctx context.Context, symbol string) (float64, error) {
	ticker, ok := normalizeSymbol(symbol)
	if !ok {
		return 0, fmt.Errorf("%w: unsupported symbol %q", ErrUnavailable, symbol)
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
		}
	}

	reqURL := b.baseURL + "/api/v3/ticker/price?symbol=" + url.QueryEscape(ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Читаем с лимитом: ответ на ticker/price - десятки байт,
	// мегабайтный ответ означает что что-то пошло не так
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	// Binance отдает цену десятичной строкой
	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: malformed body: %v", ErrUnavailable, err)
	}

	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("%w: bad price %q", ErrUnavailable, payload.Price)
	}

	return price, nil
}

// normalizeSymbol приводит символ к тикеру Binance
//
// BINANCE:BTCUSDT -> BTCUSDT, ok
// BTCUSDT         -> BTCUSDT, ok
// NASDAQ:AAPL     -> "", false (чужая биржа)
func normalizeSymbol(symbol string) (string, bool) {
	if symbol == "" {
		return "", false
	}

	idx := strings.Index(symbol, ":")
	if idx < 0 {
		return symbol, true
	}

	prefix := symbol[:idx]
	if !strings.EqualFold(prefix, "BINANCE") {
		return "", false
	}

	ticker := symbol[idx+1:]
	if ticker == "" {
		return "", false
	}
	return ticker, true
}
