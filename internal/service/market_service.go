package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"oraclex/internal/pricefeed"
	"oraclex/pkg/retry"
	"oraclex/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUpstreamUnavailable возвращается когда аналитический бэкенд
// недоступен или ответил некорректными данными
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// maxUpstreamResponseSize ограничивает размер ответа бэкенда (1 MB)
const maxUpstreamResponseSize = 1 << 20

// MarketService проксирует запросы к аналитическому бэкенду
//
// Сервис не интерпретирует содержимое ответов: тело проверяется
// на валидность JSON и отдается клиенту как есть. Временные сбои
// сглаживаются повторными попытками с экспоненциальным backoff.
type MarketService struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	log        *utils.Logger
}

// NewMarketService создает новый экземпляр MarketService
func NewMarketService(baseURL string, log *utils.Logger) *MarketService {
	return &MarketService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: pricefeed.GetGlobalHTTPClient(),
		retryCfg:   retry.DefaultConfig(),
		log:        log,
	}
}

// Get выполняет GET запрос к бэкенду и возвращает тело ответа
//
// path - абсолютный путь на бэкенде, например "/api/news".
func (s *MarketService) Get(ctx context.Context, path string) ([]byte, error) {
	return s.forward(ctx, http.MethodGet, path, nil)
}

// Analyze отправляет запрос на AI-анализ и возвращает результат
func (s *MarketService) Analyze(ctx context.Context, payload []byte) ([]byte, error) {
	return s.forward(ctx, http.MethodPost, "/api/analyze", payload)
}

// forward выполняет запрос с retry и валидацией ответа
func (s *MarketService) forward(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	cfg := s.retryCfg
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.log.Sugar().Debugw("retrying upstream request",
			"method", method,
			"path", path,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	body, err := retry.DoWithResult(ctx, func() ([]byte, error) {
		return s.doRequest(ctx, method, path, payload)
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUpstreamUnavailable, method, path, err)
	}
	return body, nil
}

func (s *MarketService) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Бэкенд иногда отдает HTML страницу ошибки со статусом 200
	if !json.Valid(body) {
		return nil, errors.New("response is not valid JSON")
	}

	return body, nil
}
