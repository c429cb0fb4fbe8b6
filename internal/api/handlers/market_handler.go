package handlers

import (
	"errors"
	"io"
	"net/http"

	"oraclex/internal/service"
)

// maxAnalyzeRequestSize ограничивает размер тела запроса анализа (64 KB)
const maxAnalyzeRequestSize = 64 << 10

// MarketHandler проксирует запросы дашборда к аналитическому бэкенду
//
// Endpoints:
// - GET /api/news - новости рынка
// - GET /api/fear-greed - индекс страха и жадности
// - GET /api/market-overview - обзор крипторынка
// - GET /api/nasdaq-overview - обзор фондового рынка
// - GET /api/home/funding-rates - ставки финансирования
// - GET /api/home/liquidations - данные о ликвидациях
// - GET /api/home/onchain - on-chain метрики
// - POST /api/analyze - AI-анализ инструмента
//
// Назначение:
// Сквозная передача JSON от бэкенда клиенту. Тела ответов
// не интерпретируются, недоступность бэкенда маппится в 502.
type MarketHandler struct {
	marketService service.MarketServiceInterface
}

// NewMarketHandler создает новый MarketHandler с внедрением зависимости
func NewMarketHandler(marketService service.MarketServiceInterface) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// Proxy возвращает handler, проксирующий GET запрос на указанный путь бэкенда
//
// Использование в routes:
//
//	router.HandleFunc("/api/news", marketHandler.Proxy("/api/news")).Methods("GET")
func (h *MarketHandler) Proxy(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h.marketService.Get(r.Context(), path)
		if err != nil {
			if errors.Is(err, service.ErrUpstreamUnavailable) {
				respondWithError(w, http.StatusBadGateway, "Upstream unavailable")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch data: "+err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}

// Analyze проксирует запрос AI-анализа
//
// POST /api/analyze
//
// Тело запроса передается бэкенду как есть.
//
// HTTP коды:
// - 200 OK: анализ получен
// - 400 Bad Request: не удалось прочитать тело запроса
// - 502 Bad Gateway: бэкенд недоступен
func (h *MarketHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxAnalyzeRequestSize))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	body, err := h.marketService.Analyze(r.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrUpstreamUnavailable) {
			respondWithError(w, http.StatusBadGateway, "Upstream unavailable")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
