package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"oraclex/internal/api/handlers"
	"oraclex/internal/api/middleware"
	"oraclex/internal/service"
	"oraclex/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	AlertService     service.AlertServiceInterface
	EventService     service.EventServiceInterface
	WatchlistService service.WatchlistServiceInterface
	MarketService    service.MarketServiceInterface
	Hub              *websocket.Hub

	// bcrypt хеш API ключа; пустая строка отключает аутентификацию
	APIKeyHash string
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута.
// Применяет middleware к группам маршрутов.
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /alerts/
//	│   ├── GET / - список алертов
//	│   ├── POST / - создать алерт
//	│   ├── DELETE /{id} - удалить алерт
//	│   ├── POST /{id}/pause - приостановить алерт
//	│   └── POST /{id}/resume - возобновить алерт
//	└── /events/
//	    ├── GET / - журнал срабатываний
//	    └── DELETE / - очистить журнал
//
// /api/
//
//	├── /news - новости рынка (proxy)
//	├── /analyze - AI-анализ (proxy)
//	├── /fear-greed - индекс страха и жадности (proxy)
//	├── /market-overview - обзор крипторынка (proxy)
//	├── /nasdaq-overview - обзор фондового рынка (proxy)
//	└── /home/
//	    ├── /watchlist - список наблюдения (GET, POST, DELETE /{id})
//	    ├── /funding-rates - ставки финансирования (proxy)
//	    ├── /liquidations - ликвидации (proxy)
//	    └── /onchain - on-chain метрики (proxy)
//
// /ws/
//
//	└── /stream - WebSocket для real-time срабатываний
//
// Служебные:
//
//	├── /health - health check
//	└── /metrics - Prometheus метрики
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. APIKeyAuth (только для /api/v1 и /api/home/watchlist)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// Создание handlers с внедрением зависимостей
	var alertHandler *handlers.AlertHandler
	if deps != nil && deps.AlertService != nil {
		alertHandler = handlers.NewAlertHandler(deps.AlertService)
	}

	var eventHandler *handlers.EventHandler
	if deps != nil && deps.EventService != nil {
		eventHandler = handlers.NewEventHandler(deps.EventService)
	}

	var watchlistHandler *handlers.WatchlistHandler
	if deps != nil && deps.WatchlistService != nil {
		watchlistHandler = handlers.NewWatchlistHandler(deps.WatchlistService)
	}

	var marketHandler *handlers.MarketHandler
	if deps != nil && deps.MarketService != nil {
		marketHandler = handlers.NewMarketHandler(deps.MarketService)
	}

	auth := middleware.APIKeyAuth("")
	if deps != nil {
		auth = middleware.APIKeyAuth(deps.APIKeyHash)
	}

	// API v1 routes (мутирующие операции, защищены API ключом)
	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.Use(auth)

	// Alert routes
	if alertHandler != nil {
		apiV1.HandleFunc("/alerts", alertHandler.GetAlerts).Methods("GET")
		apiV1.HandleFunc("/alerts", alertHandler.CreateAlert).Methods("POST")
		apiV1.HandleFunc("/alerts/{id}", alertHandler.DeleteAlert).Methods("DELETE")
		apiV1.HandleFunc("/alerts/{id}/pause", alertHandler.PauseAlert).Methods("POST")
		apiV1.HandleFunc("/alerts/{id}/resume", alertHandler.ResumeAlert).Methods("POST")
	}

	// Event routes
	if eventHandler != nil {
		apiV1.HandleFunc("/events", eventHandler.GetEvents).Methods("GET")
		apiV1.HandleFunc("/events", eventHandler.ClearEvents).Methods("DELETE")
	}

	// Watchlist routes
	if watchlistHandler != nil {
		watchlist := router.PathPrefix("/api/home/watchlist").Subrouter()
		watchlist.Use(auth)
		watchlist.HandleFunc("", watchlistHandler.GetWatchlist).Methods("GET")
		watchlist.HandleFunc("", watchlistHandler.AddToWatchlist).Methods("POST")
		watchlist.HandleFunc("/{id}", watchlistHandler.RemoveFromWatchlist).Methods("DELETE")
	}

	// Proxy routes к аналитическому бэкенду (только чтение, без auth)
	if marketHandler != nil {
		router.HandleFunc("/api/news", marketHandler.Proxy("/api/news")).Methods("GET")
		router.HandleFunc("/api/fear-greed", marketHandler.Proxy("/api/fear-greed")).Methods("GET")
		router.HandleFunc("/api/market-overview", marketHandler.Proxy("/api/market-overview")).Methods("GET")
		router.HandleFunc("/api/nasdaq-overview", marketHandler.Proxy("/api/nasdaq-overview")).Methods("GET")
		router.HandleFunc("/api/home/funding-rates", marketHandler.Proxy("/api/home/funding-rates")).Methods("GET")
		router.HandleFunc("/api/home/liquidations", marketHandler.Proxy("/api/home/liquidations")).Methods("GET")
		router.HandleFunc("/api/home/onchain", marketHandler.Proxy("/api/home/onchain")).Methods("GET")
		router.HandleFunc("/api/analyze", marketHandler.Analyze).Methods("POST")
	}

	// WebSocket route
	if deps != nil && deps.Hub != nil {
		hub := deps.Hub
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
