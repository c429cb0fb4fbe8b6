package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oraclex/internal/api"
	"oraclex/internal/config"
	"oraclex/internal/pricefeed"
	"oraclex/internal/repository"
	"oraclex/internal/service"
	"oraclex/internal/watcher"
	"oraclex/internal/websocket"
	"oraclex/pkg/ratelimit"
	"oraclex/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger := utils.InitLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer logger.Sync()

	sugar := logger.Sugar()

	// Инициализация базы данных
	db, err := initDatabase(cfg)
	if err != nil {
		sugar.Fatalw("Failed to connect to database", "dsn", cfg.Database.DSNWithoutPassword(), "error", err)
	}
	defer db.Close()

	sugar.Infow("Connected to database", "dsn", cfg.Database.DSNWithoutPassword())

	if err := ensureSchema(db); err != nil {
		sugar.Fatalw("Failed to apply schema", "error", err)
	}

	// Инициализация репозиториев
	alertRepo := repository.NewAlertRepository(db)
	eventRepo := repository.NewEventRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	// In-memory хранилище алертов, которое читает движок опроса
	store := watcher.NewStore()

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Инициализация сервисов
	alertService := service.NewAlertService(alertRepo, store)
	eventService := service.NewEventService(eventRepo)
	watchlistService := service.NewWatchlistService(watchlistRepo, hub)
	marketService := service.NewMarketService(cfg.Upstream.APIBase, logger)

	// Гидратация алертов из БД до старта движка
	count, err := alertService.Hydrate(context.Background())
	if err != nil {
		sugar.Fatalw("Failed to hydrate alerts", "error", err)
	}
	sugar.Infow("Alerts hydrated", "count", count)

	// Источник цен с rate limiter'ом
	limiter := ratelimit.NewRateLimiter(cfg.Watcher.RequestsPerSecond, cfg.Watcher.RequestBurst)
	source := pricefeed.NewBinance(
		pricefeed.WithBaseURL(cfg.Upstream.BinanceBase),
		pricefeed.WithRateLimiter(limiter),
	)

	// Движок опроса цен
	notifier := service.NewAlertNotifier(eventRepo, hub, logger)
	engine := watcher.NewEngine(cfg.Watcher, store, source, notifier, alertService, logger)
	engine.Start(context.Background())

	// Настройка зависимостей для API
	deps := &api.Dependencies{
		AlertService:     alertService,
		EventService:     eventService,
		WatchlistService: watchlistService,
		MarketService:    marketService,
		Hub:              hub,
		APIKeyHash:       cfg.Security.APIKeyHash,
	}

	// Настройка HTTP роутера
	router := api.SetupRoutes(deps)

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		sugar.Infow("Starting server", "addr", server.Addr)
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				sugar.Fatalw("Server failed", "error", err)
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				sugar.Fatalw("Server failed", "error", err)
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("Shutting down server...")

	// Останавливаем движок до закрытия HTTP сервера:
	// текущий цикл опроса дорабатывает до конца
	engine.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		sugar.Fatalw("Server forced to shutdown", "error", err)
	}

	hub.Stop()
	pricefeed.CloseGlobalClient()

	sugar.Info("Server exited")
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ensureSchema создает таблицы если их еще нет
//
// Однофайловое развертывание без отдельного инструмента миграций:
// схема маленькая и меняется вместе с кодом.
func ensureSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS alerts (
    id         BIGSERIAL PRIMARY KEY,
    symbol     TEXT             NOT NULL,
    direction  TEXT             NOT NULL CHECK (direction IN ('above', 'below')),
    threshold  DOUBLE PRECISION NOT NULL CHECK (threshold > 0),
    is_active  BOOLEAN          NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS alert_events (
    id             BIGSERIAL PRIMARY KEY,
    alert_id       BIGINT           NOT NULL,
    symbol         TEXT             NOT NULL,
    direction      TEXT             NOT NULL,
    threshold      DOUBLE PRECISION NOT NULL,
    observed_price DOUBLE PRECISION NOT NULL,
    observed_at    TIMESTAMPTZ      NOT NULL
);

CREATE TABLE IF NOT EXISTS watchlist (
    id         BIGSERIAL PRIMARY KEY,
    symbol     TEXT        NOT NULL,
    label      TEXT        NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT watchlist_symbol_unique UNIQUE (symbol)
);`

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
