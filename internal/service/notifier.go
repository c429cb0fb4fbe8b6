package service

import (
	"context"
	"time"

	"oraclex/internal/models"
	"oraclex/internal/watcher"
	"oraclex/pkg/utils"
)

// Broadcaster определяет интерфейс для рассылки событий клиентам
// Реализуется websocket hub'ом.
type Broadcaster interface {
	BroadcastAlertFired(event *models.AlertEvent)
}

// AlertNotifier доставляет уведомления о сработавших алертах
//
// Каждое срабатывание записывается в журнал событий и рассылается
// подключенным websocket клиентам. Ошибки персистентности логируются,
// но не прерывают доставку: сработавший алерт уже деактивирован
// движком независимо от судьбы уведомления.
type AlertNotifier struct {
	eventRepo EventRepositoryInterface
	hub       Broadcaster
	log       *utils.Logger
}

// NewAlertNotifier создает новый экземпляр AlertNotifier
//
// hub может быть nil если рассылка по websocket не нужна.
func NewAlertNotifier(eventRepo EventRepositoryInterface, hub Broadcaster, log *utils.Logger) *AlertNotifier {
	return &AlertNotifier{
		eventRepo: eventRepo,
		hub:       hub,
		log:       log,
	}
}

// Notify обрабатывает срабатывание алерта
func (n *AlertNotifier) Notify(alert models.Alert, observedPrice float64, observedAt time.Time) {
	event := &models.AlertEvent{
		AlertID:       alert.ID,
		Symbol:        alert.Symbol,
		Direction:     alert.Direction,
		Threshold:     alert.Threshold,
		ObservedPrice: observedPrice,
		ObservedAt:    observedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.eventRepo.Create(ctx, event); err != nil {
		n.log.Sugar().Errorw("failed to persist alert event",
			"alert_id", alert.ID,
			"symbol", alert.Symbol,
			"error", err,
		)
	}

	if n.hub != nil {
		n.hub.BroadcastAlertFired(event)
	}

	n.log.Sugar().Infow("alert notification delivered",
		"alert_id", alert.ID,
		"symbol", alert.Symbol,
		"direction", alert.Direction,
		"threshold", alert.Threshold,
		"observed_price", observedPrice,
	)
}

// Проверяем, что AlertNotifier реализует интерфейс движка
var _ watcher.Sink = (*AlertNotifier)(nil)
