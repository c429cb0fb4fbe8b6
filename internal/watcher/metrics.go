package watcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики цикла опроса
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Alertmanager для уведомлений о деградации ценового API

// CyclesTotal - количество завершенных циклов опроса
var CyclesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "cycles_total",
		Help:      "Total number of completed poll cycles",
	},
)

// CycleDuration - длительность цикла (fetch + evaluate)
// Buckets рассчитаны на сетевые запросы: от десятков ms до fetch timeout
var CycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a poll cycle in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
)

// FetchesTotal - запросы цен по результату
var FetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "fetches_total",
		Help:      "Price fetches by outcome",
	},
	[]string{"result"}, // ok, unavailable
)

// AlertsFiredTotal - сработавшие алерты
var AlertsFiredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "alerts_fired_total",
		Help:      "Total number of fired alerts",
	},
	[]string{"direction"}, // above, below
)

// ActiveAlerts - текущее количество активных алертов
var ActiveAlerts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "active_alerts",
		Help:      "Current number of armed alerts",
	},
)

// WatchedSymbols - количество символов, опрошенных в последнем цикле
var WatchedSymbols = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "watched_symbols",
		Help:      "Number of distinct symbols polled in the last cycle",
	},
)

// SinkFailures - ошибки/паники доставки уведомлений
// Доставка best-effort: ошибка не прерывает цикл, но должна быть видна
var SinkFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "oraclex",
		Subsystem: "watcher",
		Name:      "sink_failures_total",
		Help:      "Notification sink failures (panics recovered)",
	},
)
