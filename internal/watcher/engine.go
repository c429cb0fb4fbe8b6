package watcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"oraclex/internal/config"
	"oraclex/internal/models"
	"oraclex/internal/pricefeed"
	"oraclex/pkg/utils"
)

// Sink доставляет сработавший алерт пользователю
//
// Реализуется сервисным слоем (журнал + WebSocket broadcast).
// Контракт: вызов best-effort, без возвращаемого значения. Паника
// внутри Notify перехватывается движком и не прерывает цикл -
// алерт легитимно сработал, деактивация произойдет в любом случае.
type Sink interface {
	Notify(alert models.Alert, observedPrice float64, observedAt time.Time)
}

// FiredRecorder фиксирует срабатывание в персистентном хранилище
//
// Отделен от Sink: деактивация в БД - часть инварианта "не больше
// одного уведомления на алерт", а не доставка. Ошибка записи логируется,
// но in-memory состояние уже деактивировано и повторного уведомления
// не будет до перезапуска процесса.
type FiredRecorder interface {
	MarkFired(ctx context.Context, alertID int64) error
}

// Engine - движок опроса цен и проверки алертов
//
// Жизненный цикл: Start взводит таймер, Stop снимает его и дожидается
// завершения текущего цикла. Следующий тик планируется только после
// того, как предыдущий цикл полностью завершился - циклы никогда
// не перекрываются, при медленной сети тики прореживаются сами собой.
//
// Один цикл:
//  1. Собрать различные символы с активными алертами (без активных
//     алертов - без сетевых запросов).
//  2. Запросить цену каждого символа параллельно, с таймаутом на запрос.
//     Фаза оценки начинается только когда все запросы завершились -
//     это барьер, а не гонка.
//  3. Для каждого символа с полученной ценой проверить его алерты
//     в порядке вставки. Сработал - уведомить, деактивировать.
//  4. Символы без цены молча пропускаются до следующего цикла,
//     их алерты не трогаются.
type Engine struct {
	cfg    config.WatcherConfig
	store  *Store
	source pricefeed.Source
	sink   Sink
	rec    FiredRecorder // опционально, nil = без персистентности
	log    *utils.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewEngine создает движок
//
// rec может быть nil - тогда срабатывания живут только в памяти.
func NewEngine(cfg config.WatcherConfig, store *Store, source pricefeed.Source, sink Sink, rec FiredRecorder, log *utils.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		store:  store,
		source: source,
		sink:   sink,
		rec:    rec,
		log:    log,
	}
}

// Start взводит таймер и запускает цикл опроса в отдельной горутине
// Повторный Start без Stop - no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	e.started = true

	go e.run(runCtx)

	e.log.Info("watcher started",
		zap.Duration("poll_interval", e.cfg.PollInterval),
		zap.Duration("fetch_timeout", e.cfg.FetchTimeout),
	)
}

// Stop снимает таймер и дожидается завершения текущего цикла
// Безопасен при повторных вызовах и без предшествующего Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	cancel := e.cancel
	done := e.done
	e.started = false
	e.mu.Unlock()

	cancel()
	<-done

	e.log.Info("watcher stopped")
}

// run - главный цикл: тик -> цикл опроса -> перевзвод таймера
func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	timer := time.NewTimer(e.cfg.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			e.runCycle(ctx)
			// Перевзводим только после завершения цикла:
			// фиксированная пауза между циклами, не фиксированная частота
			timer.Reset(e.cfg.PollInterval)
		}
	}
}

// fetchResult - результат запроса цены одного символа
type fetchResult struct {
	symbol string
	price  float64
	err    error
}

// runCycle выполняет один цикл опрос-оценка
func (e *Engine) runCycle(ctx context.Context) {
	start := time.Now()

	symbols := e.store.ActiveSymbols()
	WatchedSymbols.Set(float64(len(symbols)))
	if len(symbols) == 0 {
		ActiveAlerts.Set(0)
		return
	}

	// Параллельные запросы, по горутине на символ. Зависший запрос
	// задерживает только свой символ в пределах FetchTimeout.
	results := make([]fetchResult, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
			defer cancel()

			price, err := e.source.GetPrice(fetchCtx, symbol)
			results[i] = fetchResult{symbol: symbol, price: price, err: err}
		}(i, symbol)
	}
	// Барьер: оценка начинается когда все запросы завершились
	wg.Wait()

	observedAt := time.Now()
	for _, res := range results {
		if res.err != nil {
			// Цены нет - алерты символа не трогаем до следующего цикла.
			// Не ошибка и не событие для пользователя.
			FetchesTotal.WithLabelValues("unavailable").Inc()
			e.log.Debug("price unavailable",
				zap.String("symbol", res.symbol),
				zap.Error(res.err),
			)
			continue
		}
		FetchesTotal.WithLabelValues("ok").Inc()

		e.evaluateSymbol(ctx, models.PriceSnapshot{
			Symbol:     res.symbol,
			Price:      res.price,
			ObservedAt: observedAt,
		})
	}

	ActiveAlerts.Set(float64(e.store.ActiveCount()))
	CyclesTotal.Inc()
	CycleDuration.Observe(time.Since(start).Seconds())
}

// evaluateSymbol проверяет все активные алерты символа против снимка цены
//
// Алерты проверяются в порядке вставки. Несколько алертов одного символа
// могут сработать в одном цикле независимо друг от друга.
func (e *Engine) evaluateSymbol(ctx context.Context, snap models.PriceSnapshot) {
	for _, alert := range e.store.ListActiveBySymbol(snap.Symbol) {
		if !crossed(alert, snap.Price) {
			continue
		}
		e.fire(ctx, alert, snap)
	}
}

// crossed проверяет условие срабатывания
//
// Сравнение включительное в обоих направлениях: алерт "на $100"
// должен сработать и когда цена встала ровно на $100.
func crossed(a models.Alert, price float64) bool {
	switch a.Direction {
	case models.DirectionAbove:
		return price >= a.Threshold
	case models.DirectionBelow:
		return price <= a.Threshold
	default:
		return false
	}
}

// fire доставляет уведомление и деактивирует алерт
//
// Порядок фиксирован: сначала уведомление, затем деактивация.
// Сбой доставки не отменяет деактивацию - алерт сработал, и второго
// уведомления по нему не будет никогда.
func (e *Engine) fire(ctx context.Context, alert models.Alert, snap models.PriceSnapshot) {
	e.notify(alert, snap)

	e.store.SetActive(alert.ID, false)

	if e.rec != nil {
		if err := e.rec.MarkFired(ctx, alert.ID); err != nil {
			e.log.Warn("failed to persist fired alert",
				zap.Int64("alert_id", alert.ID),
				zap.Error(err),
			)
		}
	}

	AlertsFiredTotal.WithLabelValues(alert.Direction).Inc()
	e.log.Info("alert fired",
		zap.Int64("alert_id", alert.ID),
		zap.String("symbol", alert.Symbol),
		zap.String("direction", alert.Direction),
		zap.Float64("threshold", alert.Threshold),
		zap.Float64("price", snap.Price),
	)
}

// notify вызывает sink с защитой от паники
func (e *Engine) notify(alert models.Alert, snap models.PriceSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			SinkFailures.Inc()
			e.log.Error("notification sink panicked",
				zap.Int64("alert_id", alert.ID),
				zap.Any("panic", r),
			)
		}
	}()

	e.sink.Notify(alert, snap.Price, snap.ObservedAt)
}
