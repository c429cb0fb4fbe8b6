package websocket

import (
	"strings"
	"sync"
	"testing"
	"time"

	"oraclex/internal/models"
)

// ============================================================
// Unit Tests
// ============================================================

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}

	if hub.DroppedMessages() != 0 {
		t.Errorf("expected 0 dropped messages, got %d", hub.DroppedMessages())
	}
}

func TestOriginChecker_Check(t *testing.T) {
	checker := &OriginChecker{
		allowedOrigins: map[string]struct{}{
			"http://localhost:3000": {},
			"https://example.com":   {},
		},
		allowAll: false,
	}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},                       // empty origin allowed
		{"http://localhost:3000", true},  // allowed
		{"https://example.com", true},    // allowed
		{"http://evil.com", false},       // not allowed
		{"http://localhost:8080", false}, // not in list
	}

	for _, tt := range tests {
		got := checker.Check(tt.origin)
		if got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestOriginChecker_AllowAll(t *testing.T) {
	checker := &OriginChecker{
		allowAll: true,
	}

	origins := []string{
		"http://localhost:3000",
		"https://evil.com",
		"http://anything.example.org",
	}

	for _, origin := range origins {
		if !checker.Check(origin) {
			t.Errorf("allowAll=true but Check(%q) = false", origin)
		}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		hub:  hub,
		send: make(chan []byte, clientSendBufferSize),
	}

	hub.register <- client
	waitForClientCount(t, hub, 1)

	hub.unregister <- client
	waitForClientCount(t, hub, 0)
}

func TestHub_BroadcastDeliversToClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		hub:  hub,
		send: make(chan []byte, clientSendBufferSize),
	}
	hub.register <- client
	waitForClientCount(t, hub, 1)

	event := &models.AlertEvent{
		ID:            12,
		AlertID:       7,
		Symbol:        "BTCUSDT",
		Direction:     models.DirectionAbove,
		Threshold:     100000,
		ObservedPrice: 100250.5,
		ObservedAt:    time.Now(),
	}
	hub.BroadcastAlertFired(event)

	select {
	case data := <-client.send:
		payload := string(data)
		if !strings.Contains(payload, `"type":"alertFired"`) {
			t.Errorf("message missing type field: %s", payload)
		}
		if !strings.Contains(payload, `"symbol":"BTCUSDT"`) {
			t.Errorf("message missing symbol: %s", payload)
		}
		if !strings.Contains(payload, `"alert_id":7`) {
			t.Errorf("message missing alert_id: %s", payload)
		}
		if strings.HasSuffix(payload, "\n") {
			t.Error("broadcast payload should not have trailing newline")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("client did not receive broadcast")
	}
}

func TestHub_BroadcastWatchlistUpdate(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		hub:  hub,
		send: make(chan []byte, clientSendBufferSize),
	}
	hub.register <- client
	waitForClientCount(t, hub, 1)

	item := &models.WatchlistItem{ID: 3, Symbol: "ETHUSDT", Label: "eth spot"}
	hub.BroadcastWatchlistUpdate("added", item)

	select {
	case data := <-client.send:
		payload := string(data)
		if !strings.Contains(payload, `"type":"watchlistUpdate"`) {
			t.Errorf("message missing type field: %s", payload)
		}
		if !strings.Contains(payload, `"action":"added"`) {
			t.Errorf("message missing action: %s", payload)
		}
		if !strings.Contains(payload, `"symbol":"ETHUSDT"`) {
			t.Errorf("message missing symbol: %s", payload)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("client did not receive broadcast")
	}
}

func TestHub_SlowClientEvicted(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// Буфер на 1 сообщение, клиент его не читает
	slow := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}
	hub.register <- slow
	waitForClientCount(t, hub, 1)

	hub.BroadcastAlertFired(&models.AlertEvent{ID: 1, AlertID: 1, Symbol: "BTCUSDT"})
	hub.BroadcastAlertFired(&models.AlertEvent{ID: 2, AlertID: 1, Symbol: "BTCUSDT"})

	waitForClientCount(t, hub, 0)
}

func TestHub_PooledClientReconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// Первое подключение через пул
	client := newPooledClient(hub, nil)
	hub.register <- client
	waitForClientCount(t, hub, 1)

	// Отключение: hub закрывает send, структура возвращается в пул
	hub.unregister <- client
	waitForClientCount(t, hub, 0)
	client.returnToPool()

	// Повторное подключение забирает структуру из пула.
	// Канал обязан быть новым, иначе broadcast упадет на закрытом канале.
	reused := newPooledClient(hub, nil)
	hub.register <- reused
	waitForClientCount(t, hub, 1)

	hub.BroadcastAlertFired(&models.AlertEvent{ID: 9, AlertID: 2, Symbol: "ETHUSDT"})

	select {
	case data := <-reused.send:
		if !strings.Contains(string(data), `"type":"alertFired"`) {
			t.Errorf("unexpected message after reconnect: %s", data)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("reconnected client did not receive broadcast")
	}
}

func TestHub_BroadcastNonBlocking(t *testing.T) {
	hub := NewHub()
	// Run не запущен: канал никто не читает

	for i := 0; i < 1000; i++ {
		hub.Broadcast(map[string]int{"i": i})
	}

	if hub.DroppedMessages() == 0 {
		t.Error("expected dropped messages with no consumer")
	}
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	hub.Stop()

	select {
	case <-done:
		// OK - Run() exited
	case <-time.After(1 * time.Second):
		t.Error("Hub.Run() did not exit after Stop()")
	}
}

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(1 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("client count did not reach %d, got %d", want, hub.ClientCount())
}

// ============================================================
// Benchmarks
// ============================================================

// BenchmarkHub_Broadcast тестирует скорость broadcast
func BenchmarkHub_Broadcast(b *testing.B) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	event := &models.AlertEvent{
		ID:            1,
		AlertID:       1,
		Symbol:        "BTCUSDT",
		Direction:     models.DirectionAbove,
		Threshold:     100000,
		ObservedPrice: 100250.5,
		ObservedAt:    time.Now(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hub.BroadcastAlertFired(event)
	}
}

// BenchmarkNewAlertFiredMessage тестирует создание сообщения
func BenchmarkNewAlertFiredMessage(b *testing.B) {
	event := &models.AlertEvent{
		ID:            1,
		AlertID:       1,
		Symbol:        "BTCUSDT",
		Direction:     models.DirectionAbove,
		Threshold:     100000,
		ObservedPrice: 100250.5,
		ObservedAt:    time.Now(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NewAlertFiredMessage(event)
	}
}

// BenchmarkOriginChecker_Check тестирует скорость проверки origin
func BenchmarkOriginChecker_Check(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		originChecker.Check("http://localhost:3000")
	}
}

// BenchmarkClientPool тестирует sync.Pool для клиентов
func BenchmarkClientPool(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client := clientPool.Get().(*Client)
		clientPool.Put(client)
	}
}

// ============================================================
// Parallel Stress Test
// ============================================================

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var wg sync.WaitGroup
	const goroutines = 10
	const operations = 1000

	// Concurrent broadcasts
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operations; j++ {
				hub.Broadcast(map[string]int{"goroutine": id, "op": j})
			}
		}(i)
	}

	// Concurrent ClientCount reads
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < operations; j++ {
				_ = hub.ClientCount()
			}
		}()
	}

	wg.Wait()
}
