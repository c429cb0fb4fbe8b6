package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewRateLimiterDefaults(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		burst     float64
		wantRate  float64
		wantBurst float64
	}{
		{"normal", 10, 20, 10, 20},
		{"zero rate", 0, 0, 10, 20},
		{"negative rate", -5, 0, 10, 20},
		{"burst below rate - clamped", 10, 5, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.rate, tt.burst)
			if rl.rate != tt.wantRate {
				t.Errorf("rate = %v, want %v", rl.rate, tt.wantRate)
			}
			if rl.burst != tt.wantBurst {
				t.Errorf("burst = %v, want %v", rl.burst, tt.wantBurst)
			}
		})
	}
}

func TestAllowBurst(t *testing.T) {
	rl := NewRateLimiter(1, 5)

	// Полное ведро: burst запросов проходят сразу
	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Fatalf("Allow() = false on request %d, want true (bucket starts full)", i+1)
		}
	}

	// Ведро пустое, rate 1/сек - следующий запрос отклоняется
	if rl.Allow() {
		t.Error("Allow() = true with empty bucket, want false")
	}
}

func TestAllowRefill(t *testing.T) {
	rl := NewRateLimiter(100, 1)

	if !rl.Allow() {
		t.Fatal("first Allow() should succeed")
	}
	if rl.Allow() {
		t.Fatal("second Allow() should fail immediately")
	}

	// 100 токенов/сек: через 20мс токен точно появится
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow() {
		t.Error("Allow() after refill period should succeed")
	}
}

func TestWaitBlocksUntilToken(t *testing.T) {
	rl := NewRateLimiter(50, 1)

	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	// Ведро пустое: второй Wait должен подождать ~20мс
	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("second Wait failed: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("Wait returned too fast: %v, expected ~20ms", elapsed)
	}
}

func TestWaitContextCanceled(t *testing.T) {
	rl := NewRateLimiter(0.1, 1) // 1 токен раз в 10 секунд

	if !rl.Allow() {
		t.Fatal("first Allow() should succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait with expired context: got %v, want DeadlineExceeded", err)
	}
}

func TestTokensCapped(t *testing.T) {
	rl := NewRateLimiter(1000, 3)

	time.Sleep(10 * time.Millisecond)

	if tokens := rl.Tokens(); tokens > 3 {
		t.Errorf("Tokens() = %v, should be capped at burst 3", tokens)
	}
}

func TestConcurrentAllow(t *testing.T) {
	rl := NewRateLimiter(1, 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Не больше burst + пара токенов на время выполнения
	if allowed > 102 {
		t.Errorf("allowed %d requests, burst is 100", allowed)
	}
	if allowed < 100 {
		t.Errorf("allowed %d requests, expected at least burst 100", allowed)
	}
}
