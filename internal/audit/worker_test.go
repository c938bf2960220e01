package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authbase/authbase/internal/model"
)

func redisXAddPoison(payload string) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: StreamKey,
		ID:     "*",
		Values: map[string]interface{}{"payload": payload},
	}
}

// fakeRepo collects persisted events in memory.
type fakeRepo struct {
	mu      sync.Mutex
	events  []*model.AuthEvent
	failMsg error
}

func (f *fakeRepo) BulkInsertAuthEvents(ctx context.Context, events []*model.AuthEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMsg != nil {
		return f.failMsg
	}
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeRepo) all() []*model.AuthEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.AuthEvent(nil), f.events...)
}

func TestWorkerProcessOnce(t *testing.T) {
	client, _ := newTestRedis(t)
	ctx := context.Background()

	p := NewPublisher(client, discardLogger(), nil)
	for _, kind := range []string{KindRegistered, KindLoginSuccess, KindLoginFailure} {
		if _, err := p.Publish(ctx, Event{
			Kind:       kind,
			UserID:     "user-1",
			Email:      "ann@example.com",
			IPHash:     HashIP("203.0.113.9"),
			OccurredAt: time.Now().UnixMilli(),
		}); err != nil {
			t.Fatalf("publish %s: %v", kind, err)
		}
	}

	repo := &fakeRepo{}
	w := NewWorker(client, repo, discardLogger(), "test-consumer", nil)
	w.SetBlockTimeout(50 * time.Millisecond)

	if err := w.ensureConsumerGroup(ctx); err != nil {
		t.Fatalf("ensure consumer group: %v", err)
	}
	if err := w.ProcessOnce(ctx); err != nil {
		t.Fatalf("process once: %v", err)
	}

	persisted := repo.all()
	if len(persisted) != 3 {
		t.Fatalf("persisted %d events, want 3", len(persisted))
	}
	for _, e := range persisted {
		if e.ID == "" || e.EventID == "" {
			t.Errorf("event missing IDs: %+v", e)
		}
		if e.IPHash != HashIP("203.0.113.9") {
			t.Errorf("ip hash = %q", e.IPHash)
		}
	}

	// All messages acknowledged; nothing pending for the group
	pending, err := client.XPending(ctx, StreamKey, ConsumerGroup).Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0", pending.Count)
	}
}

func TestWorkerDeadLettersPoisonMessages(t *testing.T) {
	client, _ := newTestRedis(t)
	ctx := context.Background()

	// Not valid JSON
	if err := client.XAdd(ctx, redisXAddPoison("{not json")).Err(); err != nil {
		t.Fatalf("xadd poison: %v", err)
	}
	// Valid JSON, fails validation
	if err := client.XAdd(ctx, redisXAddPoison(`{"k":"bogus_kind","ih":"abcdef0123456789","t":1}`)).Err(); err != nil {
		t.Fatalf("xadd invalid: %v", err)
	}

	repo := &fakeRepo{}
	w := NewWorker(client, repo, discardLogger(), "test-consumer", nil)
	w.SetBlockTimeout(50 * time.Millisecond)

	if err := w.ensureConsumerGroup(ctx); err != nil {
		t.Fatalf("ensure consumer group: %v", err)
	}
	if err := w.ProcessOnce(ctx); err != nil {
		t.Fatalf("process once: %v", err)
	}

	if got := len(repo.all()); got != 0 {
		t.Errorf("persisted %d events, want 0", got)
	}

	dlq, err := client.XLen(ctx, DeadLetterStreamKey).Result()
	if err != nil {
		t.Fatalf("xlen dlq: %v", err)
	}
	if dlq != 2 {
		t.Errorf("dead letter length = %d, want 2", dlq)
	}

	// Poison messages are still ACKed so they do not block the stream
	pending, err := client.XPending(ctx, StreamKey, ConsumerGroup).Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0", pending.Count)
	}
}

func TestWorkerShutdownBeforeStart(t *testing.T) {
	client, _ := newTestRedis(t)
	w := NewWorker(client, &fakeRepo{}, discardLogger(), "test-consumer", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown before start: %v", err)
	}
}

func TestWorkerRunAndShutdown(t *testing.T) {
	client, _ := newTestRedis(t)
	w := NewWorker(client, &fakeRepo{}, discardLogger(), "test-consumer", nil)
	w.SetBlockTimeout(20 * time.Millisecond)

	runErr := make(chan error, 1)
	go func() {
		runErr <- w.Run(context.Background())
	}()

	// Give the loop a moment to start
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-runErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("run returned: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after shutdown")
	}

	if err := w.Run(context.Background()); err == nil {
		t.Error("restarting a used worker should fail")
	}
}
