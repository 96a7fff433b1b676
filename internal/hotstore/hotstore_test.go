package hotstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"silicon-casino/internal/config"
)

// storeFactories runs every Store-contract test against each available
// implementation. RedisStore is added only when TEST_REDIS_URL is set,
// mirroring relstore's TEST_POSTGRES_DSN skip pattern.
func storeFactories(t *testing.T) map[string]func() (Store, func()) {
	factories := map[string]func() (Store, func()){
		"memory": func() (Store, func()) {
			return NewMemoryStore(), func() {}
		},
	}

	cfg, err := config.LoadTestRedis()
	if err != nil {
		t.Logf("skip redis-backed cases: %v", err)
		return factories
	}
	factories["redis"] = func() (Store, func()) {
		rs, err := Dial(cfg.TestRedisURL)
		if err != nil {
			t.Fatalf("dial redis: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			t.Skipf("skip redis-backed cases: ping: %v", err)
		}
		return rs, func() { rs.Close() }
	}
	return factories
}

func TestStoreGetSetDel(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			st, cleanup := newStore()
			defer cleanup()
			ctx := context.Background()

			if _, ok, err := st.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = (_, %v, %v), want (_, false, nil)", ok, err)
			}
			if err := st.Set(ctx, "k", "v", 0); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			v, ok, err := st.Get(ctx, "k")
			if err != nil || !ok || v != "v" {
				t.Fatalf("Get(k) = (%q, %v, %v), want (v, true, nil)", v, ok, err)
			}
			if err := st.Del(ctx, "k"); err != nil {
				t.Fatalf("Del() error = %v", err)
			}
			if ok, _ := st.Exists(ctx, "k"); ok {
				t.Fatalf("Exists(k) after Del = true")
			}
		})
	}
}

func TestStoreSetOperations(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			st, cleanup := newStore()
			defer cleanup()
			ctx := context.Background()

			if err := st.SetAdd(ctx, "s", "a", "b", "a"); err != nil {
				t.Fatalf("SetAdd() error = %v", err)
			}
			card, err := st.SetCard(ctx, "s")
			if err != nil || card != 2 {
				t.Fatalf("SetCard() = (%d, %v), want (2, nil)", card, err)
			}
			isMember, err := st.SetIsMember(ctx, "s", "a")
			if err != nil || !isMember {
				t.Fatalf("SetIsMember(a) = (%v, %v), want (true, nil)", isMember, err)
			}
		})
	}
}

func TestStoreListRange(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			st, cleanup := newStore()
			defer cleanup()
			ctx := context.Background()

			for _, v := range []string{"1", "2", "3"} {
				if err := st.ListPush(ctx, "l", v); err != nil {
					t.Fatalf("ListPush(%s) error = %v", v, err)
				}
			}
			got, err := st.ListRange(ctx, "l", 0, -1)
			if err != nil {
				t.Fatalf("ListRange() error = %v", err)
			}
			want := []string{"1", "2", "3"}
			if len(got) != len(want) {
				t.Fatalf("ListRange() = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("ListRange()[%d] = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestStoreHash(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			st, cleanup := newStore()
			defer cleanup()
			ctx := context.Background()

			if err := st.HSet(ctx, "h", "f", "v"); err != nil {
				t.Fatalf("HSet() error = %v", err)
			}
			v, ok, err := st.HGet(ctx, "h", "f")
			if err != nil || !ok || v != "v" {
				t.Fatalf("HGet() = (%q, %v, %v), want (v, true, nil)", v, ok, err)
			}
			if _, ok, _ := st.HGet(ctx, "h", "missing"); ok {
				t.Fatalf("HGet(missing field) ok = true")
			}
		})
	}
}

func TestStoreKeysPrefix(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			st, cleanup := newStore()
			defer cleanup()
			ctx := context.Background()

			if err := st.Set(ctx, "session:1:a", "x", 0); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := st.Set(ctx, "session:2:a", "x", 0); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := st.Keys(ctx, "session:1:")
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			if len(got) != 1 || got[0] != "session:1:a" {
				t.Fatalf("Keys(session:1:) = %v, want [session:1:a]", got)
			}
		})
	}
}

func TestStorePublishSubscribe(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			st, cleanup := newStore()
			defer cleanup()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var mu sync.Mutex
			var received []string
			done := make(chan struct{}, 1)

			if err := st.Subscribe(ctx, "chan-test", func(msg Message) {
				mu.Lock()
				received = append(received, msg.Payload)
				mu.Unlock()
				select {
				case done <- struct{}{}:
				default:
				}
			}); err != nil {
				t.Fatalf("Subscribe() error = %v", err)
			}

			// Redis subscriptions dispatch on a background goroutine;
			// give the subscribe call a moment to register before publishing.
			time.Sleep(50 * time.Millisecond)

			if err := st.Publish(ctx, "chan-test", "hello"); err != nil {
				t.Fatalf("Publish() error = %v", err)
			}

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatalf("timed out waiting for published message")
			}

			mu.Lock()
			defer mu.Unlock()
			if len(received) == 0 || received[0] != "hello" {
				t.Fatalf("received = %v, want [hello]", received)
			}
		})
	}
}
