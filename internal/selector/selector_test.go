package selector

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/relstore"
)

type fakeQuerier struct {
	active     relstore.Session
	hasActive  bool
	next       relstore.Session
	hasNext    bool
	byID       map[int64]relstore.Session
}

func (f *fakeQuerier) ActiveSession(ctx context.Context) (relstore.Session, error) {
	if f.hasActive {
		return f.active, nil
	}
	return relstore.Session{}, relstore.ErrNotFound
}

func (f *fakeQuerier) NextSession(ctx context.Context) (relstore.Session, error) {
	if f.hasNext {
		return f.next, nil
	}
	return relstore.Session{}, relstore.ErrNotFound
}

func (f *fakeQuerier) SessionByID(ctx context.Context, id int64) (relstore.Session, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return relstore.Session{}, relstore.ErrNotFound
}

func TestPickPrefersActiveOverNext(t *testing.T) {
	q := &fakeQuerier{
		hasActive: true, active: relstore.Session{ID: 1},
		hasNext: true, next: relstore.Session{ID: 2},
	}
	s := New(q, hotstore.NewMemoryStore(), time.Second)

	got, err := s.Pick(context.Background(), func(int64) bool { return false })
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("Pick() = session %d, want active session 1", got.ID)
	}
}

func TestPickFallsBackToNextWhenNoActive(t *testing.T) {
	q := &fakeQuerier{hasNext: true, next: relstore.Session{ID: 2}}
	s := New(q, hotstore.NewMemoryStore(), time.Second)

	got, err := s.Pick(context.Background(), func(int64) bool { return false })
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if got.ID != 2 {
		t.Fatalf("Pick() = session %d, want next session 2", got.ID)
	}
}

func TestPickSkipsCompletedAndWaitsOnPubSub(t *testing.T) {
	q := &fakeQuerier{
		hasActive: true, active: relstore.Session{ID: 1},
		byID: map[int64]relstore.Session{3: {ID: 3}},
	}
	s := New(q, hotstore.NewMemoryStore(), time.Second)
	s.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completed := map[int64]bool{1: true}
	resultCh := make(chan relstore.Session, 1)
	go func() {
		got, err := s.Pick(ctx, func(id int64) bool { return completed[id] })
		if err != nil {
			t.Errorf("Pick() error = %v", err)
			return
		}
		resultCh <- got
	}()

	time.Sleep(30 * time.Millisecond)
	q.hasActive = false
	payload, _ := json.Marshal(newSessionEvent{SessionID: 3})
	if err := s.Store.Publish(context.Background(), hotstore.NewSessionChannel, string(payload)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-resultCh:
		if got.ID != 3 {
			t.Fatalf("Pick() = session %d, want 3", got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for Pick() to resolve via pub/sub")
	}
}

func TestPickBlocksUntilNewSessionPublished(t *testing.T) {
	q := &fakeQuerier{byID: map[int64]relstore.Session{5: {ID: 5}}}
	s := New(q, hotstore.NewMemoryStore(), time.Second)

	resultCh := make(chan relstore.Session, 1)
	go func() {
		got, err := s.Pick(context.Background(), func(int64) bool { return false })
		if err != nil {
			t.Errorf("Pick() error = %v", err)
			return
		}
		resultCh <- got
	}()

	time.Sleep(20 * time.Millisecond)
	payload, _ := json.Marshal(newSessionEvent{SessionID: 5})
	if err := s.Store.Publish(context.Background(), hotstore.NewSessionChannel, string(payload)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-resultCh:
		if got.ID != 5 {
			t.Fatalf("Pick() = session %d, want 5", got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for Pick() to resolve via pub/sub")
	}
}
