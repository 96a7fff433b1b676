package hotstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process fake implementing Store, used across this
// repo's tests as a hand-rolled test double in place of a mocking
// framework.
type MemoryStore struct {
	mu        sync.Mutex
	kv        map[string]string
	lists     map[string][]string
	sets      map[string]map[string]struct{}
	hashes    map[string]map[string]string
	listeners map[string][]func(Message)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		kv:        map[string]string{},
		lists:     map[string][]string{},
		sets:      map[string]map[string]struct{}{},
		hashes:    map[string]map[string]string{},
		listeners: map[string][]func(Message){},
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

func (m *MemoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.kv, k)
		delete(m.lists, k)
		delete(m.sets, k)
		delete(m.hashes, k)
	}
	return nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.kv[key]
	if ok {
		return true, nil
	}
	_, ok = m.lists[key]
	if ok {
		return true, nil
	}
	_, ok = m.sets[key]
	if ok {
		return true, nil
	}
	_, ok = m.hashes[key]
	return ok, nil
}

func (m *MemoryStore) ListPush(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], value)
	return nil
}

func (m *MemoryStore) ListRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.lists[key]
	n := int64(len(items))
	if n == 0 {
		return nil, nil
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	if start < 0 {
		start = 0
	}
	if start > stop {
		return nil, nil
	}
	out := make([]string, stop-start+1)
	copy(out, items[start:stop+1])
	return out, nil
}

func (m *MemoryStore) SetAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[key]
	if !ok {
		set = map[string]struct{}{}
		m.sets[key] = set
	}
	for _, mem := range members {
		set[mem] = struct{}{}
	}
	return nil
}

func (m *MemoryStore) SetMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	out := make([]string, 0, len(set))
	for mem := range set {
		out = append(out, mem)
	}
	return out, nil
}

func (m *MemoryStore) SetIsMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[key][member]
	return ok, nil
}

func (m *MemoryStore) SetCard(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sets[key])), nil
}

func (m *MemoryStore) HGet(_ context.Context, key, field string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.hashes[key][field]
	return v, ok, nil
}

func (m *MemoryStore) HSet(_ context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	h[field] = value
	return nil
}

func (m *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.kv {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	for k := range m.lists {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	for k := range m.sets {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *MemoryStore) Publish(_ context.Context, channel, message string) error {
	m.mu.Lock()
	listeners := append([]func(Message){}, m.listeners[channel]...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(Message{Channel: channel, Payload: message})
	}
	return nil
}

func (m *MemoryStore) Subscribe(ctx context.Context, channel string, onMessage func(Message)) error {
	m.mu.Lock()
	m.listeners[channel] = append(m.listeners[channel], func(msg Message) {
		if ctx.Err() == nil {
			onMessage(msg)
		}
	})
	m.mu.Unlock()
	return nil
}

// Unlike RedisStore, MemoryStore has no dispatcher goroutine: Publish
// invokes the registered listeners synchronously on the publishing
// goroutine, so tests observe what a handler published by subscribing a
// recorder func.
