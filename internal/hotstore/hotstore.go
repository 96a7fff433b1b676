// Package hotstore is the ephemeral key/value + pub/sub service holding
// live lobby state, vote tallies, and the topic cache (§3, §4.4). It is
// shared with external producers (forum messages, votes, session-creation
// events); the worker is the sole writer of everything else it touches.
package hotstore

import (
	"context"
	"time"
)

// Message is a decoded pub/sub payload delivered to a Subscribe callback.
type Message struct {
	Channel string
	Payload string
}

// Store is the primitive surface §4.4 requires: get/set/del, list
// push/range, set add/members/is-member/cardinality, hash get/set, exists,
// scoped key deletion, and publish/subscribe.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	ListPush(ctx context.Context, key, value string) error
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	SetAdd(ctx context.Context, key string, members ...string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	SetIsMember(ctx context.Context, key, member string) (bool, error)
	SetCard(ctx context.Context, key string) (int64, error)

	HGet(ctx context.Context, key, field string) (string, bool, error)
	HSet(ctx context.Context, key, field, value string) error

	// Keys lists every key matching a prefix, used for scoped cleanup
	// (§9's decision against a blanket FLUSHALL).
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Publish is fire-and-forget; delivery errors are the caller's to log,
	// never propagated to phase logic beyond the error return (§4.3/§4.4).
	Publish(ctx context.Context, channel, message string) error

	// Subscribe registers a callback invoked on an internal dispatcher
	// goroutine for every message received on channel, until ctx is done.
	// Callback code must not block — fork work instead (§4.4).
	Subscribe(ctx context.Context, channel string, onMessage func(Message)) error
}
