// Package broadcaster implements the fire-and-forget publish surface
// required by §4.3: publish(channel, event_name, payload) never blocks the
// caller on delivery and never propagates a delivery failure, but preserves
// the order of publish calls made against the same channel from this worker
// instance. One buffered job queue plus one consumer goroutine per channel
// gives the ordering guarantee without a retry/circuit-breaker pipeline.
package broadcaster

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
)

// Envelope is the wire shape every publish call produces: {"event": ...,
// "data": ...}. Subscribers decode this same envelope.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type job struct {
	channel string
	envelope Envelope
}

// Broadcaster fans publish calls out to hotstore.Store.Publish, one
// bounded, order-preserving queue (capacity queueSize) per channel.
type Broadcaster struct {
	store            hotstore.Store
	queueSize        int
	mu               sync.Mutex
	queues           map[string]chan job
	wg               sync.WaitGroup
	ctx              context.Context
}

func New(ctx context.Context, store hotstore.Store, queueSize int) *Broadcaster {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Broadcaster{
		store:     store,
		queueSize: queueSize,
		queues:    map[string]chan job{},
		ctx:       ctx,
	}
}

// Publish enqueues event_name/payload onto channel's queue and returns
// immediately. When the queue is full this publish is dropped and logged
// instead of blocking the phase handler that called it.
func (b *Broadcaster) Publish(channel, eventName string, payload any) {
	b.mu.Lock()
	q, ok := b.queues[channel]
	if !ok {
		q = make(chan job, b.queueSize)
		b.queues[channel] = q
		b.wg.Add(1)
		go b.runChannel(channel, q)
	}
	b.mu.Unlock()

	j := job{channel: channel, envelope: Envelope{Event: eventName, Data: payload}}
	select {
	case q <- j:
		metricPublishQueuedTotal.Add(1)
	default:
		metricPublishDroppedTotal.Add(1)
		log.Warn().Str("channel", channel).Str("event", eventName).Msg("broadcaster queue full, dropping publish")
	}
}

func (b *Broadcaster) runChannel(channel string, q chan job) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case j := <-q:
			b.send(channel, j)
		}
	}
}

func (b *Broadcaster) send(channel string, j job) {
	raw, err := json.Marshal(j.envelope)
	if err != nil {
		metricPublishFailedTotal.Add(1)
		log.Error().Err(err).Str("channel", channel).Str("event", j.envelope.Event).Msg("encode publish payload failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.store.Publish(ctx, channel, string(raw)); err != nil {
		metricPublishFailedTotal.Add(1)
		log.Warn().Err(err).Str("channel", channel).Str("event", j.envelope.Event).Msg("publish delivery failed")
		return
	}
	metricPublishSentTotal.Add(1)
}

// Wait blocks until every channel goroutine has exited, for use after the
// Broadcaster's context is canceled during shutdown.
func (b *Broadcaster) Wait() {
	b.wg.Wait()
}
