// Package worker implements the top-level driver (C11, §4.11): pick a
// session, walk its timeline, sleep until each boundary, dispatch to the
// matching phase handler, and repeat. The loop returns only when its
// context is canceled or expires; every other error is logged and the loop
// carries on.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/clock"
	"silicon-casino/internal/phases"
	"silicon-casino/internal/relstore"
	"silicon-casino/internal/selector"
	"silicon-casino/internal/timeline"
)

// SessionLoader is the subset of relstore.Store the loop needs to hydrate
// a session's rounds and players before building its timeline.
type SessionLoader interface {
	SessionByID(ctx context.Context, id int64) (relstore.Session, error)
}

// Loop ties together the Session Selector, Timeline Builder, Clock, and
// Phase Handlers (§4.11's pseudocode).
type Loop struct {
	Selector  *selector.Selector
	Rel       SessionLoader
	Clock     clock.Clock
	Handlers  *phases.Handlers
	DBTimeout time.Duration

	mu        sync.Mutex
	completed map[int64]bool
}

func New(sel *selector.Selector, rel SessionLoader, clk clock.Clock, handlers *phases.Handlers, dbTimeout time.Duration) *Loop {
	return &Loop{
		Selector:  sel,
		Rel:       rel,
		Clock:     clk,
		Handlers:  handlers,
		DBTimeout: dbTimeout,
		completed: map[int64]bool{},
	}
}

func (l *Loop) isCompleted(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.completed[id]
}

func (l *Loop) markCompleted(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.completed[id] = true
}

// Run drives sessions forever until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		candidate, err := l.Selector.Pick(ctx, l.isCompleted)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Error().Err(err).Msg("worker loop: select session failed, retrying")
			continue
		}
		if l.isCompleted(candidate.ID) {
			continue
		}

		session, err := l.loadSession(ctx, candidate.ID)
		if err != nil {
			log.Error().Err(err).Int64("session_id", candidate.ID).Msg("worker loop: load full session failed, retrying")
			continue
		}

		if err := l.monitor(ctx, session); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Error().Err(err).Int64("session_id", session.ID).Msg("worker loop: monitor exited with error")
		}
		l.markCompleted(session.ID)
	}
}

func (l *Loop) loadSession(ctx context.Context, id int64) (relstore.Session, error) {
	dbCtx, cancel := context.WithTimeout(ctx, l.DBTimeout)
	defer cancel()
	return l.Rel.SessionByID(dbCtx, id)
}

// monitor walks session's timeline, re-deriving the next due event from
// wall time on every iteration. Because next_event is a pure function of
// the timeline and now(), a restart mid-session resumes correctly: events
// already in the past are simply skipped (§4.11).
func (l *Loop) monitor(ctx context.Context, session relstore.Session) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		events := timeline.Build(session, time.Now().UTC())
		evt, ok := timeline.NextEvent(events, time.Now().UTC())
		if !ok {
			return nil
		}

		outcome := l.Clock.SleepUntil(ctx, evt.Time)
		if outcome == clock.Canceled {
			return ctx.Err()
		}

		round := phases.RoundForNumber(session, evt.RoundNumber)
		if err := l.Handlers.Dispatch(ctx, session, round, evt); err != nil {
			log.Error().Err(err).Int64("session_id", session.ID).Str("phase", string(evt.Phase)).Msg("phase handler returned an error, continuing")
		}

		if evt.Phase == timeline.SessionEnd {
			return nil
		}
	}
}
