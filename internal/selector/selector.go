// Package selector implements the Session Selector (§4.10): pick the
// active or next-scheduled session, or block on the new-session pub/sub
// channel when nothing is scheduled.
package selector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/relstore"
)

// IsCompleted reports whether a session id is in the worker loop's
// completed-sessions guard set (§4.11). The selector never owns that set;
// it only consults it.
type IsCompleted func(sessionID int64) bool

// SessionQuerier is the read-only subset of relstore.Store the selector
// needs. Narrowing to an interface lets tests substitute a fake instead of
// a live database.
type SessionQuerier interface {
	ActiveSession(ctx context.Context) (relstore.Session, error)
	NextSession(ctx context.Context) (relstore.Session, error)
	SessionByID(ctx context.Context, id int64) (relstore.Session, error)
}

// Selector picks the next session for the worker loop to drive.
type Selector struct {
	Rel       SessionQuerier
	Store     hotstore.Store
	DBTimeout time.Duration

	// PollInterval bounds how often Pick re-queries the relational store
	// when the most recently chosen candidate turns out to already be
	// completed, instead of busy-looping against the database.
	PollInterval time.Duration
}

func New(rel SessionQuerier, store hotstore.Store, dbTimeout time.Duration) *Selector {
	return &Selector{Rel: rel, Store: store, DBTimeout: dbTimeout, PollInterval: 2 * time.Second}
}

// Pick blocks until a session is available that is not already in the
// completed set, or ctx is canceled.
func (s *Selector) Pick(ctx context.Context, isCompleted IsCompleted) (relstore.Session, error) {
	for {
		session, ok, err := s.activeOrNext(ctx)
		if err != nil {
			return relstore.Session{}, err
		}
		if ok {
			if !isCompleted(session.ID) {
				return session, nil
			}
			log.Debug().Int64("session_id", session.ID).Msg("selector: candidate already completed, waiting")
			if err := s.wait(ctx, s.PollInterval); err != nil {
				return relstore.Session{}, err
			}
			continue
		}

		sessionID, err := s.waitForNewSession(ctx)
		if err != nil {
			return relstore.Session{}, err
		}
		session, err = s.loadByID(ctx, sessionID)
		if err != nil {
			log.Warn().Err(err).Int64("session_id", sessionID).Msg("selector: load session from new-session event failed")
			continue
		}
		if !isCompleted(session.ID) {
			return session, nil
		}
	}
}

func (s *Selector) activeOrNext(ctx context.Context) (relstore.Session, bool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()
	active, err := s.Rel.ActiveSession(dbCtx)
	if err == nil {
		return active, true, nil
	}
	if !errors.Is(err, relstore.ErrNotFound) {
		return relstore.Session{}, false, fmt.Errorf("query active session: %w", err)
	}

	dbCtx2, cancel2 := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel2()
	next, err := s.Rel.NextSession(dbCtx2)
	if err == nil {
		return next, true, nil
	}
	if !errors.Is(err, relstore.ErrNotFound) {
		return relstore.Session{}, false, fmt.Errorf("query next session: %w", err)
	}
	return relstore.Session{}, false, nil
}

func (s *Selector) loadByID(ctx context.Context, id int64) (relstore.Session, error) {
	dbCtx, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()
	return s.Rel.SessionByID(dbCtx, id)
}

type newSessionEvent struct {
	SessionID int64 `json:"sessionId"`
}

// waitForNewSession subscribes to the new-session channel and blocks until
// a message arrives or ctx is canceled.
func (s *Selector) waitForNewSession(ctx context.Context) (int64, error) {
	result := make(chan int64, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := s.Store.Subscribe(subCtx, hotstore.NewSessionChannel, func(msg hotstore.Message) {
		var ev newSessionEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Warn().Err(err).Str("payload", msg.Payload).Msg("selector: malformed new-session payload")
			return
		}
		select {
		case result <- ev.SessionID:
		default:
		}
	})
	if err != nil {
		return 0, fmt.Errorf("subscribe to new-session channel: %w", err)
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case id := <-result:
		return id, nil
	}
}

func (s *Selector) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
