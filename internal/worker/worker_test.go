package worker

import (
	"context"
	"testing"
	"time"

	"silicon-casino/internal/aiclient"
	"silicon-casino/internal/broadcaster"
	"silicon-casino/internal/clock"
	"silicon-casino/internal/distributor"
	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/lobby"
	"silicon-casino/internal/phases"
	"silicon-casino/internal/relstore"
	"silicon-casino/internal/selector"
)

type fakeAI struct{}

func (fakeAI) RoundAnnouncement(ctx context.Context, agentID string, roundNumber int) (string, error) {
	return "topic", nil
}

func (fakeAI) DecideEliminations(ctx context.Context, agentID string, sessionID int64, lobbyID, maxRounds, currentRound int) (aiclient.EliminationDecision, error) {
	return aiclient.EliminationDecision{Success: true}, nil
}

type fakeLoader struct {
	sessions map[int64]relstore.Session
}

func (f *fakeLoader) SessionByID(ctx context.Context, id int64) (relstore.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return relstore.Session{}, relstore.ErrNotFound
}

type fakeQuerier struct {
	active relstore.Session
}

func (f *fakeQuerier) ActiveSession(ctx context.Context) (relstore.Session, error) {
	return f.active, nil
}

func (f *fakeQuerier) NextSession(ctx context.Context) (relstore.Session, error) {
	return relstore.Session{}, relstore.ErrNotFound
}

func (f *fakeQuerier) SessionByID(ctx context.Context, id int64) (relstore.Session, error) {
	return f.active, nil
}

func pastSession(id int64, rounds int) relstore.Session {
	now := time.Now().UTC().Add(-time.Hour)
	players := []relstore.Player{
		{WalletAddress: "a", Status: relstore.PlayerActive},
		{WalletAddress: "b", Status: relstore.PlayerActive},
	}
	sessRounds := make([]relstore.Round, 0, rounds)
	t := now
	for i := 1; i <= rounds; i++ {
		sessRounds = append(sessRounds, relstore.Round{
			Sequence:         i,
			AIMessageStart:   t,
			AIMessageEnd:     t,
			StartTime:        t,
			EndTime:          t,
			EliminationStart: t,
			EliminationEnd:   t,
			VotingStartTime:  t,
			VotingEndTime:    t,
		})
		t = t.Add(time.Minute)
	}
	return relstore.Session{
		ID:          id,
		TotalRounds: rounds,
		StartTime:   now,
		EndTime:     t,
		Players:     players,
		Rounds:      sessRounds,
	}
}

func TestRunDrivesSessionToCompletionAndStops(t *testing.T) {
	store := hotstore.NewMemoryStore()
	session := pastSession(1, 1)

	lobbies := lobby.New(store)
	dist := distributor.New(store, lobbies)
	bc := broadcaster.New(context.Background(), store, 16)
	handlers := phases.New(lobbies, dist, fakeAI{}, bc, "agent-1", 10, 4)

	loader := &fakeLoader{sessions: map[int64]relstore.Session{1: session}}
	q := &fakeQuerier{active: session}
	sel := selector.New(q, store, time.Second)

	loop := New(sel, loader, clock.New(), handlers, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	if !loop.isCompleted(1) {
		t.Fatalf("expected session 1 to be marked completed after its timeline ran out")
	}
	cancel()
	<-errCh
}

func TestMonitorStopsAtSessionEnd(t *testing.T) {
	store := hotstore.NewMemoryStore()
	session := pastSession(2, 0)

	lobbies := lobby.New(store)
	dist := distributor.New(store, lobbies)
	bc := broadcaster.New(context.Background(), store, 16)
	handlers := phases.New(lobbies, dist, fakeAI{}, bc, "agent-1", 10, 4)

	loop := New(nil, nil, clock.New(), handlers, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := loop.monitor(ctx, session); err != nil {
		t.Fatalf("monitor() error = %v", err)
	}
}
