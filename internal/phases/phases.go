// Package phases implements one handler per phase kind named in §4.9,
// each performing its fan-out, state mutation, and broadcast. Handlers
// never propagate an error that would abort the worker loop (§7):
// failures are logged, and the affected unit (a lobby, a round) is skipped
// while the rest of the phase proceeds.
package phases

import (
	"context"
	"fmt"

	"silicon-casino/internal/aiclient"
	"silicon-casino/internal/broadcaster"
	"silicon-casino/internal/distributor"
	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/lobby"
	"silicon-casino/internal/relstore"
	"silicon-casino/internal/timeline"
)

// Handlers bundles every dependency a phase handler needs: the hot-store
// lobby CRUD surface, the player distributor, the AI oracle, and the
// broadcaster. One instance is shared across the whole session the worker
// is currently driving.
type Handlers struct {
	Lobbies     *lobby.Manager
	Distributor *distributor.Distributor
	AI          aiclient.Client
	Broadcast   *broadcaster.Broadcaster

	AgentID      string
	MaxLobbySize int
	Fanout       int
}

func New(lobbies *lobby.Manager, dist *distributor.Distributor, ai aiclient.Client, bc *broadcaster.Broadcaster, agentID string, maxLobbySize, fanout int) *Handlers {
	if fanout <= 0 {
		fanout = 8
	}
	if maxLobbySize <= 0 {
		maxLobbySize = 10
	}
	return &Handlers{
		Lobbies:      lobbies,
		Distributor:  dist,
		AI:           ai,
		Broadcast:    bc,
		AgentID:      agentID,
		MaxLobbySize: maxLobbySize,
		Fanout:       fanout,
	}
}

// Dispatch routes evt to the handler for its phase. round is nil for
// SESSION_START/SESSION_END, which are round-independent. A panic raised by
// a handler on this goroutine is recovered and returned as an error.
func (h *Handlers) Dispatch(ctx context.Context, session relstore.Session, round *relstore.Round, evt timeline.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("phase %s panicked: %v", evt.Phase, r)
		}
	}()
	switch evt.Phase {
	case timeline.SessionStart:
		return h.SessionStart(ctx, session)
	case timeline.AIMessageStart:
		return h.AIMessageStart(ctx, session, round)
	case timeline.AIMessageEnd:
		return h.AIMessageEnd(ctx, session, round)
	case timeline.RoundStart:
		return h.RoundStart(ctx, session, round)
	case timeline.RoundEnd:
		return h.RoundEnd(ctx, session, round)
	case timeline.EliminationStart:
		return h.EliminationStart(ctx, session, round)
	case timeline.EliminationEnd:
		return h.EliminationEnd(ctx, session, round)
	case timeline.VotingStart:
		return h.VotingStart(ctx, session, round)
	case timeline.VotingEnd:
		return h.VotingEnd(ctx, session, round)
	case timeline.SessionEnd:
		return h.SessionEnd(ctx, session)
	default:
		return fmt.Errorf("unknown phase %q", evt.Phase)
	}
}

func lobbyChannel(lobbyID int) string {
	return hotstore.LobbyChannel(lobbyID)
}

// RoundForNumber finds the round with the given sequence number, used by
// the worker loop to resolve timeline.Event.RoundNumber before dispatching.
func RoundForNumber(session relstore.Session, roundNumber int) *relstore.Round {
	for i := range session.Rounds {
		if session.Rounds[i].Sequence == roundNumber {
			return &session.Rounds[i]
		}
	}
	return nil
}
