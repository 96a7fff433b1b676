package phases

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"silicon-casino/internal/lobby"
	"silicon-casino/internal/relstore"
)

// EliminationStart asks the AI oracle for eliminations per active lobby,
// concurrently, bounded by h.Fanout. An AI failure for one lobby is logged
// and leaves that lobby's state untouched; the remaining lobbies still
// proceed (§4.9, §5).
func (h *Handlers) EliminationStart(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	if round == nil {
		return nil
	}

	lobbies, err := h.Lobbies.GetActiveLobbies(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("elimination start: list active lobbies failed")
		return nil
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(h.Fanout)
	for _, l := range lobbies {
		l := l
		group.Go(func() error {
			h.eliminateInLobby(gctx, session, round, l)
			return nil
		})
	}
	_ = group.Wait()
	return nil
}

func (h *Handlers) eliminateInLobby(ctx context.Context, session relstore.Session, round *relstore.Round, l lobby.Lobby) {
	decision, err := h.AI.DecideEliminations(ctx, h.AgentID, session.ID, l.LobbyID, session.TotalRounds, round.Sequence)
	if err != nil {
		log.Warn().Err(err).Int64("session_id", session.ID).Int("lobby_id", l.LobbyID).Msg("decide eliminations failed, lobby left unchanged")
		return
	}
	if len(decision.Eliminated) == 0 {
		return
	}

	eliminatedWallets := make([]string, 0, len(decision.Eliminated))
	for _, e := range decision.Eliminated {
		eliminatedWallets = append(eliminatedWallets, e.Participant)
	}
	eliminatedSet := make(map[string]struct{}, len(eliminatedWallets))
	for _, w := range eliminatedWallets {
		eliminatedSet[w] = struct{}{}
	}

	for i := range l.Players {
		if _, ok := eliminatedSet[l.Players[i].WalletAddress]; ok {
			l.Players[i].Status = lobby.PlayerEliminated
			if err := h.Lobbies.SetPlayerStatus(ctx, l.LobbyID, l.Players[i].WalletAddress, lobby.PlayerEliminated); err != nil {
				log.Warn().Err(err).Int("lobby_id", l.LobbyID).Str("wallet", l.Players[i].WalletAddress).Msg("set player status failed")
			}
		}
	}

	if err := h.Lobbies.UpdateLobby(ctx, session.ID, l.LobbyID, l); err != nil {
		log.Error().Err(err).Int("lobby_id", l.LobbyID).Msg("write lobby after elimination failed")
		return
	}
	if err := h.Lobbies.AppendEliminations(ctx, l.LobbyID, eliminatedWallets); err != nil {
		log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("append elimination record failed")
	}

	h.Broadcast.Publish(lobbyChannel(l.LobbyID), "elimination-start", map[string]any{
		"eliminatedPlayers": eliminatedWallets,
	})
}
