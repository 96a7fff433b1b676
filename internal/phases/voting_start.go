package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/relstore"
)

// VotingStart clears each active lobby's vote list so out-of-band voters
// start from a clean tally, then announces the voting window.
func (h *Handlers) VotingStart(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	if round == nil {
		return nil
	}

	lobbies, err := h.Lobbies.GetActiveLobbies(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("voting start: list active lobbies failed")
	}
	for _, l := range lobbies {
		key := hotstore.VotesKey(session.ID, l.LobbyID, round.Sequence)
		if err := h.Lobbies.ClearKey(ctx, key); err != nil {
			log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("clear vote list failed")
		}
	}

	h.Broadcast.Publish("rounds", "voting-start", map[string]any{
		"sessionId":       session.ID,
		"roundNumber":     round.Sequence,
		"votingStartTime": round.VotingStartTime,
		"votingEndTime":   round.VotingEndTime,
	})
	return nil
}
