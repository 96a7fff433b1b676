package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/lobby"
	"silicon-casino/internal/relstore"
)

// VotingEnd tallies each active lobby's votes. A tie (continue count equal
// to share count) resolves to "continue" — the decision made against §9's
// open question. A "share" outcome completes the lobby.
func (h *Handlers) VotingEnd(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	if round == nil {
		return nil
	}

	lobbies, err := h.Lobbies.GetActiveLobbies(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("voting end: list active lobbies failed")
		return nil
	}

	for _, l := range lobbies {
		results, err := h.Lobbies.GetVotingResults(ctx, session.ID, l.LobbyID, round.Sequence)
		if err != nil {
			log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("get voting results failed")
			continue
		}

		result := "continue"
		if results["share"] > results["continue"] {
			result = "share"
		}

		h.Broadcast.Publish(lobbyChannel(l.LobbyID), "voting-result", map[string]any{
			"lobbyId": l.LobbyID,
			"result":  result,
		})

		if result == "share" {
			if err := h.Lobbies.UpdateLobbyStatus(ctx, session.ID, l.LobbyID, lobby.StatusCompleted); err != nil {
				log.Error().Err(err).Int("lobby_id", l.LobbyID).Msg("mark lobby completed after share vote failed")
			}
		}

		if err := h.Lobbies.ClearKey(ctx, hotstore.VotesKey(session.ID, l.LobbyID, round.Sequence)); err != nil {
			log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("clear vote tally failed")
		}
	}
	return nil
}
