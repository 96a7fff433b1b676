package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/lobby"
	"silicon-casino/internal/relstore"
)

// EliminationEnd announces each active lobby's remaining roster, then
// closes out any lobby down to one or zero active players.
func (h *Handlers) EliminationEnd(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	lobbies, err := h.Lobbies.GetActiveLobbies(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("elimination end: list active lobbies failed")
		return nil
	}

	for _, l := range lobbies {
		remaining, err := h.Lobbies.GetRemainingPlayers(ctx, session.ID, l.LobbyID)
		if err != nil {
			log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("get remaining players failed")
			continue
		}

		h.Broadcast.Publish(lobbyChannel(l.LobbyID), "elimination-end", map[string]any{
			"lobbyId":              l.LobbyID,
			"message":              "elimination complete",
			"remainingParticipants": remaining,
		})

		if len(remaining) <= 1 {
			if err := h.Lobbies.UpdateLobbyStatus(ctx, session.ID, l.LobbyID, lobby.StatusCompleted); err != nil {
				log.Error().Err(err).Int("lobby_id", l.LobbyID).Msg("mark lobby completed failed")
				continue
			}
			h.Broadcast.Publish(lobbyChannel(l.LobbyID), "game-end", map[string]any{
				"lobbyId": l.LobbyID,
				"message": "lobby has concluded",
			})
		}
	}
	return nil
}
