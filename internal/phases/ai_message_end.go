package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/relstore"
)

// AIMessageEnd performs no state mutation; it only announces that the
// round's topic window has closed. The topic is read back from the cache
// AIMessageStart wrote — every active lobby was cached the same value, so
// the first one found is representative.
func (h *Handlers) AIMessageEnd(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	roundNumber := 0
	if round != nil {
		roundNumber = round.Sequence
	}

	message := fallbackTopic
	if round != nil {
		lobbies, err := h.Lobbies.GetActiveLobbies(ctx, session.ID)
		if err != nil {
			log.Error().Err(err).Int64("session_id", session.ID).Msg("ai message end: list active lobbies failed")
		}
		for _, l := range lobbies {
			key := hotstore.TopicKey(session.ID, round.Sequence, l.LobbyID)
			topic, ok, err := h.Lobbies.GetTopicCache(ctx, key)
			if err != nil {
				log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("read topic cache failed")
				continue
			}
			if ok {
				message = topic
				break
			}
		}
	}

	h.Broadcast.Publish("rounds", "ai-message-end", map[string]any{
		"sessionId":   session.ID,
		"roundNumber": roundNumber,
		"message":     message,
	})
	return nil
}
