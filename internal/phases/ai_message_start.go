package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/relstore"
)

const fallbackTopic = "Discuss your strategy!"

// AIMessageStart requests the round topic from the AI oracle and caches it
// per (session, round, lobby). An AI failure never aborts the phase: a
// fallback topic is cached instead and the phase still broadcasts.
func (h *Handlers) AIMessageStart(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	if round == nil {
		log.Warn().Int64("session_id", session.ID).Msg("ai message start fired with no matching round, skipping")
		return nil
	}

	topic, err := h.AI.RoundAnnouncement(ctx, h.AgentID, round.Sequence)
	if err != nil {
		log.Warn().Err(err).Int64("session_id", session.ID).Int("round", round.Sequence).Msg("round announcement failed, using fallback topic")
		topic = fallbackTopic
	}

	lobbies, err := h.Lobbies.GetActiveLobbies(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("ai message start: list active lobbies failed")
	}
	for _, l := range lobbies {
		key := hotstore.TopicKey(session.ID, round.Sequence, l.LobbyID)
		if err := h.Lobbies.SetTopicCache(ctx, key, topic); err != nil {
			log.Warn().Err(err).Int("lobby_id", l.LobbyID).Msg("cache topic failed")
		}
	}

	h.Broadcast.Publish("rounds", "ai-message-start", map[string]any{
		"sessionId": session.ID,
		"round":     round.Sequence,
	})
	return nil
}
