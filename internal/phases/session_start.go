package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/relstore"
)

// SessionStart purges hot state left over from a prior run, then partitions
// registered players into lobbies. A session with no registered players
// skips lobby creation rather than erroring, since it is a valid (if
// uninteresting) terminal state.
func (h *Handlers) SessionStart(ctx context.Context, session relstore.Session) error {
	if err := h.Lobbies.PurgeSession(ctx, session.ID); err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("purge hot state at session start failed")
	}

	if len(session.Players) == 0 {
		log.Warn().Int64("session_id", session.ID).Msg("session has no registered players, skipping lobby creation")
	} else {
		if _, err := h.Distributor.Distribute(ctx, session, h.MaxLobbySize); err != nil {
			log.Error().Err(err).Int64("session_id", session.ID).Msg("distribute players into lobbies failed")
		}
	}

	h.Broadcast.Publish("sessions", "session-start", map[string]any{
		"sessionId": session.ID,
		"startTime": session.StartTime,
	})
	return nil
}
