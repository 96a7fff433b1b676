package phases

import (
	"context"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/relstore"
)

// SessionEnd announces the session's close on both a structured event and
// a bare terminal marker, then purges every hot-store key the session
// touched.
func (h *Handlers) SessionEnd(ctx context.Context, session relstore.Session) error {
	h.Broadcast.Publish("sessions", "session-end", map[string]any{
		"sessionId": session.ID,
		"endTime":   session.EndTime,
	})
	h.Broadcast.Publish("sessions", "SESSION_END", nil)

	if err := h.Lobbies.PurgeSession(ctx, session.ID); err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("purge hot state at session end failed")
	}
	return nil
}
