package phases

import (
	"context"

	"silicon-casino/internal/relstore"
)

// RoundEnd only announces the round boundary; elimination is deferred to
// ELIMINATION_START.
func (h *Handlers) RoundEnd(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	if round == nil {
		return nil
	}
	h.Broadcast.Publish("sessions", "round-end", map[string]any{
		"sessionId":   session.ID,
		"roundNumber": round.Sequence,
	})
	return nil
}
