package phases

import (
	"context"

	"silicon-casino/internal/relstore"
)

func (h *Handlers) RoundStart(ctx context.Context, session relstore.Session, round *relstore.Round) error {
	if round == nil {
		return nil
	}
	h.Broadcast.Publish("rounds", "round-start", map[string]any{
		"sessionId":   session.ID,
		"roundNumber": round.Sequence,
		"startTime":   round.StartTime,
	})
	return nil
}
