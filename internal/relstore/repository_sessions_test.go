package relstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func insertSession(t *testing.T, st *Store, ctx context.Context, name string, start, end time.Time) int64 {
	t.Helper()
	var id int64
	row := st.Pool.QueryRow(ctx, `
		INSERT INTO sessions (name, entry_fee_cc, max_total_players, total_rounds, start_time, end_time)
		VALUES ($1, 100, 10, 1, $2, $3) RETURNING id`, name, start, end)
	if err := row.Scan(&id); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestActiveSessionPrefersEarliestStart(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	now := time.Now().UTC()
	laterID := insertSession(t, st, ctx, "later", now.Add(-time.Minute), now.Add(time.Hour))
	earlierID := insertSession(t, st, ctx, "earlier", now.Add(-2*time.Hour), now.Add(time.Hour))

	got, err := st.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("ActiveSession() error = %v", err)
	}
	if got.ID != earlierID {
		t.Fatalf("ActiveSession() = %d, want earliest-start session %d (later=%d)", got.ID, earlierID, laterID)
	}
}

func TestNextSessionOrdersByStartAsc(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	now := time.Now().UTC()
	farID := insertSession(t, st, ctx, "far", now.Add(2*time.Hour), now.Add(3*time.Hour))
	soonID := insertSession(t, st, ctx, "soon", now.Add(time.Hour), now.Add(90*time.Minute))

	got, err := st.NextSession(ctx)
	if err != nil {
		t.Fatalf("NextSession() error = %v", err)
	}
	if got.ID != soonID {
		t.Fatalf("NextSession() = %d, want soonest %d (far=%d)", got.ID, soonID, farID)
	}
}

func TestSessionByIDNotFound(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	_, err := st.SessionByID(ctx, 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SessionByID() error = %v, want ErrNotFound", err)
	}
}

func TestSessionByIDLoadsRoundsAndPlayersOrdered(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	now := time.Now().UTC()
	sessionID := insertSession(t, st, ctx, "full", now, now.Add(2*time.Hour))

	_, err := st.Pool.Exec(ctx, `
		INSERT INTO rounds (session_id, sequence, ai_message_start, ai_message_end, start_time, end_time,
			elimination_start, elimination_end, voting_start_time, voting_end_time)
		VALUES
		($1, 2, $2, $2, $2, $2, $2, $2, $2, $2),
		($1, 1, $2, $2, $2, $2, $2, $2, $2, $2)`, sessionID, now.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("insert rounds: %v", err)
	}

	_, err = st.Pool.Exec(ctx, `
		INSERT INTO players (session_id, wallet_address, joined_at)
		VALUES
		($1, 'wallet-b', $2),
		($1, 'wallet-a', $3)`, sessionID, now.Add(time.Minute), now)
	if err != nil {
		t.Fatalf("insert players: %v", err)
	}

	got, err := st.SessionByID(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionByID() error = %v", err)
	}
	if len(got.Rounds) != 2 || got.Rounds[0].Sequence != 1 || got.Rounds[1].Sequence != 2 {
		t.Fatalf("Rounds not ordered by sequence: %+v", got.Rounds)
	}
	if len(got.Players) != 2 || got.Players[0].WalletAddress != "wallet-a" {
		t.Fatalf("Players not ordered by joined_at: %+v", got.Players)
	}
}
