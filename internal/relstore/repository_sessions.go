package relstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ActiveSession returns the session with start <= now < end, UTC-normalized,
// preferring the earliest start when several overlap (§3, §4.5).
func (s *Store) ActiveSession(ctx context.Context) (Session, error) {
	const q = `
		SELECT id, name, entry_fee_cc, max_total_players, total_rounds, start_time, end_time, created_at
		FROM sessions
		WHERE start_time <= now() AND now() < end_time
		ORDER BY start_time ASC
		LIMIT 1`
	return s.scanSessionRow(ctx, q)
}

// NextSession returns the earliest session with start > now (§4.5).
func (s *Store) NextSession(ctx context.Context) (Session, error) {
	const q = `
		SELECT id, name, entry_fee_cc, max_total_players, total_rounds, start_time, end_time, created_at
		FROM sessions
		WHERE start_time > now()
		ORDER BY start_time ASC
		LIMIT 1`
	return s.scanSessionRow(ctx, q)
}

func (s *Store) scanSessionRow(ctx context.Context, query string) (Session, error) {
	row := s.Pool.QueryRow(ctx, query)
	var sess Session
	err := row.Scan(&sess.ID, &sess.Name, &sess.EntryFeeCC, &sess.MaxTotalPlayers, &sess.TotalRounds,
		&sess.StartTime, &sess.EndTime, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return sess, nil
}

// SessionByID returns the full session including its rounds (ordered by
// sequence) and players (ordered by joined_at) (§4.5).
func (s *Store) SessionByID(ctx context.Context, id int64) (Session, error) {
	const sessionQ = `
		SELECT id, name, entry_fee_cc, max_total_players, total_rounds, start_time, end_time, created_at
		FROM sessions WHERE id = $1`
	row := s.Pool.QueryRow(ctx, sessionQ, id)
	var sess Session
	err := row.Scan(&sess.ID, &sess.Name, &sess.EntryFeeCC, &sess.MaxTotalPlayers, &sess.TotalRounds,
		&sess.StartTime, &sess.EndTime, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}

	rounds, err := s.roundsBySession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Rounds = rounds

	players, err := s.playersBySession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Players = players

	return sess, nil
}

func (s *Store) roundsBySession(ctx context.Context, sessionID int64) ([]Round, error) {
	const q = `
		SELECT id, session_id, sequence, ai_message_start, ai_message_end, start_time, end_time,
		       elimination_start, elimination_end, voting_start_time, voting_end_time
		FROM rounds WHERE session_id = $1 ORDER BY sequence ASC`
	rows, err := s.Pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Sequence, &r.AIMessageStart, &r.AIMessageEnd,
			&r.StartTime, &r.EndTime, &r.EliminationStart, &r.EliminationEnd,
			&r.VotingStartTime, &r.VotingEndTime); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) playersBySession(ctx context.Context, sessionID int64) ([]Player, error) {
	const q = `
		SELECT id, session_id, wallet_address, joined_at, status, total_rounds_played
		FROM players WHERE session_id = $1 ORDER BY joined_at ASC`
	rows, err := s.Pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Player{}
	for rows.Next() {
		var p Player
		var status string
		if err := rows.Scan(&p.ID, &p.SessionID, &p.WalletAddress, &p.JoinedAt, &status, &p.TotalRoundsPlayed); err != nil {
			return nil, err
		}
		p.Status = PlayerStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}
