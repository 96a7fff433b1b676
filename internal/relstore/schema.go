package relstore

// schemaDDL is the canonical definition of the three tables the worker
// reads (§3). Applied verbatim in production via migrations owned outside
// this repo (§1 — schema DDL is a deliberately out-of-scope collaborator);
// test helpers in this package apply it directly against a throwaway
// schema so repository tests run against a real Postgres.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS sessions (
	id                  BIGSERIAL PRIMARY KEY,
	name                TEXT NOT NULL,
	entry_fee_cc        BIGINT NOT NULL DEFAULT 0,
	max_total_players   INT NOT NULL,
	total_rounds        INT NOT NULL,
	start_time          TIMESTAMPTZ NOT NULL,
	end_time            TIMESTAMPTZ NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rounds (
	id                  BIGSERIAL PRIMARY KEY,
	session_id          BIGINT NOT NULL REFERENCES sessions(id),
	sequence            INT NOT NULL,
	ai_message_start    TIMESTAMPTZ NOT NULL,
	ai_message_end      TIMESTAMPTZ NOT NULL,
	start_time          TIMESTAMPTZ NOT NULL,
	end_time            TIMESTAMPTZ NOT NULL,
	elimination_start   TIMESTAMPTZ NOT NULL,
	elimination_end     TIMESTAMPTZ NOT NULL,
	voting_start_time   TIMESTAMPTZ NOT NULL,
	voting_end_time     TIMESTAMPTZ NOT NULL,
	UNIQUE(session_id, sequence)
);

CREATE TABLE IF NOT EXISTS players (
	id                    BIGSERIAL PRIMARY KEY,
	session_id            BIGINT NOT NULL REFERENCES sessions(id),
	wallet_address        TEXT NOT NULL,
	joined_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	status                TEXT NOT NULL DEFAULT 'active',
	total_rounds_played   INT NOT NULL DEFAULT 0,
	UNIQUE(session_id, wallet_address)
);
`
