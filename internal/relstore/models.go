package relstore

import "time"

// PlayerStatus mirrors §3's Player.status enum.
type PlayerStatus string

const (
	PlayerActive     PlayerStatus = "active"
	PlayerEliminated PlayerStatus = "eliminated"
	PlayerWinner     PlayerStatus = "winner"
)

// Session is the authoritative record of a scheduled session (§3).
type Session struct {
	ID              int64
	Name            string
	EntryFeeCC      int64
	MaxTotalPlayers int
	TotalRounds     int
	StartTime       time.Time
	EndTime         time.Time
	CreatedAt       time.Time

	Rounds  []Round
	Players []Player
}

// Round belongs to a Session and carries its eight phase boundaries (§3).
type Round struct {
	ID        int64
	SessionID int64
	Sequence  int

	AIMessageStart   time.Time
	AIMessageEnd     time.Time
	StartTime        time.Time
	EndTime          time.Time
	EliminationStart time.Time
	EliminationEnd   time.Time
	VotingStartTime  time.Time
	VotingEndTime    time.Time
}

// Player is a registration of a wallet address for a session (§3).
type Player struct {
	ID                int64
	SessionID         int64
	WalletAddress     string
	JoinedAt          time.Time
	Status            PlayerStatus
	TotalRoundsPlayed int
}
