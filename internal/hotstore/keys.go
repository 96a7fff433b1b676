package hotstore

import "fmt"

// Key-formatting functions. Every call site goes through one of these —
// no caller hand-builds a Redis key string — so the schema in §4.4 stays
// centralized in one file instead of scattered across handlers.

func LobbyKey(sessionID int64, lobbyID int) string {
	return fmt.Sprintf("lobby:session:%d:lobby:%d", sessionID, lobbyID)
}

func LobbyIndexKey(sessionID int64) string {
	return fmt.Sprintf("lobby:session:%d:lobbies", sessionID)
}

func SessionPlayersKey(sessionID int64) string {
	return fmt.Sprintf("session:%d:players", sessionID)
}

func PlayerStatusKey(lobbyID int, wallet string) string {
	return fmt.Sprintf("lobby:%d:player:%s", lobbyID, wallet)
}

func ForumMessagesKey(lobbyID int) string {
	return fmt.Sprintf("forum:lobby:%d:messages", lobbyID)
}

func VotesKey(sessionID int64, lobbyID int, roundNumber int) string {
	return fmt.Sprintf("voting:session:%d:lobby:%d:round:%d", sessionID, lobbyID, roundNumber)
}

// TopicKey is per-(session, round, lobby), resolving the Open Question in
// §9 about an inconsistent "topic" vs per-lobby key in the source.
func TopicKey(sessionID int64, roundNumber, lobbyID int) string {
	return fmt.Sprintf("topic:session:%d:round:%d:lobby:%d", sessionID, roundNumber, lobbyID)
}

func EliminationKey(lobbyID int) string {
	return fmt.Sprintf("elimination:lobby:%d", lobbyID)
}

const (
	NewSessionChannel = "new-session"
	SessionsChannel   = "sessions"
	RoundsChannel     = "rounds"
)

func LobbyChannel(lobbyID int) string {
	return fmt.Sprintf("lobby-%d", lobbyID)
}

// SessionKeyPrefixes lists every key family that is addressed directly by
// session id, used to implement §9's scoped-cleanup decision instead of a
// blanket FLUSHALL. Lobby-scoped families (forum messages, elimination
// records, per-player status) are addressed by lobby id instead and must be
// purged per-lobby by the caller — see lobby.Manager.PurgeSession.
func SessionKeyPrefixes(sessionID int64) []string {
	return []string{
		fmt.Sprintf("lobby:session:%d:", sessionID),
		fmt.Sprintf("session:%d:", sessionID),
		fmt.Sprintf("voting:session:%d:", sessionID),
		fmt.Sprintf("topic:session:%d:", sessionID),
	}
}
