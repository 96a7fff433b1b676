// Package lobby implements the hot-store-backed lobby CRUD and vote-tally
// derivation described in §4.6. Lobby is ephemeral: it never touches the
// relational store, only hotstore.Store.
package lobby

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"silicon-casino/internal/hotstore"
)

type PlayerStatus string

const (
	PlayerActive     PlayerStatus = "ACTIVE"
	PlayerEliminated PlayerStatus = "ELIMINATED"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
)

// Player is a lobby-scoped snapshot of a relstore.Player, carrying the
// per-lobby status the relational store never sees.
type Player struct {
	WalletAddress string       `json:"walletAddress"`
	Status        PlayerStatus `json:"status"`
}

// Lobby is the JSON blob stored at hotstore.LobbyKey.
type Lobby struct {
	LobbyID   int      `json:"lobbyId"`
	SessionID int64    `json:"sessionId"`
	Players   []Player `json:"players"`
	CreatedAt int64    `json:"createdAt"`
	Status    Status   `json:"status"`
}

var ErrLobbyNotFound = fmt.Errorf("lobby not found")

// Manager is the CRUD surface over Lobby records required by §4.6.
type Manager struct {
	store hotstore.Store
}

func New(store hotstore.Store) *Manager {
	return &Manager{store: store}
}

// CreateLobby is idempotent: an existing lobby key is left untouched.
func (m *Manager) CreateLobby(ctx context.Context, sessionID int64, lobbyID int, lobby Lobby) error {
	key := hotstore.LobbyKey(sessionID, lobbyID)
	exists, err := m.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check lobby existence: %w", err)
	}
	if exists {
		log.Info().Int64("session_id", sessionID).Int("lobby_id", lobbyID).Msg("lobby already exists, skipping create")
		return nil
	}

	raw, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("encode lobby: %w", err)
	}
	if err := m.store.Set(ctx, key, string(raw), 0); err != nil {
		return fmt.Errorf("write lobby: %w", err)
	}
	if err := m.store.SetAdd(ctx, hotstore.LobbyIndexKey(sessionID), key); err != nil {
		return fmt.Errorf("index lobby: %w", err)
	}
	for _, p := range lobby.Players {
		statusKey := hotstore.PlayerStatusKey(lobbyID, p.WalletAddress)
		statusRaw, err := json.Marshal(map[string]PlayerStatus{"status": p.Status})
		if err != nil {
			return fmt.Errorf("encode player status: %w", err)
		}
		if err := m.store.Set(ctx, statusKey, string(statusRaw), 0); err != nil {
			return fmt.Errorf("write player status: %w", err)
		}
	}
	return nil
}

func (m *Manager) GetLobby(ctx context.Context, sessionID int64, lobbyID int) (Lobby, error) {
	raw, ok, err := m.store.Get(ctx, hotstore.LobbyKey(sessionID, lobbyID))
	if err != nil {
		return Lobby{}, fmt.Errorf("read lobby: %w", err)
	}
	if !ok {
		return Lobby{}, ErrLobbyNotFound
	}
	var lobby Lobby
	if err := json.Unmarshal([]byte(raw), &lobby); err != nil {
		return Lobby{}, fmt.Errorf("decode lobby: %w", err)
	}
	return lobby, nil
}

// GetAllLobbies dereferences every key in the session's lobby index,
// skipping any missing or corrupt entry with a warning rather than failing
// the whole call.
func (m *Manager) GetAllLobbies(ctx context.Context, sessionID int64) ([]Lobby, error) {
	keys, err := m.store.SetMembers(ctx, hotstore.LobbyIndexKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("read lobby index: %w", err)
	}

	lobbies := make([]Lobby, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := m.store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("lobby index entry unreadable, skipping")
			continue
		}
		if !ok {
			log.Warn().Str("key", key).Msg("lobby index entry missing, skipping")
			continue
		}
		var lobby Lobby
		if err := json.Unmarshal([]byte(raw), &lobby); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("lobby index entry corrupt, skipping")
			continue
		}
		lobbies = append(lobbies, lobby)
	}
	sort.Slice(lobbies, func(i, j int) bool { return lobbies[i].LobbyID < lobbies[j].LobbyID })
	return lobbies, nil
}

func (m *Manager) GetActiveLobbies(ctx context.Context, sessionID int64) ([]Lobby, error) {
	all, err := m.GetAllLobbies(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	active := make([]Lobby, 0, len(all))
	for _, l := range all {
		if l.Status == StatusActive {
			active = append(active, l)
		}
	}
	return active, nil
}

// UpdateLobby fully replaces the stored blob.
func (m *Manager) UpdateLobby(ctx context.Context, sessionID int64, lobbyID int, lobby Lobby) error {
	raw, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("encode lobby: %w", err)
	}
	return m.store.Set(ctx, hotstore.LobbyKey(sessionID, lobbyID), string(raw), 0)
}

// UpdateLobbyStatus is read-modify-write; it fails if the lobby is missing.
func (m *Manager) UpdateLobbyStatus(ctx context.Context, sessionID int64, lobbyID int, status Status) error {
	lobby, err := m.GetLobby(ctx, sessionID, lobbyID)
	if err != nil {
		return err
	}
	lobby.Status = status
	return m.UpdateLobby(ctx, sessionID, lobbyID, lobby)
}

// GetVotingResults reads the round's vote list and tallies choice -> count.
func (m *Manager) GetVotingResults(ctx context.Context, sessionID int64, lobbyID, roundNumber int) (map[string]int, error) {
	votes, err := m.store.ListRange(ctx, hotstore.VotesKey(sessionID, lobbyID, roundNumber), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read votes: %w", err)
	}
	results := map[string]int{}
	for _, v := range votes {
		results[v]++
	}
	return results, nil
}

// GetRemainingPlayers returns the lobby's non-eliminated players, or an
// empty slice if the lobby is not active.
func (m *Manager) GetRemainingPlayers(ctx context.Context, sessionID int64, lobbyID int) ([]Player, error) {
	lobby, err := m.GetLobby(ctx, sessionID, lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby.Status != StatusActive {
		return nil, nil
	}
	remaining := make([]Player, 0, len(lobby.Players))
	for _, p := range lobby.Players {
		if p.Status != PlayerEliminated {
			remaining = append(remaining, p)
		}
	}
	return remaining, nil
}

// ClearKey deletes a single hot-store key outright, used to reset a vote
// list at VOTING_START and VOTING_END.
func (m *Manager) ClearKey(ctx context.Context, key string) error {
	return m.store.Del(ctx, key)
}

// topicCacheEntry is the JSON blob stored at a TopicKey (§4.4's `topic` row).
type topicCacheEntry struct {
	TopicMessage string `json:"topicMessage"`
}

// SetTopicCache best-effort caches the most recent AI-generated topic for a
// (session, round, lobby) key.
func (m *Manager) SetTopicCache(ctx context.Context, key, topic string) error {
	raw, err := json.Marshal(topicCacheEntry{TopicMessage: topic})
	if err != nil {
		return fmt.Errorf("encode topic cache entry: %w", err)
	}
	return m.store.Set(ctx, key, string(raw), 0)
}

// GetTopicCache reads back the topic cached by SetTopicCache at key. The
// second return is false if no topic has been cached there yet.
func (m *Manager) GetTopicCache(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("read topic cache entry: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	var entry topicCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", false, fmt.Errorf("decode topic cache entry: %w", err)
	}
	return entry.TopicMessage, true, nil
}

// EliminationRecord is the JSON blob stored at hotstore.EliminationKey.
type EliminationRecord struct {
	EliminatedPlayers []string `json:"eliminatedPlayers"`
}

// AppendEliminations merges newly eliminated wallets into the lobby's
// elimination record, preserving the existing order and appending new
// entries after it.
func (m *Manager) AppendEliminations(ctx context.Context, lobbyID int, wallets []string) error {
	key := hotstore.EliminationKey(lobbyID)
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read elimination record: %w", err)
	}
	var record EliminationRecord
	if ok {
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			log.Warn().Err(err).Int("lobby_id", lobbyID).Msg("elimination record corrupt, starting fresh")
			record = EliminationRecord{}
		}
	}
	record.EliminatedPlayers = append(record.EliminatedPlayers, wallets...)

	updated, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode elimination record: %w", err)
	}
	return m.store.Set(ctx, key, string(updated), 0)
}

// SetPlayerStatus writes the per-player status blob at
// hotstore.PlayerStatusKey(lobbyID, wallet).
func (m *Manager) SetPlayerStatus(ctx context.Context, lobbyID int, wallet string, status PlayerStatus) error {
	raw, err := json.Marshal(map[string]PlayerStatus{"status": status})
	if err != nil {
		return fmt.Errorf("encode player status: %w", err)
	}
	return m.store.Set(ctx, hotstore.PlayerStatusKey(lobbyID, wallet), string(raw), 0)
}

// PurgeSession removes every session-scoped key family plus, for each lobby
// still indexed under the session, its lobby-scoped key families (forum
// messages, elimination record, per-player status) — resolving §9's
// scoped-cleanup decision against a blanket FLUSHALL, which a single-tenant
// hotstore.Store never exposes in the first place.
func (m *Manager) PurgeSession(ctx context.Context, sessionID int64) error {
	lobbies, err := m.GetAllLobbies(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Int64("session_id", sessionID).Msg("purge session: could not enumerate lobbies, continuing with session-scoped keys only")
	}

	keys := hotstore.SessionKeyPrefixes(sessionID)
	var toDelete []string
	for _, prefix := range keys {
		found, err := m.store.Keys(ctx, prefix)
		if err != nil {
			return fmt.Errorf("list keys for prefix %q: %w", prefix, err)
		}
		toDelete = append(toDelete, found...)
	}

	for _, l := range lobbies {
		toDelete = append(toDelete, hotstore.ForumMessagesKey(l.LobbyID), hotstore.EliminationKey(l.LobbyID))
		for _, p := range l.Players {
			toDelete = append(toDelete, hotstore.PlayerStatusKey(l.LobbyID, p.WalletAddress))
		}
	}

	if len(toDelete) == 0 {
		return nil
	}
	return m.store.Del(ctx, toDelete...)
}
