// Package distributor implements the shuffle-and-partition rule from §4.7:
// take a session's registered players, shuffle them, and split them into
// lobbies of bounded size.
package distributor

import (
	"context"
	"fmt"
	"math/rand"

	"silicon-casino/internal/hotstore"
	"silicon-casino/internal/lobby"
	"silicon-casino/internal/relstore"
)

// LobbyAssignment is one (lobby id, players) pair produced by Distribute.
type LobbyAssignment struct {
	LobbyID int
	Players []relstore.Player
}

// Distributor reads a session's players (hot-store cache first, relational
// store as fallback) and writes the resulting lobbies via lobby.Manager.
type Distributor struct {
	store  hotstore.Store
	lobbies *lobby.Manager
}

func New(store hotstore.Store, lobbies *lobby.Manager) *Distributor {
	return &Distributor{store: store, lobbies: lobbies}
}

// Distribute partitions the session's players into max(1, total/maxPerLobby)
// lobbies of total/N players each, folding the remainder into the last
// lobby, so a lobby can hold more than maxPerLobby players (10 players with
// maxPerLobby 4 gives two lobbies of 5). It creates each lobby via the Lobby
// Manager and returns the resulting assignments. maxPerLobby must be ≥ 1.
func (d *Distributor) Distribute(ctx context.Context, session relstore.Session, maxPerLobby int) ([]LobbyAssignment, error) {
	if maxPerLobby < 1 {
		return nil, fmt.Errorf("max players per lobby must be >= 1, got %d", maxPerLobby)
	}

	players, err := d.playersForSession(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, nil
	}

	shuffled := make([]relstore.Player, len(players))
	copy(shuffled, players)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	total := len(shuffled)
	numLobbies := total / maxPerLobby
	if numLobbies < 1 {
		numLobbies = 1
	}
	base := total / numLobbies
	remainder := total - base*numLobbies

	assignments := make([]LobbyAssignment, 0, numLobbies)
	offset := 0
	for i := 0; i < numLobbies; i++ {
		size := base
		if i == numLobbies-1 {
			size += remainder
		}
		lobbyID := i + 1
		assignments = append(assignments, LobbyAssignment{
			LobbyID: lobbyID,
			Players: shuffled[offset : offset+size],
		})
		offset += size
	}

	for _, a := range assignments {
		if err := d.writeLobby(ctx, session.ID, a); err != nil {
			return nil, err
		}
	}
	return assignments, nil
}

func (d *Distributor) playersForSession(ctx context.Context, session relstore.Session) ([]relstore.Player, error) {
	cached, err := d.store.SetMembers(ctx, hotstore.SessionPlayersKey(session.ID))
	if err != nil {
		return nil, fmt.Errorf("read cached players: %w", err)
	}
	if len(cached) > 0 {
		byWallet := make(map[string]relstore.Player, len(session.Players))
		for _, p := range session.Players {
			byWallet[p.WalletAddress] = p
		}
		players := make([]relstore.Player, 0, len(cached))
		for _, wallet := range cached {
			if p, ok := byWallet[wallet]; ok {
				players = append(players, p)
			}
		}
		return players, nil
	}

	wallets := make([]string, 0, len(session.Players))
	for _, p := range session.Players {
		wallets = append(wallets, p.WalletAddress)
	}
	if len(wallets) > 0 {
		if err := d.store.SetAdd(ctx, hotstore.SessionPlayersKey(session.ID), wallets...); err != nil {
			return nil, fmt.Errorf("cache players: %w", err)
		}
	}
	return session.Players, nil
}

func (d *Distributor) writeLobby(ctx context.Context, sessionID int64, a LobbyAssignment) error {
	players := make([]lobby.Player, 0, len(a.Players))
	for _, p := range a.Players {
		players = append(players, lobby.Player{WalletAddress: p.WalletAddress, Status: lobby.PlayerActive})
	}
	return d.lobbies.CreateLobby(ctx, sessionID, a.LobbyID, lobby.Lobby{
		LobbyID:   a.LobbyID,
		SessionID: sessionID,
		Players:   players,
		Status:    lobby.StatusActive,
	})
}
