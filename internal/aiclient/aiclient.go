// Package aiclient talks to the external decision oracle that supplies
// round topics and elimination decisions (§4.2, §6). It is a thin
// HTTP/JSON client: it never retries and never decides fallback behavior —
// that is left to the phase handlers that call it.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"silicon-casino/internal/workererr"
)

// Elimination is one eliminated participant in a DecideEliminations result.
type Elimination struct {
	Participant string `json:"participant"`
	Reason      string `json:"reason,omitempty"`
}

// EliminationDecision is the full DecideEliminations response.
type EliminationDecision struct {
	Eliminated []Elimination `json:"response"`
	Success    bool          `json:"success"`
}

// Client is the AI decision oracle surface required by §4.2.
type Client interface {
	RoundAnnouncement(ctx context.Context, agentID string, roundNumber int) (string, error)
	DecideEliminations(ctx context.Context, agentID string, sessionID int64, lobbyID, maxRounds, currentRound int) (EliminationDecision, error)
}

// HTTPClient implements Client against the HTTP surface fixed by §6:
// GET {base}/{agentId}/roundAnnouncement/{roundNumber} -> {data: string}
// POST {base}/decideEliminations {agentId, sessionId, lobbyId, maxRounds, currentRound} -> {response: [...], success}
// Request-building and response-decoding share a single HTTP client with
// a configured timeout, decoding every response into a typed result.
type HTTPClient struct {
	inner      *http.Client
	baseURL    string
	defaultTTL time.Duration
}

func New(baseURL string, defaultTimeout time.Duration) *HTTPClient {
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &HTTPClient{
		inner:      &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		defaultTTL: defaultTimeout,
	}
}

type roundAnnouncementResponse struct {
	Data string `json:"data"`
}

func (c *HTTPClient) RoundAnnouncement(ctx context.Context, agentID string, roundNumber int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.defaultTTL)
	defer cancel()

	path := "/" + agentID + "/roundAnnouncement/" + strconv.Itoa(roundNumber)
	var out roundAnnouncementResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.Data, nil
}

type decideEliminationsRequest struct {
	AgentID      string `json:"agentId"`
	SessionID    int64  `json:"sessionId"`
	LobbyID      int    `json:"lobbyId"`
	MaxRounds    int    `json:"maxRounds"`
	CurrentRound int    `json:"currentRound"`
}

func (c *HTTPClient) DecideEliminations(ctx context.Context, agentID string, sessionID int64, lobbyID, maxRounds, currentRound int) (EliminationDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, c.defaultTTL)
	defer cancel()

	var out EliminationDecision
	if err := c.do(ctx, http.MethodPost, "/decideEliminations", decideEliminationsRequest{
		AgentID:      agentID,
		SessionID:    sessionID,
		LobbyID:      lobbyID,
		MaxRounds:    maxRounds,
		CurrentRound: currentRound,
	}, &out); err != nil {
		return EliminationDecision{}, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return workererr.Malformed(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return workererr.Transient(fmt.Errorf("build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return workererr.Transient(fmt.Errorf("ai client request to %s: %w", path, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return workererr.Transient(fmt.Errorf("read response from %s: %w", path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return workererr.Transient(fmt.Errorf("ai client %s returned status %d: %s", path, resp.StatusCode, string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return workererr.Malformed(fmt.Errorf("decode response from %s: %w", path, err))
	}
	return nil
}
