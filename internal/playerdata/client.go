package playerdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient is the HTTP client for the player-stats backend.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a new player-stats client.
func NewClient(baseURL string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

var _ Client = (*APIClient)(nil)

// getJSON performs a GET and decodes the body, classifying non-2xx statuses:
// 400/404 map to ErrNotFound, 429 to ErrRateLimited, anything else to a
// generic error.
func (c *APIClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		log.Error("Received non-OK HTTP status from player-stats API", "status", resp.StatusCode, "url", url)
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchMMR fetches MMR data for multiple players in one request.
func (c *APIClient) FetchMMR(ctx context.Context, accountIDs []int64) ([]PlayerMMR, error) {
	ids := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	url := fmt.Sprintf("%s/v1/players/mmr?account_ids=%s", c.BaseURL, strings.Join(ids, ","))

	log.Debug("Fetching MMR", "accounts", len(accountIDs))
	var mmr []PlayerMMR
	if err := c.getJSON(ctx, url, &mmr); err != nil {
		return nil, fmt.Errorf("failed to fetch player MMR: %w", err)
	}
	log.Debug("MMR data received", "count", len(mmr))
	return mmr, nil
}

// FetchMMRMap returns MMR data keyed by account ID for quick lookup.
// A not-found response yields an empty map, not an error.
func (c *APIClient) FetchMMRMap(ctx context.Context, accountIDs []int64) (map[int64]PlayerMMR, error) {
	mmrMap := make(map[int64]PlayerMMR)
	mmr, err := c.FetchMMR(ctx, accountIDs)
	if err != nil {
		if isNotFound(err) {
			return mmrMap, nil
		}
		return nil, err
	}
	for _, m := range mmr {
		mmrMap[m.AccountID] = m
	}
	return mmrMap, nil
}

// FetchMatchHistory fetches a player's stored match history.
func (c *APIClient) FetchMatchHistory(ctx context.Context, accountID int64) ([]MatchHistoryItem, error) {
	url := fmt.Sprintf("%s/v1/players/%d/match-history?only_stored_history=true", c.BaseURL, accountID)

	var history []MatchHistoryItem
	if err := c.getJSON(ctx, url, &history); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch match history for %d: %w", accountID, err)
	}
	return history, nil
}

// FetchMateStats fetches the "played together recently" signal for a player,
// restricted to matches starting at or after minUnixTimestamp.
func (c *APIClient) FetchMateStats(ctx context.Context, accountID int64, minUnixTimestamp int64) ([]MateStats, error) {
	url := fmt.Sprintf("%s/v1/players/%d/mate-stats?min_unix_timestamp=%d", c.BaseURL, accountID, minUnixTimestamp)

	var mates []MateStats
	if err := c.getJSON(ctx, url, &mates); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch mate stats for %d: %w", accountID, err)
	}
	return mates, nil
}

// FetchEnemyStats fetches the "played against" signal for a player.
func (c *APIClient) FetchEnemyStats(ctx context.Context, accountID int64) ([]EnemyStats, error) {
	url := fmt.Sprintf("%s/v1/players/%d/enemy-stats", c.BaseURL, accountID)

	var enemies []EnemyStats
	if err := c.getJSON(ctx, url, &enemies); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch enemy stats for %d: %w", accountID, err)
	}
	return enemies, nil
}

// FetchMatchMetadata fetches the detailed metadata of one match. Returns
// (nil, nil) when the match has no stored metadata; ErrRateLimited is
// passed through for the caller's retry logic.
func (c *APIClient) FetchMatchMetadata(ctx context.Context, matchID int64) (*DetailedMatchMetadata, error) {
	url := fmt.Sprintf("%s/v1/matches/%d/metadata?is_custom=false", c.BaseURL, matchID)

	var metadata DetailedMatchMetadata
	if err := c.getJSON(ctx, url, &metadata); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch metadata for match %d: %w", matchID, err)
	}
	return &metadata, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
