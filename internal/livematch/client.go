package livematch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
)

var matchIDPattern = regexp.MustCompile(`^\d{8}$`)

// IsValidMatchID reports whether matchID has the 8-digit spectator format.
func IsValidMatchID(matchID string) bool {
	return matchIDPattern.MatchString(matchID)
}

// Client defines the interface for the live-match (spectator) lookup.
// This allows for mock implementations to be used in tests.
type Client interface {
	FetchMatchData(ctx context.Context, matchID string) (*MatchData, error)
}

// APIClient is the HTTP client for live-match lookups.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a new live-match client.
func NewClient(baseURL string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    baseURL,
	}
}

var _ Client = (*APIClient)(nil)

// FetchMatchData looks up the live roster for an 8-digit match ID. Any
// failure here is fatal to a search, so errors are descriptive rather
// than classified.
func (c *APIClient) FetchMatchData(ctx context.Context, matchID string) (*MatchData, error) {
	if !IsValidMatchID(matchID) {
		return nil, fmt.Errorf("invalid match ID %q: expected 8 digits", matchID)
	}

	url := fmt.Sprintf("%s/v1/matches/%s/live", c.BaseURL, matchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Requesting live match data", "matchID", matchID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("Received non-OK HTTP status from live-match lookup", "status", resp.StatusCode, "matchID", matchID)
		return nil, fmt.Errorf("match %s not found (HTTP %d)", matchID, resp.StatusCode)
	}

	var match MatchData
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		return nil, fmt.Errorf("failed to decode match data: %w", err)
	}
	return &match, nil
}
