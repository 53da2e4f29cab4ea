package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient is the HTTP client for the assets catalog.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	fetchDelay time.Duration
}

// NewClient creates a new assets client. fetchDelay is the small pause
// between sequential batch requests so the catalog backend is not hammered.
func NewClient(baseURL string, fetchDelay time.Duration) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		fetchDelay: fetchDelay,
	}
}

var _ Client = (*APIClient)(nil)

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

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchHero fetches one hero catalog entry.
func (c *APIClient) FetchHero(ctx context.Context, heroID int64) (*Hero, error) {
	var hero Hero
	url := fmt.Sprintf("%s/v2/heroes/%d", c.BaseURL, heroID)
	if err := c.getJSON(ctx, url, &hero); err != nil {
		return nil, fmt.Errorf("failed to fetch hero %d: %w", heroID, err)
	}
	return &hero, nil
}

// FetchHeroes fetches several heroes, deduplicating IDs and pausing briefly
// between requests. Individual failures are logged and skipped; failed IDs
// are simply absent from the result map.
func (c *APIClient) FetchHeroes(ctx context.Context, heroIDs []int64) (map[int64]Hero, error) {
	unique := dedup(heroIDs)
	heroes := make(map[int64]Hero, len(unique))

	for i, id := range unique {
		if i > 0 {
			if err := sleep(ctx, c.fetchDelay); err != nil {
				return heroes, err
			}
		}
		hero, err := c.FetchHero(ctx, id)
		if err != nil {
			log.Error("Failed to fetch hero, continuing batch", "heroID", id, "error", err)
			continue
		}
		heroes[hero.ID] = *hero
	}

	log.Debug("Fetched heroes", "requested", len(unique), "received", len(heroes))
	return heroes, nil
}

// FetchRanks fetches the full rank catalog.
func (c *APIClient) FetchRanks(ctx context.Context) ([]Rank, error) {
	var ranks []Rank
	url := fmt.Sprintf("%s/v2/ranks", c.BaseURL)
	if err := c.getJSON(ctx, url, &ranks); err != nil {
		return nil, fmt.Errorf("failed to fetch ranks: %w", err)
	}
	return ranks, nil
}

// FetchItems fetches several item catalog entries with the same batch
// semantics as FetchHeroes.
func (c *APIClient) FetchItems(ctx context.Context, itemIDs []int64) (map[int64]Item, error) {
	unique := dedup(itemIDs)
	items := make(map[int64]Item, len(unique))

	for i, id := range unique {
		if i > 0 {
			if err := sleep(ctx, c.fetchDelay); err != nil {
				return items, err
			}
		}
		var item Item
		url := fmt.Sprintf("%s/v2/items/%d", c.BaseURL, id)
		if err := c.getJSON(ctx, url, &item); err != nil {
			log.Error("Failed to fetch item, continuing batch", "itemID", id, "error", err)
			continue
		}
		items[item.ID] = item
	}
	return items, nil
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
