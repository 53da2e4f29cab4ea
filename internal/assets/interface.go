package assets

import "context"

// Client defines the interface for the game-assets catalog backend.
// This allows for mock implementations to be used in tests.
type Client interface {
	FetchHero(ctx context.Context, heroID int64) (*Hero, error)
	FetchHeroes(ctx context.Context, heroIDs []int64) (map[int64]Hero, error)
	FetchRanks(ctx context.Context) ([]Rank, error)
	FetchItems(ctx context.Context, itemIDs []int64) (map[int64]Item, error)
}

// RankImageURL resolves the badge image for a division/subtier pair from a
// previously fetched rank catalog. Unknown divisions or missing subrank
// badges yield an empty string.
func RankImageURL(division, divisionTier int, ranks []Rank) string {
	for _, r := range ranks {
		if r.Tier == division {
			return r.Images.SubrankImage(divisionTier)
		}
	}
	return ""
}
