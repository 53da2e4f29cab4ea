package stats

import (
	"sort"

	"github.com/DeadLyze/deadlyze-app/internal/assets"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
)

// maxBuildItems caps the reconstructed build at one inventory's worth.
const maxBuildItems = 12

// BuildFromMetadata reconstructs the items a player held at the end of a
// match. An item bought and later sold is not part of the final build, so
// purchases and sales are balanced per item id before resolving against the
// catalog. Abilities live in the same event stream and are filtered out.
func BuildFromMetadata(metadata *playerdata.DetailedMatchMetadata, accountID int64, catalog map[int64]assets.Item) []BuildItem {
	if metadata == nil {
		return nil
	}
	player, ok := metadata.PlayerByAccount(accountID)
	if !ok {
		return nil
	}

	type held struct {
		itemID    int64
		boughtAtS int
		count     int
	}
	holdings := make(map[int64]*held)
	for _, ev := range player.Items {
		h, ok := holdings[ev.ItemID]
		if !ok {
			h = &held{itemID: ev.ItemID, boughtAtS: ev.GameTimeS}
			holdings[ev.ItemID] = h
		}
		if ev.SoldTimeS > 0 {
			h.count--
		} else {
			h.count++
			if ev.GameTimeS < h.boughtAtS {
				h.boughtAtS = ev.GameTimeS
			}
		}
	}

	var kept []*held
	for _, h := range holdings {
		if h.count <= 0 {
			continue
		}
		item, ok := catalog[h.itemID]
		if !ok || !item.IsShopItem() {
			continue
		}
		kept = append(kept, h)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].boughtAtS != kept[j].boughtAtS {
			return kept[i].boughtAtS < kept[j].boughtAtS
		}
		return kept[i].itemID < kept[j].itemID
	})
	if len(kept) > maxBuildItems {
		kept = kept[:maxBuildItems]
	}

	build := make([]BuildItem, 0, len(kept))
	for _, h := range kept {
		item := catalog[h.itemID]
		build = append(build, BuildItem{
			ItemID:   h.itemID,
			Name:     item.Name,
			ImageURL: item.ImageURL(),
		})
	}
	return build
}

// ExtractDetailedStats pulls the player's end-of-match numbers from the final
// stat snapshot. It returns nil when the player or snapshot is missing.
func ExtractDetailedStats(metadata *playerdata.DetailedMatchMetadata, accountID int64) *DetailedStats {
	if metadata == nil {
		return nil
	}
	player, ok := metadata.PlayerByAccount(accountID)
	if !ok {
		return nil
	}
	final := player.FinalSnapshot()
	if final == nil {
		return nil
	}
	return &DetailedStats{
		Kills:        final.Kills,
		Deaths:       final.Deaths,
		Assists:      final.Assists,
		NetWorth:     final.NetWorth,
		PlayerDamage: final.PlayerDamage,
		Healing:      final.PlayerHealing,
		Duration:     metadata.MatchInfo.DurationS,
	}
}

// RelationFromMates converts one mate-stats row into the with-player side of
// a relation. Losses are implied.
func RelationFromMates(m playerdata.MateStats) RelationSide {
	return RelationSide{
		Games:  m.MatchesPlayed,
		Wins:   m.Wins,
		Losses: m.MatchesPlayed - m.Wins,
	}
}

// RelationFromEnemies converts one enemy-stats row into the against-player
// side of a relation.
func RelationFromEnemies(e playerdata.EnemyStats) RelationSide {
	return RelationSide{
		Games:  e.MatchesPlayed,
		Wins:   e.Wins,
		Losses: e.MatchesPlayed - e.Wins,
	}
}
