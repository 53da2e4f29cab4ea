package stats

import "github.com/DeadLyze/deadlyze-app/internal/playerdata"

// MatchStats are the derived aggregates over one player's match history.
// Winrates are integer percentages in [0,100], zero when no matches.
type MatchStats struct {
	TotalMatches  int `json:"total_matches"`
	TotalWins     int `json:"total_wins"`
	TotalWinrate  int `json:"total_winrate"`
	RecentMatches int `json:"recent_matches"`
	RecentWins    int `json:"recent_wins"`
	RecentWinrate int `json:"recent_winrate"`

	// RecentHeroMatches counts recent-window matches on the current hero.
	RecentHeroMatches int `json:"recent_hero_matches"`

	// LastMatches is the most-recent-first slice of the last N matches.
	LastMatches []playerdata.MatchHistoryItem `json:"last_matches"`

	// HeroStats covers the player's current hero, nil when the player has
	// never played it (or no current hero is known).
	HeroStats *HeroStats `json:"hero_stats,omitempty"`

	// CurrentStreak is signed: positive for consecutive wins ending at the
	// most recent match, negative for losses, zero for empty history.
	CurrentStreak int `json:"current_streak"`

	// HeroStreak is the same rule restricted to current-hero matches, nil
	// when there are none.
	HeroStreak *int `json:"hero_streak,omitempty"`

	// Farm averages cover only matches reporting all three fields.
	AvgLastHits float64 `json:"avg_last_hits"`
	AvgDenies   float64 `json:"avg_denies"`
	AvgNetWorth float64 `json:"avg_net_worth"`
}

// HeroStats is the current-hero sub-aggregate.
type HeroStats struct {
	Matches    int     `json:"matches"`
	Wins       int     `json:"wins"`
	Winrate    int     `json:"winrate"`
	AvgKills   float64 `json:"avg_kills"`
	AvgDeaths  float64 `json:"avg_deaths"`
	AvgAssists float64 `json:"avg_assists"`
	KDRatio    float64 `json:"kd_ratio"`
}

// TagType classifies a heuristic player label.
type TagType string

const (
	TagSmurf   TagType = "smurf"
	TagLoser   TagType = "loser"
	TagSpammer TagType = "spammer"
	TagCheater TagType = "cheater"
)

// Tag is a derived label together with the numeric evidence behind it.
// Fields that do not apply to a tag type are zero.
type Tag struct {
	Type        TagType `json:"type"`
	Value       float64 `json:"value"`
	TotalValue  float64 `json:"total_value"`
	RecentValue float64 `json:"recent_value"`
}

// RelationSide is one half of the relation between the viewing user and
// another player. Losses are derived, not independently observed.
type RelationSide struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// RelationStats relates the viewing user to one other account.
type RelationStats struct {
	WithPlayer    RelationSide `json:"with_player"`
	AgainstPlayer RelationSide `json:"against_player"`
}

// BuildItem is one item of a reconstructed end-of-match build.
type BuildItem struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// DetailedStats is the final stat snapshot of one past match.
type DetailedStats struct {
	Kills        int `json:"kills"`
	Deaths       int `json:"deaths"`
	Assists      int `json:"assists"`
	NetWorth     int `json:"net_worth"`
	PlayerDamage int `json:"player_damage"`
	Healing      int `json:"healing"`
	Duration     int `json:"duration"`
}
