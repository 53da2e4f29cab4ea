package playerdata

// PlayerMMR is one player's current matchmaking rating snapshot.
type PlayerMMR struct {
	AccountID    int64   `json:"account_id"`
	Division     int     `json:"division"`
	DivisionTier int     `json:"division_tier"`
	MatchID      int64   `json:"match_id"`
	PlayerScore  float64 `json:"player_score"`
	Rank         int     `json:"rank"`
	StartTime    int64   `json:"start_time"`
}

// MatchHistoryItem is one row of a player's stored match history.
// A match counts as a win for the player iff MatchResult == PlayerTeam.
// Per-match performance fields are optional in the upstream schema.
type MatchHistoryItem struct {
	MatchID       int64  `json:"match_id"`
	MatchResult   int    `json:"match_result"`
	PlayerTeam    int    `json:"player_team"`
	StartTime     int64  `json:"start_time"`
	HeroID        int64  `json:"hero_id"`
	PlayerKills   *int   `json:"player_kills,omitempty"`
	PlayerDeaths  *int   `json:"player_deaths,omitempty"`
	PlayerAssists *int   `json:"player_assists,omitempty"`
	LastHits      *int   `json:"last_hits,omitempty"`
	Denies        *int   `json:"denies,omitempty"`
	NetWorth      *int   `json:"net_worth,omitempty"`
}

// Win reports whether this match was a win for the player.
func (m MatchHistoryItem) Win() bool {
	return m.MatchResult == m.PlayerTeam
}

// MateStats describes how often another player appeared on the subject's
// team within the requested window.
type MateStats struct {
	MateID        int64   `json:"mate_id"`
	MatchesPlayed int     `json:"matches_played"`
	Matches       []int64 `json:"matches"`
	Wins          int     `json:"wins"`
}

// EnemyStats describes how often another player appeared on the opposing team.
type EnemyStats struct {
	EnemyID       int64 `json:"enemy_id"`
	MatchesPlayed int   `json:"matches_played"`
	Wins          int   `json:"wins"`
}

// DetailedMatchMetadata is the per-match record with item events and
// periodic stat snapshots per player.
type DetailedMatchMetadata struct {
	MatchInfo MatchInfo `json:"match_info"`
}

type MatchInfo struct {
	MatchID   int64            `json:"match_id"`
	DurationS int              `json:"duration_s"`
	Players   []MetadataPlayer `json:"players"`
}

type MetadataPlayer struct {
	AccountID int64          `json:"account_id"`
	Items     []ItemEvent    `json:"items"`
	Stats     []StatSnapshot `json:"stats"`
}

// ItemEvent records an item purchase and, when SoldTimeS > 0, its later sale.
type ItemEvent struct {
	ItemID    int64 `json:"item_id"`
	GameTimeS int   `json:"game_time_s"`
	SoldTimeS int   `json:"sold_time_s"`
}

// StatSnapshot is one periodic in-match stat sample; the last snapshot
// holds the final match result for the player.
type StatSnapshot struct {
	TimeStampS      int              `json:"time_stamp_s"`
	Kills           int              `json:"kills"`
	Deaths          int              `json:"deaths"`
	Assists         int              `json:"assists"`
	NetWorth        int              `json:"net_worth"`
	PlayerDamage    int              `json:"player_damage"`
	PlayerHealing   int              `json:"player_healing"`
	CustomUserStats []CustomUserStat `json:"custom_user_stats"`
}

// CustomUserStat is an opaque upstream stat; id 13 carries the headshot rate.
type CustomUserStat struct {
	ID    int64   `json:"id"`
	Value float64 `json:"value"`
}

// HeadshotStatID identifies the headshot-rate custom stat in metadata snapshots.
const HeadshotStatID int64 = 13

// FinalSnapshot returns the last stat snapshot for the player, or nil when
// no snapshots were recorded.
func (p MetadataPlayer) FinalSnapshot() *StatSnapshot {
	if len(p.Stats) == 0 {
		return nil
	}
	return &p.Stats[len(p.Stats)-1]
}

// CustomStat looks up a custom stat by id in the snapshot.
func (s StatSnapshot) CustomStat(id int64) (float64, bool) {
	for _, cs := range s.CustomUserStats {
		if cs.ID == id {
			return cs.Value, true
		}
	}
	return 0, false
}

// PlayerByAccount finds the metadata entry for an account within the match.
func (m *DetailedMatchMetadata) PlayerByAccount(accountID int64) (*MetadataPlayer, bool) {
	for i := range m.MatchInfo.Players {
		if m.MatchInfo.Players[i].AccountID == accountID {
			return &m.MatchInfo.Players[i], true
		}
	}
	return nil, false
}
