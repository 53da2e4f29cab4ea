package livematch

// Team identifiers used by the live-match feed.
const (
	TeamAmber    = 2
	TeamSapphire = 3
)

// MatchPlayer is an immutable roster snapshot of one player in a live match.
type MatchPlayer struct {
	AccountID  int64  `json:"account_id"`
	SteamName  string `json:"steam_name"`
	PlayerSlot int    `json:"player_slot"`
	Team       int    `json:"team"`
	HeroID     int64  `json:"hero_id"`
}

// MatchData is the 12-player roster of a live match.
type MatchData struct {
	MatchID      int64         `json:"match_id"`
	AmberTeam    []MatchPlayer `json:"amber_team"`
	SapphireTeam []MatchPlayer `json:"sapphire_team"`
}

// AllPlayers returns both teams in roster order, amber first.
func (m *MatchData) AllPlayers() []MatchPlayer {
	players := make([]MatchPlayer, 0, len(m.AmberTeam)+len(m.SapphireTeam))
	players = append(players, m.AmberTeam...)
	players = append(players, m.SapphireTeam...)
	return players
}
