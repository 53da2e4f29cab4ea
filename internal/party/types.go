package party

// Palette holds the bracket colors for detected parties. The first half is
// reserved for the amber team, the second half for sapphire, so groups from
// the two teams are always visually distinct.
var Palette = []string{
	"#f0c080",
	"#e0a860",
	"#d09040",
	"#64dfb4",
	"#44bf94",
	"#249f74",
}

// Group is a detected premade group within one team.
type Group struct {
	Members []int64 `json:"members"`
	Color   string  `json:"color"`
	PartyID string  `json:"party_id"`
}
