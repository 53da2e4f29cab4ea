package identity

// Identity is the locally detected player the overlay runs for.
type Identity struct {
	SteamID64   int64  `msgpack:"steam_id64" json:"steam_id64"`
	AccountID   int64  `msgpack:"account_id" json:"account_id"`
	PersonaName string `msgpack:"persona_name" json:"persona_name"`
}

// Provider exposes the current user. Absence is a normal, handled case:
// relation stats are simply omitted when no identity is known.
// This allows for mock implementations to be used in tests.
type Provider interface {
	Current() (*Identity, bool)
	Set(steamID64 int64, personaName string) (*Identity, error)
	Clear() error
}

// steamIDOffset converts between 64-bit Steam IDs and 32-bit account IDs.
const steamIDOffset int64 = 76561197960265728

// AccountIDFromSteamID64 derives the account ID used by the stats backend.
func AccountIDFromSteamID64(steamID64 int64) int64 {
	return steamID64 - steamIDOffset
}
