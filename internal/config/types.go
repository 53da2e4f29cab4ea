package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	AssetsAPI     AssetsAPIConfig
	PlayerDataAPI PlayerDataAPIConfig
	Budget        BudgetConfig
	Cache         CacheConfig
	Party         PartyConfig
	Stats         StatsConfig
	Thresholds    Thresholds
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type AssetsAPIConfig struct {
	BaseURL    string
	FetchDelay time.Duration
	RetryDelay time.Duration
}

type PlayerDataAPIConfig struct {
	BaseURL       string
	MetadataDelay time.Duration
}

// BudgetConfig governs the spectator-lookup request budget.
type BudgetConfig struct {
	MaxRequests     int
	RestoreInterval time.Duration
}

// CacheConfig governs the match and metadata caches and the metadata retry queue.
type CacheConfig struct {
	TTL           time.Duration
	RetryDelay    time.Duration
	RedrainDelay  time.Duration
	MaxRetryCount int
}

// PartyConfig governs premade-group detection.
type PartyConfig struct {
	Window         time.Duration
	MateStatsDelay time.Duration
}

// StatsConfig governs derived player statistics.
type StatsConfig struct {
	RecentWindow time.Duration
	LastN        int
}

// Thresholds are the tunable constants behind player tag derivation.
type Thresholds struct {
	SmurfWinrate        int
	SmurfMinMatches     int
	LoserWinrate        int
	LoserMinMatches     int
	SpammerHeroRate     int
	CheaterHeadshotRate float64
	CheaterMatchesCount int
	CheaterMinReadings  int
}
