package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// Every value has a sensible default so the app runs with no environment at all.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		if value, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(value); err == nil {
				return n
			}
			log.Warn("Invalid integer in environment, using default", "key", key, "value", value)
		}
		return fallback
	}
	getFloat := func(key string, fallback float64) float64 {
		if value, ok := os.LookupEnv(key); ok {
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				return f
			}
			log.Warn("Invalid float in environment, using default", "key", key, "value", value)
		}
		return fallback
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME", "deadlyze.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT", "43210"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		AssetsAPI: AssetsAPIConfig{
			BaseURL:    getEnv("ASSETS_API_BASE_URL", "https://assets.deadlock-api.com"),
			FetchDelay: 1 * time.Millisecond,
			RetryDelay: 1 * time.Second,
		},
		PlayerDataAPI: PlayerDataAPIConfig{
			BaseURL:       getEnv("PLAYER_DATA_API_BASE_URL", "https://api.deadlock-api.com"),
			MetadataDelay: 1 * time.Millisecond,
		},
		Budget: BudgetConfig{
			MaxRequests:     getInt("BUDGET_MAX_REQUESTS", 10),
			RestoreInterval: 3 * time.Minute,
		},
		Cache: CacheConfig{
			TTL:           1 * time.Hour,
			RetryDelay:    300 * time.Millisecond,
			RedrainDelay:  1 * time.Second,
			MaxRetryCount: getInt("METADATA_MAX_RETRY_COUNT", 3),
		},
		Party: PartyConfig{
			Window:         3 * 24 * time.Hour,
			MateStatsDelay: 100 * time.Millisecond,
		},
		Stats: StatsConfig{
			RecentWindow: 14 * 24 * time.Hour,
			LastN:        5,
		},
		Thresholds: Thresholds{
			SmurfWinrate:        getInt("TAG_SMURF_WINRATE", 65),
			SmurfMinMatches:     getInt("TAG_SMURF_MIN_MATCHES", 20),
			LoserWinrate:        getInt("TAG_LOSER_WINRATE", 40),
			LoserMinMatches:     getInt("TAG_LOSER_MIN_MATCHES", 5),
			SpammerHeroRate:     getInt("TAG_SPAMMER_HERO_RATE", 37),
			CheaterHeadshotRate: getFloat("TAG_CHEATER_HEADSHOT_RATE", 30),
			CheaterMatchesCount: getInt("TAG_CHEATER_MATCHES_COUNT", 5),
			CheaterMinReadings:  getInt("TAG_CHEATER_MIN_READINGS", 3),
		},
	}
	return cfg
}
