package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/charmbracelet/log"
)

// MetadataSource resolves detailed match metadata, normally the metadata
// cache backed by the player-stats client.
type MetadataSource interface {
	GetMetadata(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error)
}

// Aggregator derives MatchStats and player tags from raw match history.
type Aggregator struct {
	metadata      MetadataSource
	recentWindow  time.Duration
	lastN         int
	metadataDelay time.Duration
	thresholds    config.Thresholds
	now           func() time.Time
}

// NewAggregator creates an aggregator. metadata may be nil, in which case
// the cheater check is skipped for lack of evidence.
func NewAggregator(metadata MetadataSource, statsCfg config.StatsConfig, thresholds config.Thresholds, metadataDelay time.Duration) *Aggregator {
	return &Aggregator{
		metadata:      metadata,
		recentWindow:  statsCfg.RecentWindow,
		lastN:         statsCfg.LastN,
		metadataDelay: metadataDelay,
		thresholds:    thresholds,
		now:           time.Now,
	}
}

// roundPct converts wins/matches to an integer percentage, rounding halves
// up. Zero matches yields zero.
func roundPct(wins, matches int) int {
	if matches == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(matches) * 100))
}

// CalculateMatchStats computes all aggregates in a single pass over the
// history. currentHeroID of zero means the hero is unknown and hero
// sub-stats are skipped.
func (a *Aggregator) CalculateMatchStats(history []playerdata.MatchHistoryItem, currentHeroID int64) MatchStats {
	sorted := make([]playerdata.MatchHistoryItem, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime > sorted[j].StartTime
	})

	recentCutoff := a.now().Add(-a.recentWindow).Unix()

	var s MatchStats
	var (
		heroMatches, heroWins               int
		heroKills, heroDeaths, heroAssists  int
		heroKDASamples                      int
		farmSamples                         int
		sumLastHits, sumDenies, sumNetWorth int
		streakDone, heroStreakDone          bool
		heroStreak                          int
		heroStreakSeen                      bool
	)

	for i, m := range sorted {
		win := m.Win()

		s.TotalMatches++
		if win {
			s.TotalWins++
		}
		if m.StartTime >= recentCutoff {
			s.RecentMatches++
			if win {
				s.RecentWins++
			}
		}
		if i < a.lastN {
			s.LastMatches = append(s.LastMatches, m)
		}

		// Overall streak: consecutive same-outcome matches from the top.
		if !streakDone {
			if i == 0 {
				if win {
					s.CurrentStreak = 1
				} else {
					s.CurrentStreak = -1
				}
			} else if (s.CurrentStreak > 0) == win {
				if win {
					s.CurrentStreak++
				} else {
					s.CurrentStreak--
				}
			} else {
				streakDone = true
			}
		}

		if currentHeroID != 0 && m.HeroID == currentHeroID {
			heroMatches++
			if win {
				heroWins++
			}
			if m.StartTime >= recentCutoff {
				s.RecentHeroMatches++
			}
			if m.PlayerKills != nil && m.PlayerDeaths != nil && m.PlayerAssists != nil {
				heroKills += *m.PlayerKills
				heroDeaths += *m.PlayerDeaths
				heroAssists += *m.PlayerAssists
				heroKDASamples++
			}

			// Same-hero streak over the hero-restricted subsequence.
			if !heroStreakDone {
				if !heroStreakSeen {
					heroStreakSeen = true
					if win {
						heroStreak = 1
					} else {
						heroStreak = -1
					}
				} else if (heroStreak > 0) == win {
					if win {
						heroStreak++
					} else {
						heroStreak--
					}
				} else {
					heroStreakDone = true
				}
			}
		}

		if m.LastHits != nil && m.Denies != nil && m.NetWorth != nil {
			sumLastHits += *m.LastHits
			sumDenies += *m.Denies
			sumNetWorth += *m.NetWorth
			farmSamples++
		}
	}

	s.TotalWinrate = roundPct(s.TotalWins, s.TotalMatches)
	s.RecentWinrate = roundPct(s.RecentWins, s.RecentMatches)

	if heroMatches > 0 {
		hs := &HeroStats{
			Matches: heroMatches,
			Wins:    heroWins,
			Winrate: roundPct(heroWins, heroMatches),
		}
		if heroKDASamples > 0 {
			hs.AvgKills = float64(heroKills) / float64(heroKDASamples)
			hs.AvgDeaths = float64(heroDeaths) / float64(heroKDASamples)
			hs.AvgAssists = float64(heroAssists) / float64(heroKDASamples)
			if heroDeaths > 0 {
				hs.KDRatio = float64(heroKills) / float64(heroDeaths)
			} else {
				hs.KDRatio = float64(heroKills)
			}
		}
		s.HeroStats = hs
	}
	if heroStreakSeen {
		s.HeroStreak = &heroStreak
	}

	if farmSamples > 0 {
		s.AvgLastHits = float64(sumLastHits) / float64(farmSamples)
		s.AvgDenies = float64(sumDenies) / float64(farmSamples)
		s.AvgNetWorth = float64(sumNetWorth) / float64(farmSamples)
	}

	return s
}

// DeterminePlayerTags derives zero or more tags from the stats. The cheater
// check performs sequential, delayed metadata lookups for the last-N slice
// and requires a minimum number of valid headshot readings before it may
// fire; fewer readings means no verdict, not "clean".
func (a *Aggregator) DeterminePlayerTags(ctx context.Context, s MatchStats, currentHeroID, accountID int64) []Tag {
	var tags []Tag
	th := a.thresholds

	if s.TotalMatches >= th.SmurfMinMatches && s.TotalWinrate >= th.SmurfWinrate && s.RecentWinrate >= th.SmurfWinrate {
		tags = append(tags, Tag{
			Type:        TagSmurf,
			TotalValue:  float64(s.TotalWinrate),
			RecentValue: float64(s.RecentWinrate),
		})
	}

	if s.RecentMatches >= th.LoserMinMatches && s.RecentWinrate <= th.LoserWinrate {
		tags = append(tags, Tag{
			Type:        TagLoser,
			RecentValue: float64(s.RecentWinrate),
		})
	}

	if currentHeroID != 0 && s.RecentMatches > 0 {
		rate := float64(s.RecentHeroMatches) / float64(s.RecentMatches) * 100
		if rate >= float64(th.SpammerHeroRate) {
			tags = append(tags, Tag{Type: TagSpammer, Value: rate})
		}
	}

	if rate, ok := a.headshotRate(ctx, s, accountID); ok && rate >= th.CheaterHeadshotRate {
		tags = append(tags, Tag{Type: TagCheater, Value: rate})
	}

	return tags
}

// headshotRate averages the headshot custom stat over the last-N matches.
// It reports ok only when enough valid readings exist to form a verdict.
func (a *Aggregator) headshotRate(ctx context.Context, s MatchStats, accountID int64) (float64, bool) {
	if a.metadata == nil || len(s.LastMatches) < a.thresholds.CheaterMatchesCount {
		return 0, false
	}

	var readings []float64
	for i, m := range s.LastMatches[:a.thresholds.CheaterMatchesCount] {
		// Sequential with a fixed delay to respect upstream rate limits.
		if i > 0 {
			select {
			case <-ctx.Done():
				return 0, false
			case <-time.After(a.metadataDelay):
			}
		}

		metadata, err := a.metadata.GetMetadata(ctx, m.MatchID, accountID)
		if err != nil || metadata == nil {
			if err != nil {
				log.Debug("Headshot lookup failed", "matchID", m.MatchID, "error", err)
			}
			continue
		}
		player, ok := metadata.PlayerByAccount(accountID)
		if !ok {
			continue
		}
		final := player.FinalSnapshot()
		if final == nil {
			continue
		}
		if value, ok := final.CustomStat(playerdata.HeadshotStatID); ok {
			readings = append(readings, value)
		}
	}

	if len(readings) < a.thresholds.CheaterMinReadings {
		return 0, false
	}
	sum := 0.0
	for _, r := range readings {
		sum += r
	}
	return sum / float64(len(readings)), true
}
