package stats

import (
	"context"
	"testing"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/config"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Unix(1_750_000_000, 0)

func testThresholds() config.Thresholds {
	return config.Thresholds{
		SmurfWinrate:        65,
		SmurfMinMatches:     20,
		LoserWinrate:        40,
		LoserMinMatches:     5,
		SpammerHeroRate:     37,
		CheaterHeadshotRate: 30,
		CheaterMatchesCount: 5,
		CheaterMinReadings:  3,
	}
}

func newTestAggregator(metadata MetadataSource) *Aggregator {
	return &Aggregator{
		metadata:     metadata,
		recentWindow: 14 * 24 * time.Hour,
		lastN:        5,
		thresholds:   testThresholds(),
		now:          func() time.Time { return testBase },
	}
}

// match builds a history item daysAgo days before the test clock.
func match(daysAgo int, win bool, heroID int64) playerdata.MatchHistoryItem {
	result := 3
	if win {
		result = 2
	}
	return playerdata.MatchHistoryItem{
		MatchID:     int64(90_000_000 + daysAgo),
		MatchResult: result,
		PlayerTeam:  2,
		StartTime:   testBase.Add(-time.Duration(daysAgo) * 24 * time.Hour).Unix(),
		HeroID:      heroID,
	}
}

type metadataSourceFunc func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error)

func (f metadataSourceFunc) GetMetadata(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
	return f(ctx, matchID, accountID)
}

func TestCalculateMatchStatsEmptyHistory(t *testing.T) {
	a := newTestAggregator(nil)

	s := a.CalculateMatchStats(nil, 15)

	assert.Equal(t, 0, s.TotalMatches)
	assert.Equal(t, 0, s.TotalWinrate)
	assert.Equal(t, 0, s.RecentWinrate)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Nil(t, s.HeroStats)
	assert.Nil(t, s.HeroStreak)
	assert.Empty(t, s.LastMatches)
}

func TestWinrateRoundsHalvesUp(t *testing.T) {
	a := newTestAggregator(nil)

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		match(1, true, 1), match(2, false, 1), match(3, false, 1),
	}, 0)
	assert.Equal(t, 33, s.TotalWinrate, "1/3 rounds down")

	s = a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		match(1, true, 1), match(2, false, 1), match(3, false, 1),
		match(4, false, 1), match(5, false, 1), match(6, false, 1),
		match(7, false, 1), match(8, false, 1),
	}, 0)
	assert.Equal(t, 13, s.TotalWinrate, "12.5 rounds up")
}

func TestRecentWindowExcludesOldMatches(t *testing.T) {
	a := newTestAggregator(nil)

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		match(1, true, 1),
		match(10, false, 1),
		match(20, true, 1),
		match(30, true, 1),
	}, 0)

	assert.Equal(t, 4, s.TotalMatches)
	assert.Equal(t, 2, s.RecentMatches)
	assert.Equal(t, 1, s.RecentWins)
	assert.Equal(t, 50, s.RecentWinrate)
	assert.Equal(t, 75, s.TotalWinrate)
}

func TestCurrentStreakIsSigned(t *testing.T) {
	a := newTestAggregator(nil)

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		match(1, true, 1), match(2, true, 1), match(3, false, 1),
	}, 0)
	assert.Equal(t, 2, s.CurrentStreak)

	s = a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		match(1, false, 1), match(2, false, 1), match(3, true, 1),
	}, 0)
	assert.Equal(t, -2, s.CurrentStreak)
}

func TestStreakUsesChronologyNotInputOrder(t *testing.T) {
	a := newTestAggregator(nil)

	// Oldest-first input must still yield the streak ending at the newest match.
	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		match(3, false, 1), match(2, true, 1), match(1, true, 1),
	}, 0)
	assert.Equal(t, 2, s.CurrentStreak)
}

func TestHeroStatsAndStreak(t *testing.T) {
	a := newTestAggregator(nil)

	k, d, as := 8, 4, 10
	withKDA := match(1, true, 15)
	withKDA.PlayerKills, withKDA.PlayerDeaths, withKDA.PlayerAssists = &k, &d, &as

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{
		withKDA,
		match(2, false, 7),
		match(3, true, 15),
		match(4, false, 15),
	}, 15)

	require.NotNil(t, s.HeroStats)
	assert.Equal(t, 3, s.HeroStats.Matches)
	assert.Equal(t, 2, s.HeroStats.Wins)
	assert.Equal(t, 67, s.HeroStats.Winrate)
	assert.InDelta(t, 8.0, s.HeroStats.AvgKills, 0.001)
	assert.InDelta(t, 2.0, s.HeroStats.KDRatio, 0.001)

	// Hero streak skips the off-hero loss between the two hero wins.
	require.NotNil(t, s.HeroStreak)
	assert.Equal(t, 2, *s.HeroStreak)
}

func TestHeroStatsNilWithoutHero(t *testing.T) {
	a := newTestAggregator(nil)

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{match(1, true, 7)}, 0)
	assert.Nil(t, s.HeroStats)
	assert.Nil(t, s.HeroStreak)

	s = a.CalculateMatchStats([]playerdata.MatchHistoryItem{match(1, true, 7)}, 15)
	assert.Nil(t, s.HeroStats, "never played the current hero")
}

func TestLastMatchesCappedAndNewestFirst(t *testing.T) {
	a := newTestAggregator(nil)

	var history []playerdata.MatchHistoryItem
	for i := 1; i <= 8; i++ {
		history = append(history, match(i, true, 1))
	}

	s := a.CalculateMatchStats(history, 0)
	require.Len(t, s.LastMatches, 5)
	assert.Equal(t, match(1, true, 1).MatchID, s.LastMatches[0].MatchID)
	assert.Equal(t, match(5, true, 1).MatchID, s.LastMatches[4].MatchID)
}

func TestFarmAveragesSkipIncompleteRows(t *testing.T) {
	a := newTestAggregator(nil)

	lh, dn, nw := 120, 30, 25_000
	complete := match(1, true, 1)
	complete.LastHits, complete.Denies, complete.NetWorth = &lh, &dn, &nw
	partial := match(2, true, 1)
	partial.LastHits = &lh

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{complete, partial}, 0)
	assert.InDelta(t, 120.0, s.AvgLastHits, 0.001)
	assert.InDelta(t, 25_000.0, s.AvgNetWorth, 0.001)
}

func TestSmurfTagBoundary(t *testing.T) {
	a := newTestAggregator(nil)

	// Hourly spacing keeps every match inside the recent window, so total and
	// recent winrates agree.
	build := func(total int) []playerdata.MatchHistoryItem {
		var history []playerdata.MatchHistoryItem
		for i := 0; i < total; i++ {
			m := match(1, i%3 != 0, 1)
			m.MatchID = int64(90_000_000 + i)
			m.StartTime = testBase.Add(-time.Duration(i+1) * time.Hour).Unix()
			history = append(history, m)
		}
		return history
	}

	s := a.CalculateMatchStats(build(21), 0)
	require.GreaterOrEqual(t, s.TotalWinrate, 65)
	require.GreaterOrEqual(t, s.RecentWinrate, 65)
	tags := a.DeterminePlayerTags(context.Background(), s, 0, 42)
	require.Len(t, tags, 1)
	assert.Equal(t, TagSmurf, tags[0].Type)
	assert.Equal(t, float64(s.TotalWinrate), tags[0].TotalValue)

	s = a.CalculateMatchStats(build(19), 0)
	tags = a.DeterminePlayerTags(context.Background(), s, 0, 42)
	assert.Empty(t, tags, "below the minimum match count")
}

func TestLoserTag(t *testing.T) {
	a := newTestAggregator(nil)

	var history []playerdata.MatchHistoryItem
	history = append(history, match(1, true, 1), match(2, true, 1))
	for i := 3; i <= 7; i++ {
		history = append(history, match(i, false, 1))
	}

	s := a.CalculateMatchStats(history, 0)
	require.Equal(t, 7, s.RecentMatches)
	require.Equal(t, 29, s.RecentWinrate)

	tags := a.DeterminePlayerTags(context.Background(), s, 0, 42)
	require.Len(t, tags, 1)
	assert.Equal(t, TagLoser, tags[0].Type)
	assert.Equal(t, 29.0, tags[0].RecentValue)
}

func TestSpammerTag(t *testing.T) {
	a := newTestAggregator(nil)

	// 4 of 10 recent matches on the current hero: 40% clears the threshold.
	var history []playerdata.MatchHistoryItem
	for i := 1; i <= 10; i++ {
		hero := int64(1)
		if i <= 4 {
			hero = 15
		}
		history = append(history, match(i, i%2 == 0, hero))
	}

	s := a.CalculateMatchStats(history, 15)
	tags := a.DeterminePlayerTags(context.Background(), s, 15, 42)
	require.Len(t, tags, 1)
	assert.Equal(t, TagSpammer, tags[0].Type)
	assert.InDelta(t, 40.0, tags[0].Value, 0.001)
}

func metadataWithHeadshot(accountID int64, rate float64) *playerdata.DetailedMatchMetadata {
	return &playerdata.DetailedMatchMetadata{
		MatchInfo: playerdata.MatchInfo{
			Players: []playerdata.MetadataPlayer{{
				AccountID: accountID,
				Stats: []playerdata.StatSnapshot{{
					CustomUserStats: []playerdata.CustomUserStat{
						{ID: playerdata.HeadshotStatID, Value: rate},
					},
				}},
			}},
		},
	}
}

func TestCheaterTagFromHeadshotAverage(t *testing.T) {
	source := metadataSourceFunc(func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		return metadataWithHeadshot(accountID, 35), nil
	})
	a := newTestAggregator(source)

	var history []playerdata.MatchHistoryItem
	for i := 1; i <= 5; i++ {
		history = append(history, match(i, true, 1))
	}
	s := a.CalculateMatchStats(history, 0)

	tags := a.DeterminePlayerTags(context.Background(), s, 0, 42)
	found := false
	for _, tag := range tags {
		if tag.Type == TagCheater {
			found = true
			assert.InDelta(t, 35.0, tag.Value, 0.001)
		}
	}
	assert.True(t, found, "expected a cheater tag")
}

func TestCheaterTagNeedsEnoughReadings(t *testing.T) {
	calls := 0
	source := metadataSourceFunc(func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		calls++
		if calls > 2 {
			return nil, nil
		}
		return metadataWithHeadshot(accountID, 90), nil
	})
	a := newTestAggregator(source)

	var history []playerdata.MatchHistoryItem
	for i := 1; i <= 5; i++ {
		history = append(history, match(i, false, 1))
	}
	s := a.CalculateMatchStats(history, 0)

	for _, tag := range a.DeterminePlayerTags(context.Background(), s, 0, 42) {
		assert.NotEqual(t, TagCheater, tag.Type, "two readings are not a verdict")
	}
}

func TestCheaterCheckSkippedWithShortHistory(t *testing.T) {
	source := metadataSourceFunc(func(ctx context.Context, matchID, accountID int64) (*playerdata.DetailedMatchMetadata, error) {
		t.Fatal("metadata must not be fetched with fewer matches than the sample size")
		return nil, nil
	})
	a := newTestAggregator(source)

	s := a.CalculateMatchStats([]playerdata.MatchHistoryItem{match(1, true, 1)}, 0)
	a.DeterminePlayerTags(context.Background(), s, 0, 42)
}
