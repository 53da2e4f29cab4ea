package party

import (
	"context"
	"time"

	"github.com/DeadLyze/deadlyze-app/internal/livematch"
	"github.com/DeadLyze/deadlyze-app/internal/playerdata"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// detector implements Detector using the mate-stats signal: two players are
// partied only when each appears in the other's recent teammate history.
type detector struct {
	client playerdata.Client
	window time.Duration
	delay  time.Duration
	now    func() time.Time
}

// New creates a party detector. window is the trailing mate-stats lookback;
// delay is the pause between sequential per-player fetches.
func New(client playerdata.Client, window, delay time.Duration) Detector {
	return &detector{
		client: client,
		window: window,
		delay:  delay,
		now:    time.Now,
	}
}

var _ Detector = (*detector)(nil)

// DetectPartyGroups partitions each team into mutually-confirmed premade
// groups. Detection never fails a search: per-player fetch errors degrade to
// an empty mate set, and groups never span teams.
func (d *detector) DetectPartyGroups(ctx context.Context, players []livematch.MatchPlayer) []Group {
	var groups []Group

	teams := []struct {
		team        int
		colorOffset int
	}{
		{livematch.TeamAmber, 0},
		{livematch.TeamSapphire, len(Palette) / 2},
	}

	for _, t := range teams {
		var teamPlayers []livematch.MatchPlayer
		for _, p := range players {
			if p.Team == t.team {
				teamPlayers = append(teamPlayers, p)
			}
		}
		groups = append(groups, d.detectTeam(ctx, teamPlayers, t.colorOffset)...)
	}

	log.Info("Party detection finished", "groups", len(groups))
	return groups
}

func (d *detector) detectTeam(ctx context.Context, teamPlayers []livematch.MatchPlayer, colorOffset int) []Group {
	minTimestamp := d.now().Add(-d.window).Unix()

	// Mate sets are fetched sequentially with a small delay between players
	// to respect upstream rate limits.
	mateSets := make(map[int64]map[int64]bool, len(teamPlayers))
	for i, player := range teamPlayers {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(d.delay):
			}
		}

		mates := make(map[int64]bool)
		stats, err := d.client.FetchMateStats(ctx, player.AccountID, minTimestamp)
		if err != nil {
			log.Error("Failed to fetch mate stats, treating as empty", "accountID", player.AccountID, "error", err)
		} else {
			for _, mate := range stats {
				mates[mate.MateID] = true
			}
		}
		mateSets[player.AccountID] = mates
	}

	var groups []Group
	colorIndex := 0
	processed := make(map[int64]bool, len(teamPlayers))

	for _, player := range teamPlayers {
		if processed[player.AccountID] {
			continue
		}

		members := []int64{player.AccountID}
		playerMates := mateSets[player.AccountID]

		for _, teammate := range teamPlayers {
			if teammate.AccountID == player.AccountID || processed[teammate.AccountID] {
				continue
			}
			// One-sided claims are discarded: both players must list each other.
			if playerMates[teammate.AccountID] && mateSets[teammate.AccountID][player.AccountID] {
				members = append(members, teammate.AccountID)
			}
		}

		if len(members) >= 2 {
			groups = append(groups, Group{
				Members: members,
				Color:   Palette[(colorOffset+colorIndex)%len(Palette)],
				PartyID: uuid.New().String(),
			})
			colorIndex++
			for _, id := range members {
				processed[id] = true
			}
		} else {
			processed[player.AccountID] = true
		}
	}

	return groups
}
