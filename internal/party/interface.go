package party

import (
	"context"

	"github.com/DeadLyze/deadlyze-app/internal/livematch"
)

// Detector finds premade groups among the players of a live match.
// This allows for mock implementations to be used in tests.
type Detector interface {
	DetectPartyGroups(ctx context.Context, players []livematch.MatchPlayer) []Group
}
