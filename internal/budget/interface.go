package budget

import "time"

// Budget tracks the bounded, slowly-replenishing quota of spectator-class
// match lookups. This allows for mock implementations to be used in tests.
type Budget interface {
	Available() int
	Consume(key string) bool
	CanConsume(key string) bool
	RemainingTime() time.Duration
}
