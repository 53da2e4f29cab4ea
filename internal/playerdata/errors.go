package playerdata

import "errors"

// ErrNotFound marks expected absence (unknown player, no stored history).
// Callers treat it as "no data", never as a failure.
var ErrNotFound = errors.New("playerdata: not found")

// ErrRateLimited marks an HTTP 429 from the stats backend. Callers must
// route it to retry logic instead of swallowing it.
var ErrRateLimited = errors.New("playerdata: rate limited")
