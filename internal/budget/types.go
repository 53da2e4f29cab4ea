package budget

// state is the durable part of the budget, persisted across restarts.
// The set of already-paid keys is deliberately session-scoped and lives
// only in memory.
type state struct {
	AvailableRequests int     `msgpack:"available_requests"`
	LastRequestTime   int64   `msgpack:"last_request_time"`
	Timestamps        []int64 `msgpack:"timestamps"`
}
