package storage

// Store is an opaque string-keyed blob store used for durable state
// (rate-limit budget, search history, cached identity).
// This allows for mock implementations to be used in tests.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Clear() error
}
