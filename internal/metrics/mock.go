package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	searchesStarted     int
	searchesLoaded      int
	searchesFailed      int
	cacheHits           int
	cacheMisses         int
	enrichmentDurations []float64
	retryQueueSize      int
	budgetAvailable     int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		enrichmentDurations: make([]float64, 0),
	}
}

var _ Metrics = (*Mock)(nil)

func (m *Mock) IncSearchesStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchesStarted++
}

func (m *Mock) IncSearchesLoaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchesLoaded++
}

func (m *Mock) IncSearchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchesFailed++
}

func (m *Mock) IncCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

func (m *Mock) IncCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

func (m *Mock) ObserveEnrichmentDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrichmentDurations = append(m.enrichmentDurations, duration)
}

func (m *Mock) SetRetryQueueSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryQueueSize = size
}

func (m *Mock) SetBudgetAvailable(available int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgetAvailable = available
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SearchesStarted returns the number of times IncSearchesStarted was called.
func (m *Mock) SearchesStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchesStarted
}

// SearchesLoaded returns the number of times IncSearchesLoaded was called.
func (m *Mock) SearchesLoaded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchesLoaded
}

// SearchesFailed returns the number of times IncSearchesFailed was called.
func (m *Mock) SearchesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchesFailed
}

// CacheHits returns the number of times IncCacheHit was called.
func (m *Mock) CacheHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits
}

// CacheMisses returns the number of times IncCacheMiss was called.
func (m *Mock) CacheMisses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheMisses
}

// RetryQueueSize returns the last value passed to SetRetryQueueSize.
func (m *Mock) RetryQueueSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retryQueueSize
}

// BudgetAvailable returns the last value passed to SetBudgetAvailable.
func (m *Mock) BudgetAvailable() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.budgetAvailable
}
