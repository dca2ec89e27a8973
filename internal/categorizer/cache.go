package categorizer

import (
	"sync"

	"github.com/oluto/statements/internal/statement"
)

// suggestionCache is a bounded, process-wide cache of single-transaction
// suggestions keyed on normalized "vendor|description".
//
// Eviction is FIFO: when the cache is full the oldest-inserted entry goes,
// regardless of how recently it was read. Callers rely on this for stable
// suggestions on repeated vendors, so do not "upgrade" it to LRU.
// The mutex keeps the size invariant intact under concurrent requests.
type suggestionCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]statement.CategorySuggestion
	order    []string
}

func newSuggestionCache(capacity int) *suggestionCache {
	return &suggestionCache{
		capacity: capacity,
		entries:  make(map[string]statement.CategorySuggestion, capacity),
	}
}

func (c *suggestionCache) get(key string) (statement.CategorySuggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	return s, ok
}

// put inserts a suggestion, evicting the oldest entry first when at
// capacity. Overwriting an existing key keeps its original insertion slot.
func (c *suggestionCache) put(key string, s statement.CategorySuggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = s
		return
	}

	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = s
	c.order = append(c.order, key)
}

func (c *suggestionCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
