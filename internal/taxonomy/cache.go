package taxonomy

import (
	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/models"
)

// Cache memoizes resolution outcomes for a single aggregation run. A stored
// nil is a real outcome ("this reference has no match") and is distinct from
// a key that was never looked up. The cache is append-only (entries are
// never invalidated mid-run) and is owned by one caller; concurrent
// aggregations must each use their own instance.
type Cache struct {
	entries map[string]*models.TaxonomyEntry
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*models.TaxonomyEntry)}
}

// Get returns the cached outcome for a key. The boolean distinguishes a
// cached nil from a key that has not been resolved yet.
func (c *Cache) Get(key string) (*models.TaxonomyEntry, bool) {
	entry, ok := c.entries[key]
	return entry, ok
}

// Put records a resolution outcome, including nil for "no match".
func (c *Cache) Put(key string, entry *models.TaxonomyEntry) {
	c.entries[key] = entry
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int {
	return len(c.entries)
}

// CacheKey derives the cache key for a reference from its normalized
// identifying fields, so equivalent references (same id and description
// modulo spelling) share one cache slot.
func CacheKey(ref models.RubroReference) string {
	return keyutils.NormalizeKey(ref.PrimaryID()) + "|" + keyutils.NormalizeKey(ref.PrimaryDescription())
}
