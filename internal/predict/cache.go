package predict

import (
	"sync"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/observability"
)

// CachedHazardClassifier wraps a HazardClassifier with an in-memory LRU cache
// keyed on the full feature set. Hazard features are static per region, so
// the same inputs recur often.
type CachedHazardClassifier struct {
	inner   HazardClassifier
	cache   *lruCache[domain.HazardFeatures, domain.HazardPrediction]
	metrics *observability.Metrics
}

// NewCachedHazardClassifier creates a cache decorator around a classifier.
func NewCachedHazardClassifier(inner HazardClassifier, maxEntries int, metrics *observability.Metrics) *CachedHazardClassifier {
	return &CachedHazardClassifier{
		inner:   inner,
		cache:   newLRUCache[domain.HazardFeatures, domain.HazardPrediction](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedHazardClassifier) Predict(f domain.HazardFeatures) (domain.HazardPrediction, error) {
	if p, ok := c.cache.get(f); ok {
		c.metrics.HazardCache.WithLabelValues("hit").Inc()
		return p, nil
	}
	c.metrics.HazardCache.WithLabelValues("miss").Inc()

	p, err := c.inner.Predict(f)
	if err != nil {
		return p, err
	}
	c.cache.put(f, p)
	return p, nil
}

func (c *CachedHazardClassifier) Labels() []string {
	return c.inner.Labels()
}

// Len returns the number of cached predictions.
func (c *CachedHazardClassifier) Len() int {
	return c.cache.len()
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[K comparable, V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

func newLRUCache[K comparable, V any](maxEntries int) *lruCache[K, V] {
	return &lruCache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
