package lazylist

// sizeCacheCapacity bounds the per-list size cache. Strict LRU beyond it.
const sizeCacheCapacity = 100

// sizeCache remembers the last measured main-axis size of recently seen
// items and keeps a running mean over everything ever measured. The mean
// estimates the size of items that have never been measured, which is what
// makes large scroll jumps possible without touching every item.
type sizeCache struct {
	sizes map[int]float64
	lru   []int // front is oldest, back is newest

	average  float64
	measured int
}

func newSizeCache() sizeCache {
	return sizeCache{
		sizes:   make(map[int]float64),
		average: DefaultItemSizeEstimate,
	}
}

// put records the measured size of an item. Re-measuring a known index
// updates the stored size and its LRU position but does not feed the
// running mean again.
func (c *sizeCache) put(index int, size float64) {
	if _, ok := c.sizes[index]; ok {
		c.sizes[index] = size
		// Reposition in LRU order. O(n) but only on re-measurement.
		for i, k := range c.lru {
			if k == index {
				c.lru = append(c.lru[:i], c.lru[i+1:]...)
				break
			}
		}
		c.lru = append(c.lru, index)
		return
	}

	for len(c.sizes) >= sizeCacheCapacity && len(c.lru) > 0 {
		oldest := c.lru[0]
		c.lru = c.lru[1:]
		if _, ok := c.sizes[oldest]; ok {
			delete(c.sizes, oldest)
			break
		}
	}

	c.sizes[index] = size
	c.lru = append(c.lru, index)

	c.measured++
	n := float64(c.measured)
	c.average = c.average*((n-1)/n) + size/n
}

// get returns the cached size for an index, if present.
func (c *sizeCache) get(index int) (float64, bool) {
	size, ok := c.sizes[index]
	return size, ok
}

// averageSize returns the running mean of measured item sizes.
func (c *sizeCache) averageSize() float64 {
	return c.average
}
