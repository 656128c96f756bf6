package lazylist

import (
	"sort"

	"github.com/charmbracelet/log"
)

// maxKeyCacheItems bounds the lazily built slot-id → index cache. Lists
// above this size fall back to range-bounded linear search so that key
// lookups never allocate memory proportional to the item count.
const maxKeyCacheItems = 10000

// ItemProvider supplies item addressing for a lazy layout: how many items
// exist, the stable key and content type of each, and reverse key → index
// lookup for anchor stability.
type ItemProvider interface {
	ItemCount() int
	KeyFor(index int) Key
	ContentTypeFor(index int) uint64
	IndexByKey(key Key) (int, bool)
}

// Interval is a contiguous run of items that share one key function, one
// content-type function and one content-emission function. Local indices
// passed to the functions start at 0 within the interval.
type Interval struct {
	start int
	count int

	// key yields the user key for a local index. nil means items in this
	// interval use default index-derived keys.
	key func(local int) uint64

	// contentType yields the reuse bucket for a local index. nil means
	// untyped (bucket 0).
	contentType func(local int) uint64

	// content emits the item's content for a local index.
	content func(local int)
}

// Start returns the interval's first global index.
func (iv Interval) Start() int { return iv.start }

// Count returns the number of items in the interval.
func (iv Interval) Count() int { return iv.count }

// IntervalContent is an ordered, gap-free list of intervals addressed by
// binary search. It is the standard ItemProvider implementation: callers
// append heterogeneous regions (header, rows, footer) and the content
// answers per-index key/type/content queries in O(log k) for k intervals.
type IntervalContent struct {
	intervals []Interval
	total     int

	// keyCache maps slot id → global index for fast IndexByKey. Built
	// lazily on first lookup and only for lists up to maxKeyCacheItems;
	// any mutation drops it.
	keyCache map[uint64]int
}

// NewIntervalContent creates an empty interval content.
func NewIntervalContent() *IntervalContent {
	return &IntervalContent{}
}

// Item appends a single item with a default key and no content type.
func (c *IntervalContent) Item(content func()) *IntervalContent {
	return c.Items(1, nil, nil, func(int) { content() })
}

// ItemKeyed appends a single item with a user key and no content type.
func (c *IntervalContent) ItemKeyed(key uint64, content func()) *IntervalContent {
	return c.Items(1, func(int) uint64 { return key }, nil, func(int) { content() })
}

// ItemTyped appends a single item with a user key and a content type.
func (c *IntervalContent) ItemTyped(key, contentType uint64, content func()) *IntervalContent {
	return c.Items(1,
		func(int) uint64 { return key },
		func(int) uint64 { return contentType },
		func(int) { content() })
}

// Items appends count items as one interval. keyFn and typeFn may be nil:
// a nil keyFn gives the items default index-derived keys, a nil typeFn
// leaves them untyped. content receives the local index within the
// interval.
func (c *IntervalContent) Items(count int, keyFn, typeFn func(local int) uint64, content func(local int)) *IntervalContent {
	if count <= 0 {
		return c
	}
	c.keyCache = nil
	c.intervals = append(c.intervals, Interval{
		start:       c.total,
		count:       count,
		key:         keyFn,
		contentType: typeFn,
		content:     content,
	})
	c.total += count
	return c
}

// ItemsOf appends one item per element of items. The content callback
// receives the element itself.
func ItemsOf[T any](c *IntervalContent, items []T, content func(item T)) *IntervalContent {
	return c.Items(len(items), nil, nil, func(local int) {
		content(items[local])
	})
}

// ItemsIndexed appends one item per element of items, passing the local
// index alongside the element.
func ItemsIndexed[T any](c *IntervalContent, items []T, content func(index int, item T)) *IntervalContent {
	return c.Items(len(items), nil, nil, func(local int) {
		content(local, items[local])
	})
}

// ItemCount returns the total number of items across all intervals.
func (c *IntervalContent) ItemCount() int {
	return c.total
}

// Intervals returns the appended intervals in order.
func (c *IntervalContent) Intervals() []Interval {
	return c.intervals
}

// KeyFor returns the key for the item at the given global index. Items in
// intervals without a key function get a default index-derived key, as
// does any out-of-range index.
func (c *IntervalContent) KeyFor(index int) Key {
	if iv, local, ok := c.findInterval(index); ok && iv.key != nil {
		return UserKey(iv.key(local))
	}
	return IndexKey(index)
}

// ContentTypeFor returns the reuse bucket for the item at the given global
// index. 0 means untyped; the engine only ever compares types for
// equality.
func (c *IntervalContent) ContentTypeFor(index int) uint64 {
	if iv, local, ok := c.findInterval(index); ok && iv.contentType != nil {
		return iv.contentType(local)
	}
	return 0
}

// InvokeContent emits the content for the item at the given global index.
// Out-of-range indices are ignored.
func (c *IntervalContent) InvokeContent(index int) {
	if iv, local, ok := c.findInterval(index); ok {
		iv.content(local)
	}
}

// IndexByKey returns the global index of the item with the given key.
// Backed by a lazily built cache for lists up to maxKeyCacheItems; above
// that threshold it reports not-found and callers should use
// IndexByKeyInRange with a bounded range instead.
func (c *IntervalContent) IndexByKey(key Key) (int, bool) {
	return c.IndexBySlotID(key.SlotID())
}

// IndexByKeyInRange returns the global index of the item with the given
// key, scanning only [lo, hi). The bounds are clamped to the valid range.
func (c *IntervalContent) IndexByKeyInRange(key Key, lo, hi int) (int, bool) {
	return c.IndexBySlotIDInRange(key.SlotID(), lo, hi)
}

// IndexBySlotID is IndexByKey for an already flattened slot id.
func (c *IntervalContent) IndexBySlotID(id uint64) (int, bool) {
	if c.ensureKeyCache() {
		index, ok := c.keyCache[id]
		return index, ok
	}
	log.Debug("lazylist: key lookup on uncached large list", "items", c.total)
	return 0, false
}

// IndexBySlotIDInRange is IndexByKeyInRange for a flattened slot id.
func (c *IntervalContent) IndexBySlotIDInRange(id uint64, lo, hi int) (int, bool) {
	if lo < 0 {
		lo = 0
	}
	if hi > c.total {
		hi = c.total
	}
	for index := lo; index < hi; index++ {
		if c.KeyFor(index).SlotID() == id {
			return index, true
		}
	}
	return 0, false
}

// ensureKeyCache builds the slot-id cache if the list is small enough.
// Reports whether the cache is usable.
func (c *IntervalContent) ensureKeyCache() bool {
	if c.keyCache != nil {
		return true
	}
	if c.total > maxKeyCacheItems {
		return false
	}
	cache := make(map[uint64]int, c.total)
	for index := 0; index < c.total; index++ {
		cache[c.KeyFor(index).SlotID()] = index
	}
	c.keyCache = cache
	return true
}

// findInterval locates the interval owning the given global index and the
// local index within it.
func (c *IntervalContent) findInterval(index int) (*Interval, int, bool) {
	if index < 0 || index >= c.total || len(c.intervals) == 0 {
		return nil, 0, false
	}
	pos := sort.Search(len(c.intervals), func(i int) bool {
		return c.intervals[i].start+c.intervals[i].count > index
	})
	if pos >= len(c.intervals) {
		return nil, 0, false
	}
	iv := &c.intervals[pos]
	return iv, index - iv.start, true
}
