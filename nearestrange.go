package lazylist

const (
	// nearestRangeSlidingWindow is the step in which the range moves as
	// the anchor scrolls, so the range is not rebuilt on every item.
	nearestRangeSlidingWindow = 30

	// nearestRangeExtraItems extends the range on both sides so key
	// lookups keep succeeding for items slightly outside the window.
	nearestRangeExtraItems = 100
)

// NearestRange is a sliding index window around the scroll anchor. For
// lists too large to build a full key → index cache, key lookups scan only
// this window, keeping their cost independent of the item count.
type NearestRange struct {
	block  int // start of the sliding-window block the anchor sits in
	lo, hi int
}

func newNearestRange(firstVisible int) NearestRange {
	var r NearestRange
	r.recompute(firstVisible)
	return r
}

// Bounds returns the current window as a half-open range [lo, hi).
func (r *NearestRange) Bounds() (lo, hi int) {
	return r.lo, r.hi
}

// Contains reports whether an index falls inside the window.
func (r *NearestRange) Contains(index int) bool {
	return index >= r.lo && index < r.hi
}

// Update slides the window if the anchor has left its current block.
// Small scrolls within the block leave the bounds untouched.
func (r *NearestRange) Update(firstVisible int) {
	if firstVisible >= r.block && firstVisible < r.block+nearestRangeSlidingWindow {
		return
	}
	r.recompute(firstVisible)
}

func (r *NearestRange) recompute(firstVisible int) {
	r.block = nearestRangeSlidingWindow * (firstVisible / nearestRangeSlidingWindow)
	lo := r.block - nearestRangeExtraItems
	if lo < 0 {
		lo = 0
	}
	r.lo = lo
	r.hi = r.block + nearestRangeSlidingWindow + nearestRangeExtraItems
}
