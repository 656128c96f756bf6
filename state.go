package lazylist

import "math"

// Stats describes item lifecycle counts for diagnostics and tests.
type Stats struct {
	// ItemsInUse is the number of items currently instantiated and bound
	// to visible (or buffered) positions.
	ItemsInUse int

	// ItemsInPool is the number of recycled slots waiting for reuse.
	ItemsInPool int

	// TotalComposed counts every item instantiation since the state was
	// created.
	TotalComposed int

	// ReuseCount counts instantiations that recycled a pooled slot
	// instead of building from scratch.
	ReuseCount int
}

// ItemInfo describes one visible item in a layout snapshot.
type ItemInfo struct {
	Index  int
	Key    Key
	Offset float64
	Size   float64
}

// LayoutInfo is the snapshot published after each measurement pass for
// external consumers such as scroll indicators.
type LayoutInfo struct {
	VisibleItems         []ItemInfo
	TotalItems           int
	ViewportSize         float64
	ViewportStartOffset  float64
	ViewportEndOffset    float64
	BeforeContentPadding float64
	AfterContentPadding  float64
}

type jumpRequest struct {
	index  int
	offset float64
}

// State holds the scroll position of one lazy list and everything the
// measurement algorithm accumulates across passes: the pending scroll
// delta, pending jump requests, the item size cache, the prefetch
// scheduler and the nearest-range window.
//
// A State is owned by a single list and must only be mutated from the
// thread running its layout passes. Input producers (gestures, key
// handlers) hand their deltas over with DispatchScrollDelta; the deltas
// are consumed, not applied, on the next measurement pass.
type State struct {
	firstVisibleIndex  int
	firstVisibleOffset float64

	// lastKnownKey remembers the anchor item's key so the anchor can be
	// rebound by key after inserts/removals before it.
	lastKnownKey    Key
	hasLastKnownKey bool

	pendingDelta float64
	pendingJump  *jumpRequest

	layoutInfo LayoutInfo

	callbacks      []stateCallback
	nextCallbackID uint64

	stats        Stats
	statsChanged bool

	sizes sizeCache

	prefetcher       PrefetchScheduler
	prefetchStrategy PrefetchStrategy
	lastDirection    float64

	nearest NearestRange
}

type stateCallback struct {
	id uint64
	fn func()
}

// NewState creates a state anchored at the start of the list.
func NewState() *State {
	return NewStateAt(0, 0)
}

// NewStateAt creates a state with the given initial anchor.
func NewStateAt(firstVisibleIndex int, firstVisibleOffset float64) *State {
	return &State{
		firstVisibleIndex:  firstVisibleIndex,
		firstVisibleOffset: firstVisibleOffset,
		sizes:              newSizeCache(),
		prefetchStrategy:   DefaultPrefetchStrategy(),
		nearest:            newNearestRange(firstVisibleIndex),
		nextCallbackID:     1,
	}
}

// FirstVisibleItemIndex returns the index of the anchor item.
func (s *State) FirstVisibleItemIndex() int {
	return s.firstVisibleIndex
}

// FirstVisibleItemScrollOffset returns how far the anchor item is scrolled
// off the start of the viewport, in pixels.
func (s *State) FirstVisibleItemScrollOffset() float64 {
	return s.firstVisibleOffset
}

// LayoutInfo returns the snapshot from the last measurement pass.
func (s *State) LayoutInfo() LayoutInfo {
	return s.layoutInfo
}

// Stats returns the current item lifecycle statistics.
func (s *State) Stats() Stats {
	return s.stats
}

// StatsChanged reports whether the in-use/in-pool counts changed since the
// last call, clearing the flag. Outer render loops use this to decide
// whether a diagnostics overlay needs a refresh.
func (s *State) StatsChanged() bool {
	changed := s.statsChanged
	s.statsChanged = false
	return changed
}

// UpdateStats records the pool occupancy after a measurement pass.
func (s *State) UpdateStats(itemsInUse, itemsInPool int) {
	if s.stats.ItemsInUse == itemsInUse && s.stats.ItemsInPool == itemsInPool {
		return
	}
	s.stats.ItemsInUse = itemsInUse
	s.stats.ItemsInPool = itemsInPool
	s.statsChanged = true
}

// RecordComposition counts one item instantiation, reused or fresh.
func (s *State) RecordComposition(reused bool) {
	s.stats.TotalComposed++
	if reused {
		s.stats.ReuseCount++
	}
}

// ScrollToItem requests a jump to the given index with an extra offset
// within the item. The jump is applied on the next measurement pass; it
// also clears the remembered anchor key so a stale key lookup cannot
// override an explicit jump.
func (s *State) ScrollToItem(index int, offset float64) {
	s.pendingJump = &jumpRequest{index: index, offset: offset}
	s.firstVisibleIndex = index
	s.firstVisibleOffset = offset
	s.hasLastKnownKey = false
	s.invalidate()
}

// DispatchScrollDelta accumulates a raw scroll delta to be consumed on the
// next measurement pass. The delta follows the content: negative deltas
// scroll forward (reveal later items), positive deltas scroll backward.
// Returns the delta for chaining with nested scroll consumers.
func (s *State) DispatchScrollDelta(delta float64) float64 {
	s.pendingDelta += delta
	s.invalidate()
	return delta
}

// consumeScrollDelta returns the accumulated delta and resets it.
func (s *State) consumeScrollDelta() float64 {
	delta := s.pendingDelta
	s.pendingDelta = 0
	return delta
}

// consumeScrollToIndex returns the pending jump request, if any, and
// clears it.
func (s *State) consumeScrollToIndex() (jumpRequest, bool) {
	if s.pendingJump == nil {
		return jumpRequest{}, false
	}
	jump := *s.pendingJump
	s.pendingJump = nil
	return jump, true
}

// CacheItemSize records a measured main-axis size for scroll estimation.
func (s *State) CacheItemSize(index int, size float64) {
	s.sizes.put(index, size)
}

// CachedSize returns the last measured size for an index, if cached.
func (s *State) CachedSize(index int) (float64, bool) {
	return s.sizes.get(index)
}

// AverageItemSize returns the running mean of measured item sizes.
func (s *State) AverageItemSize() float64 {
	return s.sizes.averageSize()
}

// NearestRangeBounds returns the current key-lookup window around the
// anchor as a half-open range.
func (s *State) NearestRangeBounds() (lo, hi int) {
	return s.nearest.Bounds()
}

// UpdateNearestRange slides the key-lookup window to follow the anchor.
func (s *State) UpdateNearestRange() {
	s.nearest.Update(s.firstVisibleIndex)
}

// RecordScrollDirection notes which way the window last moved for the
// prefetch scheduler. Positive means forward (toward later items).
// Movements near zero leave the direction unchanged.
func (s *State) RecordScrollDirection(movement float64) {
	if math.Abs(movement) > 0.001 {
		if movement > 0 {
			s.lastDirection = 1
		} else {
			s.lastDirection = -1
		}
	}
}

// UpdatePrefetchQueue rebuilds the prefetch queue from the current visible
// window and the last recorded scroll direction.
func (s *State) UpdatePrefetchQueue(firstVisible, lastVisible, totalItems int) {
	s.prefetcher.Update(firstVisible, lastVisible, totalItems, s.lastDirection, s.prefetchStrategy)
}

// TakePrefetchIndices drains and returns the prefetch queue.
func (s *State) TakePrefetchIndices() []int {
	var indices []int
	for {
		index, ok := s.prefetcher.NextPrefetch()
		if !ok {
			return indices
		}
		indices = append(indices, index)
	}
}

// MarkPrefetched records that an index has been instantiated ahead of
// time.
func (s *State) MarkPrefetched(index int) {
	s.prefetcher.MarkPrefetched(index)
}

// IsPrefetched reports whether an index was instantiated ahead of time and
// not yet retired.
func (s *State) IsPrefetched(index int) bool {
	return s.prefetcher.IsPrefetched(index)
}

// CleanupDistantPrefetches retires prefetched indices that drifted outside
// [firstVisible-keepDistance, lastVisible+keepDistance].
func (s *State) CleanupDistantPrefetches(firstVisible, lastVisible, keepDistance int) {
	s.prefetcher.CleanupDistantPrefetches(firstVisible, lastVisible, keepDistance)
}

// SetPrefetchStrategy replaces the prefetch configuration.
func (s *State) SetPrefetchStrategy(strategy PrefetchStrategy) *State {
	s.prefetchStrategy = strategy
	return s
}

// PrefetchStrategy returns the current prefetch configuration.
func (s *State) PrefetchStrategy() PrefetchStrategy {
	return s.prefetchStrategy
}

// updateScrollPosition rebinds the anchor after a measurement pass.
func (s *State) updateScrollPosition(index int, offset float64) {
	s.firstVisibleIndex = index
	s.firstVisibleOffset = offset
}

// updateScrollPositionWithKey rebinds the anchor and remembers its key for
// stability across data mutations.
func (s *State) updateScrollPositionWithKey(index int, offset float64, key Key) {
	s.firstVisibleIndex = index
	s.firstVisibleOffset = offset
	s.lastKnownKey = key
	s.hasLastKnownKey = true
}

// UpdateScrollPositionIfItemMoved re-resolves the anchor after the data
// set changed. If an anchor key is remembered and lookup finds it at a new
// index, the anchor follows the item there, preserving the visual scroll
// position across inserts and removals before it. If the key is gone, or
// no key was remembered, the anchor index is clamped into the new valid
// range. Returns the resulting anchor index.
func (s *State) UpdateScrollPositionIfItemMoved(newItemCount int, indexByKey func(Key) (int, bool)) int {
	if !s.hasLastKnownKey {
		s.firstVisibleIndex = clampIndex(s.firstVisibleIndex, newItemCount)
		return s.firstVisibleIndex
	}
	if newIndex, ok := indexByKey(s.lastKnownKey); ok {
		s.firstVisibleIndex = newIndex
	} else {
		s.firstVisibleIndex = clampIndex(s.firstVisibleIndex, newItemCount)
	}
	return s.firstVisibleIndex
}

// updateLayoutInfo publishes the snapshot from a measurement pass.
func (s *State) updateLayoutInfo(info LayoutInfo) {
	s.layoutInfo = info
}

// CanScrollForward reports whether content extends past the viewport end,
// based on the last layout snapshot.
func (s *State) CanScrollForward() bool {
	info := &s.layoutInfo
	if len(info.VisibleItems) == 0 {
		return false
	}
	last := info.VisibleItems[len(info.VisibleItems)-1]
	return last.Index < info.TotalItems-1 || last.Offset+last.Size > info.ViewportSize
}

// CanScrollBackward reports whether any content precedes the anchor.
func (s *State) CanScrollBackward() bool {
	return s.firstVisibleIndex > 0 || s.firstVisibleOffset > 0
}

// OnInvalidate registers a callback fired whenever a scroll input arrives
// (delta or jump), so an outer render loop can schedule a new frame.
// Returns a function that removes the callback.
func (s *State) OnInvalidate(fn func()) func() {
	id := s.nextCallbackID
	s.nextCallbackID++
	s.callbacks = append(s.callbacks, stateCallback{id: id, fn: fn})
	return func() {
		for i, cb := range s.callbacks {
			if cb.id == id {
				s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
				return
			}
		}
	}
}

func (s *State) invalidate() {
	for _, cb := range s.callbacks {
		cb.fn()
	}
}

// clampIndex clamps an index into [0, itemCount-1], or 0 for empty lists.
func clampIndex(index, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}
	if index >= itemCount {
		return itemCount - 1
	}
	if index < 0 {
		return 0
	}
	return index
}
