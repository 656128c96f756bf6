package lazylist

import (
	"math"

	"github.com/charmbracelet/log"
)

const (
	// DefaultItemSizeEstimate is the assumed main-axis size of an item
	// before anything has been measured.
	DefaultItemSizeEstimate = 48.0

	// maxReasonableViewport is the sanity threshold above which a
	// viewport is treated as unbounded.
	maxReasonableViewport = 100_000.0

	// estimatedViewportItems is how many items the substitute viewport
	// shows when the real viewport is unbounded.
	estimatedViewportItems = 20

	// maxVisibleItems caps the visible-window scan so a pathological
	// configuration (zero-size items, broken spacing) cannot loop
	// forever.
	maxVisibleItems = 500
)

// Config controls one lazy list's measurement behavior.
type Config struct {
	// Vertical selects the main axis: true for a column, false for a row.
	// The core algorithm is axis-agnostic; orchestration uses this to map
	// sizes and offsets onto the right dimension.
	Vertical bool

	// ReverseLayout is reserved for bottom-up/right-to-left lists.
	ReverseLayout bool

	// BeforeContentPadding is the padding before the first item.
	BeforeContentPadding float64

	// AfterContentPadding is the padding after the last item.
	AfterContentPadding float64

	// Spacing is the gap between adjacent items.
	Spacing float64

	// BeyondBoundsItemCount is how many extra items to measure on each
	// side of the visible window to reduce jank during fast scrolling.
	BeyondBoundsItemCount int
}

// DefaultConfig returns the configuration for a plain vertical list.
func DefaultConfig() Config {
	return Config{
		Vertical:              true,
		BeyondBoundsItemCount: 2,
	}
}

// MeasuredItem is one item instantiated and measured during a pass. The
// measure callback fills in everything except Offset, which the algorithm
// assigns during placement.
type MeasuredItem struct {
	Index int
	Key   Key

	// ContentType is the slot-reuse bucket; 0 means untyped.
	ContentType uint64

	MainAxisSize  float64
	CrossAxisSize float64
	Offset        float64

	// ChildIDs identify the instantiated content nodes belonging to this
	// item, so the placement phase can position them.
	ChildIDs []uint64
}

// ItemInfo converts the measured item into its layout snapshot form.
func (m *MeasuredItem) ItemInfo() ItemInfo {
	return ItemInfo{
		Index:  m.Index,
		Key:    m.Key,
		Offset: m.Offset,
		Size:   m.MainAxisSize,
	}
}

// Result is the outcome of one measurement pass.
type Result struct {
	// VisibleItems are the items to place, in index order, including the
	// beyond-bounds buffers.
	VisibleItems []MeasuredItem

	// FirstVisibleItemIndex and FirstVisibleItemScrollOffset are the
	// republished anchor.
	FirstVisibleItemIndex        int
	FirstVisibleItemScrollOffset float64

	// ViewportSize is the effective viewport used for the pass (may be
	// the substitute size when the real viewport was unbounded).
	ViewportSize float64

	// TotalContentSize estimates the full content extent for scrollbars.
	TotalContentSize float64

	CanScrollForward  bool
	CanScrollBackward bool
}

// MeasureItemFunc instantiates and measures the item at an index. It is
// called at most once per index per pass. The returned item's Offset is
// ignored; the algorithm assigns it.
type MeasureItemFunc func(index int) MeasuredItem

// Measure runs one virtualized measurement pass: it consumes the state's
// pending scroll delta and jump request, normalizes the anchor, measures
// only the items inside (and just outside) the viewport, clamps the window
// at both content edges, and republishes the anchor and layout snapshot
// into the state.
//
// Work is O(visible window), never O(itemCount): large scroll offsets are
// resolved by jumping whole items using the running average size.
func Measure(itemCount int, state *State, viewportSize, crossAxisSize float64, config Config, measureItem MeasureItemFunc) Result {
	_ = crossAxisSize // cross-axis constraints are the callback's concern

	if itemCount == 0 || viewportSize <= 0 {
		return Result{}
	}

	// An unbounded viewport means the list sits inside an unconstrained
	// ancestor. Substitute a finite estimate so measurement stays bounded.
	effectiveViewport := viewportSize
	if math.IsInf(viewportSize, 1) || viewportSize > maxReasonableViewport {
		average := math.Max(state.AverageItemSize(), DefaultItemSizeEstimate)
		effectiveViewport = (average + config.Spacing) * estimatedViewportItems
		log.Warn("lazylist: unbounded viewport, using estimated size; wrap the list in a constrained container",
			"viewport", viewportSize, "estimated", effectiveViewport)
	}

	// Resolve the anchor: an explicit jump wins over the current position.
	var firstIndex int
	var firstOffset float64
	if jump, ok := state.consumeScrollToIndex(); ok {
		firstIndex = clampIndex(jump.index, itemCount)
		firstOffset = jump.offset
	} else {
		firstIndex = clampIndex(state.FirstVisibleItemIndex(), itemCount)
		firstOffset = state.FirstVisibleItemScrollOffset()
	}

	// The delta follows the content: a drag-down gesture produces a
	// positive delta and reveals earlier items, so a negative delta grows
	// the anchor offset and scrolls forward.
	delta := state.consumeScrollDelta()
	firstOffset -= delta

	// Backward normalization: walk the anchor to earlier items while the
	// offset is negative. A fling larger than one viewport first jumps
	// whole items using the average size instead of walking one by one.
	if firstOffset < 0 && firstIndex > 0 {
		average := state.AverageItemSize()

		if average > 0 && firstOffset < -effectiveViewport {
			pixelsToJump := -firstOffset - effectiveViewport
			itemsToJump := int(math.Floor(pixelsToJump / (average + config.Spacing)))
			if itemsToJump > firstIndex {
				itemsToJump = firstIndex
			}
			if itemsToJump > 0 {
				firstIndex -= itemsToJump
				firstOffset += float64(itemsToJump) * (average + config.Spacing)
			}
		}

		for firstOffset < 0 && firstIndex > 0 {
			firstIndex--
			size, ok := state.CachedSize(firstIndex)
			if !ok {
				size = state.AverageItemSize()
			}
			firstOffset += size + config.Spacing
		}
	}

	firstIndex = clampIndex(firstIndex, itemCount)
	if firstOffset < 0 {
		firstOffset = 0
	}

	// Forward normalization: symmetric bulk skip for forward flings. A
	// one-viewport buffer is kept unskipped to absorb size variance.
	if firstOffset > effectiveViewport {
		average := state.AverageItemSize()
		if average > 0 {
			pixelsToSkip := firstOffset - effectiveViewport
			itemsToSkip := int(math.Floor(pixelsToSkip / average))
			if maxSkip := itemCount - 1 - firstIndex; itemsToSkip > maxSkip {
				itemsToSkip = maxSkip
			}
			if itemsToSkip > 0 {
				firstIndex += itemsToSkip
				firstOffset -= float64(itemsToSkip) * average
			}
		}
	}

	// Visible-window scan.
	var visible []MeasuredItem
	currentOffset := config.BeforeContentPadding - firstOffset
	viewportEnd := effectiveViewport - config.AfterContentPadding

	currentIndex := firstIndex
	for currentIndex < itemCount && currentOffset < viewportEnd && len(visible) < maxVisibleItems {
		item := measureItem(currentIndex)
		item.Offset = currentOffset
		currentOffset += item.MainAxisSize + config.Spacing
		visible = append(visible, item)
		currentIndex++
	}

	// Beyond-bounds buffer after the window.
	for i := 0; i < config.BeyondBoundsItemCount && currentIndex < itemCount; i++ {
		item := measureItem(currentIndex)
		item.Offset = currentOffset
		currentOffset += item.MainAxisSize + config.Spacing
		visible = append(visible, item)
		currentIndex++
	}

	// Beyond-bounds buffer before the window, measured in reverse and
	// prepended with offsets computed backward from the first item.
	if firstIndex > 0 && len(visible) > 0 {
		beforeCount := config.BeyondBoundsItemCount
		if beforeCount > firstIndex {
			beforeCount = firstIndex
		}
		before := make([]MeasuredItem, 0, beforeCount)
		beforeOffset := visible[0].Offset
		for i := 0; i < beforeCount; i++ {
			item := measureItem(firstIndex - 1 - i)
			beforeOffset -= item.MainAxisSize + config.Spacing
			item.Offset = beforeOffset
			before = append(before, item)
		}
		for i, j := 0, len(before)-1; i < j; i, j = i+1, j-1 {
			before[i], before[j] = before[j], before[i]
		}
		visible = append(before, visible...)
	}

	// Start edge clamp: never leave a gap before the true first item.
	if firstOffset > 0 && len(visible) > 0 {
		first := visible[0]
		if first.Index == 0 && first.Offset > config.BeforeContentPadding {
			adjustment := first.Offset - config.BeforeContentPadding
			for i := range visible {
				visible[i].Offset -= adjustment
			}
		}
	}

	// End edge clamp: keep the true last item flush with the viewport end
	// unless that would pull the first item past the start padding.
	if len(visible) > 0 {
		last := visible[len(visible)-1]
		lastEnd := last.Offset + last.MainAxisSize
		if last.Index == itemCount-1 && lastEnd < viewportEnd {
			adjustment := viewportEnd - lastEnd
			firstAfter := visible[0].Offset + adjustment
			if firstAfter <= config.BeforeContentPadding || visible[0].Index > 0 {
				for i := range visible {
					visible[i].Offset += adjustment
				}
			}
		}
	}

	totalContentSize := estimateTotalContentSize(itemCount, visible, config, state.AverageItemSize())

	// Republish the anchor: the first item whose trailing edge extends
	// past the leading padding, with its key recorded for stability.
	finalIndex, finalOffset := 0, 0.0
	anchorFound := false
	var anchor MeasuredItem
	for _, item := range visible {
		if item.Offset+item.MainAxisSize > config.BeforeContentPadding {
			anchor = item
			anchorFound = true
			break
		}
	}
	switch {
	case anchorFound:
		finalIndex = anchor.Index
		finalOffset = math.Max(config.BeforeContentPadding-anchor.Offset, 0)
		state.updateScrollPositionWithKey(finalIndex, finalOffset, anchor.Key)
	case len(visible) > 0:
		finalIndex = visible[0].Index
		state.updateScrollPositionWithKey(finalIndex, 0, visible[0].Key)
	default:
		state.updateScrollPosition(0, 0)
	}

	// Feed this pass's sizes into the cache for future estimates.
	infos := make([]ItemInfo, len(visible))
	for i := range visible {
		state.CacheItemSize(visible[i].Index, visible[i].MainAxisSize)
		infos[i] = visible[i].ItemInfo()
	}

	state.updateLayoutInfo(LayoutInfo{
		VisibleItems:         infos,
		TotalItems:           itemCount,
		ViewportSize:         effectiveViewport,
		ViewportStartOffset:  config.BeforeContentPadding,
		ViewportEndOffset:    config.AfterContentPadding,
		BeforeContentPadding: config.BeforeContentPadding,
		AfterContentPadding:  config.AfterContentPadding,
	})

	canScrollBackward := finalIndex > 0 || finalOffset > 0
	canScrollForward := false
	if len(visible) > 0 {
		last := visible[len(visible)-1]
		canScrollForward = last.Index < itemCount-1 || last.Offset+last.MainAxisSize > viewportEnd
	}

	return Result{
		VisibleItems:                 visible,
		FirstVisibleItemIndex:        finalIndex,
		FirstVisibleItemScrollOffset: finalOffset,
		ViewportSize:                 effectiveViewport,
		TotalContentSize:             totalContentSize,
		CanScrollForward:             canScrollForward,
		CanScrollBackward:            canScrollBackward,
	}
}

// estimateTotalContentSize extrapolates the full content extent from this
// pass's measured items, falling back to the state's running average when
// nothing was measured.
func estimateTotalContentSize(itemCount int, measured []MeasuredItem, config Config, stateAverage float64) float64 {
	if itemCount == 0 {
		return 0
	}
	average := stateAverage
	if len(measured) > 0 {
		var total float64
		for _, item := range measured {
			total += item.MainAxisSize
		}
		average = total / float64(len(measured))
	}
	return config.BeforeContentPadding +
		(average+config.Spacing)*float64(itemCount) - config.Spacing +
		config.AfterContentPadding
}
