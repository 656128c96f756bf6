package lazylist

import (
	"math"
	"testing"
)

// uniformItems returns a measure callback producing items of one size, and
// a map counting how often each index was measured.
func uniformItems(size float64) (MeasureItemFunc, map[int]int) {
	calls := make(map[int]int)
	fn := func(index int) MeasuredItem {
		calls[index]++
		return MeasuredItem{
			Index:         index,
			Key:           IndexKey(index),
			MainAxisSize:  size,
			CrossAxisSize: 10,
		}
	}
	return fn, calls
}

func totalCalls(calls map[int]int) int {
	n := 0
	for _, c := range calls {
		n += c
	}
	return n
}

func TestMeasure(t *testing.T) {
	t.Run("EmptyList", func(t *testing.T) {
		state := NewState()
		result := Measure(0, state, 500, 100, DefaultConfig(), func(int) MeasuredItem {
			t.Fatalf("measure callback must not run for an empty list")
			return MeasuredItem{}
		})
		if len(result.VisibleItems) != 0 {
			t.Errorf("expected no visible items")
		}
		if result.CanScrollForward || result.CanScrollBackward {
			t.Errorf("expected no scroll capability")
		}
	})

	t.Run("ZeroViewport", func(t *testing.T) {
		state := NewState()
		result := Measure(10, state, 0, 100, DefaultConfig(), func(int) MeasuredItem {
			t.Fatalf("measure callback must not run for a zero viewport")
			return MeasuredItem{}
		})
		if len(result.VisibleItems) != 0 {
			t.Errorf("expected no visible items")
		}
	})

	t.Run("SingleItemFits", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)
		result := Measure(1, state, 500, 100, DefaultConfig(), items)

		if len(result.VisibleItems) != 1 {
			t.Fatalf("expected 1 visible item, got %d", len(result.VisibleItems))
		}
		if result.FirstVisibleItemIndex != 0 || result.FirstVisibleItemScrollOffset != 0 {
			t.Errorf("expected anchor (0, 0)")
		}
		if result.CanScrollForward || result.CanScrollBackward {
			t.Errorf("expected no scrolling for content that fits")
		}
	})

	t.Run("WindowFromListStart", func(t *testing.T) {
		state := NewState()
		items, calls := uniformItems(50)
		result := Measure(10, state, 200, 100, DefaultConfig(), items)

		// 4 items fill the viewport plus 2 beyond-bounds after it.
		if len(result.VisibleItems) != 6 {
			t.Fatalf("expected 6 measured items, got %d", len(result.VisibleItems))
		}
		for i, item := range result.VisibleItems {
			if item.Index != i {
				t.Errorf("expected index %d at position %d, got %d", i, i, item.Index)
			}
			if want := float64(i) * 50; item.Offset != want {
				t.Errorf("expected offset %v for item %d, got %v", want, i, item.Offset)
			}
		}
		if totalCalls(calls) != 6 {
			t.Errorf("expected each item measured once, got %d calls", totalCalls(calls))
		}
		if !result.CanScrollForward {
			t.Errorf("expected forward scroll available")
		}
		if result.CanScrollBackward {
			t.Errorf("expected no backward scroll at the start")
		}
		if result.TotalContentSize != 500 {
			t.Errorf("expected total content size 500, got %v", result.TotalContentSize)
		}
	})

	t.Run("WindowAroundMidAnchor", func(t *testing.T) {
		state := NewStateAt(3, 25)
		items, calls := uniformItems(50)
		result := Measure(10, state, 200, 100, DefaultConfig(), items)

		// Window holds indices 3..7, buffers add 1..2 and 8..9.
		if len(result.VisibleItems) != 9 {
			t.Fatalf("expected 9 measured items, got %d", len(result.VisibleItems))
		}
		if result.VisibleItems[0].Index != 1 {
			t.Errorf("expected buffer to start at index 1, got %d", result.VisibleItems[0].Index)
		}
		if result.FirstVisibleItemIndex != 3 || result.FirstVisibleItemScrollOffset != 25 {
			t.Errorf("expected anchor (3, 25), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
		for index, count := range calls {
			if count != 1 {
				t.Errorf("expected index %d measured once, got %d", index, count)
			}
		}
		if !result.CanScrollForward || !result.CanScrollBackward {
			t.Errorf("expected scrolling available both ways")
		}
	})

	t.Run("Idempotence", func(t *testing.T) {
		state := NewStateAt(3, 25)
		items, _ := uniformItems(50)

		first := Measure(10, state, 200, 100, DefaultConfig(), items)
		second := Measure(10, state, 200, 100, DefaultConfig(), items)

		if first.FirstVisibleItemIndex != second.FirstVisibleItemIndex ||
			first.FirstVisibleItemScrollOffset != second.FirstVisibleItemScrollOffset {
			t.Errorf("expected stable anchor, got (%d, %v) then (%d, %v)",
				first.FirstVisibleItemIndex, first.FirstVisibleItemScrollOffset,
				second.FirstVisibleItemIndex, second.FirstVisibleItemScrollOffset)
		}
		if len(first.VisibleItems) != len(second.VisibleItems) {
			t.Fatalf("expected same window, got %d then %d items",
				len(first.VisibleItems), len(second.VisibleItems))
		}
		for i := range first.VisibleItems {
			if first.VisibleItems[i].Offset != second.VisibleItems[i].Offset {
				t.Errorf("expected stable offset for item %d", i)
			}
		}
	})

	t.Run("ForwardDelta", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)

		// Negative delta scrolls forward by 60px: one full item plus 10px.
		state.DispatchScrollDelta(-60)
		result := Measure(20, state, 200, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 1 || result.FirstVisibleItemScrollOffset != 10 {
			t.Errorf("expected anchor (1, 10), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
		if !result.CanScrollBackward {
			t.Errorf("expected backward scroll after moving forward")
		}
	})

	t.Run("BackwardDelta", func(t *testing.T) {
		state := NewStateAt(5, 0)
		for i := 0; i < 6; i++ {
			state.CacheItemSize(i, 50)
		}
		items, _ := uniformItems(50)

		// Positive delta scrolls backward by 75px: one cached item plus 25px.
		state.DispatchScrollDelta(75)
		result := Measure(20, state, 200, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 3 || result.FirstVisibleItemScrollOffset != 25 {
			t.Errorf("expected anchor (3, 25), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
	})

	t.Run("BackwardOverscrollClampsToStart", func(t *testing.T) {
		state := NewStateAt(1, 10)
		state.CacheItemSize(0, 50)
		items, _ := uniformItems(50)

		state.DispatchScrollDelta(500)
		result := Measure(10, state, 200, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 0 || result.FirstVisibleItemScrollOffset != 0 {
			t.Errorf("expected anchor clamped to (0, 0), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
		if result.CanScrollBackward {
			t.Errorf("expected no backward scroll at the start")
		}
	})

	t.Run("BulkJumpBackward", func(t *testing.T) {
		state := NewStateAt(500, 0)
		state.CacheItemSize(0, 50) // seeds the running average at 50
		items, calls := uniformItems(50)

		// 10000px backward is exactly 200 average-sized items.
		state.DispatchScrollDelta(10000)
		result := Measure(1000, state, 200, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 300 || result.FirstVisibleItemScrollOffset != 0 {
			t.Errorf("expected anchor (300, 0), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
		if got := totalCalls(calls); got > 12 {
			t.Errorf("expected work bounded by the window, got %d measurements", got)
		}
	})

	t.Run("BulkJumpForward", func(t *testing.T) {
		state := NewState()
		state.CacheItemSize(0, 50)
		items, calls := uniformItems(50)

		// 15000px forward is exactly 300 average-sized items.
		state.DispatchScrollDelta(-15000)
		result := Measure(1000, state, 200, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 300 || result.FirstVisibleItemScrollOffset != 0 {
			t.Errorf("expected anchor (300, 0), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
		if got := totalCalls(calls); got > 20 {
			t.Errorf("expected work bounded by the window, got %d measurements", got)
		}
	})

	t.Run("JumpToItem", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)

		state.ScrollToItem(42, 0)
		result := Measure(100, state, 200, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 42 || result.FirstVisibleItemScrollOffset != 0 {
			t.Errorf("expected anchor (42, 0), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
	})

	t.Run("JumpBeyondEndClamps", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)

		state.ScrollToItem(500, 0)
		result := Measure(100, state, 50, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 99 {
			t.Errorf("expected anchor clamped to 99, got %d", result.FirstVisibleItemIndex)
		}
		if result.CanScrollForward {
			t.Errorf("expected no forward scroll at the end")
		}
	})

	t.Run("EndEdgeClamp", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)

		// Jumping to the last item leaves 150px of empty viewport; the
		// window shifts so the last item ends flush with the viewport.
		state.ScrollToItem(9, 0)
		result := Measure(10, state, 200, 100, DefaultConfig(), items)

		last := result.VisibleItems[len(result.VisibleItems)-1]
		if last.Index != 9 {
			t.Fatalf("expected last item 9, got %d", last.Index)
		}
		if end := last.Offset + last.MainAxisSize; end != 200 {
			t.Errorf("expected last item flush at 200, got %v", end)
		}
		if result.FirstVisibleItemIndex != 7 {
			t.Errorf("expected anchor pulled back to 7, got %d", result.FirstVisibleItemIndex)
		}
		if result.CanScrollForward {
			t.Errorf("expected no forward scroll at the end")
		}
		if !result.CanScrollBackward {
			t.Errorf("expected backward scroll available")
		}
	})

	t.Run("AnchorRepublishSkipsHiddenItems", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(1)

		// 3px forward with 1px items: the anchor lands on index 3 exactly.
		state.DispatchScrollDelta(-3)
		result := Measure(100, state, 5, 100, DefaultConfig(), items)

		if result.FirstVisibleItemIndex != 3 || result.FirstVisibleItemScrollOffset != 0 {
			t.Errorf("expected anchor (3, 0), got (%d, %v)",
				result.FirstVisibleItemIndex, result.FirstVisibleItemScrollOffset)
		}
	})

	t.Run("InfiniteViewport", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)
		result := Measure(1000, state, math.Inf(1), 100, DefaultConfig(), items)

		want := (DefaultItemSizeEstimate) * estimatedViewportItems
		if result.ViewportSize != want {
			t.Errorf("expected substitute viewport %v, got %v", want, result.ViewportSize)
		}
		if len(result.VisibleItems) != 22 {
			t.Errorf("expected 22 measured items, got %d", len(result.VisibleItems))
		}
	})

	t.Run("ScanCapOnZeroSizedItems", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(0)
		result := Measure(10000, state, 100, 100, DefaultConfig(), items)

		want := maxVisibleItems + DefaultConfig().BeyondBoundsItemCount
		if len(result.VisibleItems) != want {
			t.Errorf("expected scan capped at %d items, got %d", want, len(result.VisibleItems))
		}
	})

	t.Run("SpacingAndPadding", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)
		config := DefaultConfig()
		config.Spacing = 2
		config.BeforeContentPadding = 5
		config.AfterContentPadding = 7

		result := Measure(100, state, 200, 100, config, items)

		if result.VisibleItems[0].Offset != 5 {
			t.Errorf("expected first item after the leading padding, got %v", result.VisibleItems[0].Offset)
		}
		if result.VisibleItems[1].Offset != 57 {
			t.Errorf("expected spacing between items, got offset %v", result.VisibleItems[1].Offset)
		}
		want := 5.0 + 52*100 - 2 + 7
		if result.TotalContentSize != want {
			t.Errorf("expected total content size %v, got %v", want, result.TotalContentSize)
		}
	})

	t.Run("MeasuredSizesFeedCache", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)
		Measure(10, state, 200, 100, DefaultConfig(), items)

		if size, ok := state.CachedSize(0); !ok || size != 50 {
			t.Errorf("expected measured size cached, got %v ok=%v", size, ok)
		}
		if state.AverageItemSize() != 50 {
			t.Errorf("expected average 50, got %v", state.AverageItemSize())
		}
	})

	t.Run("LayoutInfoPublished", func(t *testing.T) {
		state := NewState()
		items, _ := uniformItems(50)
		result := Measure(10, state, 200, 100, DefaultConfig(), items)

		info := state.LayoutInfo()
		if info.TotalItems != 10 {
			t.Errorf("expected 10 total items, got %d", info.TotalItems)
		}
		if len(info.VisibleItems) != len(result.VisibleItems) {
			t.Errorf("expected snapshot of %d items, got %d",
				len(result.VisibleItems), len(info.VisibleItems))
		}
		if info.ViewportSize != 200 {
			t.Errorf("expected viewport 200, got %v", info.ViewportSize)
		}
		if !state.CanScrollForward() {
			t.Errorf("expected forward capability from the snapshot")
		}
	})

	t.Run("AnchorKeySurvivesReorder", func(t *testing.T) {
		keys := []uint64{10, 20, 30}
		state := NewStateAt(2, 0)
		measure := func(index int) MeasuredItem {
			return MeasuredItem{
				Index:        index,
				Key:          UserKey(keys[index]),
				MainAxisSize: 50,
			}
		}
		Measure(3, state, 50, 100, DefaultConfig(), measure)
		if state.FirstVisibleItemIndex() != 2 {
			t.Fatalf("expected anchor at index 2, got %d", state.FirstVisibleItemIndex())
		}

		// Item with key 30 moves to the front of the data set.
		keys = []uint64{30, 10, 20}
		state.UpdateScrollPositionIfItemMoved(3, func(k Key) (int, bool) {
			for i, v := range keys {
				if UserKey(v) == k {
					return i, true
				}
			}
			return 0, false
		})
		result := Measure(3, state, 50, 100, DefaultConfig(), measure)

		if result.FirstVisibleItemIndex != 0 {
			t.Errorf("expected anchor following key 30 to index 0, got %d", result.FirstVisibleItemIndex)
		}
		if result.VisibleItems[0].Key != UserKey(30) {
			t.Errorf("expected first visible key 30, got %v", result.VisibleItems[0].Key.Value())
		}
	})
}
