package lazylist

import "testing"

func BenchmarkMeasureScroll(b *testing.B) {
	const itemCount = 1_000_000
	state := NewState()
	config := DefaultConfig()
	measure := func(index int) MeasuredItem {
		return MeasuredItem{Index: index, Key: IndexKey(index), MainAxisSize: 48}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		state.DispatchScrollDelta(-48)
		Measure(itemCount, state, 800, 80, config, measure)
	}
}

func BenchmarkMeasureJump(b *testing.B) {
	const itemCount = 1_000_000
	state := NewState()
	config := DefaultConfig()
	measure := func(index int) MeasuredItem {
		return MeasuredItem{Index: index, Key: IndexKey(index), MainAxisSize: 48}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		state.ScrollToItem((i*7919)%itemCount, 0)
		Measure(itemCount, state, 800, 80, config, measure)
	}
}

func BenchmarkSlotPoolRecycle(b *testing.B) {
	pool := NewSlotPool()
	visible := []uint64{10, 11, 12, 13, 14}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for key := uint64(0); key < 15; key++ {
			childID := key
			if slot, ok := pool.TryGetSlot(0); ok {
				childID = slot.ChildID
			}
			pool.MarkInUse(key, 0, childID)
		}
		pool.ReleaseNonVisible(visible)
	}
}
