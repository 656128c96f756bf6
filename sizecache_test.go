package lazylist

import "testing"

func TestSizeCache(t *testing.T) {
	t.Run("DefaultAverage", func(t *testing.T) {
		c := newSizeCache()
		if c.averageSize() != DefaultItemSizeEstimate {
			t.Errorf("expected default average %v, got %v", DefaultItemSizeEstimate, c.averageSize())
		}
	})

	t.Run("FirstMeasurementReplacesDefault", func(t *testing.T) {
		c := newSizeCache()
		c.put(0, 50)
		if c.averageSize() != 50 {
			t.Errorf("expected average 50, got %v", c.averageSize())
		}
	})

	t.Run("RunningMean", func(t *testing.T) {
		c := newSizeCache()
		c.put(0, 50)
		c.put(1, 100)
		if c.averageSize() != 75 {
			t.Errorf("expected average 75, got %v", c.averageSize())
		}
	})

	t.Run("GetHitAndMiss", func(t *testing.T) {
		c := newSizeCache()
		c.put(3, 42)
		if size, ok := c.get(3); !ok || size != 42 {
			t.Errorf("expected 42, got %v ok=%v", size, ok)
		}
		if _, ok := c.get(4); ok {
			t.Errorf("expected miss for unmeasured index")
		}
	})

	t.Run("RemeasureUpdatesValueNotMean", func(t *testing.T) {
		c := newSizeCache()
		c.put(0, 50)
		c.put(1, 100)
		c.put(0, 10)
		if size, _ := c.get(0); size != 10 {
			t.Errorf("expected updated size 10, got %v", size)
		}
		if c.averageSize() != 75 {
			t.Errorf("re-measurement must not change the mean, got %v", c.averageSize())
		}
	})

	t.Run("EvictsOldest", func(t *testing.T) {
		c := newSizeCache()
		for i := 0; i < sizeCacheCapacity; i++ {
			c.put(i, 50)
		}
		c.put(sizeCacheCapacity, 50)
		if _, ok := c.get(0); ok {
			t.Errorf("expected index 0 evicted")
		}
		if _, ok := c.get(1); !ok {
			t.Errorf("expected index 1 retained")
		}
		if _, ok := c.get(sizeCacheCapacity); !ok {
			t.Errorf("expected newest index retained")
		}
	})

	t.Run("RemeasureRefreshesLRU", func(t *testing.T) {
		c := newSizeCache()
		for i := 0; i < sizeCacheCapacity; i++ {
			c.put(i, 50)
		}
		c.put(0, 60) // index 0 becomes the most recently used
		c.put(sizeCacheCapacity, 50)
		if _, ok := c.get(0); !ok {
			t.Errorf("expected re-measured index 0 retained")
		}
		if _, ok := c.get(1); ok {
			t.Errorf("expected index 1 evicted instead")
		}
	})
}
