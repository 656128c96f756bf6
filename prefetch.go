package lazylist

// PrefetchStrategy configures how many items to instantiate ahead of the
// visible window during idle time.
type PrefetchStrategy struct {
	// Count is the number of items to prefetch beyond the visible area.
	Count int

	// Enabled turns prefetching on or off.
	Enabled bool
}

// DefaultPrefetchStrategy prefetches two items in the scroll direction.
func DefaultPrefetchStrategy() PrefetchStrategy {
	return PrefetchStrategy{Count: 2, Enabled: true}
}

// PrefetchStrategyOf returns an enabled strategy with the given count.
func PrefetchStrategyOf(count int) PrefetchStrategy {
	return PrefetchStrategy{Count: count, Enabled: true}
}

// DisabledPrefetchStrategy turns prefetching off.
func DisabledPrefetchStrategy() PrefetchStrategy {
	return PrefetchStrategy{}
}

// PrefetchScheduler queues item indices just outside the visible window
// for idle-time instantiation, and tracks which indices have already been
// materialized so distant ones can be retired.
type PrefetchScheduler struct {
	queue      []int
	prefetched map[int]struct{}
}

// Update rebuilds the queue from the current visible window and scroll
// direction. Forward or neutral direction queues indices after the window;
// backward queues indices before it. Out-of-range candidates are omitted.
func (p *PrefetchScheduler) Update(firstVisible, lastVisible, totalItems int, direction float64, strategy PrefetchStrategy) {
	p.queue = p.queue[:0]
	if !strategy.Enabled {
		return
	}
	if direction >= 0 {
		for i := 1; i <= strategy.Count; i++ {
			index := lastVisible + i
			if index < totalItems {
				p.queue = append(p.queue, index)
			}
		}
		return
	}
	for i := 1; i <= strategy.Count; i++ {
		if firstVisible >= i {
			p.queue = append(p.queue, firstVisible-i)
		}
	}
}

// NextPrefetch pops the next index to prefetch, FIFO.
func (p *PrefetchScheduler) NextPrefetch() (int, bool) {
	if len(p.queue) == 0 {
		return 0, false
	}
	index := p.queue[0]
	p.queue = p.queue[1:]
	return index, true
}

// Pending returns the queued indices without consuming them.
func (p *PrefetchScheduler) Pending() []int {
	return p.queue
}

// MarkPrefetched records that an index has been materialized.
func (p *PrefetchScheduler) MarkPrefetched(index int) {
	if p.prefetched == nil {
		p.prefetched = make(map[int]struct{})
	}
	p.prefetched[index] = struct{}{}
}

// IsPrefetched reports whether an index is materialized and not retired.
func (p *PrefetchScheduler) IsPrefetched(index int) bool {
	_, ok := p.prefetched[index]
	return ok
}

// CleanupDistantPrefetches retires materialized indices outside
// [firstVisible-keepDistance, lastVisible+keepDistance].
func (p *PrefetchScheduler) CleanupDistantPrefetches(firstVisible, lastVisible, keepDistance int) {
	lo := firstVisible - keepDistance
	hi := lastVisible + keepDistance
	for index := range p.prefetched {
		if index < lo || index > hi {
			delete(p.prefetched, index)
		}
	}
}
