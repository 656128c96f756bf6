package lazylist

// DefaultReuseSlotCount is the default number of recycled slots kept per
// content type.
const DefaultReuseSlotCount = 7

// ReusePolicy bounds the slot pool: how many detached slots to keep per
// content type, and whether recycling is enabled at all.
type ReusePolicy struct {
	MaxSlotsPerType int
	Enabled         bool
}

// DefaultReusePolicy returns the standard recycling policy.
func DefaultReusePolicy() ReusePolicy {
	return ReusePolicy{MaxSlotsPerType: DefaultReuseSlotCount, Enabled: true}
}

// DisabledReusePolicy turns recycling off entirely.
func DisabledReusePolicy() ReusePolicy {
	return ReusePolicy{}
}

// Slot is an instantiated item container. While in use it is bound to one
// item key; once that key leaves the visible set the slot becomes
// available for rebinding to another item of the same content type.
type Slot struct {
	// Key is the slot id of the item currently (or last) bound.
	Key uint64

	// ContentType is the reuse bucket; 0 means untyped.
	ContentType uint64

	// ChildID identifies the instantiated content node held by the slot.
	ChildID uint64

	// InUse reports whether the slot is bound to a visible item.
	InUse bool
}

// SlotPool tracks instantiated item slots across measurement passes. Each
// slot is either in use (keyed by item key) or available (bucketed by
// content type, capped per bucket). Slots evicted past the cap are
// discarded outright; bounding memory is the point.
type SlotPool struct {
	available map[uint64][]Slot
	inUse     map[uint64]Slot
	policy    ReusePolicy
}

// NewSlotPool creates a pool with the default policy.
func NewSlotPool() *SlotPool {
	return NewSlotPoolWithPolicy(DefaultReusePolicy())
}

// NewSlotPoolWithPolicy creates a pool with the given policy.
func NewSlotPoolWithPolicy(policy ReusePolicy) *SlotPool {
	return &SlotPool{
		available: make(map[uint64][]Slot),
		inUse:     make(map[uint64]Slot),
		policy:    policy,
	}
}

// TryGetSlot pops an available slot from the bucket for the given content
// type (0 = untyped). Returns false when recycling is disabled or the
// bucket is empty.
func (p *SlotPool) TryGetSlot(contentType uint64) (Slot, bool) {
	if !p.policy.Enabled {
		return Slot{}, false
	}
	bucket := p.available[contentType]
	if len(bucket) == 0 {
		return Slot{}, false
	}
	slot := bucket[len(bucket)-1]
	p.available[contentType] = bucket[:len(bucket)-1]
	return slot, true
}

// MarkInUse binds (or rebinds) the slot for an item key.
func (p *SlotPool) MarkInUse(key, contentType, childID uint64) {
	p.inUse[key] = Slot{
		Key:         key,
		ContentType: contentType,
		ChildID:     childID,
		InUse:       true,
	}
}

// GetInUse returns the in-use slot bound to a key, if any.
func (p *SlotPool) GetInUse(key uint64) (Slot, bool) {
	slot, ok := p.inUse[key]
	return slot, ok
}

// ReturnSlot detaches an in-use slot and files it in its type bucket,
// discarding it if the bucket is at capacity.
func (p *SlotPool) ReturnSlot(slot Slot) {
	if !p.policy.Enabled {
		return
	}
	delete(p.inUse, slot.Key)
	p.fileAvailable(slot)
}

// ReleaseNonVisible moves every in-use slot whose key is absent from
// visibleKeys into its type bucket, subject to the per-type cap.
func (p *SlotPool) ReleaseNonVisible(visibleKeys []uint64) {
	visible := make(map[uint64]struct{}, len(visibleKeys))
	for _, k := range visibleKeys {
		visible[k] = struct{}{}
	}
	for key, slot := range p.inUse {
		if _, ok := visible[key]; ok {
			continue
		}
		delete(p.inUse, key)
		p.fileAvailable(slot)
	}
}

func (p *SlotPool) fileAvailable(slot Slot) {
	bucket := p.available[slot.ContentType]
	if len(bucket) >= p.policy.MaxSlotsPerType {
		return // bucket full, drop the slot
	}
	slot.InUse = false
	p.available[slot.ContentType] = append(bucket, slot)
}

// AvailableCount returns the number of slots waiting for reuse across all
// buckets.
func (p *SlotPool) AvailableCount() int {
	n := 0
	for _, bucket := range p.available {
		n += len(bucket)
	}
	return n
}

// InUseCount returns the number of slots currently bound to items.
func (p *SlotPool) InUseCount() int {
	return len(p.inUse)
}

// Clear drops every slot, in use or not.
func (p *SlotPool) Clear() {
	p.available = make(map[uint64][]Slot)
	p.inUse = make(map[uint64]Slot)
}
