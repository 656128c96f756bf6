package lazylist

// KeyKind distinguishes user-supplied keys from default index-derived keys.
type KeyKind uint8

const (
	// KeyUser marks a key supplied by the caller.
	KeyUser KeyKind = iota
	// KeyIndex marks a default key derived from the item's index.
	KeyIndex
)

// indexSlotBit tags index-derived keys in the uint64 slot-id space so they
// can never compare equal to a user key with the same numeric value.
const indexSlotBit = uint64(1) << 63

// Key is a stable 64-bit identifier for a list item, independent of the
// item's current position. Keys let the scroll anchor survive inserts and
// removals before it: when the data set changes, the anchor item is found
// again by key and the anchor index is rebound.
//
// A Key is either user-supplied or index-derived; the two flavors never
// compare equal even for the same numeric value.
type Key struct {
	kind  KeyKind
	value uint64
}

// UserKey returns a user-supplied key.
func UserKey(v uint64) Key {
	return Key{kind: KeyUser, value: v}
}

// IndexKey returns the default key for an item at the given index.
func IndexKey(index int) Key {
	return Key{kind: KeyIndex, value: uint64(index)}
}

// Kind returns the key flavor.
func (k Key) Kind() KeyKind {
	return k.kind
}

// Value returns the raw key value without the flavor tag.
func (k Key) Value() uint64 {
	return k.value
}

// IsUser reports whether the key was supplied by the caller.
func (k Key) IsUser() bool {
	return k.kind == KeyUser
}

// IsIndex reports whether the key is a default index-derived key.
func (k Key) IsIndex() bool {
	return k.kind == KeyIndex
}

// SlotID flattens the key into a single uint64 for slot bookkeeping.
// Index-derived keys carry bit 63 so IndexKey(n) and UserKey(n) map to
// different slot identifiers for every n.
func (k Key) SlotID() uint64 {
	if k.kind == KeyIndex {
		return indexSlotBit | k.value
	}
	return k.value
}
