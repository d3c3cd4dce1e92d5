package pio

// OrderedMap is a hash-keyed mapping that preserves insertion order.
//
// The binary layout and the text form both follow insertion order, so the
// order is structural, not cosmetic. Entries are stored as parallel
// key/value slices with an auxiliary index map for O(1) lookup.
//
// The zero value is an empty map ready for use.
type OrderedMap[V any] struct {
	keys []uint32
	vals []V
	idx  map[uint32]int
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Get returns the value stored under the given hash key.
func (m *OrderedMap[V]) Get(key uint32) (V, bool) {
	if i, ok := m.idx[key]; ok {
		return m.vals[i], true
	}

	var zero V

	return zero, false
}

// Set inserts a new entry or replaces the value of an existing one.
// Replacing keeps the entry's original position.
func (m *OrderedMap[V]) Set(key uint32, val V) {
	if i, ok := m.idx[key]; ok {
		m.vals[i] = val
		return
	}

	if m.idx == nil {
		m.idx = make(map[uint32]int)
	}

	m.idx[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

// KeyAt returns the hash key of the entry at position i.
func (m *OrderedMap[V]) KeyAt(i int) uint32 {
	return m.keys[i]
}

// At returns the key and value of the entry at position i.
func (m *OrderedMap[V]) At(i int) (uint32, V) {
	return m.keys[i], m.vals[i]
}

// ValueAt returns a pointer to the value at position i, allowing in-place
// mutation without re-inserting.
func (m *OrderedMap[V]) ValueAt(i int) *V {
	return &m.vals[i]
}

// Keys returns the hash keys in insertion order. The returned slice is the
// map's backing storage and must not be modified.
func (m *OrderedMap[V]) Keys() []uint32 {
	return m.keys
}
