package slab

// Iter walks all slots of all currently linked segments in index order.
// It only follows already-published links and never grows the chain.
type Iter[V any] struct {
	segment *segment[V]
	index   int
}

// Iter returns a fresh iterator positioned at slot 0. Call again for a
// restarted walk.
func (s *Slab[V]) Iter() *Iter[V] {
	return &Iter[V]{segment: s.head}
}

// Next returns the next slot, or ok = false once the walk has passed the
// last slot of the last linked segment.
func (it *Iter[V]) Next() (*V, bool) {
	if it.segment == nil {
		return nil, false
	}
	if it.index >= len(it.segment.elements) {
		it.segment = it.segment.tryNext()
		if it.segment == nil {
			return nil, false
		}
		it.index = 0
	}
	v := &it.segment.elements[it.index]
	it.index++
	return v, true
}
