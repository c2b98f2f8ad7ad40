// Package slab provides an unbounded, append-only, randomly-indexable
// collection of zero-valued slots, organized as fixed-capacity segments in
// a singly linked chain.
//
// The chain grows lock-free: looking up an index whose segment already
// exists takes no synchronization beyond an atomic pointer load, and
// concurrent callers extending the chain race through a single
// compare-and-swap per segment boundary. At most one segment is ever
// linked per chain position; a loser's speculative segment is discarded
// before any reference to it escapes.
//
// The slab distributes safe references, not safe mutation: callers that
// mutate slots concurrently must make the slot type internally
// synchronized, for example by embedding a mutex.
package slab

import "sync/atomic"

// segment is one fixed-capacity chunk of slots plus the atomically
// published link to its successor.
type segment[V any] struct {
	elements []V
	next     atomic.Pointer[segment[V]]
}

func newSegment[V any](capacity int) *segment[V] {
	return &segment[V]{elements: make([]V, capacity)}
}

// tryNext returns the already-published successor, or nil. The acquire
// load guarantees a fully initialized segment whenever the pointer is seen.
func (s *segment[V]) tryNext() *segment[V] {
	return s.next.Load()
}

// nextOrGrow returns the successor, publishing a freshly allocated segment
// when none is linked yet. The new segment is allocated speculatively and
// linked with a compare-and-swap; when another caller publishes first, the
// speculative segment is dropped (no reference to it ever escaped) and the
// winner's segment is returned.
func (s *segment[V]) nextOrGrow(capacity int) *segment[V] {
	if next := s.next.Load(); next != nil {
		return next
	}
	fresh := newSegment[V](capacity)
	if s.next.CompareAndSwap(nil, fresh) {
		return fresh
	}
	return s.next.Load()
}

// Slab is a growable collection of slots of type V. The zero value is not
// usable; construct with New.
type Slab[V any] struct {
	segmentSize int
	head        *segment[V]
}

// New creates a slab whose chain grows in segments of segmentSize slots.
// Panics if segmentSize is not positive.
func New[V any](segmentSize int) *Slab[V] {
	if segmentSize <= 0 {
		panic("slab: segment size must be positive")
	}
	return &Slab[V]{
		segmentSize: segmentSize,
		head:        newSegment[V](segmentSize),
	}
}

// Get returns a pointer to the slot at index, growing the chain as needed.
// Safe for concurrent use. Panics if index is negative.
func (s *Slab[V]) Get(index int) *V {
	if index < 0 {
		panic("slab: negative index")
	}
	seg := s.head
	for n := index / s.segmentSize; n > 0; n-- {
		seg = seg.nextOrGrow(s.segmentSize)
	}
	return &seg.elements[index%s.segmentSize]
}

// TryGet returns a pointer to the slot at index if its segment has already
// been materialized. Never allocates. Safe for concurrent use.
func (s *Slab[V]) TryGet(index int) (*V, bool) {
	if index < 0 {
		return nil, false
	}
	seg := s.head
	for n := index / s.segmentSize; n > 0; n-- {
		seg = seg.tryNext()
		if seg == nil {
			return nil, false
		}
	}
	return &seg.elements[index%s.segmentSize], true
}

// SegmentSize returns the number of slots per segment.
func (s *Slab[V]) SegmentSize() int {
	return s.segmentSize
}

// NumSegments returns how many segments are currently linked. Intended for
// introspection and tests; the result may be stale under concurrent growth.
func (s *Slab[V]) NumSegments() int {
	n := 0
	for seg := s.head; seg != nil; seg = seg.tryNext() {
		n++
	}
	return n
}
