// Package phys implements the kernel's physical frame allocator.
//
// # Overview
//
// Physical memory is tracked as a sparse, ordered list of regions, one per
// usable firmware memory-map entry. Each region holds a per-frame state
// array (unusable, allocated, free) over 4KiB units. The Manager allocates
// contiguous, size-aligned runs of frames in 4KiB, 2MiB, and 1GiB page
// sizes and keeps a first-free cursor so the common allocation path does
// not rescan the whole state array.
//
// # Two-stage bootstrap
//
// The allocator comes up in two stages:
//
//   - Stage 1: a bump allocator over the raw firmware map. Usable before any
//     heap exists. Hands out the next never-issued 4KiB frame; supports no
//     deallocation and no other page size.
//   - Stage 2: the full region-based Manager. Construction replays every
//     frame issued by stage 1 so no allocation is lost across the swap.
//
// Staged owns the transition and is the facade the rest of the kernel calls.
//
// # Invariants
//
// The first-free cursor always names the lexicographically smallest
// (region, frame) pair whose frame is free, or nothing when memory is
// exhausted. A contiguous allocation never crosses a region boundary, even
// when two regions are physically adjacent. Frame states only move between
// free and allocated; unusable is permanent.
//
// # Thread safety
//
// Manager and BumpAllocator are not thread-safe. Staged serializes all
// operations behind its own mutex and is safe for concurrent use.
package phys
