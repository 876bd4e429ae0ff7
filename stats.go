// SPDX-License-Identifier: Apache-2.0

package arena

// Stats is a snapshot of a segregated pool.
//
//   - Capacity: arena size in bytes
//   - Offset: bytes carved by bump allocation so far
//   - LiveBytes: bytes held by live blocks, headers included
//   - PeakBytes: high-water mark of LiveBytes
//   - Live / Free: live blocks and free-list nodes per size class
//   - Recycled / Bumped: cumulative allocations served from a free list or the stack
type Stats struct {
	Capacity  int
	Offset    int
	LiveBytes int
	PeakBytes int
	Live      [numClasses]uint32
	Free      [numClasses]uint32
	Recycled  uint64
	Bumped    uint64
}

// Stats returns current pool statistics. Free counts walk the lists.
func (p *SegregatedPool) Stats() Stats {
	s := Stats{
		Capacity:  p.Cap(),
		Offset:    p.Offset(),
		LiveBytes: p.Len(),
		PeakBytes: p.Peak(),
		Live:      p.live,
		Recycled:  p.recycled,
		Bumped:    p.bumped,
	}
	for c := SizeClass(0); c < numClasses; c++ {
		s.Free[c] = p.FreeCount(c)
	}
	return s
}
