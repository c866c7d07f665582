package testutil

import "sync"

// DeterministicAllocator is a resettable variable id supplier for tests.
//
// Unlike rule.Allocator it records every issued id, so tests can assert on
// how many ids a transformation drew, and it can be reset so the same rule
// compiles to identical variable names across subtests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicAllocator struct {
	mu     sync.Mutex
	seq    uint64
	issued []uint64
}

// NewDeterministicAllocator creates an allocator whose first id is 1.
func NewDeterministicAllocator() *DeterministicAllocator {
	return &DeterministicAllocator{}
}

// Next increments and returns the next id.
func (a *DeterministicAllocator) Next() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	a.issued = append(a.issued, a.seq)
	return a.seq
}

// Current returns the last issued id without incrementing.
func (a *DeterministicAllocator) Current() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}

// Issued returns a copy of every id issued since creation or Reset.
func (a *DeterministicAllocator) Issued() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64(nil), a.issued...)
}

// Reset rewinds the allocator. After Reset, Next returns 1.
func (a *DeterministicAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq = 0
	a.issued = nil
}
