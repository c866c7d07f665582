package rule

import "sync/atomic"

// IDSupplier issues variable ids for one rule's compilation.
//
// Every structure derived while compiling the rule holds the same supplier,
// which makes decorated variable names unique across the whole structure
// family rather than within a single structure.
type IDSupplier interface {
	// Next returns an id strictly greater than every id returned before.
	Next() uint64
}

// Allocator is the default IDSupplier: a monotonic counter.
//
// One Allocator serves exactly one rule. Rules compiled concurrently each
// own their allocator; nothing is shared across that boundary. The counter
// is atomic so a misuse across goroutines still never repeats an id.
type Allocator struct {
	seq atomic.Uint64
}

// NewAllocator creates an allocator whose first id is 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns the next id and advances the counter.
func (a *Allocator) Next() uint64 {
	return a.seq.Add(1)
}

// Current returns the last issued id (0 if none) without advancing.
func (a *Allocator) Current() uint64 {
	return a.seq.Load()
}
