// internal/dating/matching.go

package dating

import (
	"hash/fnv"
	"sync"
)

// CanonicalPair orders two user ids so the smaller one comes first
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// PairKey identifies the unordered pair {a, b}
func PairKey(a, b string) string {
	lo, hi := CanonicalPair(a, b)
	return lo + ":" + hi
}

const pairLockStripes = 64

// PairLocker serializes work on an unordered user pair within one process.
// Distinct pairs may share a stripe.
type PairLocker struct {
	stripes [pairLockStripes]sync.Mutex
}

// NewPairLocker creates a striped pair lock
func NewPairLocker() *PairLocker {
	return &PairLocker{}
}

// Lock blocks until the pair's stripe is held and returns its release func
func (l *PairLocker) Lock(a, b string) func() {
	h := fnv.New32a()
	h.Write([]byte(PairKey(a, b)))
	mu := &l.stripes[h.Sum32()%pairLockStripes]
	mu.Lock()
	return mu.Unlock
}
