package lanes

import (
	"math/rand/v2"
	"sync"
)

// ArraySource produces the shared arrays the lanes sort.
type ArraySource interface {
	// Ints returns n values in the inclusive range [lo, hi].
	Ints(n, lo, hi int) []int
}

// RandomSource draws uniformly distributed values.
type RandomSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a source seeded with seed, or randomly seeded when seed is 0.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		return &RandomSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &RandomSource{r: rand.New(rand.NewPCG(seed, seed))}
}

func (s *RandomSource) Ints(n, lo, hi int) []int {
	if hi < lo {
		lo, hi = hi, lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = lo + s.r.IntN(hi-lo+1)
	}
	return out
}
