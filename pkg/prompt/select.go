package prompt

import (
	"math/rand"
	"time"
)

// Selector picks entries from a weighted table.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector with a time-seeded random source.
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSelectorWithSource creates a selector using the given random source.
// Tests pass a fixed-seed source for deterministic draws.
func NewSelectorWithSource(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Pick returns one entry's path, chosen with probability proportional to
// its weight. The table must be non-empty.
func (s *Selector) Pick(entries []Entry) string {
	total := TotalWeight(entries)

	// Uniform draw in [1, total], then walk the cumulative buckets.
	draw := s.rng.Intn(total) + 1
	cumulative := 0
	for _, e := range entries {
		cumulative += e.Weight
		if draw <= cumulative {
			return e.Path
		}
	}

	// Unreachable with correct arithmetic; defensive guard only.
	return entries[0].Path
}
