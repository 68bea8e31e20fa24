package dice

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness provider for rolls.
type Source interface {
	// Intn returns a random int in [0, n). n is always positive.
	Intn(n int) int
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(n int) int

// Intn calls f(n).
func (f SourceFunc) Intn(n int) int { return f(n) }

type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.IntN(n) //nolint:gosec // trigger rolls are not security sensitive
}

// DefaultSource returns a Source backed by the process-wide math/rand/v2 generator.
func DefaultSource() Source { return globalSource{} }

// seededSource is reproducible for a given seed.
type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic Source. Identical seeds replay
// identical roll sequences.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))} //nolint:gosec // seeded for replay
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// SequenceSource replays a fixed list of zero-based values, cycling when
// exhausted. Each value is reduced modulo n. Intended for tests and replays.
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequenceSource returns a SequenceSource over values.
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

// Intn returns the next value modulo n.
func (s *SequenceSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}
