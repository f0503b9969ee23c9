package weather

import (
	"math/rand/v2"
	"sync"
)

// Rand is the source of the placeholder values the dashboard fills in where
// no real data exists. Tests pass a seeded generator.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand draws from the process-wide generator.
func DefaultRand() Rand { return globalRand{} }

// NewSeededRand returns a reproducible generator.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// lockedRand makes a seeded generator safe for concurrent updates.
type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func newLockedRand(r Rand) Rand {
	if r == nil {
		return DefaultRand()
	}
	return &lockedRand{r: r}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
