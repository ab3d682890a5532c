package dispatch

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sampler is the injectable randomness source behind failure simulation and
// gas-fee tiering. Production code shares one locked source; tests substitute
// a deterministic one to force success or failure paths.
type Sampler interface {
	// Float64 returns a uniform value in [0.0, 1.0).
	Float64() float64
}

// SampleFunc adapts a plain function to the Sampler interface.
type SampleFunc func() float64

func (f SampleFunc) Float64() float64 { return f() }

type lockedSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a Sampler backed by its own seeded source. Safe for
// concurrent use.
func NewSampler() Sampler {
	return &lockedSampler{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *lockedSampler) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// SimulateFailure draws from the sampler and returns a ProcessingError with
// the given reason when the draw lands below the failure rate.
func SimulateFailure(s Sampler, rate float64, reason string) error {
	if s.Float64() < rate {
		return &ProcessingError{Reason: reason}
	}
	return nil
}

// NewIdentifier generates a collision-resistant identifier of the form
// PREFIX-XXXXXXXX, where the suffix is the first eight hex characters of a
// fresh UUID. Safe under concurrent calls.
func NewIdentifier(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}
