package examples

import (
	"sync"
	"time"

	"github.com/pilot-uwb/pilot-go/pkg/ranging"
)

// RotatingHeading simulates a host that turns at a constant rate, for
// exercising relative bearing computation. Satisfies
// engine.HeadingProvider.
type RotatingHeading struct {
	mu         sync.Mutex
	startedAt  time.Time
	degPerSec  float64
	initialDeg float64
}

// NewRotatingHeading creates a heading source starting at initialDeg and
// rotating degPerSec degrees per second.
func NewRotatingHeading(initialDeg, degPerSec float64) *RotatingHeading {
	return &RotatingHeading{
		startedAt:  time.Now(),
		degPerSec:  degPerSec,
		initialDeg: initialDeg,
	}
}

// Heading returns the current simulated heading in degrees, normalized to
// (-180, 180].
func (r *RotatingHeading) Heading() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	elapsed := time.Since(r.startedAt).Seconds()
	return ranging.NormalizeBearing(r.initialDeg + r.degPerSec*elapsed)
}
