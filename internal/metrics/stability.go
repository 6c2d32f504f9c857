package metrics

import (
	"math"

	"cablesim/internal/dynamo"
)

// rateSlack widens the rate bound relative to the position threshold. A
// bounded oscillation can carry rates well above its displacement envelope,
// so rates are only flagged an order of magnitude out.
const rateSlack = 10.0

// Stability reports the fraction of samples whose state stays bounded:
// every position within the threshold, every rate within rateSlack times
// the threshold, and no non-finite components anywhere.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, x, v dynamo.State) {
	s.samples++
	if exceeds(x, s.threshold) || exceeds(v, rateSlack*s.threshold) {
		s.violations++
	}
}

func exceeds(vals dynamo.State, limit float64) bool {
	for _, val := range vals {
		if math.Abs(val) > limit || math.IsNaN(val) {
			return true
		}
	}
	return false
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
