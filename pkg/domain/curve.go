package domain

import (
	"fmt"
	"math"
)

// Sample is one recorded point of the titration curve.
type Sample struct {
	Volume float64 `json:"volume"`
	PH     float64 `json:"ph"`
}

// Curve is the append-only record of titration samples.
//
// Volumes must never decrease. A sample at the same volume as its
// predecessor is accepted and appended as a duplicate: the trace stays
// faithful to the tick history instead of rewriting it. Curve is not
// safe for concurrent use; the run machine owns it exclusively.
type Curve struct {
	samples []Sample
}

// NewCurve creates an empty curve.
func NewCurve() *Curve {
	return &Curve{}
}

// Append records a sample. It fails with ErrNonMonotonicVolume when the
// volume regresses or is not a finite number.
func (c *Curve) Append(s Sample) error {
	if math.IsNaN(s.Volume) || math.IsInf(s.Volume, 0) {
		return fmt.Errorf("sample volume %v is not finite: %w", s.Volume, ErrNonMonotonicVolume)
	}
	if last, ok := c.Last(); ok && s.Volume < last.Volume {
		return fmt.Errorf("sample volume %g precedes last recorded %g: %w", s.Volume, last.Volume, ErrNonMonotonicVolume)
	}
	c.samples = append(c.samples, s)
	return nil
}

// Samples returns a copy of the recorded points in insertion order.
func (c *Curve) Samples() []Sample {
	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Last returns the most recent sample, if any.
func (c *Curve) Last() (Sample, bool) {
	if len(c.samples) == 0 {
		return Sample{}, false
	}
	return c.samples[len(c.samples)-1], true
}

// Len returns the number of recorded samples.
func (c *Curve) Len() int {
	return len(c.samples)
}

// Reset discards every recorded sample.
func (c *Curve) Reset() {
	c.samples = nil
}
