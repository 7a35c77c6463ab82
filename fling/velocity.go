package fling

import (
	"math"
	"time"
)

const (
	// horizon is how far back samples contribute to the estimate.
	horizon    = 100 * time.Millisecond
	maxSamples = 20
)

type point struct {
	t time.Time
	x float64
}

// VelocityTracker estimates pointer velocity from recent positions.
type VelocityTracker struct {
	samples []point
}

// Add records the pointer position x at time t. Samples older than the
// tracking horizon are discarded.
func (v *VelocityTracker) Add(t time.Time, x float64) {
	v.samples = append(v.samples, point{t: t, x: x})
	drop := 0
	for drop < len(v.samples)-1 && t.Sub(v.samples[drop].t) > horizon {
		drop++
	}
	drop = max(drop, len(v.samples)-maxSamples)
	if drop > 0 {
		v.samples = v.samples[:copy(v.samples, v.samples[drop:])]
	}
}

// Velocity returns the least-squares velocity in pixels per second,
// clamped to [-maxVelocity, maxVelocity] when maxVelocity is positive.
func (v *VelocityTracker) Velocity(maxVelocity float64) float64 {
	n := len(v.samples)
	if n < 2 {
		return 0
	}
	origin := v.samples[0].t
	var meanT, meanX float64
	for _, p := range v.samples {
		meanT += p.t.Sub(origin).Seconds()
		meanX += p.x
	}
	meanT /= float64(n)
	meanX /= float64(n)
	var num, den float64
	for _, p := range v.samples {
		dt := p.t.Sub(origin).Seconds() - meanT
		num += dt * (p.x - meanX)
		den += dt * dt
	}
	if den == 0 {
		return 0
	}
	vel := num / den
	if maxVelocity > 0 {
		vel = math.Max(-maxVelocity, math.Min(vel, maxVelocity))
	}
	return vel
}

// Reset forgets all samples.
func (v *VelocityTracker) Reset() {
	v.samples = v.samples[:0]
}
