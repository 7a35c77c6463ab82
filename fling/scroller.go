// Package fling animates inertial scrolling after a drag is released.
package fling

import (
	"math"
	"time"
)

// DefaultDeceleration is the deceleration applied by a zero Scroller, in
// pixels per second squared.
const DefaultDeceleration = 2000

// Scroller computes the position of a decelerating fling. It holds no
// timers: callers ask for the offset on each frame and stop asking once
// Finished reports true.
type Scroller struct {
	// Deceleration in pixels per second squared. Zero means
	// DefaultDeceleration.
	Deceleration float64

	start, min, max float64
	velocity        float64
	began           time.Time
	duration        float64
	pos             float64
	finished        bool
}

func (s *Scroller) deceleration() float64 {
	if s.Deceleration <= 0 {
		return DefaultDeceleration
	}
	return s.Deceleration
}

// Fling starts an animation at position start moving with velocity pixels
// per second. The position never leaves [min, max].
func (s *Scroller) Fling(now time.Time, start, velocity, min, max float64) {
	if max < min {
		max = min
	}
	s.min, s.max = min, max
	s.start = math.Max(min, math.Min(start, max))
	s.pos = s.start
	s.velocity = velocity
	s.began = now
	s.duration = math.Abs(velocity) / s.deceleration()
	s.finished = velocity == 0 || math.IsNaN(velocity)
}

// Offset returns the position at time now. The ok result is false when
// the animation had already finished before this call, in which case the
// position is the final one.
func (s *Scroller) Offset(now time.Time) (pos float64, ok bool) {
	if s.finished {
		return s.pos, false
	}
	t := max(now.Sub(s.began).Seconds(), 0)
	if t >= s.duration {
		t = s.duration
		s.finished = true
	}
	dir := 1.0
	if s.velocity < 0 {
		dir = -1
	}
	pos = s.start + s.velocity*t - dir*s.deceleration()*t*t/2
	if pos <= s.min {
		pos = s.min
		s.finished = true
	} else if pos >= s.max {
		pos = s.max
		s.finished = true
	}
	s.pos = pos
	return pos, true
}

// Velocity returns the current signed velocity at time now.
func (s *Scroller) Velocity(now time.Time) float64 {
	if s.finished {
		return 0
	}
	t := min(max(now.Sub(s.began).Seconds(), 0), s.duration)
	speed := math.Abs(s.velocity) - s.deceleration()*t
	return math.Copysign(max(speed, 0), s.velocity)
}

// Abort stops the animation at its last computed position.
func (s *Scroller) Abort() {
	s.finished = true
}

// Finished reports whether the animation has come to rest.
func (s *Scroller) Finished() bool {
	return s.finished
}
