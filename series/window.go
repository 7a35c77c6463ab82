package series

import "slices"

const (
	// leftPad samples before the window keep the segment entering the
	// window intact.
	leftPad = 2
	// rightPad samples after the window keep the segment leaving it intact.
	rightPad = 1
)

// Select returns the samples needed to draw the X window
// [start, start+size], including padding samples on either side. A size of
// zero disables windowing and returns the whole series. The result is a
// view into the series and must not be modified.
//
// ErrEmptyWindow is returned when the series is empty or the window lies
// entirely before its first sample or after its last one.
func Select(s *Series, start, size float64) ([]Sample, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return selectWindow(s.samples, start, size)
}

func selectWindow(samples []Sample, start, size float64) ([]Sample, error) {
	n := len(samples)
	if n == 0 {
		return nil, ErrEmptyWindow
	}
	if size == 0 {
		return samples[:n:n], nil
	}
	// First sample with X >= start.
	lo, _ := slices.BinarySearchFunc(samples, Sample{X: start}, compareX)
	if lo == n {
		return nil, ErrEmptyWindow
	}
	end := Sample{X: start + size}
	// First sample with X > start+size.
	hi, found := slices.BinarySearchFunc(samples, end, compareX)
	for found && hi < n && samples[hi].X == end.X {
		hi++
	}
	if hi == 0 {
		return nil, ErrEmptyWindow
	}
	lo = max(lo-leftPad, 0)
	hi = min(hi+rightPad, n)
	return samples[lo:hi:hi], nil
}
