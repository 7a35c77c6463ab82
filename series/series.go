// Package series stores sorted (x, y) data sets and selects the part of a
// data set that falls inside a visible window.
package series

import (
	"cmp"
	"fmt"
	"image/color"
	"math"
	"slices"
	"sync"
)

// Sample is a single datapoint. Samples are ordered by X only.
type Sample struct {
	X, Y float64
}

// Bounds is the bounding box of a series.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// DefaultBounds are reported by a series without samples.
var DefaultBounds = Bounds{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}

// DefaultColor is used when a series is created with the zero color.
var DefaultColor = color.NRGBA{R: 0x00, G: 0x77, B: 0xcc, A: 0xff}

// Series represents one data set in a visualization.
type Series struct {
	lock       sync.RWMutex
	samples    []Sample
	bounds     Bounds
	color      color.NRGBA
	label      string
	hidden     bool
	generation uint64
}

func compareX(a, b Sample) int {
	return cmp.Compare(a.X, b.X)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// New copies samples into a new series sorted by X. Passing a nil slice is
// an error; an empty slice yields a series with default bounds. Samples
// with a NaN or infinite coordinate are rejected with ErrInvalidArgument.
func New(samples []Sample, c color.NRGBA, label string) (*Series, error) {
	if samples == nil {
		return nil, fmt.Errorf("nil samples: %w", ErrInvalidArgument)
	}
	for i, s := range samples {
		if !finite(s.X) || !finite(s.Y) {
			return nil, fmt.Errorf("sample %d is (%g, %g): %w", i, s.X, s.Y, ErrInvalidArgument)
		}
	}
	if c == (color.NRGBA{}) {
		c = DefaultColor
	}
	s := &Series{
		samples: slices.Clone(samples),
		color:   c,
		label:   label,
	}
	slices.SortStableFunc(s.samples, compareX)
	s.updateAllBounds()
	return s, nil
}

// updateAllBounds recomputes the bounds with a full scan.
func (s *Series) updateAllBounds() {
	if len(s.samples) == 0 {
		s.bounds = DefaultBounds
		return
	}
	first := s.samples[0]
	b := Bounds{
		MinX: first.X,
		MaxX: s.samples[len(s.samples)-1].X,
		MinY: first.Y,
		MaxY: first.Y,
	}
	for _, sample := range s.samples[1:] {
		b.MinY = min(b.MinY, sample.Y)
		b.MaxY = max(b.MaxY, sample.Y)
	}
	s.bounds = b
}

// Append adds a sample to the end of the series. The sample's X must be
// strictly greater than the X of the current last sample, otherwise the
// series is left unmodified and an *OrderError is returned. Non-finite
// coordinates are rejected with ErrInvalidArgument.
func (s *Series) Append(sample Sample) error {
	if !finite(sample.X) || !finite(sample.Y) {
		return fmt.Errorf("append (%g, %g): %w", sample.X, sample.Y, ErrInvalidArgument)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.samples) == 0 {
		s.samples = append(s.samples, sample)
		s.bounds = Bounds{MinX: sample.X, MaxX: sample.X, MinY: sample.Y, MaxY: sample.Y}
		s.generation++
		return nil
	}
	last := s.samples[len(s.samples)-1]
	if sample.X <= last.X {
		return &OrderError{Last: last.X, Got: sample.X}
	}
	s.samples = append(s.samples, sample)
	s.bounds.MaxX = sample.X
	s.bounds.MinY = min(s.bounds.MinY, sample.Y)
	s.bounds.MaxY = max(s.bounds.MaxY, sample.Y)
	s.generation++
	return nil
}

func (s *Series) Bounds() Bounds {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.bounds
}

func (s *Series) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.samples)
}

// At returns the sample at index i. It panics if i is out of range.
func (s *Series) At(i int) Sample {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.samples[i]
}

// Last returns the sample with the largest X.
func (s *Series) Last() (Sample, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.samples) == 0 {
		return Sample{}, ErrEmptyState
	}
	return s.samples[len(s.samples)-1], nil
}

// Samples returns a read-only view of every sample in the series.
func (s *Series) Samples() []Sample {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.samples[:len(s.samples):len(s.samples)]
}

// Generation increases every time a sample is appended.
func (s *Series) Generation() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.generation
}

func (s *Series) Color() color.NRGBA {
	return s.color
}

func (s *Series) Label() string {
	return s.label
}

// SetVisible controls whether the series is drawn. Hidden series keep
// their data.
func (s *Series) SetVisible(visible bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.hidden = !visible
}

func (s *Series) Visible() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return !s.hidden
}
