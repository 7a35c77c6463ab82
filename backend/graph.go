package backend

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"sync"

	"github.com/phantomis/GraphView/series"
	"github.com/phantomis/GraphView/viewport"
)

var (
	// ErrUnknownSeries is returned for handles that were never issued or
	// whose series has been removed.
	ErrUnknownSeries = errors.New("unknown series")
	// ErrSeriesHidden is returned when asking for the visible part of a
	// hidden series.
	ErrSeriesHidden = errors.New("series hidden")
)

// Handle identifies a series within a Graph. Handles are never reused.
type Handle int

// Point is a position in screen space.
type Point struct {
	X, Y float64
}

// Trace is the projected, windowed form of one visible series.
type Trace struct {
	Handle Handle
	Label  string
	Color  color.NRGBA
	Points []Point
}

type graphConfig struct {
	logger    *slog.Logger
	cacheSize int
	viewport  []viewport.Option
}

// GraphOption configures a Graph.
type GraphOption func(*graphConfig)

// WithLogger sets the logger of the graph and its viewport.
func WithLogger(logger *slog.Logger) GraphOption {
	return func(c *graphConfig) {
		c.logger = logger
	}
}

// WithCacheSize sets how many projected traces are kept.
func WithCacheSize(size int) GraphOption {
	return func(c *graphConfig) {
		c.cacheSize = size
	}
}

// WithViewportOptions passes options to the graph's viewport controller.
func WithViewportOptions(opts ...viewport.Option) GraphOption {
	return func(c *graphConfig) {
		c.viewport = append(c.viewport, opts...)
	}
}

// Graph is a collection of series viewed through a single viewport.
type Graph struct {
	lock   sync.RWMutex
	series map[Handle]*series.Series
	order  []Handle
	next   Handle

	manualY    bool
	minY, maxY float64

	listeners []func()

	vp     *viewport.Controller
	paths  *pathCache
	logger *slog.Logger
}

// NewGraph returns an empty graph.
func NewGraph(opts ...GraphOption) (*Graph, error) {
	cfg := graphConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	paths, err := newPathCache(cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed creating path cache: %w", err)
	}
	g := &Graph{
		series: make(map[Handle]*series.Series),
		paths:  paths,
		logger: cfg.logger,
	}
	vpOpts := append([]viewport.Option{viewport.WithLogger(cfg.logger)}, cfg.viewport...)
	g.vp = viewport.New(g, vpOpts...)
	return g, nil
}

// Viewport returns the controller of the visible window.
func (g *Graph) Viewport() *viewport.Controller {
	return g.vp
}

// OnSeriesChange registers fn to run after series are added, removed,
// appended to or shown and hidden.
func (g *Graph) OnSeriesChange(fn func()) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.listeners = append(g.listeners, fn)
}

// changed must be called without g.lock held.
func (g *Graph) changed() {
	g.vp.Invalidate()
	g.lock.RLock()
	listeners := slices.Clone(g.listeners)
	g.lock.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

func (g *Graph) lookup(h Handle) (*series.Series, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	s, ok := g.series[h]
	if !ok {
		return nil, fmt.Errorf("series %d: %w", h, ErrUnknownSeries)
	}
	return s, nil
}

// AddSeries adds s to the graph.
func (g *Graph) AddSeries(s *series.Series) Handle {
	g.lock.Lock()
	h := g.next
	g.next++
	g.series[h] = s
	g.order = append(g.order, h)
	g.lock.Unlock()
	g.logger.Debug("graph: added series", "handle", h, "label", s.Label(), "samples", s.Len())
	g.changed()
	return h
}

// RemoveSeries removes the series of h.
func (g *Graph) RemoveSeries(h Handle) error {
	g.lock.Lock()
	if _, ok := g.series[h]; !ok {
		g.lock.Unlock()
		return fmt.Errorf("series %d: %w", h, ErrUnknownSeries)
	}
	delete(g.series, h)
	g.order = slices.DeleteFunc(g.order, func(o Handle) bool { return o == h })
	g.paths.Remove(h)
	g.lock.Unlock()
	g.changed()
	return nil
}

// Append adds a sample to the end of the series of h.
func (g *Graph) Append(h Handle, sample series.Sample) error {
	s, err := g.lookup(h)
	if err != nil {
		return err
	}
	if err := s.Append(sample); err != nil {
		return err
	}
	g.changed()
	return nil
}

// SetVisible shows or hides the series of h.
func (g *Graph) SetVisible(h Handle, visible bool) error {
	s, err := g.lookup(h)
	if err != nil {
		return err
	}
	s.SetVisible(visible)
	g.changed()
	return nil
}

// Toggle flips the visibility of the series of h.
func (g *Graph) Toggle(h Handle) error {
	s, err := g.lookup(h)
	if err != nil {
		return err
	}
	s.SetVisible(!s.Visible())
	g.changed()
	return nil
}

// Series returns the series of h.
func (g *Graph) Series(h Handle) (*series.Series, error) {
	return g.lookup(h)
}

// Handles returns the handles of all series in insertion order.
func (g *Graph) Handles() []Handle {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return slices.Clone(g.order)
}

// Data returns the i'th sample of the series of h.
func (g *Graph) Data(h Handle, i int) (series.Sample, error) {
	s, err := g.lookup(h)
	if err != nil {
		return series.Sample{}, err
	}
	if n := s.Len(); i < 0 || i >= n {
		return series.Sample{}, fmt.Errorf("index %d of %d samples: %w", i, n, series.ErrInvalidArgument)
	}
	return s.At(i), nil
}

// LastData returns the last sample of the series of h.
func (g *Graph) LastData(h Handle) (series.Sample, error) {
	s, err := g.lookup(h)
	if err != nil {
		return series.Sample{}, err
	}
	return s.Last()
}

// SeriesLen returns the number of samples in the series of h.
func (g *Graph) SeriesLen(h Handle) (int, error) {
	s, err := g.lookup(h)
	if err != nil {
		return 0, err
	}
	return s.Len(), nil
}

// DomainX returns the X extent of all non-empty series, visible or not.
func (g *Graph) DomainX() (dMin, dMax float64, ok bool) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	for _, h := range g.order {
		s := g.series[h]
		if s.Len() == 0 {
			continue
		}
		b := s.Bounds()
		if !ok {
			dMin, dMax, ok = b.MinX, b.MaxX, true
			continue
		}
		dMin = min(dMin, b.MinX)
		dMax = max(dMax, b.MaxX)
	}
	return dMin, dMax, ok
}

// RangeY returns the Y range shown by the graph: the manual bounds if set,
// otherwise the extent of the visible non-empty series.
func (g *Graph) RangeY() (rMin, rMax float64) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	if g.manualY {
		return g.minY, g.maxY
	}
	found := false
	for _, h := range g.order {
		s := g.series[h]
		if !s.Visible() || s.Len() == 0 {
			continue
		}
		b := s.Bounds()
		if !found {
			rMin, rMax, found = b.MinY, b.MaxY, true
			continue
		}
		rMin = min(rMin, b.MinY)
		rMax = max(rMax, b.MaxY)
	}
	if !found {
		return series.DefaultBounds.MinY, series.DefaultBounds.MaxY
	}
	return rMin, rMax
}

// SetManualYBounds fixes the Y range instead of following the data.
func (g *Graph) SetManualYBounds(minY, maxY float64) error {
	if !(minY < maxY) {
		return fmt.Errorf("y bounds [%g, %g]: %w", minY, maxY, series.ErrInvalidArgument)
	}
	g.lock.Lock()
	g.manualY = true
	g.minY, g.maxY = minY, maxY
	g.lock.Unlock()
	g.vp.Invalidate()
	return nil
}

// ClearManualYBounds makes the Y range follow the data again.
func (g *Graph) ClearManualYBounds() {
	g.lock.Lock()
	g.manualY = false
	g.lock.Unlock()
	g.vp.Invalidate()
}

// VisibleSlice returns the samples of h needed to draw the current window.
// It returns series.ErrEmptyWindow when none are.
func (g *Graph) VisibleSlice(h Handle) ([]series.Sample, error) {
	s, err := g.lookup(h)
	if err != nil {
		return nil, err
	}
	if !s.Visible() {
		return nil, fmt.Errorf("series %d: %w", h, ErrSeriesHidden)
	}
	start, size := g.vp.Viewport()
	return series.Select(s, start, size)
}

// Projection returns the mapping of the current window and Y range onto r.
func (g *Graph) Projection(r viewport.Rect) (viewport.Projection, error) {
	start, size := g.vp.Window()
	minY, maxY := g.RangeY()
	return viewport.NewProjection(viewport.Window{
		Start: start,
		Size:  size,
		MinY:  minY,
		MaxY:  maxY,
	}, r)
}

// MapToScreen maps a sample of the series of h into r.
func (g *Graph) MapToScreen(h Handle, sample series.Sample, r viewport.Rect) (x, y float64, err error) {
	if _, err := g.lookup(h); err != nil {
		return 0, 0, err
	}
	p, err := g.Projection(r)
	if err != nil {
		return 0, 0, err
	}
	x, y = p.Map(sample)
	return x, y, nil
}

// Frame windows and projects every visible series into r. Series with
// nothing inside the window are left out. It returns
// viewport.ErrDegenerateRange when there is nothing sensible to draw.
//
// The points of a trace are shared with the cache and must not be modified.
func (g *Graph) Frame(r viewport.Rect) ([]Trace, error) {
	p, err := g.Projection(r)
	if err != nil {
		return nil, err
	}
	start, size := g.vp.Viewport()
	handles := g.Handles()
	traces := make([]Trace, 0, len(handles))
	for _, h := range handles {
		s, err := g.lookup(h)
		if err != nil {
			// Removed concurrently.
			continue
		}
		if !s.Visible() {
			continue
		}
		key := pathKey{
			generation: s.Generation(),
			window:     p.Window(),
			rect:       r,
		}
		points, ok := g.paths.lookup(h, key)
		if !ok {
			samples, err := series.Select(s, start, size)
			if errors.Is(err, series.ErrEmptyWindow) {
				continue
			} else if err != nil {
				return nil, fmt.Errorf("series %d: %w", h, err)
			}
			points = make([]Point, len(samples))
			for i, sample := range samples {
				points[i].X, points[i].Y = p.Map(sample)
			}
			g.paths.store(h, key, points)
		}
		traces = append(traces, Trace{
			Handle: h,
			Label:  s.Label(),
			Color:  s.Color(),
			Points: points,
		})
	}
	return traces, nil
}
