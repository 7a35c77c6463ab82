// Package viewport tracks the visible X interval of a chart, applies pan,
// fling and zoom gestures to it, and maps data into screen space.
package viewport

import (
	"log/slog"
	"math"
	"slices"
	"sync"
)

// Default X domain used when there is no data.
const (
	DefaultMinX = 0
	DefaultMaxX = 100
)

// Domain reports the X extent of the data shown through a viewport. The ok
// result is false when there is no data at all.
type Domain interface {
	DomainX() (min, max float64, ok bool)
}

// DomainFunc adapts a function to the Domain interface.
type DomainFunc func() (min, max float64, ok bool)

func (f DomainFunc) DomainX() (min, max float64, ok bool) {
	return f()
}

// Listener is notified with the new window after every change.
type Listener func(start, size float64)

type listener struct {
	id int
	fn Listener
}

// Controller owns the visible window [start, start+size) over the X domain.
// A size of zero means the whole domain is shown and nothing is windowed.
//
// A Controller is safe for concurrent use. Listeners run on the goroutine
// that made the change, after the controller's lock has been released.
type Controller struct {
	mu          sync.Mutex
	domain      Domain
	start, size float64
	cfg         Config
	logger      *slog.Logger
	labels      labelCache
	listeners   []listener
	nextID      int
}

// New returns a Controller over domain. A nil domain behaves as an empty
// data set.
func New(domain Domain, opts ...Option) *Controller {
	c := &Controller{
		domain: domain,
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// domainX must not be called with c.mu held: implementations are free to
// take their own locks.
func (c *Controller) domainX() (min, max float64, ok bool) {
	if c.domain == nil {
		return DefaultMinX, DefaultMaxX, false
	}
	min, max, ok = c.domain.DomainX()
	if !ok {
		return DefaultMinX, DefaultMaxX, false
	}
	return min, max, true
}

// mutate runs f under the lock. When f reports a change, derived state is
// dropped and listeners are notified.
func (c *Controller) mutate(f func() bool) bool {
	c.mu.Lock()
	if !f() {
		c.mu.Unlock()
		return false
	}
	c.labels.invalidate()
	start, size := c.start, c.size
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, l := range listeners {
		l.fn(start, size)
	}
	return true
}

// OnChange registers fn to be called after every change of the window. The
// returned function unregisters it.
func (c *Controller) OnChange(fn Listener) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listeners = slices.DeleteFunc(c.listeners, func(l listener) bool {
			return l.id == id
		})
	}
}

// Viewport returns the raw window state.
func (c *Controller) Viewport() (start, size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start, c.size
}

// Window returns the visible X interval, resolving an unset viewport to the
// whole domain.
func (c *Controller) Window() (start, size float64) {
	min, max, _ := c.domainX()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.windowLocked(min, max)
}

func (c *Controller) windowLocked(min, max float64) (start, size float64) {
	if c.size == 0 {
		return min, max - min
	}
	return c.start, c.size
}

// CanScroll reports whether the window is narrower than the domain.
func (c *Controller) CanScroll() bool {
	min, max, _ := c.domainX()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size != 0 && c.size < max-min
}

// SetViewport sets the window verbatim. No clamping is applied.
func (c *Controller) SetViewport(start, size float64) {
	c.mutate(func() bool {
		c.start, c.size = start, size
		return true
	})
}

// SetSize changes the width of the window. When the viewport was unset, the
// window starts at the beginning of the domain.
func (c *Controller) SetSize(size float64) {
	min, _, _ := c.domainX()
	c.mutate(func() bool {
		if c.size == 0 {
			c.start = min
		}
		c.size = size
		return true
	})
}

// MoveToStart moves the window to the beginning of the domain.
func (c *Controller) MoveToStart() {
	min, _, _ := c.domainX()
	c.mutate(func() bool {
		c.start = min
		return true
	})
}

// MoveToEnd moves the window so that it ends at the end of the domain,
// without starting before the domain.
func (c *Controller) MoveToEnd() {
	min, max, _ := c.domainX()
	c.mutate(func() bool {
		c.start = math.Max(max-c.size, min)
		return true
	})
}

// Pan moves the window by delta screen pixels, where scale is the number of
// pixels per X unit. A positive delta drags the content to the right and so
// moves the window towards the beginning of the domain. The window is kept
// inside the domain. Pan does nothing while the viewport is unset or there
// is no data.
func (c *Controller) Pan(delta, scale float64) bool {
	return c.pan(delta, scale, false)
}

// FlingStep is Pan for inertial movement: once the window touches the end
// of the domain, steps that keep pushing towards the end are refused.
func (c *Controller) FlingStep(delta, scale float64) bool {
	return c.pan(delta, scale, true)
}

func (c *Controller) pan(delta, scale float64, inertial bool) bool {
	if !(scale > 0) || math.IsInf(scale, 0) || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return false
	}
	min, max, ok := c.domainX()
	if !ok {
		return false
	}
	return c.mutate(func() bool {
		if c.size == 0 {
			return false
		}
		if inertial && c.start+c.size >= max && delta < 0 {
			c.logger.Debug("viewport: fling refused at end of domain", "start", c.start, "size", c.size)
			return false
		}
		c.start -= delta / scale
		if c.start < min {
			c.start = min
		} else if c.start+c.size > max {
			c.start = max - c.size
		}
		return true
	})
}

// Zoom scales the width of the window by factor around its midpoint. A
// factor below one zooms in. When the window grows it is pulled back inside
// the domain and capped at the domain width; a shrinking window is not
// re-clamped. Zoom does nothing while the viewport is unset, and refuses to
// grow the window over a domain of a single X, since capping it there would
// leave a zero size, which means unset.
func (c *Controller) Zoom(factor float64) bool {
	if !(factor > 0) || math.IsInf(factor, 0) {
		c.logger.Debug("viewport: ignoring zoom", "factor", factor)
		return false
	}
	min, max, _ := c.domainX()
	return c.mutate(func() bool {
		if c.size == 0 {
			return false
		}
		newSize := c.size * factor
		diff := newSize - c.size
		if diff > 0 && max <= min {
			return false
		}
		c.start -= diff / 2
		c.size = newSize
		if diff > 0 {
			c.clampGrown(min, max)
		}
		return true
	})
}

func (c *Controller) clampGrown(min, max float64) {
	if c.start < min {
		c.start = min
	}
	overlap := c.start + c.size - max
	if overlap > 0 {
		if c.start-overlap > min {
			c.start -= overlap
		} else {
			// The window covers the whole domain.
			c.start = min
			c.size = max - min
		}
	}
}

// Invalidate drops state derived from the data, such as cached labels. It
// must be called when the set of series or their bounds change.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels.invalidate()
}
