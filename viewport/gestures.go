package viewport

import (
	"math"
	"time"

	"github.com/phantomis/GraphView/fling"
)

// Gestures turns classified pointer gestures into viewport changes. It is
// meant to be driven from a single UI goroutine.
type Gestures struct {
	vp         *Controller
	scroller   fling.Scroller
	lastScroll float64
	width      float64
}

// NewGestures returns gesture handling for vp.
func NewGestures(vp *Controller) *Gestures {
	g := &Gestures{vp: vp}
	g.scroller.Deceleration = vp.cfg.Deceleration
	g.scroller.Abort()
	return g
}

// Layout records the width of the plot area in pixels.
func (g *Gestures) Layout(width float64) {
	g.width = width
}

// Scale returns the number of pixels per X unit.
func (g *Gestures) Scale() float64 {
	_, size := g.vp.Window()
	if size <= 0 || g.width <= 0 {
		return 0
	}
	return g.width / size
}

func (g *Gestures) scrollable() bool {
	cfg := g.vp.cfg
	return (cfg.Scrollable || cfg.Scalable) && g.vp.CanScroll()
}

// DragStart stops a running fling.
func (g *Gestures) DragStart() {
	if !g.scroller.Finished() {
		g.scroller.Abort()
	}
}

// Drag pans by delta pixels.
func (g *Gestures) Drag(delta float64) bool {
	if !g.scrollable() {
		return false
	}
	return g.vp.Pan(delta, g.Scale())
}

// ScrollDomain pans by a fraction of the domain width, as reported by a
// scrollbar. A positive fraction moves the window towards the end.
func (g *Gestures) ScrollDomain(fraction float64) bool {
	if !g.scrollable() || fraction == 0 {
		return false
	}
	min, max, ok := g.vp.domainX()
	if !ok {
		return false
	}
	return g.vp.Pan(-fraction*(max-min), 1)
}

// DragEnd starts a fling when the release velocity, in pixels per second,
// is fast enough. It reports whether a fling started.
func (g *Gestures) DragEnd(now time.Time, velocity float64) bool {
	if !g.scrollable() {
		return false
	}
	cfg := g.vp.cfg
	if math.Abs(velocity) <= cfg.MinFlingVelocity {
		return false
	}
	if cfg.MaxFlingVelocity > 0 {
		velocity = math.Max(-cfg.MaxFlingVelocity, math.Min(velocity, cfg.MaxFlingVelocity))
	}
	scale := g.Scale()
	if scale == 0 {
		return false
	}
	min, max, _ := g.vp.domainX()
	start, _ := g.vp.Viewport()
	// The scroller works in screen space over the whole domain.
	total := (max - min) * scale
	pos := (start - min) * scale
	g.lastScroll = pos
	g.scroller.Fling(now, pos, -velocity, 0, total-g.width)
	return true
}

// Pinch zooms by a pinch scale factor; a factor above one means the fingers
// spread apart and zooms in. Zoom is centred on the window, so focal is
// not used.
func (g *Gestures) Pinch(factor, focal float64) bool {
	if !g.vp.cfg.Scalable || !(factor > 0) || math.IsInf(factor, 0) {
		return false
	}
	if _, size := g.vp.Viewport(); size == 0 {
		min, max, _ := g.vp.domainX()
		g.vp.SetSize(max - min)
	}
	return g.vp.Zoom(1 / factor)
}

// Flinging reports whether a fling animation is running.
func (g *Gestures) Flinging() bool {
	return !g.scroller.Finished()
}

// Tick advances a running fling to time now. It reports whether the
// animation needs another frame.
func (g *Gestures) Tick(now time.Time) bool {
	pos, ok := g.scroller.Offset(now)
	if ok {
		g.vp.FlingStep(g.lastScroll-pos, g.Scale())
		g.lastScroll = pos
	}
	return !g.scroller.Finished()
}
