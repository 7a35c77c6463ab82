package viewport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomis/GraphView/viewport"
)

func TestGesturesDrag(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(500, 100))
	g := viewport.NewGestures(vp)
	g.Layout(200)
	assert.Equal(t, 2.0, g.Scale())

	require.True(t, g.Drag(40))
	start, _ := vp.Viewport()
	assert.Equal(t, 480.0, start)
}

func TestGesturesScrollDomain(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(500, 100))
	g := viewport.NewGestures(vp)

	require.True(t, g.ScrollDomain(0.1))
	start, _ := vp.Viewport()
	assert.Equal(t, 600.0, start)

	require.True(t, g.ScrollDomain(-1))
	start, _ = vp.Viewport()
	assert.Equal(t, 0.0, start)

	assert.False(t, g.ScrollDomain(0))
	full := viewport.NewGestures(viewport.New(fixedDomain(0, 1000)))
	assert.False(t, full.ScrollDomain(0.5), "nothing to scroll")
}

func TestGesturesDragDisabled(t *testing.T) {
	cfg := viewport.DefaultConfig()
	cfg.Scrollable, cfg.Scalable = false, false
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithConfig(cfg), viewport.WithViewport(500, 100))
	g := viewport.NewGestures(vp)
	g.Layout(100)
	assert.False(t, g.Drag(40))
	assert.False(t, g.DragEnd(time.Now(), 5000))
	assert.False(t, g.Pinch(2, 0))

	full := viewport.New(fixedDomain(0, 1000))
	fg := viewport.NewGestures(full)
	fg.Layout(100)
	assert.False(t, fg.Drag(40), "nothing to scroll")
}

func TestGesturesFling(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(500, 100))
	g := viewport.NewGestures(vp)
	g.Layout(100)

	now := time.Unix(1000, 0)
	g.DragStart()
	assert.False(t, g.DragEnd(now, 10), "too slow to fling")
	require.True(t, g.DragEnd(now, 1000))
	assert.True(t, g.Flinging())

	// v=-1000 px/s, d=2000 px/s²: after 100ms the scroller moved 90px.
	assert.True(t, g.Tick(now.Add(100*time.Millisecond)))
	start, _ := vp.Viewport()
	assert.InDelta(t, 410, start, 1e-6)

	// The fling comes to rest after |v|/d = 500ms, 250px from the origin.
	assert.False(t, g.Tick(now.Add(time.Second)))
	start, _ = vp.Viewport()
	assert.InDelta(t, 250, start, 1e-6)
	assert.False(t, g.Flinging())
	assert.False(t, g.Tick(now.Add(2*time.Second)))
}

func TestGesturesFlingStopsAtEdge(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(100, 100))
	g := viewport.NewGestures(vp)
	g.Layout(100)

	now := time.Unix(1000, 0)
	require.True(t, g.DragEnd(now, 4000))
	assert.False(t, g.Tick(now.Add(time.Second)))
	start, _ := vp.Viewport()
	assert.Equal(t, 0.0, start)
}

func TestGesturesDragStartAbortsFling(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(500, 100))
	g := viewport.NewGestures(vp)
	g.Layout(100)

	now := time.Unix(1000, 0)
	require.True(t, g.DragEnd(now, -1000))
	g.DragStart()
	assert.False(t, g.Flinging())
	assert.False(t, g.Tick(now.Add(100*time.Millisecond)))
	start, _ := vp.Viewport()
	assert.Equal(t, 500.0, start)
}

func TestGesturesPinch(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
	g := viewport.NewGestures(vp)
	require.True(t, g.Pinch(2, 0))
	_, size := vp.Viewport()
	assert.Equal(t, 50.0, size)

	unset := viewport.New(fixedDomain(0, 1000))
	ug := viewport.NewGestures(unset)
	require.True(t, ug.Pinch(4, 0))
	start, size := unset.Viewport()
	assert.Equal(t, 250.0, size)
	assert.Equal(t, 375.0, start)
}
