package viewport_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomis/GraphView/viewport"
)

const epsilon = 1e-9

func fixedDomain(min, max float64) viewport.Domain {
	return viewport.DomainFunc(func() (float64, float64, bool) {
		return min, max, true
	})
}

func TestPanClampsToDomain(t *testing.T) {
	type testcase struct {
		name      string
		start     float64
		delta     float64
		scale     float64
		wantStart float64
	}
	for _, tc := range []testcase{
		{name: "drag right", start: 500, delta: 50, scale: 1, wantStart: 450},
		{name: "drag left", start: 500, delta: -50, scale: 1, wantStart: 550},
		{name: "scaled", start: 500, delta: 50, scale: 2, wantStart: 475},
		{name: "past start", start: 10, delta: 50, scale: 1, wantStart: 0},
		{name: "past end", start: 880, delta: -50, scale: 1, wantStart: 900},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(tc.start, 100))
			assert.True(t, vp.Pan(tc.delta, tc.scale))
			start, size := vp.Viewport()
			assert.InDelta(t, tc.wantStart, start, epsilon)
			assert.Equal(t, 100.0, size)
		})
	}
}

func TestPanIgnoredWithoutWindowOrData(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000))
	assert.False(t, vp.Pan(10, 1), "unset viewport")

	empty := viewport.New(nil, viewport.WithViewport(10, 20))
	assert.False(t, empty.Pan(10, 1), "no data")
	start, size := empty.Viewport()
	assert.Equal(t, 10.0, start)
	assert.Equal(t, 20.0, size)
}

func TestPanRejectsNonFinite(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
	for _, tc := range []struct{ delta, scale float64 }{
		{delta: 10, scale: math.NaN()},
		{delta: 10, scale: math.Inf(1)},
		{delta: 10, scale: 0},
		{delta: math.NaN(), scale: 1},
		{delta: math.Inf(-1), scale: 1},
	} {
		assert.False(t, vp.Pan(tc.delta, tc.scale), "delta %v scale %v", tc.delta, tc.scale)
		assert.False(t, vp.FlingStep(tc.delta, tc.scale), "delta %v scale %v", tc.delta, tc.scale)
	}
	start, size := vp.Viewport()
	assert.Equal(t, 400.0, start)
	assert.Equal(t, 100.0, size)
}

func TestFlingStepRefusedAtEnd(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(900, 100))
	assert.False(t, vp.FlingStep(-10, 1))
	assert.True(t, vp.FlingStep(10, 1))
	start, _ := vp.Viewport()
	assert.Equal(t, 890.0, start)
	// Panning by hand at the end is allowed and simply clamps.
	vp.SetViewport(900, 100)
	assert.True(t, vp.Pan(-10, 1))
	start, _ = vp.Viewport()
	assert.Equal(t, 900.0, start)
}

func TestZoomCentred(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
	require.True(t, vp.Zoom(0.5))
	start, size := vp.Viewport()
	assert.Equal(t, 425.0, start)
	assert.Equal(t, 50.0, size)
}

func TestZoomOutCapsAtDomain(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
	require.True(t, vp.Zoom(20))
	start, size := vp.Viewport()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 1000.0, size)
	assert.False(t, vp.CanScroll())
}

func TestZoomOutNearEdge(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(880, 100))
	require.True(t, vp.Zoom(2))
	start, size := vp.Viewport()
	assert.Equal(t, 200.0, size)
	assert.InDelta(t, 800, start, epsilon)
}

func TestZoomReciprocal(t *testing.T) {
	for _, factor := range []float64{0.5, 0.8, 0.9, 0.25} {
		vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
		require.True(t, vp.Zoom(factor))
		require.True(t, vp.Zoom(1/factor))
		start, size := vp.Viewport()
		assert.InDelta(t, 100, size, epsilon, "factor %v", factor)
		assert.InDelta(t, 400, start, epsilon, "factor %v", factor)
	}
}

func TestZoomInvalid(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
	for _, factor := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.False(t, vp.Zoom(factor), "factor %v", factor)
	}
	unset := viewport.New(fixedDomain(0, 1000))
	assert.False(t, unset.Zoom(0.5))
}

func TestZoomOutSingleXDomainKeepsWindow(t *testing.T) {
	vp := viewport.New(fixedDomain(5, 5), viewport.WithViewport(5, 10))
	assert.False(t, vp.Zoom(2))
	start, size := vp.Viewport()
	assert.Equal(t, 5.0, start)
	assert.Equal(t, 10.0, size)

	require.True(t, vp.Zoom(0.5))
	_, size = vp.Viewport()
	assert.Equal(t, 5.0, size)
}

func TestRandomGesturesStayInDomain(t *testing.T) {
	const min, max = -50.0, 950.0
	rng := rand.New(rand.NewSource(42))
	vp := viewport.New(fixedDomain(min, max), viewport.WithViewport(100, 200))
	for i := 0; i < 5000; i++ {
		if rng.Intn(2) == 0 {
			vp.Pan(rng.Float64()*1000-500, 0.5+rng.Float64()*4)
		} else {
			vp.Zoom(0.25 + rng.Float64()*3.75)
		}
		start, size := vp.Viewport()
		require.Greater(t, size, 0.0)
		require.GreaterOrEqual(t, start, min-epsilon, "step %d", i)
		require.LessOrEqual(t, start+size, max+epsilon, "step %d", i)
	}
}

func TestWindowResolvesUnset(t *testing.T) {
	vp := viewport.New(fixedDomain(5, 25))
	start, size := vp.Window()
	assert.Equal(t, 5.0, start)
	assert.Equal(t, 20.0, size)

	empty := viewport.New(nil)
	start, size = empty.Window()
	assert.Equal(t, float64(viewport.DefaultMinX), start)
	assert.Equal(t, float64(viewport.DefaultMaxX-viewport.DefaultMinX), size)
}

func TestSetSizeAndMoves(t *testing.T) {
	vp := viewport.New(fixedDomain(10, 110))
	vp.SetSize(30)
	start, size := vp.Viewport()
	assert.Equal(t, 10.0, start)
	assert.Equal(t, 30.0, size)

	vp.MoveToEnd()
	start, _ = vp.Viewport()
	assert.Equal(t, 80.0, start)

	vp.MoveToStart()
	start, _ = vp.Viewport()
	assert.Equal(t, 10.0, start)

	vp.SetSize(500)
	vp.MoveToEnd()
	start, _ = vp.Viewport()
	assert.Equal(t, 10.0, start, "a window wider than the domain starts at the domain")
}

func TestOnChange(t *testing.T) {
	vp := viewport.New(fixedDomain(0, 1000), viewport.WithViewport(400, 100))
	var calls [][2]float64
	cancel := vp.OnChange(func(start, size float64) {
		// Listeners may call back into the controller.
		s, z := vp.Viewport()
		assert.Equal(t, start, s)
		assert.Equal(t, size, z)
		calls = append(calls, [2]float64{start, size})
	})
	other := 0
	vp.OnChange(func(float64, float64) { other++ })

	vp.Pan(100, 1)
	vp.Zoom(0.5)
	vp.Zoom(-1)
	require.Len(t, calls, 2)
	assert.Equal(t, [2]float64{300, 100}, calls[0])
	assert.Equal(t, [2]float64{325, 50}, calls[1])

	cancel()
	vp.SetViewport(0, 10)
	assert.Len(t, calls, 2)
	assert.Equal(t, 3, other)
}

func TestScalableImpliesScrollable(t *testing.T) {
	cfg := viewport.DefaultConfig()
	cfg.Scrollable = false
	vp := viewport.New(nil, viewport.WithConfig(cfg))
	assert.True(t, vp.Config().Scrollable)
}
