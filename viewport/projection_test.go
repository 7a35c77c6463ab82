package viewport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomis/GraphView/series"
	"github.com/phantomis/GraphView/viewport"
)

func TestProjectionCorners(t *testing.T) {
	w := viewport.Window{Start: 13, Size: 7, MinY: -3, MaxY: 11}
	r := viewport.Rect{X0: 5, Y0: 8, Width: 300, Height: 170, Border: 20}
	p, err := viewport.NewProjection(w, r)
	require.NoError(t, err)

	x, y := p.Map(series.Sample{X: w.Start, Y: w.MinY})
	assert.InDelta(t, r.X0+r.Border, x, epsilon)
	assert.InDelta(t, r.Y0+r.Border+r.Height, y, epsilon)

	x, y = p.Map(series.Sample{X: w.Start + w.Size, Y: w.MaxY})
	assert.InDelta(t, r.X0+r.Border+r.Width, x, epsilon)
	assert.InDelta(t, r.Y0+r.Border, y, epsilon)
}

func TestProjectionMidpoint(t *testing.T) {
	r := viewport.Rect{Width: 100, Height: 100}

	x, y, err := viewport.MapToScreen(series.Sample{X: 10, Y: 5},
		viewport.Window{Start: 0, Size: 20, MinY: 0, MaxY: 10}, r)
	require.NoError(t, err)
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 50.0, y)

	// Against the Y range of [(0,0),(10,5),(20,3)] the peak is the top edge.
	x, y, err = viewport.MapToScreen(series.Sample{X: 10, Y: 5},
		viewport.Window{Start: 0, Size: 20, MinY: 0, MaxY: 5}, r)
	require.NoError(t, err)
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 0.0, y)
}

func TestProjectionDataX(t *testing.T) {
	p, err := viewport.NewProjection(
		viewport.Window{Start: 200, Size: 50, MinY: 0, MaxY: 1},
		viewport.Rect{X0: 10, Width: 500, Height: 100, Border: 20},
	)
	require.NoError(t, err)
	for _, dataX := range []float64{200, 212.5, 250} {
		x, _ := p.Map(series.Sample{X: dataX})
		assert.InDelta(t, dataX, p.DataX(x), epsilon)
	}
}

func TestProjectionDegenerate(t *testing.T) {
	r := viewport.Rect{Width: 100, Height: 100}
	for _, w := range []viewport.Window{
		{Start: 0, Size: 10, MinY: 3, MaxY: 3},
		{Start: 0, Size: 0, MinY: 0, MaxY: 1},
	} {
		_, err := viewport.NewProjection(w, r)
		assert.ErrorIs(t, err, viewport.ErrDegenerateRange)
	}
	_, err := viewport.NewProjection(viewport.Window{Size: 1, MaxY: 1}, viewport.Rect{})
	assert.ErrorIs(t, err, viewport.ErrDegenerateRange)
}

func TestLabels(t *testing.T) {
	vp := viewport.New(nil)
	labels := vp.Labels(400, 160, 0, 10)
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, labels.X)
	assert.Equal(t, []float64{10, 5, 0}, labels.Y)
	assert.Equal(t, 3, labels.Digits)

	again := vp.Labels(400, 160, 0, 10)
	assert.Same(t, &labels.X[0], &again.X[0], "labels are memoised")

	vp.SetViewport(40, 20)
	moved := vp.Labels(400, 160, 0, 10)
	assert.Equal(t, []float64{40, 45, 50, 55, 60}, moved.X)

	vp.Invalidate()
	fresh := vp.Labels(400, 160, 0, 10)
	assert.Equal(t, moved.X, fresh.X)
	assert.NotSame(t, &moved.X[0], &fresh.X[0])
}

func TestLabelsTinyArea(t *testing.T) {
	vp := viewport.New(nil)
	labels := vp.Labels(10, 10, 0, 1)
	assert.Equal(t, []float64{0, 100}, labels.X)
	assert.Equal(t, []float64{1, 0}, labels.Y)
}

func TestLabelDigits(t *testing.T) {
	vp := viewport.New(nil)
	for span, digits := range map[float64]int{
		0.05: 6,
		0.5:  4,
		10:   3,
		50:   1,
		500:  0,
	} {
		assert.Equal(t, digits, vp.Labels(100, 100, 0, span).Digits, "span %v", span)
	}
}
