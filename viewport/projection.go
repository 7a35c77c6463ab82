package viewport

import (
	"errors"

	"github.com/phantomis/GraphView/series"
)

// ErrDegenerateRange is returned when a projection would divide by zero,
// for example for a series whose Y values are all equal. Callers skip
// drawing in that case.
var ErrDegenerateRange = errors.New("degenerate range")

// Rect is the pixel-space area a chart is drawn into. Border insets the plot
// from X0 and Y0.
type Rect struct {
	X0, Y0        float64
	Width, Height float64
	Border        float64
}

// Window is the data-space area shown in a Rect.
type Window struct {
	Start, Size float64
	MinY, MaxY  float64
}

// Projection maps data coordinates to screen coordinates. Screen Y grows
// downwards, so larger data values end up nearer the top.
type Projection struct {
	w      Window
	r      Rect
	scaleX float64
	scaleY float64
}

// NewProjection returns the projection of w onto r.
func NewProjection(w Window, r Rect) (Projection, error) {
	if w.Size == 0 || w.MaxY == w.MinY || r.Width <= 0 {
		return Projection{}, ErrDegenerateRange
	}
	return Projection{
		w:      w,
		r:      r,
		scaleX: r.Width / w.Size,
		scaleY: r.Height / (w.MaxY - w.MinY),
	}, nil
}

// Map returns the screen position of s.
func (p Projection) Map(s series.Sample) (x, y float64) {
	x = (s.X - p.w.Start) * p.scaleX
	y = (s.Y - p.w.MinY) * p.scaleY
	y = p.r.Height - y
	return x + p.r.X0 + p.r.Border, y + p.r.Y0 + p.r.Border
}

// DataX returns the X value drawn at screen position x.
func (p Projection) DataX(x float64) float64 {
	return (x-p.r.X0-p.r.Border)/p.scaleX + p.w.Start
}

// Window returns the data-space area of the projection.
func (p Projection) Window() Window {
	return p.w
}

// Rect returns the screen-space area of the projection.
func (p Projection) Rect() Rect {
	return p.r
}

// MapToScreen maps a single sample. Prefer NewProjection when mapping many.
func MapToScreen(s series.Sample, w Window, r Rect) (x, y float64, err error) {
	p, err := NewProjection(w, r)
	if err != nil {
		return 0, 0, err
	}
	x, y = p.Map(s)
	return x, y, nil
}
