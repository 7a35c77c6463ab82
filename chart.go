package main

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"strconv"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"gioui.org/x/stroke"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/phantomis/GraphView/backend"
	"github.com/phantomis/GraphView/fling"
	"github.com/phantomis/GraphView/series"
	"github.com/phantomis/GraphView/viewport"
)

var pauseIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

var playIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

// Chart draws the series of a graph and turns pointer input into viewport
// gestures.
type Chart struct {
	graph    *backend.Graph
	gestures *viewport.Gestures
	tracker  fling.VelocityTracker
	zoom     gesture.Scroll
	pan      gesture.Scroll
	panBar   widget.Scrollbar
	drag     gesture.Drag
	smooth   bool
	fill     bool

	lastX float32

	// paused stops the window from following new samples.
	paused   bool
	pauseBtn widget.Clickable

	enabled  map[backend.Handle]*widget.Bool
	keyTable component.GridState

	// hover gesture state
	pos       f32.Point
	isHovered bool
}

func NewChart(graph *backend.Graph, smooth, fill bool) *Chart {
	return &Chart{
		graph:    graph,
		gestures: viewport.NewGestures(graph.Viewport()),
		smooth:   smooth,
		fill:     fill,
		enabled:  make(map[backend.Handle]*widget.Bool),
	}
}

// Following reports whether the window should jump to new samples.
func (c *Chart) Following() bool {
	return !c.paused
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func pt(p backend.Point) f32.Point {
	return f32.Pt(float32(p.X), float32(p.Y))
}

func (c *Chart) Update(gtx C) {
	vp := c.graph.Viewport()
	if c.pauseBtn.Clicked(gtx) {
		c.paused = !c.paused
		if !c.paused {
			vp.MoveToEnd()
		}
	}
	for _, h := range c.graph.Handles() {
		b, ok := c.enabled[h]
		if !ok {
			s, err := c.graph.Series(h)
			if err != nil {
				continue
			}
			b = &widget.Bool{Value: s.Visible()}
			c.enabled[h] = b
		}
		if b.Update(gtx) {
			if err := c.graph.SetVisible(h, b.Value); err != nil {
				slog.Debug("chart: toggling series", "handle", h, "err", err)
			}
		}
	}
	c.updateDrag(gtx)
	c.updateHover(gtx)

	dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6))
	if dist != 0 {
		proportion := 1 + float64(dist)/float64(max(gtx.Constraints.Max.Y, 1))
		proportion = math.Max(0.5, math.Min(proportion, 2))
		c.gestures.Pinch(1/proportion, float64(c.pos.X))
	}
	dist = c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0))
	if dist != 0 && c.gestures.Drag(-float64(dist)) {
		c.paused = true
	}
	if panDist := c.panBar.ScrollDistance(); panDist != 0 && c.gestures.ScrollDomain(float64(panDist)) {
		c.paused = true
	}
	if c.gestures.Flinging() && c.gestures.Tick(gtx.Now) {
		gtx.Execute(op.InvalidateCmd{})
	}
}

// updateDrag pans with mouse drags and flings on release. Touch drags are
// handled by the pan scroll gesture.
func (c *Chart) updateDrag(gtx C) {
	cfg := c.graph.Viewport().Config()
	for {
		e, ok := c.drag.Update(gtx.Metric, gtx.Source, gesture.Horizontal)
		if !ok {
			break
		}
		if e.Source == pointer.Touch {
			continue
		}
		switch e.Kind {
		case pointer.Press:
			c.lastX = e.Position.X
			c.tracker.Reset()
			c.tracker.Add(gtx.Now, float64(e.Position.X))
			c.gestures.DragStart()
		case pointer.Drag:
			delta := e.Position.X - c.lastX
			c.lastX = e.Position.X
			c.tracker.Add(gtx.Now, float64(e.Position.X))
			if c.gestures.Drag(float64(delta)) {
				c.paused = true
			}
		case pointer.Release:
			c.tracker.Add(gtx.Now, float64(e.Position.X))
			if c.gestures.DragEnd(gtx.Now, c.tracker.Velocity(cfg.MaxFlingVelocity)) {
				gtx.Execute(op.InvalidateCmd{})
			}
		}
	}
}

func (c *Chart) updateHover(gtx C) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Enter, pointer.Move:
			c.isHovered = true
			c.pos = e.Position
		case pointer.Leave, pointer.Cancel:
			c.isHovered = false
		}
	}
}

func (c *Chart) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return c.layoutPlot(gtx, th)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Max.Y = gtx.Constraints.Max.Y / 3
			return c.layoutKey(gtx, th)
		}),
	)
}

func (c *Chart) layoutPlot(gtx C, th *material.Theme) D {
	size := gtx.Constraints.Max
	vp := c.graph.Viewport()
	border := float64(gtx.Dp(unit.Dp(vp.Config().Border)))
	gutter := gtx.Dp(64)
	labelHeight := gtx.Sp(24)
	r := viewport.Rect{
		X0:     float64(gutter),
		Width:  float64(size.X-gutter) - 2*border,
		Height: float64(size.Y-labelHeight) - 2*border,
		Border: border,
	}
	if r.Width <= 0 || r.Height <= 0 {
		return D{Size: size}
	}
	c.gestures.Layout(r.Width)

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	c.pan.Add(gtx.Ops)
	c.zoom.Add(gtx.Ops)
	c.drag.Add(gtx.Ops)
	event.Op(gtx.Ops, c)
	area.Pop()

	plot := image.Rect(
		int(r.X0+r.Border), int(r.Y0+r.Border),
		int(ceil(r.X0+r.Border+r.Width)), int(ceil(r.Y0+r.Border+r.Height)),
	)
	p, err := c.graph.Projection(r)
	if err != nil {
		slog.Debug("chart: skipping frame", "err", err)
		c.layoutMessage(gtx, th, plot, "Nothing to draw in this range.")
	} else {
		labels := vp.Labels(r.Width, r.Height, p.Window().MinY, p.Window().MaxY)
		c.layoutGrid(gtx, th, p, labels)
		traces, err := c.graph.Frame(r)
		if err != nil {
			slog.Debug("chart: skipping traces", "err", err)
		}
		stack := clip.Rect(plot).Push(gtx.Ops)
		for _, t := range traces {
			c.layoutTrace(gtx, t, plot)
		}
		stack.Pop()
		if c.isHovered && !c.drag.Dragging() && c.pos.Round().In(plot) {
			c.layoutHover(gtx, th, p, traces, plot, labels.Digits)
		}
	}

	c.layoutPanBar(gtx, th, plot, size)

	// Pause button in the corner between the axes.
	stack := op.Offset(image.Pt(0, size.Y-labelHeight)).Push(gtx.Ops)
	btnGtx := gtx
	btnGtx.Constraints = layout.Exact(image.Pt(gutter, labelHeight))
	icon := pauseIcon
	if c.paused {
		icon = playIcon
	}
	material.Clickable(btnGtx, &c.pauseBtn, func(gtx C) D {
		return layout.Center.Layout(gtx, func(gtx C) D {
			return icon.Layout(gtx, th.Fg)
		})
	})
	stack.Pop()
	return D{Size: size}
}

// layoutPanBar draws a scrollbar along the bottom of the plot showing the
// visible part of the domain.
func (c *Chart) layoutPanBar(gtx C, th *material.Theme, plot image.Rectangle, size image.Point) {
	dMin, dMax, ok := c.graph.DomainX()
	if !ok || dMax <= dMin {
		return
	}
	start, width := c.graph.Viewport().Window()
	vpStart := float32(max(0, (start-dMin)/(dMax-dMin)))
	vpEnd := float32(min(1, (start+width-dMin)/(dMax-dMin)))

	gtx.Constraints = layout.Exact(image.Pt(plot.Dx(), size.Y))
	gtx.Constraints.Min.Y = 0
	dims, call := rec(gtx, func(gtx C) D {
		scrollbar := material.Scrollbar(th, &c.panBar)
		scrollbar.Track.MajorPadding = 0
		scrollbar.Track.MinorPadding = 0
		scrollbar.Indicator.CornerRadius = 0
		scrollbar.Indicator.Color.A = 100
		return scrollbar.Layout(gtx, layout.Horizontal, vpStart, vpEnd)
	})
	stack := op.Offset(image.Pt(plot.Min.X, size.Y-dims.Size.Y)).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()
}

func (c *Chart) layoutMessage(gtx C, th *material.Theme, plot image.Rectangle, msg string) {
	gtx.Constraints = layout.Exact(plot.Size())
	defer op.Offset(plot.Min).Push(gtx.Ops).Pop()
	layout.Center.Layout(gtx, material.Body1(th, msg).Layout)
}

type labelAnchor uint8

const (
	anchorTop labelAnchor = iota
	anchorRight
)

// layoutLabel draws txt next to at: centered below it for anchorTop, or
// vertically centered to its left for anchorRight.
func layoutLabel(gtx C, th *material.Theme, txt string, at image.Point, anchor labelAnchor) {
	l := material.Body2(th, txt)
	l.MaxLines = 1
	gtx.Constraints.Min = image.Point{}
	dims, call := rec(gtx, l.Layout)
	switch anchor {
	case anchorTop:
		at.X -= dims.Size.X / 2
	case anchorRight:
		at.X -= dims.Size.X
		at.Y -= dims.Size.Y / 2
	}
	stack := op.Offset(at).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()
}

// xDigits returns the fraction digits needed to tell X labels step apart.
func xDigits(step float64) int {
	if !(step > 0) || step >= 1 {
		return 0
	}
	return min(int(ceil(-math.Log10(step))), 9)
}

func (c *Chart) layoutGrid(gtx C, th *material.Theme, p viewport.Projection, labels viewport.Labels) {
	w, r := p.Window(), p.Rect()
	top := float32(r.Y0 + r.Border)
	bottom := float32(r.Y0 + r.Border + r.Height)
	left := float32(r.X0 + r.Border)
	right := float32(r.X0 + r.Border + r.Width)
	gap := gtx.Dp(4)

	var path stroke.Path
	digits := 0
	if len(labels.X) > 1 {
		digits = xDigits(labels.X[1] - labels.X[0])
	}
	for _, x := range labels.X {
		sx, _ := p.Map(series.Sample{X: x, Y: w.MinY})
		path.Segments = append(path.Segments,
			stroke.MoveTo(f32.Pt(float32(sx), top)),
			stroke.LineTo(f32.Pt(float32(sx), bottom)),
		)
		layoutLabel(gtx, th, strconv.FormatFloat(x, 'f', digits, 64),
			image.Pt(int(sx), int(bottom)+gap), anchorTop)
	}
	for _, y := range labels.Y {
		_, sy := p.Map(series.Sample{X: w.Start, Y: y})
		path.Segments = append(path.Segments,
			stroke.MoveTo(f32.Pt(left, float32(sy))),
			stroke.LineTo(f32.Pt(right, float32(sy))),
		)
		layoutLabel(gtx, th, strconv.FormatFloat(y, 'f', labels.Digits, 64),
			image.Pt(int(left)-gap, int(sy)), anchorRight)
	}
	paint.FillShape(gtx.Ops, color.NRGBA{A: 50}, stroke.Stroke{
		Path:  path,
		Width: float32(gtx.Dp(1)),
	}.Op(gtx.Ops))
}

func (c *Chart) layoutTrace(gtx C, t backend.Trace, plot image.Rectangle) {
	pts := t.Points
	if len(pts) == 0 {
		return
	}
	lineWidth := float32(gtx.Dp(2))
	if len(pts) == 1 {
		center := pt(pts[0])
		half := f32.Pt(lineWidth, lineWidth)
		dot := image.Rectangle{
			Min: center.Sub(half).Round(),
			Max: center.Add(half).Round(),
		}
		paint.FillShape(gtx.Ops, t.Color, clip.Ellipse(dot).Op(gtx.Ops))
		return
	}
	if c.fill {
		bottom := float32(plot.Max.Y)
		var p clip.Path
		p.Begin(gtx.Ops)
		p.MoveTo(f32.Pt(float32(pts[0].X), bottom))
		for _, point := range pts {
			p.LineTo(pt(point))
		}
		p.LineTo(f32.Pt(float32(pts[len(pts)-1].X), bottom))
		p.Close()
		paint.FillShape(gtx.Ops, withAlpha(t.Color, 60), clip.Outline{Path: p.End()}.Op())
	}

	segments := make([]stroke.Segment, 0, len(pts)+1)
	segments = append(segments, stroke.MoveTo(pt(pts[0])))
	for i := 1; i < len(pts); i++ {
		cur := pt(pts[i])
		if !c.smooth {
			segments = append(segments, stroke.LineTo(cur))
			continue
		}
		// Curve through the midpoints, using the samples as controls.
		prev := pt(pts[i-1])
		mid := prev.Add(cur).Mul(0.5)
		if i == 1 {
			segments = append(segments, stroke.LineTo(mid))
		} else {
			segments = append(segments, stroke.QuadTo(prev, mid))
		}
	}
	if c.smooth {
		segments = append(segments, stroke.LineTo(pt(pts[len(pts)-1])))
	}
	paint.FillShape(gtx.Ops, t.Color, stroke.Stroke{
		Path:  stroke.Path{Segments: segments},
		Width: lineWidth,
		Cap:   stroke.RoundCap,
	}.Op(gtx.Ops))
}

// nearest returns the sample closest to x in a slice sorted by X.
func nearest(samples []series.Sample, x float64) (series.Sample, bool) {
	if len(samples) == 0 {
		return series.Sample{}, false
	}
	i, _ := slices.BinarySearchFunc(samples, x, func(s series.Sample, x float64) int {
		return cmp.Compare(s.X, x)
	})
	switch {
	case i == len(samples):
		return samples[i-1], true
	case i > 0 && x-samples[i-1].X < samples[i].X-x:
		return samples[i-1], true
	default:
		return samples[i], true
	}
}

func (c *Chart) layoutHover(gtx C, th *material.Theme, p viewport.Projection, traces []backend.Trace, plot image.Rectangle, digits int) {
	dataX := p.DataX(float64(c.pos.X))
	xR := ceil(c.pos.X)
	xL := xR - float32(gtx.Dp(1))

	children := []layout.FlexChild{
		layout.Rigid(material.Body2(th, "x = "+strconv.FormatFloat(dataX, 'g', 6, 64)).Layout),
	}
	for _, t := range traces {
		samples, err := c.graph.VisibleSlice(t.Handle)
		if err != nil {
			continue
		}
		sample, ok := nearest(samples, dataX)
		if !ok {
			continue
		}
		col := t.Color
		txt := fmt.Sprintf("%s: %s", t.Label, strconv.FormatFloat(sample.Y, 'f', digits, 64))
		children = append(children, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(material.Body2(th, txt).Layout),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(func(gtx C) D {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, col, clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
			)
		}))
	}

	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	hoverInfoDims, hoverInfoCall := rec(gtx, func(gtx C) D {
		return layout.Background{}.Layout(gtx,
			func(gtx C) D {
				paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return D{Size: gtx.Constraints.Min}
			},
			func(gtx C) D {
				return layout.UniformInset(10).Layout(gtx, func(gtx C) D {
					return layout.Flex{
						Axis:      layout.Vertical,
						Alignment: layout.End,
					}.Layout(gtx, children...)
				})
			},
		)
	})
	gtx.Constraints = origConstraints

	paint.FillShape(gtx.Ops, color.NRGBA{A: 255}, clip.Rect{
		Min: image.Pt(int(xL), plot.Min.Y),
		Max: image.Pt(int(xR), plot.Max.Y),
	}.Op())

	pos := image.Point{}
	if int(xL)-plot.Min.X > plot.Max.X-int(xR) {
		pos.X = max(int(xL)-hoverInfoDims.Size.X, 0)
	} else {
		pos.X = min(int(xR), gtx.Constraints.Max.X-hoverInfoDims.Size.X)
	}
	pos.Y = int(floor(c.pos.Y))
	if offscreenY := gtx.Constraints.Max.Y - (pos.Y + hoverInfoDims.Size.Y); offscreenY < 0 {
		pos.Y += offscreenY
	}
	transform := op.Offset(pos).Push(gtx.Ops)
	hoverInfoCall.Add(gtx.Ops)
	transform.Pop()
}

func (c *Chart) layoutKey(gtx C, th *material.Theme) D {
	handles := c.graph.Handles()
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	numberColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 2*numberColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(len(handles)+1))
	const (
		colorCol = iota
		seriesNameCol
		samplesCol
		lastValueCol
		numCols
	)
	return table.Layout(gtx, len(handles), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case samplesCol, lastValueCol:
				size = numberColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Show")
			case seriesNameCol:
				l = material.Body1(th, "Series")
				l.Alignment = text.Middle
			case samplesCol:
				l = material.Body1(th, "Samples")
				l.Alignment = text.End
			case lastValueCol:
				l = material.Body1(th, "Last")
				l.Alignment = text.End
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			h := handles[row]
			s, err := c.graph.Series(h)
			enabled, ok := c.enabled[h]
			if err != nil || !ok {
				return D{Size: gtx.Constraints.Min}
			}
			disabledAlpha := uint8(100)
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				var l material.LabelStyle
				switch col {
				case colorCol:
					return enabled.Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := s.Color()
							if !enabled.Value {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					l = material.Body2(th, s.Label())
				case samplesCol:
					l = material.Body2(th, strconv.Itoa(s.Len()))
					l.Alignment = text.End
				case lastValueCol:
					last, err := s.Last()
					txt := "-"
					if err == nil {
						txt = strconv.FormatFloat(last.Y, 'g', 6, 64)
					}
					l = material.Body2(th, txt)
					l.Alignment = text.End
				default:
					return D{Size: gtx.Constraints.Max}
				}
				if !enabled.Value {
					l.Color.A = disabledAlpha
				}
				return l.Layout(gtx)
			})
			if row&1 != 0 {
				paint.FillShape(gtx.Ops, withAlpha(s.Color(), 50), clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
