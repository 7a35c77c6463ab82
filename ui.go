package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync/atomic"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"

	"github.com/phantomis/GraphView/backend"
)

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ctx  context.Context
	ws   backend.WindowState
	expl *explorer.Explorer
	// invalidate requests a new frame from any goroutine.
	invalidate func()

	chart       *Chart
	explorerBtn widget.Clickable
	opening     atomic.Bool
	loadErr     atomic.Pointer[string]

	// pendingWindow is applied once the first samples arrive.
	pendingWindow float64
	// dataChanged is set by the graph whenever series change.
	dataChanged atomic.Bool

	th           *material.Theme
	statusStream *stream.Stream[backend.Status]
	status       backend.Status
}

func NewUI(ctx context.Context, ws backend.WindowState, expl *explorer.Explorer, invalidate func(), opts options) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ctx:           ctx,
		ws:            ws,
		th:            th,
		expl:          expl,
		invalidate:    invalidate,
		pendingWindow: opts.window,
		statusStream:  stream.New(ws.Controller, ws.Bundle.Datasource.Status),
	}
	ui.chart = NewChart(ws.Bundle.Graph, opts.smooth, opts.fill)
	ws.Bundle.Graph.OnSeriesChange(func() {
		ui.dataChanged.Store(true)
		invalidate()
	})
	return ui
}

// openFile lets the user pick a CSV file and loads it in the background.
func (ui *UI) openFile() {
	if !ui.opening.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer ui.opening.Store(false)
		file, err := ui.expl.ChooseFile("csv")
		if errors.Is(err, explorer.ErrUserDecline) {
			return
		} else if err != nil {
			ui.setError(fmt.Errorf("failed opening file: %w", err))
			return
		}
		defer file.Close()
		err = ui.ws.Bundle.Datasource.Load(ui.ctx, sourceName(file), file)
		if err != nil && ui.ctx.Err() == nil {
			ui.setError(err)
		}
	}()
}

func sourceName(r io.Reader) string {
	if f, ok := r.(interface{ Name() string }); ok {
		return f.Name()
	}
	return "file"
}

func (ui *UI) setError(err error) {
	slog.Error("load failed", "err", err)
	msg := err.Error()
	ui.loadErr.Store(&msg)
	ui.invalidate()
}

// Update the state of the UI and process events.
func (ui *UI) Update(gtx C) {
	ui.statusStream.ReadInto(gtx, &ui.status, backend.Status{})
	if ui.status.Err != nil {
		msg := ui.status.Err.Error()
		ui.loadErr.Store(&msg)
	}
	graph := ui.ws.Bundle.Graph
	vp := graph.Viewport()
	if ui.dataChanged.Swap(false) {
		if _, _, ok := graph.DomainX(); ok && ui.pendingWindow > 0 {
			vp.SetSize(ui.pendingWindow)
			ui.pendingWindow = 0
		}
		if ui.chart.Following() {
			vp.MoveToEnd()
		}
	}
	if ui.explorerBtn.Clicked(gtx) {
		ui.openFile()
	}
}

func (ui *UI) statusText() string {
	s := ui.status
	if s.Source == "" {
		return ""
	}
	txt := fmt.Sprintf("%s: %d samples", s.Source, s.Samples)
	if s.Dropped > 0 {
		txt += fmt.Sprintf(", %d dropped", s.Dropped)
	}
	if s.Following {
		txt += " (following)"
	}
	return txt
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
				return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(material.Button(ui.th, &ui.explorerBtn, "Open").Layout),
					layout.Rigid(layout.Spacer{Width: 8}.Layout),
					layout.Flexed(1, material.Body2(ui.th, ui.statusText()).Layout),
				)
			})
		}),
		layout.Rigid(func(gtx C) D {
			msg := ui.loadErr.Load()
			if msg == nil {
				return D{}
			}
			l := material.Body1(ui.th, *msg)
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx C) D {
			return ui.chart.Layout(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No data yet.")
	errText := ""
	if msg := ui.loadErr.Load(); msg != nil {
		errText = *msg
	}
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			if ui.opening.Load() {
				gtx = gtx.Disabled()
			}
			return material.Button(ui.th, &ui.explorerBtn, "Open CSV File").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, errText).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if len(ui.ws.Bundle.Graph.Handles()) > 0 {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
