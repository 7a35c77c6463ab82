package backend

import (
	"context"
	"image/color"
	"log/slog"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"

	"github.com/phantomis/GraphView/viewport"
)

// WindowState couples the application data with the stream controller of
// one window.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds the data shared by every window.
type Bundle struct {
	Graph      *Graph
	Datasource *Datasource
}

func NewBundle(mutator *stream.Mutator, logger *slog.Logger, palette []color.NRGBA, opts ...viewport.Option) (Bundle, error) {
	graph, err := NewGraph(WithLogger(logger), WithViewportOptions(opts...))
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{
		Graph:      graph,
		Datasource: NewDatasource(graph, mutator, WithSourceLogger(logger), WithPalette(palette)),
	}, nil
}
