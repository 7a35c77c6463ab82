package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"

	"github.com/phantomis/GraphView/backend"
	"github.com/phantomis/GraphView/viewport"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

type options struct {
	file   string
	follow bool
	window float64
	smooth bool
	fill   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "CSV file to display, - reads stdin")
	flag.BoolVar(&opts.follow, "follow", false, "Keep reading the file as it grows")
	flag.Float64Var(&opts.window, "window", 0, "Initial width of the visible window in X units, 0 shows everything")
	flag.BoolVar(&opts.smooth, "smooth", false, "Draw curves between samples")
	flag.BoolVar(&opts.fill, "fill", false, "Shade the area below each trace")
	noZoom := flag.Bool("no-zoom", false, "Disable zooming")
	verbose := flag.Bool("v", false, "Log debug output")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := viewport.DefaultConfig()
	cfg.Scalable = !*noZoom
	mutator := stream.NewMutator(context.Background(), time.Second)
	bundle, err := backend.NewBundle(mutator, logger, colors, viewport.WithConfig(cfg))
	if err != nil {
		log.Fatalf("failed initializing: %v", err)
	}

	go func() {
		w := app.NewWindow(app.Title("GraphView"))
		err := loop(w, bundle, opts)
		if shutdownErr := mutator.Shutdown(); shutdownErr != nil {
			slog.Warn("loads did not stop cleanly", "err", shutdownErr)
		}
		if err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func load(ctx context.Context, ds *backend.Datasource, opts options) {
	var err error
	switch opts.file {
	case "":
		return
	case "-":
		err = ds.Load(ctx, "stdin", os.Stdin)
	default:
		err = ds.LoadFile(ctx, opts.file, opts.follow)
	}
	if err != nil && ctx.Err() == nil {
		slog.Error("failed loading data", "file", opts.file, "err", err)
	}
}

func loop(w *app.Window, bundle backend.Bundle, opts options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expl := explorer.NewExplorer(w)
	ws := backend.NewWindowState(ctx, bundle, w)
	ui := NewUI(ctx, ws, expl, w.Invalidate, opts)
	go load(ctx, bundle.Datasource, opts)

	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
