package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phantomis/GraphView/signals"
)

type generator struct {
	kinds     []string
	count     int
	interval  time.Duration
	step      float64
	amplitude float64
	period    float64
	seed      int64
}

func (g *generator) sources() ([]signals.Source, error) {
	if len(g.kinds) < 1 {
		return nil, errors.New("no signals requested")
	}
	sources := make([]signals.Source, 0, len(g.kinds))
	for i, name := range g.kinds {
		kind, err := signals.ParseKind(name)
		if err != nil {
			return nil, err
		}
		// Repeated kinds get a numbered heading.
		label := kind.String()
		for _, prev := range sources {
			if prev.Kind() == kind {
				label = kind.String() + " " + strconv.Itoa(i)
				break
			}
		}
		src, err := signals.New(kind, label, g.amplitude, g.period, g.seed+int64(i))
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// run writes the header and rows to w until count rows are written or ctx
// is done. Each row is flushed immediately when rows are paced.
func (g *generator) run(ctx context.Context, w io.Writer) error {
	if !(g.step > 0) {
		return fmt.Errorf("step %g must be positive", g.step)
	}
	sources, err := g.sources()
	if err != nil {
		return err
	}
	out := bufio.NewWriter(w)
	headings := make([]string, 0, len(sources)+1)
	headings = append(headings, "x")
	for _, src := range sources {
		headings = append(headings, src.Name())
	}
	if _, err := fmt.Fprintln(out, strings.Join(headings, ", ")); err != nil {
		return err
	}

	var ticker *time.Ticker
	if g.interval > 0 {
		ticker = time.NewTicker(g.interval)
		defer ticker.Stop()
	}
	row := make([]string, len(sources)+1)
	for i := 0; g.count == 0 || i < g.count; i++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return out.Flush()
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return out.Flush()
		}
		x := float64(i) * g.step
		row[0] = strconv.FormatFloat(x, 'f', -1, 64)
		for j, src := range sources {
			v, err := src.Read(x)
			if err != nil {
				return fmt.Errorf("failed reading value: %w", err)
			}
			row[j+1] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if _, err := fmt.Fprintln(out, strings.Join(row, ", ")); err != nil {
			return err
		}
		if ticker != nil {
			if err := out.Flush(); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}
