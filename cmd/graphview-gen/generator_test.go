package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"git.sr.ht/~gioverse/skel/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomis/GraphView/backend"
	"github.com/phantomis/GraphView/signals"
)

func TestGeneratorOutputLoads(t *testing.T) {
	gen := generator{
		kinds:     []string{"sine", "square", "square"},
		count:     5,
		step:      25,
		amplitude: 2,
		period:    100,
	}
	var buf bytes.Buffer
	require.NoError(t, gen.run(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "x, sine, square, square 2", lines[0])
	assert.Equal(t, "25, 2.000000, 2.000000, 2.000000", lines[2])

	g, err := backend.NewGraph()
	require.NoError(t, err)
	mutator := stream.NewMutator(context.Background(), time.Second)
	defer mutator.Shutdown()
	ds := backend.NewDatasource(g, mutator)
	require.NoError(t, ds.Load(context.Background(), "generated", &buf))
	require.Len(t, g.Handles(), 3)
	last, err := g.LastData(g.Handles()[1])
	require.NoError(t, err)
	assert.Equal(t, 100.0, last.X)
}

func TestGeneratorStopsOnCancel(t *testing.T) {
	gen := generator{
		kinds:    []string{"randomwalk"},
		interval: time.Millisecond,
		step:     1,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer
	require.NoError(t, gen.run(ctx, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "x, randomwalk\n"))
}

func TestGeneratorRejectsInput(t *testing.T) {
	var buf bytes.Buffer
	err := (&generator{kinds: []string{"triangle"}, step: 1, period: 1}).run(context.Background(), &buf)
	assert.ErrorIs(t, err, signals.ErrUnknownKind)

	err = (&generator{kinds: []string{"sine"}, step: 0, period: 1}).run(context.Background(), &buf)
	assert.Error(t, err)

	err = (&generator{step: 1}).run(context.Background(), &buf)
	assert.Error(t, err)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--signals", "sine,sawtooth", "-n", "3"}))
	kinds, err := cmd.Flags().GetStringSlice("signals")
	require.NoError(t, err)
	assert.Equal(t, []string{"sine", "sawtooth"}, kinds)
	count, err := cmd.Flags().GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
