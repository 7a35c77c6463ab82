package backend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"

	"github.com/phantomis/GraphView/series"
)

// statusInterval is how many rows are ingested between status updates.
const statusInterval = 64

// Status describes the progress of the most recent load.
type Status struct {
	Source    string
	Samples   int
	Dropped   int
	Following bool
	Done      bool
	Err       error
}

// DatasourceOption configures a Datasource.
type DatasourceOption func(*Datasource)

// WithSourceLogger sets the logger used to report dropped input.
func WithSourceLogger(logger *slog.Logger) DatasourceOption {
	return func(d *Datasource) {
		d.logger = logger
	}
}

// WithPalette sets the colors assigned to new series, in order.
func WithPalette(palette []color.NRGBA) DatasourceOption {
	return func(d *Datasource) {
		d.palette = palette
	}
}

// ErrClosed is returned by loads started after the datasource's mutator
// was shut down.
var ErrClosed = errors.New("datasource closed")

// Datasource reads CSV data into a Graph. The first column holds X values
// and every further column one series, named by the header row. Blank cells
// mean the series has no sample at that X.
//
// Every load runs as a mutation in a pool keyed by load ID, so running
// loads can be streamed and are stopped when the mutator shuts down.
type Datasource struct {
	graph   *Graph
	logger  *slog.Logger
	palette []color.NRGBA

	pool   *stream.MutationPool[string, Status]
	latest *stream.Source[Status, Status]

	lock  sync.Mutex
	added int
	loads int
}

func NewDatasource(graph *Graph, mutator *stream.Mutator, opts ...DatasourceOption) *Datasource {
	d := &Datasource{
		graph:  graph,
		logger: slog.Default(),
		pool:   stream.NewMutationPool[string, Status](mutator),
		latest: stream.NewSource(func(s Status) (Status, bool) {
			return s, true
		}),
	}
	d.latest.Update(func(Status) Status { return Status{} })
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Status returns a channel that always holds the status of the most
// recently started load. Updates a subscriber did not read in time are
// replaced. The channel is closed when ctx is done.
func (d *Datasource) Status(ctx context.Context) <-chan Status {
	return d.latest.Stream(ctx)
}

// Loads streams the set of running loads, keyed by load ID.
func (d *Datasource) Loads(ctx context.Context) <-chan map[string]*stream.Mutation[Status] {
	return d.pool.Stream(ctx)
}

func (d *Datasource) nextColor() color.NRGBA {
	d.lock.Lock()
	defer d.lock.Unlock()
	i := d.added
	d.added++
	if len(d.palette) == 0 {
		return series.DefaultColor
	}
	return d.palette[i%len(d.palette)]
}

func (d *Datasource) nextLoadID(name string) string {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.loads++
	return name + "#" + strconv.Itoa(d.loads)
}

// Load reads r until EOF, adding one series per column to the graph.
func (d *Datasource) Load(ctx context.Context, name string, r io.Reader) error {
	return d.run(ctx, name, r, nil)
}

// LoadFile reads the CSV file at path. When follow is set, reaching the end
// of the file waits for further writes until ctx is done.
func (d *Datasource) LoadFile(ctx context.Context, path string, follow bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed opening %q: %w", path, err)
	}
	defer f.Close()
	if !follow {
		return d.run(ctx, path, f, nil)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed watching %q: %w", path, err)
	}
	return d.run(ctx, path, f, watcher)
}

// run executes one load as a mutation and blocks until it ends. The load
// stops when either ctx or the mutator's context is done.
func (d *Datasource) run(ctx context.Context, name string, r io.Reader, watcher *fsnotify.Watcher) error {
	result := make(chan error, 1)
	mut, isNew := stream.Mutate(d.pool, d.nextLoadID(name), func(mCtx context.Context) <-chan Status {
		out := make(chan Status)
		go func() {
			defer close(out)
			loadCtx, cancel := context.WithCancel(mCtx)
			defer cancel()
			stop := context.AfterFunc(ctx, cancel)
			defer stop()
			result <- d.load(loadCtx, name, r, watcher, func(s Status) {
				d.latest.Update(func(Status) Status { return s })
				out <- s
			})
		}()
		return out
	})
	if mut == nil || !isNew {
		return ErrClosed
	}
	return <-result
}

func (d *Datasource) load(ctx context.Context, name string, r io.Reader, watcher *fsnotify.Watcher, publish func(Status)) (err error) {
	status := Status{Source: name, Following: watcher != nil}
	publish(status)
	defer func() {
		status.Done = true
		status.Following = false
		if !errors.Is(err, context.Canceled) {
			status.Err = err
		}
		publish(status)
	}()

	// A followed file may be read while a line is half written.
	if watcher != nil {
		r = NewLineReader(r)
	}
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	headings, err := d.readRecord(ctx, csvReader, watcher)
	if err != nil {
		return fmt.Errorf("failed reading CSV headings: %w", err)
	}
	if len(headings) < 2 {
		return fmt.Errorf("need an x column and at least one series, got %d columns: %w", len(headings), series.ErrInvalidArgument)
	}
	handles := make([]Handle, len(headings)-1)
	for i, heading := range headings[1:] {
		s, err := series.New([]series.Sample{}, d.nextColor(), strings.TrimSpace(heading))
		if err != nil {
			return err
		}
		handles[i] = d.graph.AddSeries(s)
	}

	var samples, dropped, rows int
	flush := func() {
		status.Samples, status.Dropped = samples, dropped
		publish(status)
	}
	defer func() {
		status.Samples, status.Dropped = samples, dropped
	}()
	for {
		rec, err := d.readRecord(ctx, csvReader, watcher)
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("could not read %q: %w", name, err)
		}
		rows++
		if rows%statusInterval == 0 {
			flush()
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			d.logger.Warn("dropping row", "source", name, "row", rows, "err", err)
			dropped++
			continue
		}
		for i, cell := range rec[1:] {
			if i >= len(handles) {
				break
			}
			cell = strings.TrimSpace(cell)
			if len(cell) < 1 {
				// Skip null cells.
				continue
			}
			y, err := strconv.ParseFloat(cell, 64)
			if err == nil {
				err = d.graph.Append(handles[i], series.Sample{X: x, Y: y})
			}
			if err != nil {
				d.logger.Warn("dropping sample", "source", name, "row", rows, "column", headings[i+1], "err", err)
				dropped++
				continue
			}
			samples++
		}
	}
}

// readRecord reads the next CSV record. With a watcher, EOF blocks until
// the file is written to again.
func (d *Datasource) readRecord(ctx context.Context, r *csv.Reader, watcher *fsnotify.Watcher) ([]string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if !errors.Is(err, io.EOF) || watcher == nil {
			return rec, err
		}
		if err := waitForWrite(ctx, watcher); err != nil {
			return nil, err
		}
	}
}

func waitForWrite(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return io.EOF
			}
			if ev.Has(fsnotify.Write) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return io.EOF
			}
			return fmt.Errorf("file watcher: %w", err)
		}
	}
}
