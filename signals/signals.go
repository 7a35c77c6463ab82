// Package signals provides synthetic data sources for exercising charts.
package signals

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind selects the shape of a generated signal.
type Kind uint8

const (
	Sine Kind = iota
	Square
	Sawtooth
	RandomWalk
)

var kindNames = [...]string{
	Sine:       "sine",
	Square:     "square",
	Sawtooth:   "sawtooth",
	RandomWalk: "randomwalk",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// ErrUnknownKind is returned by ParseKind for unrecognised names.
var ErrUnknownKind = errors.New("unknown signal kind")

// ParseKind returns the Kind with the given name, ignoring case.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownKind)
}

// Source produces one value per X position.
type Source interface {
	Name() string
	Kind() Kind
	Read(x float64) (float64, error)
}

// New returns a source of the given kind. Periodic kinds oscillate between
// -amplitude and amplitude once per period; a random walk moves by at most
// a tenth of amplitude per read and is reproducible for a given seed.
func New(kind Kind, name string, amplitude, period float64, seed int64) (Source, error) {
	if kind != RandomWalk && !(period > 0) {
		return nil, fmt.Errorf("period %g of %s signal must be positive", period, kind)
	}
	if name == "" {
		name = kind.String()
	}
	base := source{name: name, kind: kind, amplitude: amplitude, period: period}
	switch kind {
	case Sine, Square, Sawtooth:
		return &base, nil
	case RandomWalk:
		return &walk{source: base, rng: rand.New(rand.NewSource(seed))}, nil
	default:
		return nil, fmt.Errorf("kind %d: %w", kind, ErrUnknownKind)
	}
}

type source struct {
	name      string
	kind      Kind
	amplitude float64
	period    float64
}

func (s *source) Name() string { return s.name }
func (s *source) Kind() Kind   { return s.kind }

// phase returns the position of x within its period, in [0, 1).
func (s *source) phase(x float64) float64 {
	p := math.Mod(x/s.period, 1)
	if p < 0 {
		p++
	}
	return p
}

func (s *source) Read(x float64) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%s: cannot read at x=%g", s.name, x)
	}
	p := s.phase(x)
	switch s.kind {
	case Square:
		if p < 0.5 {
			return s.amplitude, nil
		}
		return -s.amplitude, nil
	case Sawtooth:
		return s.amplitude * (2*p - 1), nil
	default:
		return s.amplitude * math.Sin(2*math.Pi*p), nil
	}
}

type walk struct {
	source
	rng   *rand.Rand
	value float64
}

func (w *walk) Read(float64) (float64, error) {
	w.value += (w.rng.Float64()*2 - 1) * w.amplitude / 10
	return w.value, nil
}
