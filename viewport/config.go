package viewport

import "log/slog"

// Config holds the tunables of a viewport and its gesture handling.
type Config struct {
	// Scrollable enables panning and flinging.
	Scrollable bool
	// Scalable enables zooming. A scalable viewport is always scrollable.
	Scalable bool
	// LabelWidth is the horizontal space reserved per X label, in pixels.
	LabelWidth float64
	// LabelHeight is the vertical space reserved per Y label, in pixels.
	LabelHeight float64
	// Border is the inset between the widget edge and the plot area.
	Border float64
	// MinFlingVelocity is the release speed, in pixels per second, below
	// which a drag does not turn into a fling.
	MinFlingVelocity float64
	// MaxFlingVelocity caps the release speed, in pixels per second.
	MaxFlingVelocity float64
	// Deceleration of a fling in pixels per second squared.
	Deceleration float64
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Scrollable:       true,
		Scalable:         true,
		LabelWidth:       100,
		LabelHeight:      80,
		Border:           20,
		MinFlingVelocity: 50,
		MaxFlingVelocity: 8000,
		Deceleration:     2000,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		if cfg.Scalable {
			cfg.Scrollable = true
		}
		c.cfg = cfg
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithViewport sets the initial window.
func WithViewport(start, size float64) Option {
	return func(c *Controller) {
		c.start, c.size = start, size
	}
}
