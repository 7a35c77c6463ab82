package viewport

// Labels holds the axis label values for one layout of the chart. The
// slices are shared with the controller's cache and must not be modified.
type Labels struct {
	// X holds evenly spaced values across the visible window, left to
	// right.
	X []float64
	// Y holds evenly spaced values across the Y range, top to bottom.
	Y []float64
	// Digits is the number of fraction digits to print labels with.
	Digits int
}

type labelKey struct {
	width, height float64
	start, size   float64
	minY, maxY    float64
}

type labelCache struct {
	valid  bool
	key    labelKey
	labels Labels
}

func (l *labelCache) invalidate() {
	l.valid = false
}

// Labels returns the label values for a plot area of the given pixel size
// showing the Y range [minY, maxY]. The result is memoised until the window
// changes, Invalidate is called, or different arguments are passed.
func (c *Controller) Labels(width, height, minY, maxY float64) Labels {
	min, max, _ := c.domainX()
	c.mu.Lock()
	defer c.mu.Unlock()
	start, size := c.windowLocked(min, max)
	key := labelKey{
		width: width, height: height,
		start: start, size: size,
		minY: minY, maxY: maxY,
	}
	if c.labels.valid && c.labels.key == key {
		return c.labels.labels
	}
	c.labels = labelCache{
		valid: true,
		key:   key,
		labels: Labels{
			X:      xLabels(width, c.cfg.LabelWidth, start, start+size),
			Y:      yLabels(height, c.cfg.LabelHeight, minY, maxY),
			Digits: labelDigits(maxY - minY),
		},
	}
	return c.labels.labels
}

func labelCount(extent, spacing float64) int {
	if spacing <= 0 {
		return 1
	}
	return max(int(extent/spacing), 1)
}

func xLabels(width, spacing, lo, hi float64) []float64 {
	n := labelCount(width, spacing)
	labels := make([]float64, n+1)
	for i := range labels {
		labels[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	return labels
}

func yLabels(height, spacing, lo, hi float64) []float64 {
	n := labelCount(height, spacing)
	labels := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		labels[n-i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	return labels
}

// labelDigits picks a precision that tells neighbouring labels apart for a
// range of the given span.
func labelDigits(span float64) int {
	switch {
	case span < 0.1:
		return 6
	case span < 1:
		return 4
	case span < 20:
		return 3
	case span < 100:
		return 1
	default:
		return 0
	}
}
