package backend

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/phantomis/GraphView/viewport"
)

const defaultCacheSize = 64

// pathKey identifies everything a projected trace depends on.
type pathKey struct {
	generation uint64
	window     viewport.Window
	rect       viewport.Rect
}

type pathEntry struct {
	key    pathKey
	points []Point
}

// pathCache remembers the last projected trace of each series.
type pathCache struct {
	*lru.Cache
}

func newPathCache(size int) (*pathCache, error) {
	if size == 0 {
		size = defaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &pathCache{c}, nil
}

// lookup returns the cached points of h if they were computed for key.
func (c *pathCache) lookup(h Handle, key pathKey) ([]Point, bool) {
	v, ok := c.Get(h)
	if !ok {
		return nil, false
	}
	entry := v.(pathEntry)
	if entry.key != key {
		return nil, false
	}
	return entry.points, true
}

func (c *pathCache) store(h Handle, key pathKey, points []Point) {
	c.Add(h, pathEntry{key: key, points: points})
}
