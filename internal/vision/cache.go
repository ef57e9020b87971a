package vision

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
)

// polygonCache memoizes visibility sweeps across recomputations, keyed by
// (origin, maxRange, wall-set hash). Purely a performance aid: most update
// triggers (a token move, a light toggle) leave every other origin's sweep
// unchanged.
type polygonCache struct {
	entries map[uint64]*Polygon
}

func newPolygonCache() *polygonCache {
	return &polygonCache{entries: make(map[uint64]*Polygon)}
}

// hashWalls digests the occluder set. Any wall edit or portal toggle changes
// the hash and invalidates every cached sweep.
func hashWalls(segs []geom.Segment) uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		d.Write(buf[:])
	}
	for _, s := range segs {
		write(s.A.X)
		write(s.A.Y)
		write(s.B.X)
		write(s.B.Y)
	}
	return d.Sum64()
}

func cacheKey(origin geom.Point, maxRange float64, wallsHash uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, f := range [...]float64{origin.X, origin.Y, maxRange} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], wallsHash)
	d.Write(buf[:])
	return d.Sum64()
}

// computePolygon runs the sweep through the cache when one is present.
func (c *polygonCache) computePolygon(origin geom.Point, walls []geom.Segment, maxRange float64, bounds geom.Rect, wallsHash uint64) *Polygon {
	if c == nil {
		return ComputePolygon(origin, walls, maxRange, bounds)
	}
	key := cacheKey(origin, maxRange, wallsHash)
	if p, ok := c.entries[key]; ok {
		return p
	}
	p := ComputePolygon(origin, walls, maxRange, bounds)
	c.entries[key] = p
	return p
}
