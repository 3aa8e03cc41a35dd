// Package trace holds the scrolling frequency trace drawn by the
// presentation layer. Points enter at the right edge and scroll left until
// they fall off the canvas or are pushed out by capacity.
package trace

import "sync"

const (
	// DefaultCapacity is the number of points retained.
	DefaultCapacity = 200

	// MaxFrequency is the frequency drawn at the top of the canvas.
	MaxFrequency = 2000.0
)

// Point is a trace vertex in canvas units; Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Buffer is safe for concurrent use. Tick and Append each run as one
// critical section.
type Buffer struct {
	mu       sync.Mutex
	points   []Point
	capacity int
}

// New creates an empty buffer that keeps at most capacity points.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		points:   make([]Point, 0, capacity+1),
		capacity: capacity,
	}
}

// Capacity returns the maximum number of points kept.
func (b *Buffer) Capacity() int { return b.capacity }

// Tick scrolls every point left by step and drops points from the front
// once they pass the left edge.
func (b *Buffer) Tick(step float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.points) == 0 {
		return
	}
	b.shift(step)
	drop := 0
	for drop < len(b.points) && b.points[drop].X < 0 {
		drop++
	}
	b.evict(drop)
}

// Append adds a point at (x, y), evicts the oldest point when over
// capacity, then scrolls everything left by one unit. The extra scroll is
// not followed by edge eviction; the next Tick takes care of it.
func (b *Buffer) Append(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.points = append(b.points, Point{X: x, Y: y})
	if len(b.points) > b.capacity {
		b.evict(1)
	}
	b.shift(1)
}

// Snapshot returns a copy of the points, oldest first.
func (b *Buffer) Snapshot() []Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Point, len(b.points))
	copy(out, b.points)
	return out
}

// Len returns the number of points held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.points)
}

// Reset discards all points.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.points = b.points[:0]
}

func (b *Buffer) shift(step float64) {
	for i := range b.points {
		b.points[i].X -= step
	}
}

// evict removes the first n points, reusing the backing array.
func (b *Buffer) evict(n int) {
	if n == 0 {
		return
	}
	k := copy(b.points, b.points[n:])
	b.points = b.points[:k]
}

// Height maps freq onto a canvas of the given height, 0 Hz at the bottom
// and MaxFrequency Hz at the top.
func Height(freq, canvasHeight float64) float64 {
	return canvasHeight - freq*canvasHeight/MaxFrequency
}
