package trace

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEvictsOldestOverCapacity(t *testing.T) {
	b := New(200)
	for i := range 205 {
		b.Append(1000, float64(i+1))
	}

	pts := b.Snapshot()
	require.Len(t, pts, 200)

	assert := assert.New(t)
	assert.Equal(6.0, pts[0].Y) // sixth inserted
	assert.Equal(205.0, pts[len(pts)-1].Y)
	for i := 1; i < len(pts); i++ {
		assert.Equal(pts[i-1].Y+1, pts[i].Y)
	}
}

func TestAppendShiftsEveryPointOneUnit(t *testing.T) {
	b := New(10)
	b.Append(400, 100)
	assert.Equal(t, []Point{{X: 399, Y: 100}}, b.Snapshot())

	b.Append(400, 50)
	assert.Equal(t, []Point{{X: 398, Y: 100}, {X: 399, Y: 50}}, b.Snapshot())
}

func TestAppendDoesNotPruneLeftEdge(t *testing.T) {
	b := New(10)
	b.Append(0.5, 1)
	pts := b.Snapshot()
	require.Len(t, pts, 1)
	assert.Equal(t, -0.5, pts[0].X)

	b.Tick(0)
	assert.Zero(t, b.Len())
}

func TestTickEvictsPointsPastLeftEdge(t *testing.T) {
	b := New(10)
	b.Append(1.5, 1) // lands at 0.5
	b.Tick(1)
	assert.Zero(t, b.Len())
}

func TestTickScrollsAndKeepsVisiblePoints(t *testing.T) {
	b := New(10)
	b.Append(3, 1)  // 2, then 1 after the next append
	b.Append(10, 2) // 9
	b.Tick(1.5)

	assert.Equal(t, []Point{{X: 7.5, Y: 2}}, b.Snapshot())
}

func TestTickOnEmptyBuffer(t *testing.T) {
	b := New(10)
	b.Tick(1)
	assert.Empty(t, b.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	b := New(10)
	b.Append(100, 1)
	pts := b.Snapshot()
	pts[0].X = -1

	assert.Equal(t, 99.0, b.Snapshot()[0].X)
}

func TestReset(t *testing.T) {
	b := New(3)
	b.Append(10, 1)
	b.Append(10, 2)
	b.Reset()
	assert.Zero(t, b.Len())
	assert.Equal(t, 3, b.Capacity())
}

func TestNewDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := New(50)
	seq := 0.0
	for range 5000 {
		if rng.Intn(3) == 0 {
			b.Tick(rng.Float64() * 3)
		} else {
			seq++
			b.Append(rng.Float64()*400, seq)
		}

		pts := b.Snapshot()
		require.LessOrEqual(t, len(pts), 50)
		for i := 1; i < len(pts); i++ {
			require.Less(t, pts[i-1].Y, pts[i].Y, "insertion order lost")
		}
	}
}

func TestConcurrentTickAndAppend(t *testing.T) {
	b := New(200)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 1000 {
			b.Append(400, 10)
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			b.Tick(1)
		}
	}()
	wg.Wait()

	assert.LessOrEqual(t, b.Len(), 200)
}

func TestHeight(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(200.0, Height(0, 200))
	assert.Equal(100.0, Height(1000, 200))
	assert.Equal(0.0, Height(2000, 200))
	assert.InDelta(178.0, Height(220, 200), 1e-9)
}
