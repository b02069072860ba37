package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var simTime = time.Date(2018, 7, 30, 8, 12, 0, 0, time.UTC)

func snapshot(seq uint64, trips ...string) Snapshot {
	s := Snapshot{Seq: seq, Time: simTime, Trucks: map[string]TruckLocation{}}
	for _, id := range trips {
		s.Trucks[TripKey(id)] = TruckLocation{RouteID: "10", RouteName: "Northern Loop", PONumber: "PO-" + id}
	}
	return s
}

func TestMemory_EmptyBeforeFirstPublish(t *testing.T) {
	m := NewMemory()
	_, ok := m.Latest()
	assert.False(t, ok)
}

func TestMemory_ReplacesNeverMerges(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, snapshot(1, "700", "701")))
	require.NoError(t, m.Publish(ctx, snapshot(2, "702")))

	got, ok := m.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.Seq)
	assert.Len(t, got.Trucks, 1)
	assert.Contains(t, got.Trucks, "Trip_702")
}

func TestMemory_RejectsStaleSequence(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, snapshot(5, "700")))
	err := m.Publish(ctx, snapshot(4, "701"))
	assert.True(t, errors.Is(err, ErrStaleSnapshot))
	err = m.Publish(ctx, snapshot(5, "701"))
	assert.ErrorIs(t, err, ErrStaleSnapshot)

	got, _ := m.Latest()
	assert.Equal(t, uint64(5), got.Seq)
	assert.Contains(t, got.Trucks, "Trip_700")
}

func TestMemory_ConcurrentPublishKeepsNewest(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			_ = m.Publish(context.Background(), snapshot(seq, "700"))
			_, _ = m.Latest()
		}(uint64(i))
	}
	wg.Wait()

	got, ok := m.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(50), got.Seq)
}

func TestTripIDFromKey(t *testing.T) {
	id, ok := TripIDFromKey(TripKey("700"))
	assert.True(t, ok)
	assert.Equal(t, "700", id)

	_, ok = TripIDFromKey("Vehicle_700")
	assert.False(t, ok)
}
