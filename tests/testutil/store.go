package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/nhle/hammer-list/internal/graph"
	"github.com/nhle/hammer-list/internal/store"
)

// Epoch is the first timestamp handed out by graphs from NewTestGraph.
var Epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestGraph returns an empty graph backed by a MemoryStore. Ids are
// "id-1", "id-2", ... and every clock read advances one second from Epoch.
func NewTestGraph(t *testing.T) (*graph.Graph, *store.MemoryStore) {
	t.Helper()

	ms := store.NewMemoryStore()
	return graph.New(ms, DeterministicOptions()...), ms
}

// DeterministicOptions returns graph options with a sequential id generator
// and a stepping clock.
func DeterministicOptions() []graph.Option {
	var n int
	var ticks int
	return []graph.Option{
		graph.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		graph.WithClock(func() time.Time {
			ticks++
			return Epoch.Add(time.Duration(ticks) * time.Second)
		}),
	}
}
