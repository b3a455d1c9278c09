package preview

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// touch pushes the file's mtime into the future so a poll sees a change
// regardless of filesystem timestamp resolution.
func touch(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeTestChart(t)
	w, err := newChartWatcher(path, time.Hour, log.New(io.Discard))
	require.NoError(t, err)
	require.Equal(t, 2, w.Chart().Len())

	assert.False(t, w.poll(), "unchanged file should not reload")

	c := chart.New("Neon Rush", 174, 4)
	require.NoError(t, c.Add(chart.NewTap(1, 0)))
	require.NoError(t, chart.WriteFile(c, path))
	touch(t, path)

	assert.True(t, w.poll())
	assert.Equal(t, 1, w.Chart().Len())
}

func TestWatcherKeepsChartOnBadReload(t *testing.T) {
	path := writeTestChart(t)
	w, err := newChartWatcher(path, time.Hour, log.New(io.Discard))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("lanes = }"), 0o644))
	touch(t, path)

	assert.False(t, w.poll())
	assert.Equal(t, "Neon Rush", w.Chart().Title)
	assert.Equal(t, 2, w.Chart().Len())
}

func TestWatcherMissingFileKeepsChart(t *testing.T) {
	path := writeTestChart(t)
	w, err := newChartWatcher(path, time.Hour, log.New(io.Discard))
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	assert.False(t, w.poll())
	assert.Equal(t, 2, w.Chart().Len())
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	path := writeTestChart(t)
	w, err := newChartWatcher(path, time.Hour, log.New(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
