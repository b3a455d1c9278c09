package preview

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartsmith/pkg/chart"
)

// chartWatcher re-reads a chart file when its modification time changes.
// Served charts are never mutated; a reload swaps the pointer after a
// successful parse, and a failed re-read keeps the previous chart.
type chartWatcher struct {
	path     string
	interval time.Duration
	logger   *log.Logger

	mu      sync.RWMutex
	current *chart.Chart

	modTime time.Time // touched only by the poll goroutine
}

func newChartWatcher(path string, interval time.Duration, logger *log.Logger) (*chartWatcher, error) {
	c, err := chart.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w := &chartWatcher{path: path, interval: interval, logger: logger, current: c}
	if info, err := os.Stat(path); err == nil {
		w.modTime = info.ModTime()
	}
	return w, nil
}

// Chart returns the most recently loaded chart.
func (w *chartWatcher) Chart() *chart.Chart {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run polls the file until the context ends.
func (w *chartWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll re-reads the chart if the file changed since the last load and
// reports whether a reload happened. A parse failure leaves modTime alone,
// so the next tick retries.
func (w *chartWatcher) poll() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		w.logger.Warn("chart stat failed", "path", w.path, "err", err)
		return false
	}
	if info.ModTime().Equal(w.modTime) {
		return false
	}

	c, err := chart.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("chart reload failed", "path", w.path, "err", err)
		return false
	}

	w.mu.Lock()
	w.current = c
	w.mu.Unlock()
	w.modTime = info.ModTime()
	w.logger.Info("chart reloaded", "path", w.path, "objects", c.Len())
	return true
}
