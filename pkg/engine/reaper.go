package engine

import (
	"log/slog"
	"sync"
	"time"
)

// reaper periodically closes sessions whose control link went silent.
type reaper struct {
	registry *Registry
	maxIdle  time.Duration
	logger   *slog.Logger
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func newReaper(registry *Registry, maxIdle time.Duration, logger *slog.Logger) *reaper {
	r := &reaper{
		registry: registry,
		maxIdle:  maxIdle,
		logger:   logger,
		done:     make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *reaper) run() {
	defer r.wg.Done()

	interval := r.maxIdle / 4
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, identity := range r.registry.CloseStale(r.maxIdle) {
				r.logger.Info("session timed out", "device", identity.Address)
			}
		case <-r.done:
			return
		}
	}
}

func (r *reaper) stop() {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}
