package transport

import (
	"context"
	"sync"
	"time"
)

// Heartbeat constants.
const (
	// HeartbeatByte is the single-byte heartbeat frame payload. It sits
	// outside the control message discriminant range.
	HeartbeatByte = 0x00

	// DefaultHeartbeatInterval matches the accessory firmware heartbeat.
	DefaultHeartbeatInterval = 5 * time.Second
)

// HeartbeatFrame returns the heartbeat frame payload.
func HeartbeatFrame() []byte {
	return []byte{HeartbeatByte}
}

// IsHeartbeat reports whether a frame payload is a heartbeat.
func IsHeartbeat(data []byte) bool {
	return len(data) == 1 && data[0] == HeartbeatByte
}

// Heartbeat periodically sends heartbeat frames to keep an otherwise quiet
// control link from being reaped. One-way: liveness of the peer is judged
// by the read loop, not by responses.
type Heartbeat struct {
	interval time.Duration
	send     func() error

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewHeartbeat creates a heartbeat sender. An interval of zero or less
// uses DefaultHeartbeatInterval.
func NewHeartbeat(interval time.Duration, send func() error) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{
		interval: interval,
		send:     send,
	}
}

// Start begins sending heartbeats.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.stopCh = make(chan struct{})
	stopCh := h.stopCh
	h.mu.Unlock()

	go h.loop(ctx, stopCh)
}

// Stop stops sending heartbeats.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	close(h.stopCh)
}

// IsRunning reports whether the heartbeat loop is active.
func (h *Heartbeat) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

func (h *Heartbeat) loop(ctx context.Context, stopCh chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			// Send failures are left to the read loop to surface
			_ = h.send()
		}
	}
}
