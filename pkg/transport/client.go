package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pilot-uwb/pilot-go/pkg/connection"
)

// Client errors.
var (
	// ErrNotConnected indicates an operation on an unconnected client.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates Connect on a connected client.
	ErrAlreadyConnected = errors.New("already connected")
)

// DefaultMaxConnectAttempts matches the accessory firmware reconnect
// behavior.
const DefaultMaxConnectAttempts = 3

// ClientConfig configures an accessory-side control-link client.
type ClientConfig struct {
	// Address is the host's control-link address, host:port.
	Address string

	// Hello announces the accessory's identity and capability.
	Hello Hello

	// MaxMessageSize is the maximum frame payload size.
	MaxMessageSize uint32

	// HeartbeatInterval spaces liveness frames. Zero uses the default;
	// negative disables heartbeats.
	HeartbeatInterval time.Duration

	// MaxConnectAttempts bounds connection attempts per Connect call.
	MaxConnectAttempts int

	// Logger is the operational logger (optional).
	Logger *slog.Logger

	// OnMessage is called for each received control message.
	OnMessage func(data []byte)

	// OnDisconnect is called when the link is lost. Not called for a
	// locally initiated Close.
	OnDisconnect func(err error)
}

// Client is an accessory-side control link. Used by accessory simulators
// to talk to a host.
type Client struct {
	config ClientConfig

	mu        sync.Mutex
	conn      net.Conn
	framer    *Framer
	heartbeat *Heartbeat
	connected bool
	closed    bool
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// NewClient creates a client. Call Connect to establish the link.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Address == "" {
		return nil, errors.New("address is required")
	}
	if err := config.Hello.Validate(); err != nil {
		return nil, err
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.MaxConnectAttempts <= 0 {
		config.MaxConnectAttempts = DefaultMaxConnectAttempts
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Client{config: config}, nil
}

// Connect dials the host and performs the hello exchange, retrying with
// backoff up to MaxConnectAttempts.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	backoff := connection.NewBackoff()
	var lastErr error

	for attempt := 0; attempt < c.config.MaxConnectAttempts; attempt++ {
		if attempt > 0 {
			delay := backoff.Next()
			c.config.Logger.Debug("retrying connection",
				"attempt", attempt+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.dial(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("connect failed after %d attempts: %w",
		c.config.MaxConnectAttempts, lastErr)
}

func (c *Client) dial(ctx context.Context) error {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", c.config.Address)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	framer := NewFramerWithMaxSize(conn, c.config.MaxMessageSize)
	helloData, err := EncodeHello(c.config.Hello)
	if err != nil {
		conn.Close()
		return err
	}
	if err := framer.WriteFrame(helloData); err != nil {
		conn.Close()
		return fmt.Errorf("hello failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.framer = framer
	c.connected = true
	c.closed = false
	c.closeCh = make(chan struct{})

	if c.config.HeartbeatInterval >= 0 {
		c.heartbeat = NewHeartbeat(c.config.HeartbeatInterval, func() error {
			return c.Send(HeartbeatFrame())
		})
		c.heartbeat.Start(ctx)
	}
	c.mu.Unlock()

	c.wg.Add(1)
	go c.readLoop(framer)

	c.config.Logger.Info("connected", "address", c.config.Address,
		"device", c.config.Hello.Address)
	return nil
}

// Send writes one framed message to the host.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	framer := c.framer
	connected := c.connected
	c.mu.Unlock()

	if !connected || framer == nil {
		return ErrNotConnected
	}
	return framer.WriteFrame(data)
}

// Connected reports whether the link is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close tears the link down. Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	if !c.connected || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	close(c.closeCh)
	if c.heartbeat != nil {
		c.heartbeat.Stop()
	}
	conn := c.conn
	c.conn = nil
	c.framer = nil
	c.mu.Unlock()

	err := conn.Close()
	c.wg.Wait()
	return err
}

func (c *Client) readLoop(framer *Framer) {
	defer c.wg.Done()

	for {
		data, err := framer.ReadFrame()
		if err != nil {
			c.mu.Lock()
			locallyClosed := c.closed
			c.connected = false
			if c.heartbeat != nil {
				c.heartbeat.Stop()
			}
			c.mu.Unlock()

			if !locallyClosed {
				c.config.Logger.Info("connection lost", "error", err)
				if c.config.OnDisconnect != nil {
					c.config.OnDisconnect(err)
				}
			}
			return
		}

		if IsHeartbeat(data) {
			continue
		}
		if c.config.OnMessage != nil {
			c.config.OnMessage(data)
		}
	}
}
