package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pilot-uwb/pilot-go/pkg/engine"
	"github.com/pilot-uwb/pilot-go/pkg/log"
	"github.com/pilot-uwb/pilot-go/pkg/session"
)

// DefaultPort is the default control-link port.
const DefaultPort = 5554

// DefaultHelloTimeout bounds how long a new connection may take to send
// its hello frame.
const DefaultHelloTimeout = 5 * time.Second

// ServerConfig configures a control-link server.
type ServerConfig struct {
	// Address to listen on (e.g., ":5554" or "127.0.0.1:5554").
	Address string

	// MaxMessageSize is the maximum frame payload size.
	MaxMessageSize uint32

	// HelloTimeout bounds the wait for a connection's hello frame.
	HelloTimeout time.Duration

	// Logger is the operational logger (optional).
	Logger *slog.Logger

	// ProtocolLogger records frame-level protocol events (optional).
	ProtocolLogger log.Logger
}

// Server accepts accessory control links and surfaces them as transport
// events. Satisfies engine.Transport.
type Server struct {
	config   ServerConfig
	listener net.Listener
	events   chan engine.TransportEvent

	conns   map[*serverConn]struct{}
	connsMu sync.Mutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

var _ engine.Transport = (*Server)(nil)

// NewServer creates a control-link server.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.HelloTimeout == 0 {
		config.HelloTimeout = DefaultHelloTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config: config,
		events: make(chan engine.TransportEvent, 64),
		conns:  make(map[*serverConn]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins accepting connections.
func (s *Server) Start() error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.running.Store(true)

	s.config.Logger.Info("control-link server listening", "address", listener.Addr())

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Events returns the transport event stream. The channel closes when the
// server shuts down.
func (s *Server) Events() <-chan engine.TransportEvent {
	return s.events
}

// Addr returns the server's listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// Close shuts the server down and closes all links.
func (s *Server) Close() error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	close(s.events)
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.config.Logger.Warn("accept failed", "error", err)
			}
			continue
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection performs the hello exchange and runs the read loop.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	connID := uuid.New().String()
	framer := NewFramerWithMaxSize(conn, s.config.MaxMessageSize)
	if s.config.ProtocolLogger != nil {
		framer.SetLogger(s.config.ProtocolLogger, connID)
	}

	conn.SetReadDeadline(time.Now().Add(s.config.HelloTimeout))
	helloData, err := framer.ReadFrame()
	if err != nil {
		conn.Close()
		s.config.Logger.Debug("connection dropped before hello",
			"remote", conn.RemoteAddr(), "error", err)
		return
	}
	hello, err := DecodeHello(helloData)
	if err != nil {
		conn.Close()
		s.config.Logger.Warn("rejecting connection with invalid hello",
			"remote", conn.RemoteAddr(), "error", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	identity := session.Identity{Address: hello.Address, Name: hello.Name}
	sconn := &serverConn{
		conn:    conn,
		framer:  framer,
		closeCh: make(chan struct{}),
	}

	s.connsMu.Lock()
	s.conns[sconn] = struct{}{}
	s.connsMu.Unlock()

	s.emit(engine.TransportEvent{
		Type:         engine.TransportConnected,
		Identity:     identity,
		Capability:   hello.Capability,
		ConnectionID: connID,
		Sender:       sconn,
	})

	s.readLoop(sconn, identity)

	s.connsMu.Lock()
	delete(s.conns, sconn)
	s.connsMu.Unlock()

	s.emit(engine.TransportEvent{
		Type:         engine.TransportDisconnected,
		Identity:     identity,
		ConnectionID: connID,
	})
}

func (s *Server) readLoop(c *serverConn, identity session.Identity) {
	for {
		select {
		case <-c.closeCh:
			return
		case <-s.ctx.Done():
			return
		default:
		}

		data, err := c.framer.ReadFrame()
		if err != nil {
			c.Close()
			return
		}

		if IsHeartbeat(data) {
			s.emit(engine.TransportEvent{
				Type:     engine.TransportHeartbeat,
				Identity: identity,
			})
			continue
		}

		s.emit(engine.TransportEvent{
			Type:     engine.TransportMessage,
			Identity: identity,
			Data:     data,
		})
	}
}

// emit delivers an event without blocking shutdown.
func (s *Server) emit(event engine.TransportEvent) {
	select {
	case s.events <- event:
	case <-s.ctx.Done():
	}
}

// serverConn is one accepted accessory link. Satisfies session.Sender.
type serverConn struct {
	conn      net.Conn
	framer    *Framer
	closeCh   chan struct{}
	closeOnce sync.Once
}

var _ session.Sender = (*serverConn)(nil)

// Send writes one framed message to the accessory.
func (c *serverConn) Send(data []byte) error {
	return c.framer.WriteFrame(data)
}

// Close closes the link.
func (c *serverConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}
