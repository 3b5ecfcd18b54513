package engine

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/pilot-uwb/pilot-go/pkg/log"
	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/session"
)

// ErrUnknownDevice indicates no session exists for the given address.
var ErrUnknownDevice = errors.New("unknown device")

// Engine runs the multi-device ranging service: it accepts accessory
// connections from the transport, drives one session per device and routes
// ranging engine events to the session they belong to.
type Engine struct {
	cfg           Config
	transport     Transport
	rangingEngine RangingEngine
	registry      *Registry
	heading       HeadingProvider

	logger   *slog.Logger
	protocol log.Logger

	onReading func(session.Identity, ranging.Reading)

	reaper    *reaper
	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
	started   bool
	mu        sync.Mutex
}

// New creates an engine. Call the setters before Start.
func New(cfg Config, transport Transport, rangingEngine RangingEngine) *Engine {
	cfg.applyDefaults()
	logger := slog.New(slog.DiscardHandler)
	return &Engine{
		cfg:           cfg,
		transport:     transport,
		rangingEngine: rangingEngine,
		registry:      NewRegistry(cfg.MaxSessions, logger),
		logger:        logger,
		protocol:      log.NoopLogger{},
		done:          make(chan struct{}),
	}
}

// SetLogger sets the operational logger.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	e.logger = logger
	e.registry.logger = logger
}

// SetProtocolLogger sets the protocol event logger shared by all sessions.
func (e *Engine) SetProtocolLogger(logger log.Logger) {
	if logger != nil {
		e.protocol = logger
	}
}

// SetHeadingProvider sets the host heading source for relative bearings.
func (e *Engine) SetHeadingProvider(p HeadingProvider) {
	e.heading = p
}

// SetOnReading sets the callback invoked for every updated reading, from
// any device.
func (e *Engine) SetOnReading(fn func(session.Identity, ranging.Reading)) {
	e.onReading = fn
}

// Start starts the transport and the event pumps.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return errors.New("engine already started")
	}
	e.started = true
	e.mu.Unlock()

	if err := e.transport.Start(); err != nil {
		return err
	}

	e.reaper = newReaper(e.registry, e.cfg.ConnectionTimeout.Duration, e.logger)

	e.wg.Add(2)
	go e.transportLoop()
	go e.rangingLoop()
	return nil
}

// Close shuts down the transport, the event pumps and all sessions. The
// ranging engine collaborator is not owned by the Engine and stays open;
// the pumps stop regardless.
func (e *Engine) Close() error {
	err := e.transport.Close()
	e.closeOnce.Do(func() { close(e.done) })
	e.wg.Wait()
	if e.reaper != nil {
		e.reaper.stop()
	}
	e.registry.Close()
	return err
}

// Registry exposes the session registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// RequestStop asks the device's accessory to stop ranging.
func (e *Engine) RequestStop(address string) error {
	s, ok := e.registry.Get(address)
	if !ok {
		return ErrUnknownDevice
	}
	return s.RequestStop()
}

// Disconnect closes the session for address.
func (e *Engine) Disconnect(address string) error {
	if _, ok := e.registry.Get(address); !ok {
		return ErrUnknownDevice
	}
	e.registry.Remove(address)
	return nil
}

// AttachEnhancement attaches an enhancement to the device's session.
func (e *Engine) AttachEnhancement(address string, enh session.Enhancement) error {
	s, ok := e.registry.Get(address)
	if !ok {
		return ErrUnknownDevice
	}
	return s.AttachEnhancement(enh)
}

// SessionState returns the session state for address.
func (e *Engine) SessionState(address string) (session.State, error) {
	s, ok := e.registry.Get(address)
	if !ok {
		return 0, ErrUnknownDevice
	}
	return s.State(), nil
}

// SetCalibration updates the calibration offsets for the device's
// session. Takes effect from the next reading.
func (e *Engine) SetCalibration(address string, cal ranging.Calibration) error {
	s, ok := e.registry.Get(address)
	if !ok {
		return ErrUnknownDevice
	}
	s.SetCalibration(cal)
	return nil
}

// Readings returns the latest reading per connected device.
func (e *Engine) Readings() map[string]ranging.Reading {
	return e.registry.Readings()
}

// Reading returns the latest reading for one device, or nil if none.
func (e *Engine) Reading(address string) (*ranging.Reading, error) {
	s, ok := e.registry.Get(address)
	if !ok {
		return nil, ErrUnknownDevice
	}
	return s.LastReading(), nil
}

func (e *Engine) transportLoop() {
	defer e.wg.Done()

	for event := range e.transport.Events() {
		switch event.Type {
		case TransportConnected:
			e.handleConnected(event)
		case TransportMessage:
			if s, ok := e.registry.Get(event.Identity.Address); ok {
				s.HandleMessage(event.Data)
			} else {
				e.logger.Debug("message from unknown device", "device", event.Identity.Address)
			}
		case TransportHeartbeat:
			if s, ok := e.registry.Get(event.Identity.Address); ok {
				s.Touch()
			}
		case TransportDisconnected:
			e.logger.Info("device disconnected", "device", event.Identity.Address)
			e.registry.Remove(event.Identity.Address)
		}
	}
}

func (e *Engine) handleConnected(event TransportEvent) {
	s := session.New(event.Identity, event.Sender,
		&identityRanger{engine: e.rangingEngine, identity: event.Identity},
		event.Capability,
		session.Config{
			HandshakeRetryDelay:  e.cfg.HandshakeRetryDelay.Duration,
			ReleaseRetryDelay:    e.cfg.ReleaseRetryDelay.Duration,
			MaxHandshakeAttempts: e.cfg.MaxHandshakeAttempts,
		})
	s.SetLogger(e.logger)
	s.SetProtocolLogger(e.protocol, event.ConnectionID)
	s.SetCalibration(ranging.Calibration{
		AzimuthOffsetDeg:     e.cfg.AzimuthOffsetDeg,
		DistanceOffsetMeters: e.cfg.DistanceOffsetMeters,
	})
	if e.heading != nil {
		s.SetHeadingFunc(e.heading.Heading)
	}
	if e.onReading != nil {
		s.SetOnReading(e.onReading)
	}
	s.SetOnStateChange(func(_ session.Identity, state session.State) {
		// Cleanly ended sessions are forgotten without closing twice.
		// Error-state sessions stay registered while their connection is
		// up so the consumer can observe the reason and decide.
		if state == session.StateDisconnected {
			e.registry.Drop(s)
		}
	})

	if err := e.registry.Add(s); err != nil {
		e.logger.Warn("rejecting connection", "device", event.Identity.Address, "error", err)
		s.Close()
		return
	}

	e.logger.Info("device connected",
		"device", event.Identity.Address, "name", event.Identity.Name,
		"capability", event.Capability)
	s.Start()
}

func (e *Engine) rangingLoop() {
	defer e.wg.Done()

	for {
		var event RangingEvent
		var ok bool
		select {
		case <-e.done:
			return
		case event, ok = <-e.rangingEngine.Events():
			if !ok {
				return
			}
		}

		s, ok := e.registry.Get(event.Identity.Address)
		if !ok {
			e.logger.Debug("ranging event for unknown device",
				"device", event.Identity.Address, "type", event.Type)
			continue
		}

		switch event.Type {
		case RangingShareableConfig:
			s.HandleShareableConfig(event.ShareableConfig)
		case RangingSample:
			s.HandleSample(event.Token, event.Sample)
		case RangingConvergenceChanged:
			s.HandleConvergence(event.Convergence)
		case RangingObjectRemoved:
			s.HandleObjectRemoved(event.Removal)
		case RangingInvalidated:
			s.HandleInvalidated(event.Invalidation)
		}
	}
}
