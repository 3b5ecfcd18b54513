package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pilot-uwb/pilot-go/pkg/connection"
	"github.com/pilot-uwb/pilot-go/pkg/log"
	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

// Session errors.
var (
	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrNotRanging indicates an operation that requires an active ranging
	// session.
	ErrNotRanging = errors.New("session is not ranging")
)

// Handshake defaults, matching the accessory firmware contract.
const (
	// DefaultHandshakeRetryDelay is the delay before re-sending Initialize
	// after a failed configuration attempt.
	DefaultHandshakeRetryDelay = 1 * time.Second

	// DefaultReleaseRetryDelay is the delay before retrying a ranging
	// session after releasing enhancement resources.
	DefaultReleaseRetryDelay = 1 * time.Second

	// DefaultMaxHandshakeAttempts bounds handshake cycles per connection
	// lifetime.
	DefaultMaxHandshakeAttempts = 3
)

// Config holds per-session tunables. The zero value uses defaults.
type Config struct {
	// HandshakeRetryDelay is the fixed delay before handshake retries.
	HandshakeRetryDelay time.Duration

	// ReleaseRetryDelay is the delay before the release-then-retry attempt
	// after the ranging engine reports too many active sessions.
	ReleaseRetryDelay time.Duration

	// MaxHandshakeAttempts bounds handshake cycles per connection lifetime.
	MaxHandshakeAttempts int
}

func (c *Config) applyDefaults() {
	if c.HandshakeRetryDelay <= 0 {
		c.HandshakeRetryDelay = DefaultHandshakeRetryDelay
	}
	if c.ReleaseRetryDelay <= 0 {
		c.ReleaseRetryDelay = DefaultReleaseRetryDelay
	}
	if c.MaxHandshakeAttempts <= 0 {
		c.MaxHandshakeAttempts = DefaultMaxHandshakeAttempts
	}
}

// DeviceSession manages the ranging protocol with one connected accessory.
// All mutable state is guarded by the session's own mutex; the registry
// never shares a session between identities. Collaborator calls and
// callbacks run outside the lock.
type DeviceSession struct {
	mu sync.Mutex

	identity   Identity
	sender     Sender
	ranger     Ranger
	capability ranging.Capability
	cfg        Config

	state          State
	errorReason    ErrorReason
	configAttempts int
	rearmed        bool
	releaseRetried bool
	closed         bool

	discoveryToken uuid.UUID
	sessionToken   SessionToken
	descriptor     ConfigDescriptor

	convergence  ranging.Convergence
	calibration  ranging.Calibration
	lastReading  *ranging.Reading
	lastActivity time.Time

	retry connection.RetryTimer

	enhancement         Enhancement
	enhancementAttached bool

	heading HeadingFunc

	logger   *slog.Logger
	protocol log.Logger
	connID   string

	onReading     func(Identity, ranging.Reading)
	onStateChange func(Identity, State)
}

// New creates a session for one connected accessory. The capability is
// fixed for the session's lifetime.
func New(identity Identity, sender Sender, ranger Ranger, capability ranging.Capability, cfg Config) *DeviceSession {
	cfg.applyDefaults()
	return &DeviceSession{
		identity:     identity,
		sender:       sender,
		ranger:       ranger,
		capability:   capability,
		cfg:          cfg,
		state:        StateIdle,
		lastActivity: time.Now(),
		logger:       slog.New(slog.DiscardHandler),
		protocol:     log.NoopLogger{},
	}
}

// SetLogger sets the operational logger for this session.
func (s *DeviceSession) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger != nil {
		s.logger = logger
	}
}

// SetProtocolLogger sets the protocol event logger and connection ID.
// Events include the connection ID for correlation.
func (s *DeviceSession) SetProtocolLogger(logger log.Logger, connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger != nil {
		s.protocol = logger
	}
	s.connID = connectionID
}

// SetCalibration sets the session's calibration offsets.
func (s *DeviceSession) SetCalibration(cal ranging.Calibration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calibration = cal
}

// SetHeadingFunc sets the host heading source for relative bearing.
func (s *DeviceSession) SetHeadingFunc(fn HeadingFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heading = fn
}

// SetOnReading sets the callback invoked for every updated reading.
func (s *DeviceSession) SetOnReading(fn func(Identity, ranging.Reading)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReading = fn
}

// SetOnStateChange sets the callback invoked for every state transition.
func (s *DeviceSession) SetOnStateChange(fn func(Identity, State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// Identity returns the session's accessory identity.
func (s *DeviceSession) Identity() Identity { return s.identity }

// Capability returns the session's fixed accessory capability.
func (s *DeviceSession) Capability() ranging.Capability { return s.capability }

// State returns the current protocol state.
func (s *DeviceSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrorReason returns the error reason when in StateError, ErrorNone otherwise.
func (s *DeviceSession) ErrorReason() ErrorReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorReason
}

// ConfigAttempts returns the handshake attempts spent this connection.
func (s *DeviceSession) ConfigAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configAttempts
}

// Convergence returns the latest convergence status.
func (s *DeviceSession) Convergence() ranging.Convergence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convergence
}

// DiscoveryToken returns the session's discovery token, or uuid.Nil when no
// ranging configuration exists.
func (s *DeviceSession) DiscoveryToken() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discoveryToken
}

// LastReading returns a copy of the latest reading, or nil if none exists.
func (s *DeviceSession) LastReading() *ranging.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReading == nil {
		return nil
	}
	r := *s.lastReading
	return &r
}

// LastActivity returns the time of the last received message or sample.
// Staleness detection is the surrounding application's concern.
func (s *DeviceSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Touch refreshes the last-activity timestamp, e.g. for a transport-level
// heartbeat that carries no message.
func (s *DeviceSession) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// Start begins the handshake after the transport reports a connection:
// Idle -> AwaitingConfig, sending Initialize.
func (s *DeviceSession) Start() {
	s.mu.Lock()
	if s.closed || s.state != StateIdle {
		s.mu.Unlock()
		return
	}
	emit := s.transitionLocked(StateAwaitingConfig, "transport connected")
	s.mu.Unlock()

	emit()
	s.sendMessage(wire.Initialize())
}

// HandleMessage processes a control-link message from the accessory.
// Messages from one device arrive in order; the transport serializes
// delivery per connection.
func (s *DeviceSession) HandleMessage(data []byte) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.lastActivity = time.Now()
	state := s.state
	s.mu.Unlock()

	msg, err := wire.Decode(data)
	if err != nil {
		if errors.Is(err, wire.ErrEmptyConfigPayload) && state == StateAwaitingConfig {
			// Recoverable accessory-side condition, feeds the retry budget
			s.configFailure("empty configuration payload")
			return
		}
		s.logger.Debug("discarding undecodable message",
			"device", s.identity.Address, "error", err)
		s.logError(err.Error(), "decode")
		return
	}

	s.logMessage(log.DirectionIn, msg)

	switch msg.Type {
	case wire.MessageTypeConfigurationData:
		s.handleConfigurationData(msg.Payload)
	case wire.MessageTypeRangingStarted:
		s.handleRangingStarted()
	case wire.MessageTypeRangingStopped:
		s.handleRangingStopped()
	default:
		// Host-to-accessory kinds echoed back are ignored
		s.logger.Debug("ignoring unexpected message",
			"device", s.identity.Address, "type", msg.Type, "state", state)
	}
}

// handleConfigurationData drives AwaitingConfig through the ranging engine.
func (s *DeviceSession) handleConfigurationData(payload []byte) {
	s.mu.Lock()
	if s.closed || s.state != StateAwaitingConfig {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("ignoring configuration data",
			"device", s.identity.Address, "state", state)
		return
	}
	emit := s.transitionLocked(StateConfiguringRangingEngine, "configuration data received")
	ranger := s.ranger
	s.mu.Unlock()
	emit()

	descriptor, err := ranger.CreateConfiguration(payload)
	if err != nil {
		s.configFailure("ranging engine rejected configuration: " + err.Error())
		return
	}

	token := uuid.New()
	sessionToken, err := ranger.RunSession(descriptor, token)
	if err != nil {
		s.configFailure("failed to run ranging session: " + err.Error())
		return
	}

	s.mu.Lock()
	if s.closed || s.state != StateConfiguringRangingEngine {
		s.mu.Unlock()
		ranger.StopSession(sessionToken)
		return
	}
	s.descriptor = descriptor
	s.discoveryToken = token
	s.sessionToken = sessionToken
	emit = s.transitionLocked(StateAwaitingShareableConfig, "ranging engine accepted descriptor")
	s.mu.Unlock()
	emit()
}

// HandleShareableConfig delivers the locally generated shareable
// configuration: AwaitingShareableConfig -> Starting, sending
// ConfigureAndStart.
func (s *DeviceSession) HandleShareableConfig(shareableConfig []byte) {
	s.mu.Lock()
	if s.closed || s.state != StateAwaitingShareableConfig {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("ignoring shareable config",
			"device", s.identity.Address, "state", state)
		return
	}
	emit := s.transitionLocked(StateStarting, "shareable config ready")
	s.mu.Unlock()

	emit()
	s.sendMessage(wire.ConfigureAndStart(shareableConfig))
}

// handleRangingStarted confirms ranging: Starting -> Ranging.
func (s *DeviceSession) handleRangingStarted() {
	s.mu.Lock()
	switch s.state {
	case StateStarting:
		s.convergence = ranging.Convergence{Status: ranging.ConvergenceNotStarted}
		emit := s.transitionLocked(StateRanging, "ranging started")
		s.mu.Unlock()
		emit()
	case StateRanging:
		// Duplicate confirmation, idempotent
		s.mu.Unlock()
	default:
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("ignoring ranging started",
			"device", s.identity.Address, "state", state)
	}
}

// handleRangingStopped handles accessory-side stop confirmation.
// A stop received in StateStopping was locally requested and terminates
// cleanly. A stop received while Ranging is unexpected: the session
// re-arms with one Initialize re-send, then gives up.
func (s *DeviceSession) handleRangingStopped() {
	s.mu.Lock()
	switch s.state {
	case StateStopping:
		cleanup := s.stopRangingLocked()
		s.retry.Cancel()
		emit := s.transitionLocked(StateDisconnected, "ranging stopped")
		s.mu.Unlock()
		cleanup()
		emit()

	case StateRanging:
		cleanup := s.stopRangingLocked()
		if !s.rearmed {
			s.rearmed = true
			emit := s.transitionLocked(StateAwaitingConfig, "unexpected ranging stop, re-arming")
			s.mu.Unlock()
			cleanup()
			emit()
			s.sendMessage(wire.Initialize())
			return
		}
		emit := s.transitionLocked(StateDisconnected, "repeated unexpected ranging stop")
		s.mu.Unlock()
		cleanup()
		emit()

	case StateDisconnected:
		// Duplicate notification, idempotent
		s.mu.Unlock()

	default:
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("ignoring ranging stopped",
			"device", s.identity.Address, "state", state)
	}
}

// HandleSample processes a ranging sample from the ranging engine. The
// token must match the session's discovery token; mismatched samples
// belong to a stale or foreign session and are dropped.
func (s *DeviceSession) HandleSample(token uuid.UUID, sample ranging.Sample) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.lastActivity = time.Now()
	if s.state != StateRanging {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("dropping sample outside ranging",
			"device", s.identity.Address, "state", state)
		return
	}
	if token != s.discoveryToken {
		s.mu.Unlock()
		s.logger.Debug("dropping sample with mismatched token",
			"device", s.identity.Address)
		return
	}
	capability := s.capability
	conv := s.convergence
	prior := s.lastReading
	cal := s.calibration
	headingFn := s.heading
	s.mu.Unlock()

	heading := 0.0
	if headingFn != nil {
		heading = headingFn()
	}
	reading := ranging.ComputeReading(sample, capability, conv, prior, cal, heading)

	s.mu.Lock()
	if s.closed || s.state != StateRanging || token != s.discoveryToken {
		s.mu.Unlock()
		return
	}
	s.lastReading = &reading
	cb := s.onReading
	s.mu.Unlock()

	s.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		DeviceID:     s.identity.Address,
		Direction:    log.DirectionIn,
		Layer:        log.LayerSession,
		Category:     log.CategorySample,
		Sample: &log.SampleEvent{
			DistanceMeters: reading.DistanceMeters,
			AzimuthDeg:     reading.AzimuthDeg,
			Stale:          reading.IsStale,
		},
	})
	if cb != nil {
		cb(s.identity, reading)
	}
}

// HandleConvergence records a convergence change from the ranging engine.
func (s *DeviceSession) HandleConvergence(conv ranging.Convergence) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.lastActivity = time.Now()
	s.convergence = conv
	s.mu.Unlock()

	s.logger.Debug("convergence changed",
		"device", s.identity.Address, "status", conv.Status, "reason", conv.Reason)
}

// HandleObjectRemoved handles the ranging engine dropping the tracked
// object. A timeout re-arms the handshake without tearing down the
// transport connection.
func (s *DeviceSession) HandleObjectRemoved(reason RemovalReason) {
	s.mu.Lock()
	if s.closed || s.state != StateRanging {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("ignoring object removal",
			"device", s.identity.Address, "state", state, "reason", reason)
		return
	}
	if reason != RemovalTimeout {
		s.mu.Unlock()
		s.logger.Debug("ignoring object removal",
			"device", s.identity.Address, "reason", reason)
		return
	}
	cleanup := s.stopRangingLocked()
	emit := s.transitionLocked(StateAwaitingConfig, "object removed (timeout)")
	s.mu.Unlock()

	cleanup()
	emit()
	s.sendMessage(wire.Initialize())
}

// HandleInvalidated applies the recovery policy for a ranging engine
// session invalidation.
func (s *DeviceSession) HandleInvalidated(reason InvalidationReason) {
	s.mu.Lock()
	if s.closed || s.state.Terminal() {
		s.mu.Unlock()
		return
	}

	switch reason {
	case InvalidationPermissionDenied:
		after := s.failLocked(ErrorPermissionDenied, "session invalidated: permission denied")
		s.mu.Unlock()
		after()

	case InvalidationResourceTimeout:
		// Retry on next reconnect only, not immediately
		after := s.failLocked(ErrorResourceTimeout, "session invalidated: resource timeout")
		s.mu.Unlock()
		after()

	case InvalidationInvalidConfiguration:
		s.configAttempts++
		if s.configAttempts >= s.cfg.MaxHandshakeAttempts {
			after := s.failLocked(ErrorConfigExhausted, "handshake budget exhausted")
			s.mu.Unlock()
			after()
			return
		}
		cleanup := s.stopRangingLocked()
		emit := s.transitionLocked(StateIdle, "session invalidated: invalid configuration")
		s.retry.Schedule(s.cfg.HandshakeRetryDelay, s.resendInitialize)
		s.mu.Unlock()
		cleanup()
		emit()

	case InvalidationTooManySessions:
		if s.releaseRetried {
			after := s.failLocked(ErrorTooManySessions, "session limit hit after release retry")
			s.mu.Unlock()
			after()
			return
		}
		s.releaseRetried = true
		cleanup := s.stopRangingLocked()
		detach := s.detachEnhancementLocked()
		emit := s.transitionLocked(StateConfiguringRangingEngine, "session limit, releasing enhancement")
		s.retry.Schedule(s.cfg.ReleaseRetryDelay, s.rerunRangingSession)
		s.mu.Unlock()
		cleanup()
		detach()
		emit()

	default:
		s.mu.Unlock()
		s.logger.Debug("ignoring unknown invalidation",
			"device", s.identity.Address, "reason", reason)
	}
}

// RequestStop sends Stop and awaits RangingStopped: Ranging -> Stopping.
func (s *DeviceSession) RequestStop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateRanging {
		s.mu.Unlock()
		return ErrNotRanging
	}
	emit := s.transitionLocked(StateStopping, "stop requested")
	s.mu.Unlock()

	emit()
	s.sendMessage(wire.Stop())
	return nil
}

// AttachEnhancement links an optional enhancement to the session.
// Attachment requires an active ranging session; attach failures are
// returned to the caller and never affect the primary session.
func (s *DeviceSession) AttachEnhancement(e Enhancement) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateRanging {
		s.mu.Unlock()
		return ErrNotRanging
	}
	s.mu.Unlock()

	if err := e.Attach(s.identity); err != nil {
		return err
	}

	s.mu.Lock()
	s.enhancement = e
	s.enhancementAttached = true
	s.mu.Unlock()
	return nil
}

// DetachEnhancement releases the attached enhancement, if any.
// Detachment is permitted in any state.
func (s *DeviceSession) DetachEnhancement() {
	s.mu.Lock()
	detach := s.detachEnhancementLocked()
	s.mu.Unlock()
	detach()
}

// Close destroys the session: pending retries are canceled, the ranging
// session is stopped, the enhancement is released and the discovery token
// is invalidated. Safe to call multiple times.
func (s *DeviceSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.retry.Cancel()
	cleanup := s.stopRangingLocked()
	detach := s.detachEnhancementLocked()
	s.discoveryToken = uuid.Nil

	emit := func() {}
	if !s.state.Terminal() {
		emit = s.transitionLocked(StateDisconnected, "session closed")
	}
	s.mu.Unlock()

	cleanup()
	detach()
	emit()
}

// resendInitialize fires from the per-device retry timer.
func (s *DeviceSession) resendInitialize() {
	s.mu.Lock()
	if s.closed || (s.state != StateAwaitingConfig && s.state != StateIdle) {
		s.mu.Unlock()
		return
	}
	emit := func() {}
	if s.state == StateIdle {
		emit = s.transitionLocked(StateAwaitingConfig, "handshake restart")
	}
	s.mu.Unlock()

	emit()
	s.sendMessage(wire.Initialize())
}

// rerunRangingSession fires from the release-then-retry timer after a
// TooManyActiveSessions invalidation.
func (s *DeviceSession) rerunRangingSession() {
	s.mu.Lock()
	if s.closed || s.state != StateConfiguringRangingEngine {
		s.mu.Unlock()
		return
	}
	descriptor := s.descriptor
	ranger := s.ranger
	s.mu.Unlock()

	token := uuid.New()
	sessionToken, err := ranger.RunSession(descriptor, token)
	if err != nil {
		s.configFailure("failed to restart ranging session: " + err.Error())
		return
	}

	s.mu.Lock()
	if s.closed || s.state != StateConfiguringRangingEngine {
		s.mu.Unlock()
		ranger.StopSession(sessionToken)
		return
	}
	s.discoveryToken = token
	s.sessionToken = sessionToken
	emit := s.transitionLocked(StateAwaitingShareableConfig, "ranging session restarted")
	s.mu.Unlock()
	emit()
}

// configFailure spends one handshake attempt and either schedules a retry
// or exhausts the budget.
func (s *DeviceSession) configFailure(cause string) {
	s.mu.Lock()
	if s.closed || s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.configAttempts++
	s.logger.Debug("handshake attempt failed",
		"device", s.identity.Address, "attempt", s.configAttempts, "cause", cause)

	if s.configAttempts >= s.cfg.MaxHandshakeAttempts {
		after := s.failLocked(ErrorConfigExhausted, "handshake budget exhausted")
		s.mu.Unlock()
		after()
		return
	}

	emit := func() {}
	if s.state != StateAwaitingConfig {
		emit = s.transitionLocked(StateAwaitingConfig, "handshake retry")
	}
	s.retry.Schedule(s.cfg.HandshakeRetryDelay, s.resendInitialize)
	s.mu.Unlock()
	emit()
}

// failLocked moves the session into the absorbing error state and returns
// the cleanup to run after unlocking.
func (s *DeviceSession) failLocked(reason ErrorReason, trigger string) func() {
	s.errorReason = reason
	s.retry.Cancel()
	cleanup := s.stopRangingLocked()
	detach := s.detachEnhancementLocked()
	s.discoveryToken = uuid.Nil
	emit := s.transitionLocked(StateError, trigger)

	return func() {
		cleanup()
		detach()
		emit()
	}
}

// stopRangingLocked clears the ranging session token and returns the
// collaborator call to run after unlocking.
func (s *DeviceSession) stopRangingLocked() func() {
	token := s.sessionToken
	s.sessionToken = ""
	if token == "" {
		return func() {}
	}
	ranger := s.ranger
	return func() { ranger.StopSession(token) }
}

// detachEnhancementLocked clears the enhancement attachment and returns
// the collaborator call to run after unlocking.
func (s *DeviceSession) detachEnhancementLocked() func() {
	if !s.enhancementAttached || s.enhancement == nil {
		return func() {}
	}
	e := s.enhancement
	s.enhancementAttached = false
	identity := s.identity
	return func() { e.Detach(identity) }
}

// transitionLocked changes state and returns the emit to run after
// unlocking. Same-state transitions emit nothing.
func (s *DeviceSession) transitionLocked(to State, trigger string) func() {
	old := s.state
	if old == to {
		return func() {}
	}
	s.state = to
	cb := s.onStateChange
	identity := s.identity
	connID := s.connID
	protocol := s.protocol
	logger := s.logger

	return func() {
		logger.Info("session state changed",
			"device", identity.Address, "from", old, "to", to, "trigger", trigger)
		protocol.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: connID,
			DeviceID:     identity.Address,
			Direction:    log.DirectionLocal,
			Layer:        log.LayerSession,
			Category:     log.CategoryState,
			StateChange: &log.StateChangeEvent{
				OldState: old.String(),
				NewState: to.String(),
				Trigger:  trigger,
			},
		})
		if cb != nil {
			cb(identity, to)
		}
	}
}

// sendMessage encodes and sends a control message. Sends are
// fire-and-forget; transport failures surface as disconnect events.
func (s *DeviceSession) sendMessage(m wire.Message) {
	data, err := wire.Encode(m)
	if err != nil {
		s.logger.Error("failed to encode control message",
			"device", s.identity.Address, "type", m.Type, "error", err)
		return
	}

	s.logMessage(log.DirectionOut, m)
	if err := s.sender.Send(data); err != nil {
		s.logger.Warn("control message send failed",
			"device", s.identity.Address, "type", m.Type, "error", err)
	}
}

// logMessage records a control message protocol event.
func (s *DeviceSession) logMessage(direction log.Direction, m wire.Message) {
	s.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		DeviceID:     s.identity.Address,
		Direction:    direction,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:        m.Type,
			PayloadSize: len(m.Payload),
		},
	})
}

// logError records an error protocol event.
func (s *DeviceSession) logError(message, context string) {
	s.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		DeviceID:     s.identity.Address,
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryError,
		Error:        &log.ErrorEventData{Message: message, Context: context},
	})
}
