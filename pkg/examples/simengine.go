package examples

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pilot-uwb/pilot-go/pkg/engine"
	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/session"
	"github.com/pilot-uwb/pilot-go/pkg/version"
	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

// ConvergenceAfterSamples is how many samples a simulated session emits
// before reporting convergence.
const ConvergenceAfterSamples = 5

// SimulatedRangingEngine plays the platform UWB stack. RunSession emits a
// shareable configuration and then synthetic samples: each tracked
// accessory orbits the host on a slow circle at a fixed distance.
// Satisfies engine.RangingEngine.
type SimulatedRangingEngine struct {
	mu        sync.Mutex
	events    chan engine.RangingEvent
	sessions  map[session.SessionToken]*simSession
	nextID    uint32
	closed    bool
	closeOnce sync.Once
}

type simSession struct {
	identity   session.Identity
	token      uuid.UUID
	updateRate time.Duration
	capability wire.AngleSupport
	stopCh     chan struct{}
	stopOnce   sync.Once
}

var _ engine.RangingEngine = (*SimulatedRangingEngine)(nil)

// NewSimulatedRangingEngine creates a simulated ranging engine.
func NewSimulatedRangingEngine() *SimulatedRangingEngine {
	return &SimulatedRangingEngine{
		events:   make(chan engine.RangingEvent, 64),
		sessions: make(map[session.SessionToken]*simSession),
	}
}

// CreateConfiguration validates an accessory configuration payload.
func (e *SimulatedRangingEngine) CreateConfiguration(_ session.Identity, payload []byte) (session.ConfigDescriptor, error) {
	cfg, err := wire.DecodeAccessoryConfig(payload)
	if err != nil {
		return nil, err
	}
	if !version.SupportsWire(cfg.SpecVersion) {
		return nil, fmt.Errorf("unsupported accessory protocol version %d", cfg.SpecVersion)
	}
	return cfg, nil
}

// RunSession starts emitting a shareable configuration and samples for
// the descriptor.
func (e *SimulatedRangingEngine) RunSession(identity session.Identity, descriptor session.ConfigDescriptor, token uuid.UUID) (session.SessionToken, error) {
	cfg, ok := descriptor.(*wire.AccessoryConfig)
	if !ok {
		return "", fmt.Errorf("unexpected descriptor type %T", descriptor)
	}

	updateRate := ranging.SampleInterval
	if cfg.PreferredUpdateRateMs > 0 {
		updateRate = time.Duration(cfg.PreferredUpdateRateMs) * time.Millisecond
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", fmt.Errorf("ranging engine closed")
	}
	e.nextID++
	sessionID := e.nextID
	sessionToken := session.SessionToken(fmt.Sprintf("sim-%d", sessionID))
	s := &simSession{
		identity:   identity,
		token:      token,
		updateRate: updateRate,
		capability: cfg.AngleSupport,
		stopCh:     make(chan struct{}),
	}
	e.sessions[sessionToken] = s
	e.mu.Unlock()

	shareable, err := wire.EncodeShareableConfig(&wire.ShareableConfig{
		SessionID:    sessionID,
		Token:        token[:],
		UpdateRateMs: uint16(updateRate / time.Millisecond),
	})
	if err != nil {
		return "", err
	}

	e.emit(engine.RangingEvent{
		Type:            engine.RangingShareableConfig,
		Identity:        identity,
		ShareableConfig: shareable,
	})

	go e.sampleLoop(s)
	return sessionToken, nil
}

// StopSession stops a running simulated session. Safe to call for an
// already-stopped session.
func (e *SimulatedRangingEngine) StopSession(_ session.Identity, token session.SessionToken) {
	e.mu.Lock()
	s, ok := e.sessions[token]
	if ok {
		delete(e.sessions, token)
	}
	e.mu.Unlock()

	if ok {
		s.stopOnce.Do(func() { close(s.stopCh) })
	}
}

// Events returns the engine's event stream.
func (e *SimulatedRangingEngine) Events() <-chan engine.RangingEvent {
	return e.events
}

// Close stops all sessions and closes the event stream.
func (e *SimulatedRangingEngine) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		sessions := make([]*simSession, 0, len(e.sessions))
		for _, s := range e.sessions {
			sessions = append(sessions, s)
		}
		e.sessions = make(map[session.SessionToken]*simSession)
		e.mu.Unlock()

		for _, s := range sessions {
			s.stopOnce.Do(func() { close(s.stopCh) })
		}
		close(e.events)
	})
}

// sampleLoop emits synthetic samples on a circular path until stopped.
func (e *SimulatedRangingEngine) sampleLoop(s *simSession) {
	ticker := time.NewTicker(s.updateRate)
	defer ticker.Stop()

	const distance = 2.0
	angle := 0.0
	count := 0

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			count++
			angle += 0.05

			if count == ConvergenceAfterSamples {
				e.emit(engine.RangingEvent{
					Type:        engine.RangingConvergenceChanged,
					Identity:    s.identity,
					Convergence: ranging.Convergence{Status: ranging.ConvergenceConverged},
				})
			}

			dist := distance
			sample := ranging.Sample{
				DistanceMeters: &dist,
				CapturedAt:     time.Now(),
			}
			if s.capability == wire.AngleSupportHorizontal {
				azimuth := angle
				sample.HorizontalAngleRad = &azimuth
			} else {
				sample.Direction = &ranging.Vector{
					X: math.Sin(angle),
					Y: 0,
					Z: math.Cos(angle),
				}
			}

			e.emit(engine.RangingEvent{
				Type:     engine.RangingSample,
				Identity: s.identity,
				Token:    s.token,
				Sample:   sample,
			})
		}
	}
}

// emit delivers an event, dropping it when the stream is saturated so a
// stalled consumer cannot wedge the sample loops.
func (e *SimulatedRangingEngine) emit(event engine.RangingEvent) {
	defer func() {
		// Sending on the closed events channel during shutdown is benign
		_ = recover()
	}()
	select {
	case e.events <- event:
	default:
	}
}
