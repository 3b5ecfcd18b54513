package engine

import (
	"github.com/google/uuid"

	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/session"
)

// TransportEventType classifies a transport event.
type TransportEventType uint8

const (
	// TransportConnected indicates a new accessory control link.
	TransportConnected TransportEventType = iota

	// TransportMessage carries a control-link message from an accessory.
	TransportMessage

	// TransportDisconnected indicates a control link was lost.
	TransportDisconnected

	// TransportHeartbeat indicates a liveness frame from an accessory.
	TransportHeartbeat
)

// String returns the event type name.
func (t TransportEventType) String() string {
	switch t {
	case TransportConnected:
		return "CONNECTED"
	case TransportMessage:
		return "MESSAGE"
	case TransportDisconnected:
		return "DISCONNECTED"
	case TransportHeartbeat:
		return "HEARTBEAT"
	default:
		return "UNKNOWN"
	}
}

// TransportEvent is one event from the control-link transport. The
// transport serializes events per connection, so messages from one device
// arrive in order.
type TransportEvent struct {
	Type     TransportEventType
	Identity session.Identity

	// Capability is the accessory's angle capability, known at connect time.
	Capability ranging.Capability

	// ConnectionID correlates protocol log events for this link.
	ConnectionID string

	// Sender is valid for TransportConnected and bound to the new link.
	Sender session.Sender

	// Data is valid for TransportMessage.
	Data []byte
}

// Transport is a control-link transport accepting accessory connections.
type Transport interface {
	// Start begins accepting connections.
	Start() error

	// Events returns the transport's event stream. The channel closes when
	// the transport shuts down.
	Events() <-chan TransportEvent

	// Close shuts the transport down and closes all links.
	Close() error
}

// RangingEventType classifies a ranging engine event.
type RangingEventType uint8

const (
	// RangingShareableConfig carries the generated shareable configuration
	// for a newly run session.
	RangingShareableConfig RangingEventType = iota

	// RangingSample carries one ranging sample.
	RangingSample

	// RangingConvergenceChanged carries a convergence status update.
	RangingConvergenceChanged

	// RangingObjectRemoved indicates the tracked object was dropped.
	RangingObjectRemoved

	// RangingInvalidated indicates the ranging session was invalidated.
	RangingInvalidated
)

// RangingEvent is one event from the local ranging engine, scoped to the
// identity whose session it concerns.
type RangingEvent struct {
	Type     RangingEventType
	Identity session.Identity

	// ShareableConfig is valid for RangingShareableConfig.
	ShareableConfig []byte

	// Token is valid for RangingSample and binds the sample to a session.
	Token uuid.UUID

	// Sample is valid for RangingSample.
	Sample ranging.Sample

	// Convergence is valid for RangingConvergenceChanged.
	Convergence ranging.Convergence

	// Removal is valid for RangingObjectRemoved.
	Removal session.RemovalReason

	// Invalidation is valid for RangingInvalidated.
	Invalidation session.InvalidationReason
}

// RangingEngine is the local UWB ranging stack. Calls are identity scoped;
// the engine binds a per-identity view into each session.
type RangingEngine interface {
	// CreateConfiguration validates an accessory configuration payload.
	CreateConfiguration(identity session.Identity, payload []byte) (session.ConfigDescriptor, error)

	// RunSession starts a ranging session for the descriptor.
	RunSession(identity session.Identity, descriptor session.ConfigDescriptor, token uuid.UUID) (session.SessionToken, error)

	// StopSession stops a running ranging session.
	// Safe to call for an already-stopped session.
	StopSession(identity session.Identity, token session.SessionToken)

	// Events returns the engine's event stream. The channel closes when the
	// engine shuts down.
	Events() <-chan RangingEvent
}

// HeadingProvider supplies the host device heading in degrees.
type HeadingProvider interface {
	Heading() float64
}

// FixedHeading is a HeadingProvider returning a constant heading.
type FixedHeading float64

// Heading returns the fixed heading in degrees.
func (f FixedHeading) Heading() float64 { return float64(f) }

// identityRanger narrows a RangingEngine to one identity, satisfying
// session.Ranger.
type identityRanger struct {
	engine   RangingEngine
	identity session.Identity
}

var _ session.Ranger = (*identityRanger)(nil)

func (r *identityRanger) CreateConfiguration(payload []byte) (session.ConfigDescriptor, error) {
	return r.engine.CreateConfiguration(r.identity, payload)
}

func (r *identityRanger) RunSession(descriptor session.ConfigDescriptor, token uuid.UUID) (session.SessionToken, error) {
	return r.engine.RunSession(r.identity, descriptor, token)
}

func (r *identityRanger) StopSession(token session.SessionToken) {
	r.engine.StopSession(r.identity, token)
}
