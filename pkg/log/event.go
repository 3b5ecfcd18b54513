package log

import (
	"time"

	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the control-link connection (UUID).
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// DeviceID is the accessory identity the event belongs to.
	DeviceID string `cbor:"3,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"4,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"5,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"6,keyasint"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"7,keyasint,omitempty"`  // Transport layer
	Message     *MessageEvent     `cbor:"8,keyasint,omitempty"`  // Decoded control message
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // Session state transition
	Sample      *SampleEvent      `cbor:"10,keyasint,omitempty"` // Ranging sample
	Error       *ErrorEventData   `cbor:"11,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message or sample.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
	// DirectionLocal indicates a locally generated event.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionLocal:
		return "LOCAL"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the control message layer (decoded messages).
	LayerWire Layer = 1
	// LayerSession is the session/engine layer.
	LayerSession Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a control message.
	CategoryMessage Category = 0
	// CategoryState indicates a session state change.
	CategoryState Category = 1
	// CategorySample indicates a ranging sample.
	CategorySample Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategorySample:
		return "SAMPLE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded control message at the wire layer.
type MessageEvent struct {
	// Type is the control message discriminant.
	Type wire.MessageType `cbor:"1,keyasint"`

	// PayloadSize is the payload length in bytes.
	PayloadSize int `cbor:"2,keyasint,omitempty"`
}

// StateChangeEvent captures a session state transition.
type StateChangeEvent struct {
	// OldState is the state before the transition.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`

	// Trigger names the event that caused the transition.
	Trigger string `cbor:"3,keyasint,omitempty"`
}

// SampleEvent captures a computed ranging reading.
type SampleEvent struct {
	// DistanceMeters is the computed distance.
	DistanceMeters float64 `cbor:"1,keyasint"`

	// AzimuthDeg is the computed azimuth.
	AzimuthDeg float64 `cbor:"2,keyasint"`

	// Stale indicates the reading carried forward prior angular data.
	Stale bool `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being attempted.
	Context string `cbor:"2,keyasint,omitempty"`
}
