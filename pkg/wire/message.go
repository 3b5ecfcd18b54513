package wire

import (
	"errors"
	"fmt"
)

// MessageType is the control message discriminant, carried as byte 0 of
// every wire message.
type MessageType uint8

const (
	// MessageTypeInitialize requests accessory configuration data.
	// Host -> accessory, no payload.
	MessageTypeInitialize MessageType = 0x01

	// MessageTypeConfigureAndStart delivers the shareable configuration and
	// asks the accessory to start ranging. Host -> accessory, payload required.
	MessageTypeConfigureAndStart MessageType = 0x02

	// MessageTypeStop asks the accessory to stop ranging.
	// Host -> accessory, no payload.
	MessageTypeStop MessageType = 0x03

	// MessageTypeConfigurationData carries the accessory's ranging
	// configuration. Accessory -> host, payload required.
	MessageTypeConfigurationData MessageType = 0x04

	// MessageTypeRangingStarted confirms ranging is active.
	// Accessory -> host, no payload.
	MessageTypeRangingStarted MessageType = 0x05

	// MessageTypeRangingStopped confirms ranging has stopped.
	// Accessory -> host, no payload.
	MessageTypeRangingStopped MessageType = 0x06
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case MessageTypeInitialize:
		return "INITIALIZE"
	case MessageTypeConfigureAndStart:
		return "CONFIGURE_AND_START"
	case MessageTypeStop:
		return "STOP"
	case MessageTypeConfigurationData:
		return "CONFIGURATION_DATA"
	case MessageTypeRangingStarted:
		return "RANGING_STARTED"
	case MessageTypeRangingStopped:
		return "RANGING_STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is an assigned discriminant.
func (t MessageType) Valid() bool {
	return t >= MessageTypeInitialize && t <= MessageTypeRangingStopped
}

// HasPayload reports whether the message kind carries payload bytes.
func (t MessageType) HasPayload() bool {
	return t == MessageTypeConfigureAndStart || t == MessageTypeConfigurationData
}

// Decode and encode errors.
var (
	// ErrEmptyMessage indicates a zero-length wire message.
	ErrEmptyMessage = errors.New("empty message")

	// ErrUnknownDiscriminant indicates an unassigned discriminant byte.
	ErrUnknownDiscriminant = errors.New("unknown message discriminant")

	// ErrEmptyConfigPayload indicates a ConfigurationData message with no
	// payload. This is a distinct, recoverable accessory-side condition and
	// feeds the bounded handshake retry rather than a generic decode failure.
	ErrEmptyConfigPayload = errors.New("configuration data payload is empty")

	// ErrMissingPayload indicates a ConfigureAndStart message with no payload.
	ErrMissingPayload = errors.New("message requires a payload")

	// ErrUnexpectedPayload indicates payload bytes on a zero-payload message kind.
	ErrUnexpectedPayload = errors.New("message must not carry a payload")
)

// Message is a decoded control message.
type Message struct {
	// Type is the message discriminant.
	Type MessageType

	// Payload is the message payload. Nil for zero-payload message kinds.
	Payload []byte
}

// Initialize returns an Initialize message.
func Initialize() Message {
	return Message{Type: MessageTypeInitialize}
}

// ConfigureAndStart returns a ConfigureAndStart message carrying the
// shareable configuration bytes.
func ConfigureAndStart(shareableConfig []byte) Message {
	return Message{Type: MessageTypeConfigureAndStart, Payload: shareableConfig}
}

// Stop returns a Stop message.
func Stop() Message {
	return Message{Type: MessageTypeStop}
}

// ConfigurationData returns a ConfigurationData message carrying the
// accessory configuration bytes.
func ConfigurationData(accessoryConfig []byte) Message {
	return Message{Type: MessageTypeConfigurationData, Payload: accessoryConfig}
}

// RangingStarted returns a RangingStarted message.
func RangingStarted() Message {
	return Message{Type: MessageTypeRangingStarted}
}

// RangingStopped returns a RangingStopped message.
func RangingStopped() Message {
	return Message{Type: MessageTypeRangingStopped}
}

// Encode encodes a control message to wire bytes.
// The result is deterministic: one discriminant byte followed by the
// payload, if the message kind carries one.
func Encode(m Message) ([]byte, error) {
	if !m.Type.Valid() {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownDiscriminant, uint8(m.Type))
	}
	if err := validatePayload(m.Type, m.Payload); err != nil {
		return nil, err
	}

	data := make([]byte, 1+len(m.Payload))
	data[0] = byte(m.Type)
	copy(data[1:], m.Payload)
	return data, nil
}

// Decode decodes wire bytes into a control message.
// The payload slice is copied, so the caller may reuse data.
func Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return Message{}, ErrEmptyMessage
	}

	t := MessageType(data[0])
	if !t.Valid() {
		return Message{}, fmt.Errorf("%w: 0x%02X", ErrUnknownDiscriminant, data[0])
	}

	payload := data[1:]
	if err := validatePayload(t, payload); err != nil {
		return Message{}, err
	}

	m := Message{Type: t}
	if len(payload) > 0 {
		m.Payload = make([]byte, len(payload))
		copy(m.Payload, payload)
	}
	return m, nil
}

// validatePayload checks payload presence against the discriminant.
func validatePayload(t MessageType, payload []byte) error {
	switch {
	case t == MessageTypeConfigurationData && len(payload) == 0:
		return ErrEmptyConfigPayload
	case t == MessageTypeConfigureAndStart && len(payload) == 0:
		return fmt.Errorf("%w: %s", ErrMissingPayload, t)
	case !t.HasPayload() && len(payload) > 0:
		return fmt.Errorf("%w: %s carries %d payload bytes", ErrUnexpectedPayload, t, len(payload))
	}
	return nil
}
