package transport

import (
	"errors"
	"fmt"

	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

// Hello errors.
var (
	// ErrInvalidHello indicates a malformed or incomplete hello frame.
	ErrInvalidHello = errors.New("invalid hello")
)

// Hello is the first frame an accessory sends after connecting. It
// announces the stable identity the registry keys on and the angle
// capability the session computes readings with.
type Hello struct {
	// Address is the accessory's stable identifier.
	Address string `cbor:"1,keyasint"`

	// Name is the human-readable accessory name.
	Name string `cbor:"2,keyasint,omitempty"`

	// Capability is the accessory's angle capability.
	Capability ranging.Capability `cbor:"3,keyasint"`
}

// Validate checks the hello fields.
func (h *Hello) Validate() error {
	if h.Address == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidHello)
	}
	if len(h.Name) > wire.MaxDeviceNameLength {
		return fmt.Errorf("%w: name exceeds %d bytes", ErrInvalidHello, wire.MaxDeviceNameLength)
	}
	switch h.Capability {
	case ranging.CapabilityFullDirection, ranging.CapabilityHorizontalAngleOnly:
		return nil
	default:
		return fmt.Errorf("%w: unknown capability %d", ErrInvalidHello, h.Capability)
	}
}

// EncodeHello encodes a hello frame payload.
func EncodeHello(h Hello) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return wire.Marshal(h)
}

// DecodeHello decodes and validates a hello frame payload.
func DecodeHello(data []byte) (Hello, error) {
	var h Hello
	if err := wire.Unmarshal(data, &h); err != nil {
		return Hello{}, fmt.Errorf("%w: %v", ErrInvalidHello, err)
	}
	if err := h.Validate(); err != nil {
		return Hello{}, err
	}
	return h, nil
}
