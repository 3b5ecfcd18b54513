package wire

import (
	"errors"
	"fmt"
)

// Configuration limits from the accessory firmware contract.
const (
	// MaxDeviceNameLength is the maximum accessory name length in bytes.
	MaxDeviceNameLength = 32

	// ShareableTokenLength is the discovery token length in bytes (UUID).
	ShareableTokenLength = 16
)

// Configuration payload errors.
var (
	// ErrInvalidAccessoryConfig indicates an undecodable or invalid
	// accessory configuration payload.
	ErrInvalidAccessoryConfig = errors.New("invalid accessory configuration")

	// ErrInvalidShareableConfig indicates an undecodable or invalid
	// shareable configuration payload.
	ErrInvalidShareableConfig = errors.New("invalid shareable configuration")
)

// AngleSupport describes the angular data an accessory can produce.
type AngleSupport uint8

const (
	// AngleSupportNone indicates distance-only ranging.
	AngleSupportNone AngleSupport = 0

	// AngleSupportHorizontal indicates horizontal-angle ranging only.
	AngleSupportHorizontal AngleSupport = 1

	// AngleSupportFull3D indicates full 3D direction vector ranging.
	AngleSupportFull3D AngleSupport = 2
)

// String returns the angle support name.
func (a AngleSupport) String() string {
	switch a {
	case AngleSupportNone:
		return "NONE"
	case AngleSupportHorizontal:
		return "HORIZONTAL"
	case AngleSupportFull3D:
		return "FULL_3D"
	default:
		return "UNKNOWN"
	}
}

// AccessoryConfig is the ranging configuration descriptor an accessory
// delivers inside a ConfigurationData message. The local ranging engine
// consumes it to build a session descriptor.
type AccessoryConfig struct {
	// SpecVersion is the accessory protocol version. Must be non-zero.
	SpecVersion uint8 `cbor:"1,keyasint"`

	// PreferredUpdateRateMs is the accessory's preferred ranging sample
	// interval in milliseconds. Zero means use the engine default.
	PreferredUpdateRateMs uint16 `cbor:"2,keyasint,omitempty"`

	// DeviceName is the accessory's human-readable name.
	DeviceName string `cbor:"3,keyasint,omitempty"`

	// AngleSupport describes the accessory's angular capability.
	AngleSupport AngleSupport `cbor:"4,keyasint,omitempty"`
}

// Validate checks descriptor field constraints.
func (c *AccessoryConfig) Validate() error {
	if c.SpecVersion == 0 {
		return fmt.Errorf("%w: spec version is zero", ErrInvalidAccessoryConfig)
	}
	if len(c.DeviceName) > MaxDeviceNameLength {
		return fmt.Errorf("%w: device name %d bytes exceeds %d",
			ErrInvalidAccessoryConfig, len(c.DeviceName), MaxDeviceNameLength)
	}
	if c.AngleSupport > AngleSupportFull3D {
		return fmt.Errorf("%w: angle support %d", ErrInvalidAccessoryConfig, c.AngleSupport)
	}
	return nil
}

// EncodeAccessoryConfig encodes an accessory configuration descriptor.
func EncodeAccessoryConfig(c *AccessoryConfig) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return Marshal(c)
}

// DecodeAccessoryConfig decodes an accessory configuration descriptor.
func DecodeAccessoryConfig(data []byte) (*AccessoryConfig, error) {
	var c AccessoryConfig
	if err := Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessoryConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ShareableConfig is the configuration blob the local ranging engine
// generates for a session. It is transmitted to the accessory inside a
// ConfigureAndStart message to complete the handshake.
type ShareableConfig struct {
	// SessionID is the engine-assigned ranging session identifier.
	SessionID uint32 `cbor:"1,keyasint"`

	// Token is the 16-byte discovery token correlating ranging samples
	// with the session that requested them.
	Token []byte `cbor:"2,keyasint"`

	// UpdateRateMs is the negotiated ranging sample interval in milliseconds.
	UpdateRateMs uint16 `cbor:"3,keyasint,omitempty"`
}

// Validate checks shareable configuration constraints.
func (c *ShareableConfig) Validate() error {
	if len(c.Token) != ShareableTokenLength {
		return fmt.Errorf("%w: token is %d bytes, want %d",
			ErrInvalidShareableConfig, len(c.Token), ShareableTokenLength)
	}
	return nil
}

// EncodeShareableConfig encodes a shareable configuration.
func EncodeShareableConfig(c *ShareableConfig) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return Marshal(c)
}

// DecodeShareableConfig decodes a shareable configuration.
func DecodeShareableConfig(data []byte) (*ShareableConfig, error) {
	var c ShareableConfig
	if err := Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareableConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
