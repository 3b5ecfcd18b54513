package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAccessoryConfigRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  AccessoryConfig
	}{
		{
			name: "full 3d accessory",
			cfg: AccessoryConfig{
				SpecVersion:           1,
				PreferredUpdateRateMs: 100,
				DeviceName:            "Gabriel's Pilot",
				AngleSupport:          AngleSupportFull3D,
			},
		},
		{
			name: "horizontal angle accessory",
			cfg: AccessoryConfig{
				SpecVersion:  2,
				DeviceName:   "tag-7",
				AngleSupport: AngleSupportHorizontal,
			},
		},
		{
			name: "minimal",
			cfg:  AccessoryConfig{SpecVersion: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeAccessoryConfig(&tt.cfg)
			if err != nil {
				t.Fatalf("EncodeAccessoryConfig failed: %v", err)
			}

			decoded, err := DecodeAccessoryConfig(data)
			if err != nil {
				t.Fatalf("DecodeAccessoryConfig failed: %v", err)
			}
			if *decoded != tt.cfg {
				t.Errorf("round trip mismatch: got %+v, want %+v", *decoded, tt.cfg)
			}
		})
	}
}

func TestAccessoryConfigDeterministic(t *testing.T) {
	cfg := AccessoryConfig{SpecVersion: 1, DeviceName: "tag", AngleSupport: AngleSupportFull3D}

	a, err := EncodeAccessoryConfig(&cfg)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	b, err := EncodeAccessoryConfig(&cfg)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding is not deterministic")
	}
}

func TestAccessoryConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  AccessoryConfig
	}{
		{name: "zero spec version", cfg: AccessoryConfig{}},
		{
			name: "name too long",
			cfg: AccessoryConfig{
				SpecVersion: 1,
				DeviceName:  strings.Repeat("x", MaxDeviceNameLength+1),
			},
		},
		{
			name: "bad angle support",
			cfg:  AccessoryConfig{SpecVersion: 1, AngleSupport: AngleSupport(9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeAccessoryConfig(&tt.cfg); !errors.Is(err, ErrInvalidAccessoryConfig) {
				t.Errorf("got %v, want ErrInvalidAccessoryConfig", err)
			}
		})
	}
}

func TestDecodeAccessoryConfigGarbage(t *testing.T) {
	if _, err := DecodeAccessoryConfig([]byte{0xFF, 0x00, 0x13}); !errors.Is(err, ErrInvalidAccessoryConfig) {
		t.Errorf("got %v, want ErrInvalidAccessoryConfig", err)
	}
}

func TestShareableConfigRoundTrip(t *testing.T) {
	token := bytes.Repeat([]byte{0xAB}, ShareableTokenLength)
	cfg := ShareableConfig{SessionID: 42, Token: token, UpdateRateMs: 100}

	data, err := EncodeShareableConfig(&cfg)
	if err != nil {
		t.Fatalf("EncodeShareableConfig failed: %v", err)
	}

	decoded, err := DecodeShareableConfig(data)
	if err != nil {
		t.Fatalf("DecodeShareableConfig failed: %v", err)
	}
	if decoded.SessionID != cfg.SessionID {
		t.Errorf("SessionID mismatch: got %d, want %d", decoded.SessionID, cfg.SessionID)
	}
	if !bytes.Equal(decoded.Token, cfg.Token) {
		t.Errorf("Token mismatch: got %x, want %x", decoded.Token, cfg.Token)
	}
	if decoded.UpdateRateMs != cfg.UpdateRateMs {
		t.Errorf("UpdateRateMs mismatch: got %d, want %d", decoded.UpdateRateMs, cfg.UpdateRateMs)
	}
}

func TestShareableConfigTokenLength(t *testing.T) {
	cfg := ShareableConfig{SessionID: 1, Token: []byte{0x01, 0x02}}
	if _, err := EncodeShareableConfig(&cfg); !errors.Is(err, ErrInvalidShareableConfig) {
		t.Errorf("got %v, want ErrInvalidShareableConfig", err)
	}
}
