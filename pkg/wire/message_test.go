package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{name: "initialize", msg: Initialize()},
		{name: "configure and start", msg: ConfigureAndStart([]byte{0xAA, 0xBB, 0xCC})},
		{name: "stop", msg: Stop()},
		{name: "configuration data", msg: ConfigurationData([]byte{0x01, 0x02})},
		{name: "ranging started", msg: RangingStarted()},
		{name: "ranging stopped", msg: RangingStopped()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if data[0] != byte(tt.msg.Type) {
				t.Errorf("discriminant mismatch: got 0x%02X, want 0x%02X", data[0], byte(tt.msg.Type))
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.Type != tt.msg.Type {
				t.Errorf("Type mismatch: got %v, want %v", decoded.Type, tt.msg.Type)
			}
			if !bytes.Equal(decoded.Payload, tt.msg.Payload) {
				t.Errorf("Payload mismatch: got %v, want %v", decoded.Payload, tt.msg.Payload)
			}
		})
	}
}

func TestDecodeEmptyMessage(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		if _, err := Decode(data); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Decode(%v): got %v, want ErrEmptyMessage", data, err)
		}
	}
}

func TestDecodeUnknownDiscriminant(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "unassigned high tag", data: []byte{0xFF}},
		{name: "zero tag", data: []byte{0x00}},
		{name: "unassigned tag with payload", data: []byte{0x07, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrUnknownDiscriminant) {
				t.Errorf("got %v, want ErrUnknownDiscriminant", err)
			}
		})
	}
}

func TestDecodeEmptyConfigPayload(t *testing.T) {
	// ConfigurationData with no payload is a distinct recoverable error
	_, err := Decode([]byte{byte(MessageTypeConfigurationData)})
	if !errors.Is(err, ErrEmptyConfigPayload) {
		t.Fatalf("got %v, want ErrEmptyConfigPayload", err)
	}
}

func TestDecodePayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "initialize with payload",
			data:    []byte{byte(MessageTypeInitialize), 0x01},
			wantErr: ErrUnexpectedPayload,
		},
		{
			name:    "ranging started with payload",
			data:    []byte{byte(MessageTypeRangingStarted), 0x01, 0x02},
			wantErr: ErrUnexpectedPayload,
		},
		{
			name:    "configure and start without payload",
			data:    []byte{byte(MessageTypeConfigureAndStart)},
			wantErr: ErrMissingPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeValidation(t *testing.T) {
	if _, err := Encode(Message{Type: MessageType(0x7F)}); !errors.Is(err, ErrUnknownDiscriminant) {
		t.Errorf("unknown type: got %v, want ErrUnknownDiscriminant", err)
	}
	if _, err := Encode(Message{Type: MessageTypeStop, Payload: []byte{1}}); !errors.Is(err, ErrUnexpectedPayload) {
		t.Errorf("stop with payload: got %v, want ErrUnexpectedPayload", err)
	}
	if _, err := Encode(Message{Type: MessageTypeConfigurationData}); !errors.Is(err, ErrEmptyConfigPayload) {
		t.Errorf("empty config data: got %v, want ErrEmptyConfigPayload", err)
	}
}

func TestDecodeCopiesPayload(t *testing.T) {
	data := []byte{byte(MessageTypeConfigurationData), 0x01, 0x02}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Mutating the input must not change the decoded message
	data[1] = 0xFF
	if msg.Payload[0] != 0x01 {
		t.Error("decoded payload aliases the input buffer")
	}
}

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		t    MessageType
		want string
	}{
		{MessageTypeInitialize, "INITIALIZE"},
		{MessageTypeConfigureAndStart, "CONFIGURE_AND_START"},
		{MessageTypeStop, "STOP"},
		{MessageTypeConfigurationData, "CONFIGURATION_DATA"},
		{MessageTypeRangingStarted, "RANGING_STARTED"},
		{MessageTypeRangingStopped, "RANGING_STOPPED"},
		{MessageType(0xFF), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("MessageType(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}
