package transport

import (
	"errors"
	"strings"
	"testing"

	"github.com/pilot-uwb/pilot-go/pkg/ranging"
)

func TestHelloRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		hello Hello
	}{
		{
			name:  "full direction",
			hello: Hello{Address: "aa:bb:cc:dd", Name: "Tag 1", Capability: ranging.CapabilityFullDirection},
		},
		{
			name:  "horizontal only, no name",
			hello: Hello{Address: "11:22:33", Capability: ranging.CapabilityHorizontalAngleOnly},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeHello(tt.hello)
			if err != nil {
				t.Fatalf("EncodeHello failed: %v", err)
			}

			got, err := DecodeHello(data)
			if err != nil {
				t.Fatalf("DecodeHello failed: %v", err)
			}
			if got != tt.hello {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, tt.hello)
			}
		})
	}
}

func TestHelloValidation(t *testing.T) {
	tests := []struct {
		name  string
		hello Hello
	}{
		{name: "empty address", hello: Hello{Capability: ranging.CapabilityFullDirection}},
		{name: "oversized name", hello: Hello{Address: "a", Name: strings.Repeat("x", 33)}},
		{name: "unknown capability", hello: Hello{Address: "a", Capability: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeHello(tt.hello); !errors.Is(err, ErrInvalidHello) {
				t.Errorf("EncodeHello = %v, want ErrInvalidHello", err)
			}
		})
	}
}

func TestDecodeHelloGarbage(t *testing.T) {
	if _, err := DecodeHello([]byte{0xFF, 0xFF}); !errors.Is(err, ErrInvalidHello) {
		t.Errorf("DecodeHello(garbage) = %v, want ErrInvalidHello", err)
	}
}
