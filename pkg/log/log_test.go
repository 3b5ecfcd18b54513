package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

func TestEventRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "message event",
			event: Event{
				Timestamp:    time.Now().UTC(),
				ConnectionID: "conn-1",
				DeviceID:     "dev-1",
				Direction:    DirectionOut,
				Layer:        LayerWire,
				Category:     CategoryMessage,
				Message:      &MessageEvent{Type: wire.MessageTypeInitialize},
			},
		},
		{
			name: "state change event",
			event: Event{
				Timestamp: time.Now().UTC(),
				DeviceID:  "dev-2",
				Direction: DirectionLocal,
				Layer:     LayerSession,
				Category:  CategoryState,
				StateChange: &StateChangeEvent{
					OldState: "AWAITING_CONFIG",
					NewState: "CONFIGURING_RANGING_ENGINE",
					Trigger:  "CONFIGURATION_DATA",
				},
			},
		},
		{
			name: "sample event",
			event: Event{
				Timestamp: time.Now().UTC(),
				DeviceID:  "dev-3",
				Direction: DirectionIn,
				Layer:     LayerSession,
				Category:  CategorySample,
				Sample:    &SampleEvent{DistanceMeters: 2.5, AzimuthDeg: 90, Stale: true},
			},
		},
		{
			name: "error event",
			event: Event{
				Timestamp: time.Now().UTC(),
				Direction: DirectionIn,
				Layer:     LayerWire,
				Category:  CategoryError,
				Error:     &ErrorEventData{Message: "unknown message discriminant", Context: "decode"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}

			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if decoded.ConnectionID != tt.event.ConnectionID {
				t.Errorf("ConnectionID mismatch: got %q, want %q", decoded.ConnectionID, tt.event.ConnectionID)
			}
			if decoded.DeviceID != tt.event.DeviceID {
				t.Errorf("DeviceID mismatch: got %q, want %q", decoded.DeviceID, tt.event.DeviceID)
			}
			if decoded.Direction != tt.event.Direction {
				t.Errorf("Direction mismatch: got %v, want %v", decoded.Direction, tt.event.Direction)
			}
			if decoded.Category != tt.event.Category {
				t.Errorf("Category mismatch: got %v, want %v", decoded.Category, tt.event.Category)
			}
			if !decoded.Timestamp.Equal(tt.event.Timestamp) {
				t.Errorf("Timestamp mismatch: got %v, want %v", decoded.Timestamp, tt.event.Timestamp)
			}
		})
	}
}

func TestReadAll(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	want := []Event{
		{Timestamp: time.Now().UTC(), DeviceID: "a", Category: CategoryMessage},
		{Timestamp: time.Now().UTC(), DeviceID: "b", Category: CategoryState},
		{Timestamp: time.Now().UTC(), DeviceID: "c", Category: CategorySample},
	}
	for _, e := range want {
		if err := enc.Encode(e); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}

	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("ReadAll returned %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].DeviceID != want[i].DeviceID {
			t.Errorf("event %d DeviceID = %q, want %q", i, got[i].DeviceID, want[i].DeviceID)
		}
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.cborlog")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	fl.Log(Event{Timestamp: time.Now().UTC(), DeviceID: "dev-1", Category: CategoryMessage})
	fl.Log(Event{Timestamp: time.Now().UTC(), DeviceID: "dev-1", Category: CategoryState})

	if err := fl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close twice is fine; Log after close is ignored
	if err := fl.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	fl.Log(Event{DeviceID: "ignored"})

	f, err := filepath.Glob(path)
	if err != nil || len(f) != 1 {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	adapter.Log(Event{
		Timestamp: time.Now(),
		DeviceID:  "dev-1",
		Direction: DirectionOut,
		Layer:     LayerWire,
		Category:  CategoryMessage,
		Message:   &MessageEvent{Type: wire.MessageTypeStop},
	})

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("dev-1")) {
		t.Errorf("slog output missing device id: %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("STOP")) {
		t.Errorf("slog output missing message type: %q", out)
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b recordingLogger
	ml := NewMultiLogger(&a, &b)

	ml.Log(Event{DeviceID: "dev-1"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("multi logger fan-out: got %d/%d events, want 1/1", len(a.events), len(b.events))
	}
}

type recordingLogger struct {
	events []Event
}

func (r *recordingLogger) Log(e Event) { r.events = append(r.events, e) }
