package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "single byte", data: []byte{0x01}},
		{name: "control message", data: []byte{0x04, 0xA1, 0x01, 0x02}},
		{name: "larger payload", data: bytes.Repeat([]byte{0xAB}, 1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			fw := NewFrameWriter(&buf)
			if err := fw.WriteFrame(tt.data); err != nil {
				t.Fatalf("WriteFrame failed: %v", err)
			}

			if buf.Len() != LengthPrefixSize+len(tt.data) {
				t.Errorf("frame size = %d, want %d", buf.Len(), LengthPrefixSize+len(tt.data))
			}

			fr := NewFrameReader(&buf)
			got, err := fr.ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("payload mismatch: got %x, want %x", got, tt.data)
			}
		})
	}
}

func TestFrameWriterRejectsEmpty(t *testing.T) {
	fw := NewFrameWriter(&bytes.Buffer{})
	if err := fw.WriteFrame(nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("WriteFrame(nil) = %v, want ErrMessageEmpty", err)
	}
}

func TestFrameWriterRejectsOversized(t *testing.T) {
	fw := NewFrameWriterWithMaxSize(&bytes.Buffer{}, 8)
	if err := fw.WriteFrame(bytes.Repeat([]byte{0x01}, 9)); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("oversized WriteFrame = %v, want ErrMessageTooLarge", err)
	}
}

func TestFrameReaderRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)
	if err := fw.WriteFrame(bytes.Repeat([]byte{0x01}, 64)); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	fr := NewFrameReaderWithMaxSize(&buf, 8)
	if _, err := fr.ReadFrame(); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("ReadFrame = %v, want ErrMessageTooLarge", err)
	}
}

func TestFrameReaderTruncated(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{name: "partial prefix", raw: []byte{0x00, 0x00}, want: ErrFrameTruncated},
		{name: "partial payload", raw: []byte{0x00, 0x00, 0x00, 0x04, 0x01, 0x02}, want: ErrFrameTruncated},
		{name: "zero length", raw: []byte{0x00, 0x00, 0x00, 0x00}, want: ErrMessageEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := NewFrameReader(bytes.NewReader(tt.raw))
			if _, err := fr.ReadFrame(); !errors.Is(err, tt.want) {
				t.Errorf("ReadFrame = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrameReaderCleanEOF(t *testing.T) {
	fr := NewFrameReader(bytes.NewReader(nil))
	if _, err := fr.ReadFrame(); err != io.EOF {
		t.Errorf("ReadFrame on empty stream = %v, want io.EOF", err)
	}
}

func TestMultipleFramesSequential(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)
	frames := [][]byte{{0x01}, {0x02, 0x03}, {0x04, 0x05, 0x06}}
	for _, f := range frames {
		if err := fw.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	fr := NewFrameReader(&buf)
	for i, want := range frames {
		got, err := fr.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d = %x, want %x", i, got, want)
		}
	}
	if _, err := fr.ReadFrame(); err != io.EOF {
		t.Errorf("trailing ReadFrame = %v, want io.EOF", err)
	}
}

func TestIsHeartbeat(t *testing.T) {
	if !IsHeartbeat(HeartbeatFrame()) {
		t.Error("HeartbeatFrame not recognized as heartbeat")
	}
	if IsHeartbeat([]byte{0x01}) {
		t.Error("control message recognized as heartbeat")
	}
	if IsHeartbeat([]byte{0x00, 0x00}) {
		t.Error("two-byte frame recognized as heartbeat")
	}
}
