package transport

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilot-uwb/pilot-go/pkg/engine"
	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	srv := NewServer(ServerConfig{Address: "127.0.0.1:0"})
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

// collectEvents drains the server event stream into a guarded slice.
func collectEvents(srv *Server) (func() []engine.TransportEvent, func() *engine.TransportEvent) {
	var mu sync.Mutex
	var events []engine.TransportEvent
	go func() {
		for ev := range srv.Events() {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}
	}()
	all := func() []engine.TransportEvent {
		mu.Lock()
		defer mu.Unlock()
		return append([]engine.TransportEvent(nil), events...)
	}
	last := func() *engine.TransportEvent {
		evs := all()
		if len(evs) == 0 {
			return nil
		}
		return &evs[len(evs)-1]
	}
	return all, last
}

func TestServerClientExchange(t *testing.T) {
	srv := startTestServer(t)
	allEvents, _ := collectEvents(srv)

	client, err := NewClient(ClientConfig{
		Address: srv.Addr().String(),
		Hello: Hello{
			Address:    "aa:bb:cc",
			Name:       "Tag 1",
			Capability: ranging.CapabilityFullDirection,
		},
		HeartbeatInterval: -1,
	})
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	// Connected event carries the hello identity and a usable sender
	var connected engine.TransportEvent
	require.Eventually(t, func() bool {
		for _, ev := range allEvents() {
			if ev.Type == engine.TransportConnected {
				connected = ev
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	assert.Equal(t, "aa:bb:cc", connected.Identity.Address)
	assert.Equal(t, "Tag 1", connected.Identity.Name)
	assert.Equal(t, ranging.CapabilityFullDirection, connected.Capability)
	assert.NotEmpty(t, connected.ConnectionID)
	require.NotNil(t, connected.Sender)

	// Client to server
	frame, err := wire.Encode(wire.ConfigurationData([]byte{0x01, 0x02}))
	require.NoError(t, err)
	require.NoError(t, client.Send(frame))

	require.Eventually(t, func() bool {
		for _, ev := range allEvents() {
			if ev.Type == engine.TransportMessage {
				msg, err := wire.Decode(ev.Data)
				return err == nil && msg.Type == wire.MessageTypeConfigurationData
			}
		}
		return false
	}, time.Second, time.Millisecond)

	// Server to client
	var mu sync.Mutex
	var received []wire.Message
	initFrame, err := wire.Encode(wire.Initialize())
	require.NoError(t, err)

	client2, err := NewClient(ClientConfig{
		Address:           srv.Addr().String(),
		Hello:             Hello{Address: "dd:ee:ff", Capability: ranging.CapabilityHorizontalAngleOnly},
		HeartbeatInterval: -1,
		OnMessage: func(data []byte) {
			if msg, err := wire.Decode(data); err == nil {
				mu.Lock()
				received = append(received, msg)
				mu.Unlock()
			}
		},
	})
	require.NoError(t, err)
	require.NoError(t, client2.Connect(context.Background()))
	defer client2.Close()

	var connected2 engine.TransportEvent
	require.Eventually(t, func() bool {
		for _, ev := range allEvents() {
			if ev.Type == engine.TransportConnected && ev.Identity.Address == "dd:ee:ff" {
				connected2 = ev
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	require.NoError(t, connected2.Sender.Send(initFrame))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1 && received[0].Type == wire.MessageTypeInitialize
	}, time.Second, time.Millisecond)
}

func TestServerEmitsDisconnect(t *testing.T) {
	srv := startTestServer(t)
	allEvents, _ := collectEvents(srv)

	client, err := NewClient(ClientConfig{
		Address:           srv.Addr().String(),
		Hello:             Hello{Address: "aa:bb:cc", Capability: ranging.CapabilityFullDirection},
		HeartbeatInterval: -1,
	})
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background()))

	require.NoError(t, client.Close())

	require.Eventually(t, func() bool {
		for _, ev := range allEvents() {
			if ev.Type == engine.TransportDisconnected && ev.Identity.Address == "aa:bb:cc" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestServerHeartbeatEvents(t *testing.T) {
	srv := startTestServer(t)
	allEvents, _ := collectEvents(srv)

	client, err := NewClient(ClientConfig{
		Address:           srv.Addr().String(),
		Hello:             Hello{Address: "aa:bb:cc", Capability: ranging.CapabilityFullDirection},
		HeartbeatInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	require.Eventually(t, func() bool {
		for _, ev := range allEvents() {
			if ev.Type == engine.TransportHeartbeat && ev.Identity.Address == "aa:bb:cc" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestServerRejectsInvalidHello(t *testing.T) {
	srv := startTestServer(t)
	_, lastEvent := collectEvents(srv)

	// A client whose hello is garbage never yields a Connected event
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	fw := NewFrameWriter(conn)
	require.NoError(t, fw.WriteFrame([]byte{0xDE, 0xAD}))

	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, lastEvent())
}

func TestClientConnectRetriesExhausted(t *testing.T) {
	client, err := NewClient(ClientConfig{
		Address:            "127.0.0.1:1", // nothing listens here
		Hello:              Hello{Address: "a", Capability: ranging.CapabilityFullDirection},
		MaxConnectAttempts: 2,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Error(t, client.Connect(ctx))
	assert.False(t, client.Connected())
}
