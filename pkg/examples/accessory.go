package examples

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pilot-uwb/pilot-go/pkg/ranging"
	"github.com/pilot-uwb/pilot-go/pkg/transport"
	"github.com/pilot-uwb/pilot-go/pkg/wire"
)

// AccessoryConfig configures a simulated accessory.
type AccessoryConfig struct {
	// Address is the accessory's stable identifier.
	Address string

	// Name is the accessory's display name.
	Name string

	// Capability is the accessory's angle capability.
	Capability ranging.Capability

	// PreferredUpdateRateMs is the sample rate the accessory requests.
	PreferredUpdateRateMs uint16

	// Logger is the operational logger (optional).
	Logger *slog.Logger
}

// SimulatedAccessory answers the control-link handshake like the
// accessory firmware: Initialize yields ConfigurationData, a valid
// ConfigureAndStart yields RangingStarted, Stop yields RangingStopped.
type SimulatedAccessory struct {
	config AccessoryConfig
	send   func([]byte) error
	logger *slog.Logger

	mu      sync.Mutex
	ranging bool
}

// NewSimulatedAccessory creates a simulated accessory that replies through
// send.
func NewSimulatedAccessory(config AccessoryConfig, send func([]byte) error) *SimulatedAccessory {
	if config.PreferredUpdateRateMs == 0 {
		config.PreferredUpdateRateMs = uint16(ranging.SampleInterval / time.Millisecond)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SimulatedAccessory{
		config: config,
		send:   send,
		logger: logger,
	}
}

// Ranging reports whether the accessory believes ranging is active.
func (a *SimulatedAccessory) Ranging() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ranging
}

// HandleMessage processes one control-link message from the host.
func (a *SimulatedAccessory) HandleMessage(data []byte) {
	msg, err := wire.Decode(data)
	if err != nil {
		a.logger.Debug("accessory discarding undecodable message", "error", err)
		return
	}

	switch msg.Type {
	case wire.MessageTypeInitialize:
		a.sendConfigurationData()

	case wire.MessageTypeConfigureAndStart:
		if _, err := wire.DecodeShareableConfig(msg.Payload); err != nil {
			a.logger.Debug("accessory rejecting shareable config", "error", err)
			return
		}
		a.mu.Lock()
		a.ranging = true
		a.mu.Unlock()
		a.reply(wire.RangingStarted())

	case wire.MessageTypeStop:
		a.mu.Lock()
		wasRanging := a.ranging
		a.ranging = false
		a.mu.Unlock()
		if wasRanging {
			a.reply(wire.RangingStopped())
		}

	default:
		a.logger.Debug("accessory ignoring message", "type", msg.Type)
	}
}

func (a *SimulatedAccessory) sendConfigurationData() {
	cfg := wire.AccessoryConfig{
		SpecVersion:           1,
		PreferredUpdateRateMs: a.config.PreferredUpdateRateMs,
		DeviceName:            a.config.Name,
		AngleSupport:          angleSupportFor(a.config.Capability),
	}
	payload, err := wire.EncodeAccessoryConfig(&cfg)
	if err != nil {
		a.logger.Error("accessory failed to encode configuration", "error", err)
		return
	}
	a.reply(wire.ConfigurationData(payload))
}

func (a *SimulatedAccessory) reply(m wire.Message) {
	data, err := wire.Encode(m)
	if err != nil {
		a.logger.Error("accessory failed to encode reply", "type", m.Type, "error", err)
		return
	}
	if err := a.send(data); err != nil {
		a.logger.Warn("accessory send failed", "type", m.Type, "error", err)
	}
}

func angleSupportFor(c ranging.Capability) wire.AngleSupport {
	if c == ranging.CapabilityHorizontalAngleOnly {
		return wire.AngleSupportHorizontal
	}
	return wire.AngleSupportFull3D
}

// RunAccessory connects a simulated accessory to a host and serves the
// handshake until ctx is canceled or the link drops.
func RunAccessory(ctx context.Context, address string, config AccessoryConfig) error {
	var accessory *SimulatedAccessory

	disconnected := make(chan struct{})
	client, err := transport.NewClient(transport.ClientConfig{
		Address: address,
		Hello: transport.Hello{
			Address:    config.Address,
			Name:       config.Name,
			Capability: config.Capability,
		},
		Logger:    config.Logger,
		OnMessage: func(data []byte) { accessory.HandleMessage(data) },
		OnDisconnect: func(error) {
			close(disconnected)
		},
	})
	if err != nil {
		return err
	}
	accessory = NewSimulatedAccessory(config, client.Send)

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("accessory connect failed: %w", err)
	}

	select {
	case <-ctx.Done():
		client.Close()
		return ctx.Err()
	case <-disconnected:
		return nil
	}
}
