package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// AdvertiserConfig configures mDNS advertising.
type AdvertiserConfig struct {
	// Interface restricts advertising to one network interface.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		TTL: 120 * time.Second,
	}
}

// Advertiser announces a ranging host over mDNS.
type Advertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates an mDNS advertiser.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	if config.TTL <= 0 {
		config.TTL = DefaultAdvertiserConfig().TTL
	}
	return &Advertiser{config: config}
}

// Advertise starts announcing the host. A previous announcement is
// replaced.
func (a *Advertiser) Advertise(info *HostInfo) error {
	if info.Port == 0 {
		return fmt.Errorf("%w: port", ErrMissingRequired)
	}

	instanceName := info.InstanceName
	if instanceName == "" {
		instanceName = info.Name
	}
	if instanceName == "" {
		return fmt.Errorf("%w: instance name", ErrMissingRequired)
	}
	if len(instanceName) > MaxInstanceNameLen {
		instanceName = instanceName[:MaxInstanceNameLen]
	}

	txtStrings := TXTRecordsToStrings(EncodeHostTXT(info))

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	server, err := zeroconf.Register(
		instanceName,
		ServiceType,
		Domain,
		int(info.Port),
		txtStrings,
		a.interfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	a.server = server
	return nil
}

// Update replaces the TXT records of the current announcement.
func (a *Advertiser) Update(info *HostInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return fmt.Errorf("%w: no active advertisement", ErrMissingRequired)
	}
	a.server.SetText(TXTRecordsToStrings(EncodeHostTXT(info)))
	return nil
}

// Stop withdraws the announcement. Safe to call when not advertising.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// interfaces returns the interfaces to advertise on, nil meaning all.
func (a *Advertiser) interfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}
