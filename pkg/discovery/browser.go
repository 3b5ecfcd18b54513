package discovery

import (
	"context"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures mDNS browsing.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface.
	// Empty string means all interfaces.
	Interface string
}

// Browser searches for ranging hosts over mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates an mDNS browser.
func NewBrowser(config BrowserConfig) *Browser {
	return &Browser{config: config}
}

// Browse searches for hosts until ctx is canceled. Entries from multiple
// interfaces are merged by instance name; each host is emitted once, when
// first seen. Entries with undecodable TXT records are skipped.
func (b *Browser) Browse(ctx context.Context) (<-chan *HostService, error) {
	out := make(chan *HostService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]*HostService)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToHost(entry)
				if svc == nil {
					continue
				}
				if existing, found := seen[svc.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
					continue
				}
				seen[svc.InstanceName] = svc
				select {
				case out <- svc:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(seen, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, b.browseOptions()...)
	}()

	return out, nil
}

// FindFirst browses until one host is found or the timeout expires.
func (b *Browser) FindFirst(ctx context.Context, timeout time.Duration) (*HostService, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	hosts, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case host, ok := <-hosts:
		if !ok {
			return nil, ctx.Err()
		}
		return host, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Browser) browseOptions() []zeroconf.ClientOption {
	if b.config.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(b.config.Interface)
	if err != nil {
		return nil
	}
	return []zeroconf.ClientOption{zeroconf.SelectIfaces([]net.Interface{*iface})}
}

// entryToHost converts a zeroconf entry, returning nil for entries whose
// TXT records do not decode.
func entryToHost(entry *zeroconf.ServiceEntry) *HostService {
	txt := StringsToTXTRecords(entry.Text)
	version, name, maxSessions, err := DecodeHostTXT(txt)
	if err != nil {
		return nil
	}

	var addresses []net.IP
	addresses = append(addresses, entry.AddrIPv4...)
	addresses = append(addresses, entry.AddrIPv6...)

	return &HostService{
		InstanceName: entry.Instance,
		Name:         name,
		Hostname:     entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addresses,
		Version:      version,
		MaxSessions:  maxSessions,
	}
}

// mergeAddresses combines address lists without duplicates.
func mergeAddresses(existing, incoming []net.IP) []net.IP {
	for _, ip := range incoming {
		duplicate := false
		for _, have := range existing {
			if have.Equal(ip) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			existing = append(existing, ip)
		}
	}
	return existing
}
