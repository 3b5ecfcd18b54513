package discovery

import (
	"errors"
	"net"
)

// Service constants.
const (
	// ServiceType is the mDNS service type for ranging hosts.
	ServiceType = "_pilot-uwb._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// MaxInstanceNameLen is the maximum mDNS instance name length.
	MaxInstanceNameLen = 63

	// TXTVersion is the advertised protocol spec version.
	TXTVersion = 1
)

// TXT record keys.
const (
	// TXTKeyVersion is the protocol spec version.
	TXTKeyVersion = "ver"

	// TXTKeyName is the host's display name.
	TXTKeyName = "name"

	// TXTKeyMaxSessions is the host's concurrent session limit.
	TXTKeyMaxSessions = "max"
)

// Discovery errors.
var (
	// ErrMissingRequired indicates a required TXT field is absent.
	ErrMissingRequired = errors.New("missing required field")

	// ErrInvalidTXT indicates a malformed TXT record value.
	ErrInvalidTXT = errors.New("invalid TXT record")
)

// HostInfo describes a ranging host to advertise.
type HostInfo struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Name is the host's display name.
	Name string

	// Port is the control-link TCP port.
	Port uint16

	// MaxSessions is the host's concurrent session limit.
	MaxSessions int
}

// HostService is a discovered ranging host.
type HostService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Name is the host's display name.
	Name string

	// Hostname is the mDNS hostname.
	Hostname string

	// Port is the control-link TCP port.
	Port uint16

	// Addresses are the host's resolved addresses, all interfaces merged.
	Addresses []net.IP

	// Version is the advertised protocol spec version.
	Version int

	// MaxSessions is the host's concurrent session limit, 0 if unknown.
	MaxSessions int
}

// Addr returns "host:port" for the first resolved address, or "" when no
// address resolved.
func (s *HostService) Addr() string {
	if len(s.Addresses) == 0 {
		return ""
	}
	return net.JoinHostPort(s.Addresses[0].String(), portString(s.Port))
}
