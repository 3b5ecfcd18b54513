package session

import (
	"github.com/google/uuid"
)

// Identity identifies an accessory. Address is the opaque stable identifier
// used as the registry key; Name is the human-readable accessory name.
// Identities are immutable once assigned.
type Identity struct {
	Address string
	Name    string
}

// String returns the identity's display form.
func (i Identity) String() string {
	if i.Name != "" {
		return i.Name + " (" + i.Address + ")"
	}
	return i.Address
}

// Sender sends control-link bytes to the accessory. Sends are
// fire-and-forget from the state machine's perspective; transport failures
// surface as disconnect events, not send errors the machine waits on.
// Satisfied by the engine's per-device transport binding.
type Sender interface {
	Send(data []byte) error
}

// ConfigDescriptor is an opaque handle produced by
// Ranger.CreateConfiguration and consumed by Ranger.RunSession.
type ConfigDescriptor any

// SessionToken identifies a running ranging session within the Ranger.
type SessionToken string

// Ranger is the slice of the local ranging engine one session drives.
// Implementations wrap the platform UWB stack; the engine binds an
// identity-scoped Ranger into each session.
type Ranger interface {
	// CreateConfiguration validates an accessory configuration payload and
	// returns a descriptor for RunSession.
	CreateConfiguration(payload []byte) (ConfigDescriptor, error)

	// RunSession starts a ranging session for the descriptor. The discovery
	// token binds the session's samples and shareable configuration to this
	// device session.
	RunSession(descriptor ConfigDescriptor, token uuid.UUID) (SessionToken, error)

	// StopSession stops the ranging session for token.
	// Safe to call for an already-stopped session.
	StopSession(token SessionToken)
}

// Enhancement is an optional best-effort side channel (e.g. a secondary
// positioning sensor) that can be attached to a running session. Attachment
// is only permitted while ranging; detachment is always permitted. Failures
// never invalidate the primary ranging session.
type Enhancement interface {
	// Attach links the enhancement to the identity's session.
	Attach(identity Identity) error

	// Detach releases the enhancement. Safe to call when not attached.
	Detach(identity Identity)
}

// HeadingFunc supplies the host device heading in degrees for relative
// bearing computation.
type HeadingFunc func() float64
