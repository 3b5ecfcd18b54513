package session

// State is the protocol state of a device session.
type State uint8

const (
	// StateIdle indicates the session exists but the handshake has not begun.
	StateIdle State = iota

	// StateAwaitingConfig indicates Initialize was sent and the session is
	// waiting for the accessory's ConfigurationData.
	StateAwaitingConfig

	// StateConfiguringRangingEngine indicates the accessory configuration is
	// being handed to the local ranging engine.
	StateConfiguringRangingEngine

	// StateAwaitingShareableConfig indicates the ranging engine accepted the
	// descriptor and the session is waiting for the shareable configuration.
	StateAwaitingShareableConfig

	// StateStarting indicates ConfigureAndStart was sent and the session is
	// waiting for the accessory's RangingStarted confirmation.
	StateStarting

	// StateRanging indicates ranging is active.
	StateRanging

	// StateStopping indicates Stop was sent and the session is waiting for
	// RangingStopped.
	StateStopping

	// StateDisconnected indicates the session has terminated cleanly.
	StateDisconnected

	// StateError is the absorbing error state. See ErrorReason.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaitingConfig:
		return "AWAITING_CONFIG"
	case StateConfiguringRangingEngine:
		return "CONFIGURING_RANGING_ENGINE"
	case StateAwaitingShareableConfig:
		return "AWAITING_SHAREABLE_CONFIG"
	case StateStarting:
		return "STARTING"
	case StateRanging:
		return "RANGING"
	case StateStopping:
		return "STOPPING"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the state is terminal for this connection.
func (s State) Terminal() bool {
	return s == StateDisconnected || s == StateError
}

// ErrorReason explains why a session entered StateError.
type ErrorReason uint8

const (
	// ErrorNone indicates the session is not in StateError.
	ErrorNone ErrorReason = iota

	// ErrorConfigExhausted indicates the bounded handshake retry budget was
	// spent without a successful configuration.
	ErrorConfigExhausted

	// ErrorPermissionDenied indicates the platform denied ranging.
	// Terminal, no retry.
	ErrorPermissionDenied

	// ErrorResourceTimeout indicates the ranging engine timed out acquiring
	// resources. Retry on the next reconnect only.
	ErrorResourceTimeout

	// ErrorTooManySessions indicates the ranging engine session limit was
	// hit and the single release-then-retry attempt also failed.
	ErrorTooManySessions
)

// String returns the error reason name.
func (r ErrorReason) String() string {
	switch r {
	case ErrorNone:
		return "NONE"
	case ErrorConfigExhausted:
		return "CONFIG_EXHAUSTED"
	case ErrorPermissionDenied:
		return "PERMISSION_DENIED"
	case ErrorResourceTimeout:
		return "RESOURCE_TIMEOUT"
	case ErrorTooManySessions:
		return "TOO_MANY_SESSIONS"
	default:
		return "UNKNOWN"
	}
}

// InvalidationReason is the ranging engine's reason for invalidating a
// running session. Each reason maps to a distinct recovery policy.
type InvalidationReason uint8

const (
	// InvalidationPermissionDenied: terminal, no retry.
	InvalidationPermissionDenied InvalidationReason = iota

	// InvalidationInvalidConfiguration: retry the handshake from Idle after
	// a brief delay, within the bounded retry budget.
	InvalidationInvalidConfiguration

	// InvalidationResourceTimeout: retry on next reconnect only.
	InvalidationResourceTimeout

	// InvalidationTooManySessions: release optional enhancement resources,
	// then retry once.
	InvalidationTooManySessions
)

// String returns the invalidation reason name.
func (r InvalidationReason) String() string {
	switch r {
	case InvalidationPermissionDenied:
		return "PERMISSION_DENIED"
	case InvalidationInvalidConfiguration:
		return "INVALID_CONFIGURATION"
	case InvalidationResourceTimeout:
		return "RESOURCE_TIMEOUT"
	case InvalidationTooManySessions:
		return "TOO_MANY_ACTIVE_SESSIONS"
	default:
		return "UNKNOWN"
	}
}

// RemovalReason is the ranging engine's reason for removing the tracked
// object from a running session.
type RemovalReason uint8

const (
	// RemovalTimeout indicates the object timed out; the session re-arms
	// the handshake without tearing down the transport connection.
	RemovalTimeout RemovalReason = iota

	// RemovalUnknown indicates an unspecified removal reason.
	RemovalUnknown
)

// String returns the removal reason name.
func (r RemovalReason) String() string {
	switch r {
	case RemovalTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
