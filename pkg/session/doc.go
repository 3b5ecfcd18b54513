// Package session implements the per-accessory ranging protocol state
// machine.
//
// A DeviceSession owns one connected accessory end-to-end: the
// configuration handshake over the control link, the locally running
// ranging session, the latest computed reading and the convergence status.
// The handshake is strictly ordered: accessory configuration must be
// decoded before a shareable configuration can be generated, and ranging is
// not assumed active until the accessory confirms with RangingStarted.
//
// # State machine
//
//	Idle -> AwaitingConfig -> ConfiguringRangingEngine ->
//	AwaitingShareableConfig -> Starting -> Ranging -> Stopping -> Disconnected
//
// plus an absorbing Error(reason) state reachable from any non-terminal
// state. Awaiting a reply is represented as a state, never a blocking call;
// the machine resumes on the next received event. Every (state, event) pair
// is defined — events that do not apply in the current state are logged
// no-ops, and duplicate accessory notifications are idempotent.
//
// Handshake failures retry with a short per-device delay, bounded to three
// attempts per connection lifetime; exhaustion terminates the session in
// Error(ConfigExhausted). Retry timers are scoped to the session and are
// canceled deterministically when it closes.
package session
