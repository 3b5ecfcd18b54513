// Package engine ties the transport, the session registry and the local
// ranging engine together.
//
// The Engine owns one session per connected accessory. Transport events
// create, feed and destroy sessions; ranging engine events are routed to
// the session for their identity. Events for unknown identities are logged
// no-ops. A periodic reaper closes sessions whose control link has been
// silent past the connection timeout.
package engine
