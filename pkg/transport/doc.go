// Package transport implements the framed TCP control link between the
// host and its accessories.
//
// Frames are length-prefixed (4 bytes, big-endian). A connecting accessory
// sends a CBOR hello frame announcing its identity and angle capability
// before any control messages flow; after the hello, frames carry either
// control-link messages or single-byte heartbeats. The server side
// satisfies engine.Transport; the client side is used by accessory
// simulators.
package transport
