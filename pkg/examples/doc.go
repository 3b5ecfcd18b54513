// Package examples provides simulated implementations for exercising the
// ranging engine without UWB hardware.
//
// SimulatedAccessory answers the control-link handshake the way the
// accessory firmware does; SimulatedRangingEngine plays the platform UWB
// stack, generating shareable configurations and synthetic samples on a
// circular path. Together they drive a full host end to end in tests and
// demos.
package examples
