// Package wire implements the Pilot control-link message encoding.
//
// Control messages are byte-oriented: byte 0 is the message discriminant,
// and the remaining bytes are the payload. Only ConfigureAndStart
// (host->accessory) and ConfigurationData (accessory->host) carry a payload;
// every other message kind is exactly one byte on the wire. Payload length
// is validated against the discriminant before any interpretation.
//
// The package also provides CBOR codecs for the two structured payloads
// exchanged during the ranging handshake: the accessory configuration
// descriptor (sent by the accessory inside ConfigurationData) and the
// shareable configuration (generated by the local ranging engine and sent
// back inside ConfigureAndStart). CBOR encoding is deterministic with
// integer keys for compactness.
package wire
