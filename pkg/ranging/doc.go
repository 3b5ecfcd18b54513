// Package ranging implements the spatial math converting raw UWB ranging
// samples into consumable distance, azimuth and elevation readings.
//
// The package is pure: ComputeReading takes everything it needs as
// arguments (the sample, the accessory capability, the convergence status,
// the prior reading, calibration offsets, the host heading) and returns an
// immutable Reading. Capability is decided once per process and passed in
// explicitly; no hidden state influences the computation.
//
// # Capability branching
//
// Full-direction accessories deliver a 3D direction vector. Azimuth and
// elevation are derived from the vector whenever one is present, regardless
// of convergence. Horizontal-angle accessories deliver a single angle that
// is only trustworthy once the ranging engine has converged; a direction
// vector is synthesized from it for downstream uniformity, and elevation
// falls back to the accessory's discrete vertical estimate.
//
// When a sample carries no usable angular data the reading is marked stale:
// prior angular values are carried forward, but distance always refreshes
// when present. Staleness and validity are orthogonal; a stale reading is
// still a valid reading.
package ranging
