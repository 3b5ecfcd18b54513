package ranging

import (
	"fmt"
	"math"
	"time"
)

// ElevationSignal carries either a continuous elevation angle (full
// direction accessories) or a discrete vertical estimate (horizontal-angle
// accessories). HasAngle distinguishes the two.
type ElevationSignal struct {
	// AngleDeg is the elevation angle in degrees. Meaningful only when
	// HasAngle is true.
	AngleDeg float64

	// Estimate is the discrete vertical estimate used when no continuous
	// angle is available.
	Estimate VerticalEstimate

	// HasAngle reports whether AngleDeg carries a computed value.
	HasAngle bool
}

// Reading is an immutable snapshot of a session's spatial state derived
// from one ranging sample.
type Reading struct {
	// DistanceMeters is the calibrated distance, clamped to the
	// resolvable range when a measurement was present.
	DistanceMeters float64

	// Direction is the direction vector this reading was derived from.
	// For horizontal-angle accessories it is synthesized from the angle.
	// Nil when the reading carries no fresh angular data.
	Direction *Vector

	// AzimuthDeg is the calibrated azimuth in degrees.
	AzimuthDeg float64

	// Elevation is the elevation signal.
	Elevation ElevationSignal

	// RelativeBearingDeg is the azimuth relative to the host heading,
	// normalized to (-180, 180].
	RelativeBearingDeg float64

	// Quality grades sample recency at the time the reading was computed.
	Quality Quality

	// IsStale reports that no fresh angular data arrived this cycle and
	// azimuth/elevation were carried forward from the prior reading.
	// Staleness is orthogonal to validity.
	IsStale bool

	// CapturedAt is when the underlying sample was taken.
	CapturedAt time.Time
}

// String renders the reading for console output.
func (r Reading) String() string {
	elevation := r.Elevation.Estimate.String()
	if r.Elevation.HasAngle {
		elevation = fmt.Sprintf("%+.1f°", r.Elevation.AngleDeg)
	}
	suffix := ""
	if r.IsStale {
		suffix = " (stale)"
	}
	return fmt.Sprintf("%.2fm az %+.1f° el %s bearing %+.1f° [%s]%s",
		r.DistanceMeters, r.AzimuthDeg, elevation, r.RelativeBearingDeg, r.Quality, suffix)
}

// ComputeReading converts a raw ranging sample into a reading.
//
// prior is the session's previous reading, used to carry angular values
// forward on stale cycles; it may be nil. headingDeg is the host device
// heading used for relative bearing. The sample is never mutated;
// calibration is applied last.
func ComputeReading(sample Sample, capability Capability, conv Convergence, prior *Reading, cal Calibration, headingDeg float64) Reading {
	r := Reading{
		Quality:    QualityFromAge(time.Since(sample.CapturedAt)),
		CapturedAt: sample.CapturedAt,
	}
	if r.CapturedAt.IsZero() {
		r.CapturedAt = time.Now()
	}

	freshAngle := false
	switch {
	case capability == CapabilityFullDirection && sample.Direction != nil:
		// Preferred whenever a vector is present, regardless of convergence.
		v := *sample.Direction
		azimuth := math.Atan2(v.X, v.Z)
		elevation := math.Atan2(v.Y, math.Sqrt(v.X*v.X+v.Z*v.Z))
		if isFinite(azimuth) && isFinite(elevation) {
			freshAngle = true
			r.Direction = &v
			r.AzimuthDeg = radToDeg(azimuth)
			r.Elevation = ElevationSignal{AngleDeg: radToDeg(elevation), HasAngle: true}
		}

	case capability == CapabilityHorizontalAngleOnly &&
		conv.Status == ConvergenceConverged &&
		sample.HorizontalAngleRad != nil:
		angle := *sample.HorizontalAngleRad
		if isFinite(angle) {
			// Synthesize a direction vector for downstream uniformity
			freshAngle = true
			r.Direction = &Vector{X: math.Sin(angle), Z: math.Cos(angle)}
			r.AzimuthDeg = radToDeg(angle)
			r.Elevation = ElevationSignal{Estimate: sample.Vertical}
		}
	}

	if freshAngle {
		// Calibration is pure post-processing on freshly computed angles.
		// Carried-forward angles were calibrated when first computed.
		r.AzimuthDeg = NormalizeBearing(r.AzimuthDeg + cal.AzimuthOffsetDeg)
	} else {
		carryForward(&r, prior)
	}

	// Distance always refreshes when the sample carries one, stale or not
	switch {
	case sample.DistanceMeters != nil && isFinite(*sample.DistanceMeters):
		r.DistanceMeters = ClampDistance(*sample.DistanceMeters) + cal.DistanceOffsetMeters
		if r.DistanceMeters < 0 {
			r.DistanceMeters = 0
		}
	case prior != nil:
		r.DistanceMeters = prior.DistanceMeters
	}

	r.RelativeBearingDeg = NormalizeBearing(r.AzimuthDeg - headingDeg)
	return r
}

// carryForward marks the reading stale and retains the prior angular state.
func carryForward(r *Reading, prior *Reading) {
	r.IsStale = true
	if prior == nil {
		r.Elevation = ElevationSignal{Estimate: VerticalUnknown}
		return
	}
	r.AzimuthDeg = prior.AzimuthDeg
	r.Elevation = prior.Elevation
	if prior.Direction != nil {
		v := *prior.Direction
		r.Direction = &v
	}
}

// NormalizeBearing normalizes an angle in degrees to (-180, 180].
func NormalizeBearing(deg float64) float64 {
	if !isFinite(deg) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// ClampDistance clamps a distance to the resolvable UWB range.
func ClampDistance(meters float64) float64 {
	if meters < MinRangeMeters {
		return MinRangeMeters
	}
	if meters > MaxRangeMeters {
		return MaxRangeMeters
	}
	return meters
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
