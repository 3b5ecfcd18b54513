package ranging

import "time"

// Range limits and timing from the accessory firmware contract.
const (
	// MinRangeMeters is the minimum resolvable UWB range.
	MinRangeMeters = 0.1

	// MaxRangeMeters is the maximum resolvable UWB range.
	MaxRangeMeters = 100.0

	// SampleInterval is the nominal interval between ranging measurements.
	SampleInterval = 100 * time.Millisecond
)

// Capability describes the angular data an accessory can produce.
// It is fixed per device, detected once at process startup.
type Capability uint8

const (
	// CapabilityFullDirection indicates full 3D direction vector support.
	CapabilityFullDirection Capability = 0

	// CapabilityHorizontalAngleOnly indicates horizontal-angle-only support.
	CapabilityHorizontalAngleOnly Capability = 1
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case CapabilityFullDirection:
		return "FULL_DIRECTION"
	case CapabilityHorizontalAngleOnly:
		return "HORIZONTAL_ANGLE_ONLY"
	default:
		return "UNKNOWN"
	}
}

// ConvergenceStatus is the ranging engine's confidence in its angular
// estimates.
type ConvergenceStatus uint8

const (
	// ConvergenceNotStarted indicates convergence has not begun.
	ConvergenceNotStarted ConvergenceStatus = 0

	// ConvergenceConverging indicates angular estimates are not yet reliable.
	ConvergenceConverging ConvergenceStatus = 1

	// ConvergenceConverged indicates angular estimates are reliable.
	ConvergenceConverged ConvergenceStatus = 2
)

// String returns the convergence status name.
func (s ConvergenceStatus) String() string {
	switch s {
	case ConvergenceNotStarted:
		return "NOT_STARTED"
	case ConvergenceConverging:
		return "CONVERGING"
	case ConvergenceConverged:
		return "CONVERGED"
	default:
		return "UNKNOWN"
	}
}

// Convergence pairs a convergence status with the engine-supplied reason
// when still converging (e.g. "insufficient movement").
type Convergence struct {
	Status ConvergenceStatus
	Reason string
}

// VerticalEstimate is a discrete vertical position estimate produced by
// horizontal-angle-only accessories.
type VerticalEstimate uint8

const (
	// VerticalUnknown indicates no vertical estimate.
	VerticalUnknown VerticalEstimate = 0

	// VerticalAbove indicates the accessory is above the host.
	VerticalAbove VerticalEstimate = 1

	// VerticalBelow indicates the accessory is below the host.
	VerticalBelow VerticalEstimate = 2

	// VerticalSame indicates the accessory is level with the host.
	VerticalSame VerticalEstimate = 3
)

// String returns the vertical estimate name.
func (v VerticalEstimate) String() string {
	switch v {
	case VerticalAbove:
		return "ABOVE"
	case VerticalBelow:
		return "BELOW"
	case VerticalSame:
		return "SAME"
	default:
		return "UNKNOWN"
	}
}

// Vector is a 3D direction vector in the host coordinate frame:
// x right, y up, z forward.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// Sample is a raw ranging measurement delivered by the ranging engine.
// Pointer fields are absent when the engine produced no value this cycle.
type Sample struct {
	// DistanceMeters is the measured distance, if available.
	DistanceMeters *float64

	// Direction is the 3D direction vector, if available.
	Direction *Vector

	// HorizontalAngleRad is the horizontal angle in radians, if available.
	HorizontalAngleRad *float64

	// Vertical is the discrete vertical estimate.
	Vertical VerticalEstimate

	// CapturedAt is when the measurement was taken.
	CapturedAt time.Time
}

// Calibration holds pure post-processing offsets applied to a computed
// reading. Raw sample data is never altered.
type Calibration struct {
	// AzimuthOffsetDeg is added to the computed azimuth.
	AzimuthOffsetDeg float64

	// DistanceOffsetMeters is added to the computed distance.
	// The result is clamped at zero.
	DistanceOffsetMeters float64
}

// Quality grades how fresh a session's ranging data is, derived from
// sample recency against the nominal sample interval.
type Quality uint8

const (
	// QualityPoor indicates samples are badly delayed or absent.
	QualityPoor Quality = 0

	// QualityFair indicates samples within ten intervals.
	QualityFair Quality = 1

	// QualityGood indicates samples within five intervals.
	QualityGood Quality = 2

	// QualityExcellent indicates samples within two intervals.
	QualityExcellent Quality = 3
)

// String returns the quality name.
func (q Quality) String() string {
	switch q {
	case QualityPoor:
		return "POOR"
	case QualityFair:
		return "FAIR"
	case QualityGood:
		return "GOOD"
	case QualityExcellent:
		return "EXCELLENT"
	default:
		return "UNKNOWN"
	}
}

// QualityFromAge grades sample recency against the nominal sample interval.
func QualityFromAge(age time.Duration) Quality {
	switch {
	case age < 0:
		return QualityExcellent
	case age <= 2*SampleInterval:
		return QualityExcellent
	case age <= 5*SampleInterval:
		return QualityGood
	case age <= 10*SampleInterval:
		return QualityFair
	default:
		return QualityPoor
	}
}
