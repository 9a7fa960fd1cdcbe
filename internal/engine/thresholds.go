package engine

// Thresholds is the single source of truth for rule parameters. Every
// runtime consuming the engine shares these values; there is deliberately
// no per-tier copy to drift.
type Thresholds struct {
	// AnchoringSpeedKnots is the speed at or below which a vessel over a
	// vegetation bed is treated as anchored. Low speed over sensitive
	// bottom habitat is the operational proxy for "at anchor", since
	// direct anchor-deployment telemetry is unavailable.
	AnchoringSpeedKnots float64 `json:"anchoringSpeedKnots"`

	// SpeedLimitKnots is the park speed limit
	SpeedLimitKnots float64 `json:"speedLimitKnots"`

	// BufferZoneMeters is the self-buffering distance around the park
	// boundary, used only when no explicit buffer-zone geometry is loaded
	BufferZoneMeters float64 `json:"bufferZoneMeters"`

	// ShoreProximityMeters is the shore warning distance
	ShoreProximityMeters float64 `json:"shoreProximityMeters"`
}

// DefaultThresholds returns the fixed documented defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		AnchoringSpeedKnots:  0.5,
		SpeedLimitKnots:      5.0,
		BufferZoneMeters:     150.0,
		ShoreProximityMeters: 100.0,
	}
}
