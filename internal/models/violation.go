package models

import "time"

// Severity is the four-level severity scale used to rank violations
type Severity string

// Severity levels, ordered low < medium < high < critical
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the position of the severity in the total ordering.
// Unknown severities rank below low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s ranks at or above other
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// ViolationType identifies which rule produced a violation
type ViolationType string

// Violation types
const (
	ViolationAnchoringOnVegetation ViolationType = "anchoring_on_vegetation"
	ViolationExcessiveSpeed        ViolationType = "excessive_speed"
	ViolationBufferZoneEntry       ViolationType = "buffer_zone_entry"
	ViolationShoreProximity        ViolationType = "shore_proximity"
)

// Violation is one detected rule breach. Immutable once created.
type Violation struct {
	Type           ViolationType `json:"type"`
	Severity       Severity      `json:"severity"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	SpeedKnots     *float64      `json:"speedKnots,omitempty"`
	DistanceMeters *float64      `json:"distanceMeters,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// ClassificationResult is the full outcome of classifying one vessel sample.
// MaxSeverity of an empty violation list is low by convention.
// Primary is set iff Violations is non-empty, and always carries MaxSeverity.
type ClassificationResult struct {
	Sample       VesselSample `json:"sample"`
	Violations   []Violation  `json:"violations"`
	MaxSeverity  Severity     `json:"maxSeverity"`
	IsExempt     bool         `json:"isExempt"`
	Primary      *Violation   `json:"primaryViolation,omitempty"`
}

// ViolationRecord is a persisted violation row joined with vessel identity
type ViolationRecord struct {
	ID             int64    `json:"id" db:"id"`
	RegistryID     string   `json:"registryId" db:"registry_id"`
	VesselName     string   `json:"vesselName,omitempty" db:"vessel_name"`
	Type           string   `json:"type" db:"type"`
	Severity       string   `json:"severity" db:"severity"`
	Title          string   `json:"title" db:"title"`
	Description    string   `json:"description" db:"description"`
	SpeedKnots     *float64 `json:"speedKnots,omitempty" db:"speed_knots"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty" db:"distance_meters"`
	Longitude      float64  `json:"longitude" db:"longitude"`
	Latitude       float64  `json:"latitude" db:"latitude"`
	IsExempt       bool     `json:"isExempt" db:"is_exempt"`
	ObservedAt     int64    `json:"observedAt" db:"observed_at"`
	CreatedAt      *string  `json:"createdAt,omitempty" db:"created_at"`
}

// ViolationFilter represents filter parameters for querying violation history
type ViolationFilter struct {
	RegistryID string `form:"registryId"`
	Type       string `form:"type"`
	Severity   string `form:"severity"`
	StartTime  int64  `form:"startTime"`
	EndTime    int64  `form:"endTime"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// ViolationSummary aggregates stored violations for panel counters
type ViolationSummary struct {
	Total      int64            `json:"total"`
	BySeverity map[string]int64 `json:"bySeverity"`
	ByType     map[string]int64 `json:"byType"`
}

// ZoneCounters are the aggregate counts consumed by map overlays
type ZoneCounters struct {
	InPark     int `json:"inPark"`
	InBuffer   int `json:"inBuffer"`
	Critical   int `json:"critical"`
	Classified int `json:"classified"`
}
