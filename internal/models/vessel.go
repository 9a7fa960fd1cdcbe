package models

import "time"

// VesselSample is one observed vessel position with speed, as supplied by
// the ingestion layer. Identity fields (Name, RegistryID) are passed through
// untouched; the engine never interprets them.
type VesselSample struct {
	RegistryID string     `json:"registryId"`
	Name       string     `json:"name,omitempty"`
	Position   Coordinate `json:"position"`
	SpeedKnots float64    `json:"speedKnots"`
	CourseDeg  *float64   `json:"courseDeg,omitempty"`
	ObservedAt time.Time  `json:"observedAt"`
}

// VesselPosition is a persisted position record
type VesselPosition struct {
	ID         int64    `json:"id" db:"id"`
	RegistryID string   `json:"registryId" db:"registry_id"`
	Name       string   `json:"name,omitempty" db:"name"`
	Longitude  float64  `json:"longitude" db:"longitude"`
	Latitude   float64  `json:"latitude" db:"latitude"`
	SpeedKnots float64  `json:"speedKnots" db:"speed_knots"`
	CourseDeg  *float64 `json:"courseDeg,omitempty" db:"course_deg"`
	ObservedAt int64    `json:"observedAt" db:"observed_at"` // Unix timestamp in seconds
	CreatedAt  *string  `json:"createdAt,omitempty" db:"created_at"`
}

// PositionFilter represents filter parameters for querying position history
type PositionFilter struct {
	RegistryID string  `form:"registryId"`
	StartTime  int64   `form:"startTime"` // Unix timestamp
	EndTime    int64   `form:"endTime"`   // Unix timestamp
	MinSpeed   float64 `form:"minSpeed"`
	MaxSpeed   float64 `form:"maxSpeed"`
	Page       int     `form:"page"`
	PageSize   int     `form:"pageSize"`
}

// PositionsResponse represents a paginated response of position records
type PositionsResponse struct {
	Data       []VesselPosition `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// Sample converts a persisted position back into an engine input
func (p *VesselPosition) Sample() VesselSample {
	return VesselSample{
		RegistryID: p.RegistryID,
		Name:       p.Name,
		Position:   Coordinate{Lon: p.Longitude, Lat: p.Latitude},
		SpeedKnots: p.SpeedKnots,
		CourseDeg:  p.CourseDeg,
		ObservedAt: time.Unix(p.ObservedAt, 0),
	}
}
