package engine

import (
	"fmt"
	"time"

	"github.com/callmeahab/vessel-tracker-sub000/internal/boundary"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// Rule is one independent violation predicate. Eval returns nil when the
// sample does not breach the rule. Rules never mutate their inputs, so any
// subset may fire for one sample.
type Rule struct {
	Name string
	Eval func(sample models.VesselSample, idx *boundary.Index, th Thresholds) *models.Violation
}

// rules returns the rule set in its fixed evaluation order. The order makes
// output reproducible and breaks primary-violation ties; it does not encode
// severity.
func rules() []Rule {
	return []Rule{
		{Name: "anchoring_on_vegetation", Eval: evalAnchoring},
		{Name: "excessive_speed", Eval: evalSpeed},
		{Name: "buffer_zone_entry", Eval: evalBufferZone},
		{Name: "shore_proximity", Eval: evalShoreProximity},
	}
}

func evalAnchoring(sample models.VesselSample, idx *boundary.Index, th Thresholds) *models.Violation {
	if sample.SpeedKnots > th.AnchoringSpeedKnots {
		return nil
	}
	if !idx.IsInside(sample.Position, boundary.SetVegetationBeds) {
		return nil
	}

	desc := fmt.Sprintf("Vessel at %.1f kn over protected vegetation bed, likely anchored", sample.SpeedKnots)
	if f := idx.FeatureAt(sample.Position, boundary.SetVegetationBeds); f != nil {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		condition := f.Condition
		if condition == "" {
			condition = models.ConditionStandard
		}
		desc = fmt.Sprintf("Vessel at %.1f kn over %s vegetation bed %q, likely anchored", sample.SpeedKnots, condition, name)
	}

	speed := sample.SpeedKnots
	return &models.Violation{
		Type:        models.ViolationAnchoringOnVegetation,
		Severity:    models.SeverityCritical,
		Title:       "Anchoring on protected vegetation",
		Description: desc,
		SpeedKnots:  &speed,
		CreatedAt:   time.Now(),
	}
}

// evalSpeed fires anywhere, not only inside the park boundary. Observed
// product behavior; kept until intent is clarified.
func evalSpeed(sample models.VesselSample, idx *boundary.Index, th Thresholds) *models.Violation {
	if sample.SpeedKnots <= th.SpeedLimitKnots {
		return nil
	}

	speed := sample.SpeedKnots
	return &models.Violation{
		Type:        models.ViolationExcessiveSpeed,
		Severity:    models.SeverityMedium,
		Title:       "Excessive speed",
		Description: fmt.Sprintf("Vessel speed %.1f kn exceeds the %.0f kn limit", sample.SpeedKnots, th.SpeedLimitKnots),
		SpeedKnots:  &speed,
		CreatedAt:   time.Now(),
	}
}

func evalBufferZone(sample models.VesselSample, idx *boundary.Index, th Thresholds) *models.Violation {
	hit := false
	var distance *float64

	if idx.Has(boundary.SetBufferZone) {
		hit = idx.IsInside(sample.Position, boundary.SetBufferZone)
	} else if idx.IsNearBoundary(sample.Position, boundary.SetPark, th.BufferZoneMeters) {
		// No precomputed buffer geometry: self-buffer the park boundary
		hit = true
		if d := idx.MinBoundaryDistanceMeters(sample.Position, boundary.SetPark); d >= 0 {
			distance = &d
		}
	}

	if !hit {
		return nil
	}

	desc := "Vessel entered the protected-area buffer zone"
	if distance != nil {
		desc = fmt.Sprintf("Vessel within %.0f m of the park boundary", *distance)
	}

	return &models.Violation{
		Type:           models.ViolationBufferZoneEntry,
		Severity:       models.SeverityMedium,
		Title:          "Buffer zone entry",
		Description:    desc,
		DistanceMeters: distance,
		CreatedAt:      time.Now(),
	}
}

// evalShoreProximity is evaluated only when shoreline geometry is supplied
func evalShoreProximity(sample models.VesselSample, idx *boundary.Index, th Thresholds) *models.Violation {
	if !idx.Has(boundary.SetShoreline) {
		return nil
	}
	if !idx.IsNearBoundary(sample.Position, boundary.SetShoreline, th.ShoreProximityMeters) {
		return nil
	}

	distance := idx.MinBoundaryDistanceMeters(sample.Position, boundary.SetShoreline)
	return &models.Violation{
		Type:           models.ViolationShoreProximity,
		Severity:       models.SeverityHigh,
		Title:          "Shore proximity",
		Description:    fmt.Sprintf("Vessel within %.0f m of the shoreline", distance),
		DistanceMeters: &distance,
		CreatedAt:      time.Now(),
	}
}
