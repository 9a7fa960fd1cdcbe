package models

import "time"

// WhitelistEntry is one exempt vessel, keyed by registry id
type WhitelistEntry struct {
	ID         int64     `json:"id" db:"id"`
	RegistryID string    `json:"registryId" db:"registry_id"`
	VesselName string    `json:"vesselName,omitempty" db:"vessel_name"`
	Owner      string    `json:"owner,omitempty" db:"owner"`
	Reason     string    `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
