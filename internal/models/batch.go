package models

// BatchProgress reports how far a classification batch has advanced.
// Percent is an integer clamped to 100 and never decreases within one run.
type BatchProgress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// BatchState is the lifecycle state of a batch run
type BatchState string

// Batch run states. Failed is reserved for whole-batch aborts; per-sample
// rule failures never move a run out of Running.
const (
	BatchIdle      BatchState = "idle"
	BatchRunning   BatchState = "running"
	BatchCompleted BatchState = "completed"
	BatchFailed    BatchState = "failed"
)

// Diagnostic is a non-fatal problem surfaced during a batch run, consumable
// for logging and telemetry. Consumers never need diagnostics for correctness.
type Diagnostic struct {
	Level      string `json:"level"` // "warning" or "error"
	Rule       string `json:"rule,omitempty"`
	RegistryID string `json:"registryId,omitempty"`
	Message    string `json:"message"`
}
