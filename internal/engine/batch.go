package engine

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/callmeahab/vessel-tracker-sub000/internal/boundary"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// DefaultChunkSize is the number of samples classified between yields
const DefaultChunkSize = 25

// ErrNoBoundaryIndex aborts a whole batch: without an index no result can
// be trusted, so the run ends in the failed state instead of under-reporting
var ErrNoBoundaryIndex = errors.New("no boundary index provided")

// ExemptFunc answers whether a vessel is whitelisted. A nil func means
// nothing is exempt.
type ExemptFunc func(sample models.VesselSample) bool

// ProgressFunc receives chunk-boundary progress events
type ProgressFunc func(models.BatchProgress)

// Orchestrator applies the classifier to sample collections in bounded
// chunks, yielding between chunks so a host sharing the scheduler stays
// responsive. Results always preserve input order.
type Orchestrator struct {
	classifier *Classifier
	chunkSize  int
}

// NewOrchestrator creates an orchestrator. chunkSize <= 0 selects the default.
func NewOrchestrator(classifier *Classifier, chunkSize int) *Orchestrator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Orchestrator{classifier: classifier, chunkSize: chunkSize}
}

// ProcessAll classifies every sample on the caller's goroutine. Progress is
// reported after each chunk with a monotonically non-decreasing percent
// clamped to 100. A failing rule skips only that rule for that sample; one
// poisoned sample never loses the rest of the batch.
func (o *Orchestrator) ProcessAll(ctx context.Context, samples []models.VesselSample, idx *boundary.Index, exempt ExemptFunc, onProgress ProgressFunc, onDiag DiagnosticFunc) ([]models.ClassificationResult, error) {
	if idx == nil {
		return nil, ErrNoBoundaryIndex
	}

	o.reportMissingSets(idx, onDiag)

	total := len(samples)
	results := make([]models.ClassificationResult, 0, total)

	if total == 0 {
		emitProgress(onProgress, 0, 0)
		return results, nil
	}

	for start := 0; start < total; start += o.chunkSize {
		end := start + o.chunkSize
		if end > total {
			end = total
		}

		for _, sample := range samples[start:end] {
			isExempt := exempt != nil && exempt(sample)
			results = append(results, o.classifier.Classify(sample, idx, isExempt, onDiag))
		}

		emitProgress(onProgress, end, total)

		// The engine's only suspension point: check for cancellation and
		// hand the scheduler a chance to run other work between chunks
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			runtime.Gosched()
		}
	}

	return results, nil
}

func (o *Orchestrator) reportMissingSets(idx *boundary.Index, onDiag DiagnosticFunc) {
	if onDiag == nil {
		return
	}
	for _, name := range []string{boundary.SetPark, boundary.SetBufferZone, boundary.SetVegetationBeds} {
		if !idx.Has(name) {
			onDiag(models.Diagnostic{
				Level:   "warning",
				Message: "geometry set " + name + " is empty; results may under-report violations",
			})
		}
	}
}

func emitProgress(onProgress ProgressFunc, processed, total int) {
	if onProgress == nil {
		return
	}

	percent := 100
	if total > 0 {
		percent = processed * 100 / total
	}
	if percent > 100 {
		percent = 100
	}

	onProgress(models.BatchProgress{Processed: processed, Total: total, Percent: percent})
}

// Run is the handle of one batch offloaded to a background goroutine
type Run struct {
	ID uuid.UUID

	mu          sync.Mutex
	state       models.BatchState
	progress    models.BatchProgress
	results     []models.ClassificationResult
	diagnostics []models.Diagnostic
	err         error
	startedAt   time.Time
	finishedAt  *time.Time

	events chan models.BatchProgress
	done   chan struct{}
}

// RunStatus is an immutable snapshot of a run, safe to serialize
type RunStatus struct {
	ID          string               `json:"id"`
	State       models.BatchState    `json:"state"`
	Progress    models.BatchProgress `json:"progress"`
	Diagnostics []models.Diagnostic  `json:"diagnostics,omitempty"`
	Error       string               `json:"error,omitempty"`
	StartedAt   time.Time            `json:"startedAt"`
	FinishedAt  *time.Time           `json:"finishedAt,omitempty"`
}

// Start offloads one batch to exactly one background goroutine and returns
// its handle. The engine never serializes independent runs; a host starting
// a fresh run simply discards the stale handle.
func (o *Orchestrator) Start(ctx context.Context, samples []models.VesselSample, idx *boundary.Index, exempt ExemptFunc) *Run {
	run := &Run{
		ID:        uuid.New(),
		state:     models.BatchRunning,
		startedAt: time.Now(),
		events:    make(chan models.BatchProgress, 16),
		done:      make(chan struct{}),
	}

	go func() {
		defer close(run.done)
		defer close(run.events)

		results, err := o.ProcessAll(ctx, samples, idx, exempt, run.onProgress, run.onDiagnostic)

		now := time.Now()
		run.mu.Lock()
		defer run.mu.Unlock()
		run.finishedAt = &now
		if err != nil {
			run.state = models.BatchFailed
			run.err = err
			log.Printf("[Orchestrator] Run %s failed: %v", run.ID, err)
			return
		}
		run.state = models.BatchCompleted
		run.results = results
	}()

	return run
}

func (r *Run) onProgress(p models.BatchProgress) {
	r.mu.Lock()
	r.progress = p
	r.mu.Unlock()

	// Non-blocking: a slow consumer drops intermediate events, never the run
	select {
	case r.events <- p:
	default:
	}
}

func (r *Run) onDiagnostic(d models.Diagnostic) {
	log.Printf("[Orchestrator] %s: %s", d.Level, d.Message)
	r.mu.Lock()
	r.diagnostics = append(r.diagnostics, d)
	r.mu.Unlock()
}

// Events streams progress events in strictly increasing processed order.
// The channel closes when the run finishes.
func (r *Run) Events() <-chan models.BatchProgress {
	return r.events
}

// Done closes when the run has completed or failed
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Results returns the ordered result list, or nil until the run completed
func (r *Run) Results() []models.ClassificationResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != models.BatchCompleted {
		return nil
	}
	return r.results
}

// Status returns a serializable snapshot of the run
func (r *Run) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := RunStatus{
		ID:          r.ID.String(),
		State:       r.state,
		Progress:    r.progress,
		Diagnostics: r.diagnostics,
		StartedAt:   r.startedAt,
		FinishedAt:  r.finishedAt,
	}
	if r.err != nil {
		status.Error = r.err.Error()
	}
	return status
}
