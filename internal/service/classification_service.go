package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/callmeahab/vessel-tracker-sub000/internal/boundary"
	"github.com/callmeahab/vessel-tracker-sub000/internal/cache"
	"github.com/callmeahab/vessel-tracker-sub000/internal/engine"
	"github.com/callmeahab/vessel-tracker-sub000/internal/metrics"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/repository"
	"github.com/callmeahab/vessel-tracker-sub000/internal/whitelist"
)

// runRetention is how long finished async runs stay queryable
const runRetention = time.Hour

// ClassificationService wires the engine to boundaries, whitelist,
// persistence, cache and metrics. Classification itself stays pure; all
// side effects live here.
type ClassificationService struct {
	orchestrator *engine.Orchestrator
	boundaries   *boundary.Store
	whitelist    *whitelist.Store
	positions    *repository.PositionRepository
	violations   *repository.ViolationRepository
	results      *cache.ResultCache

	geometryPaths map[string]string

	mu   sync.Mutex
	runs map[string]*engine.Run
}

// NewClassificationService creates the service
func NewClassificationService(
	orchestrator *engine.Orchestrator,
	boundaries *boundary.Store,
	wl *whitelist.Store,
	positions *repository.PositionRepository,
	violations *repository.ViolationRepository,
	results *cache.ResultCache,
	geometryPaths map[string]string,
) *ClassificationService {
	return &ClassificationService{
		orchestrator:  orchestrator,
		boundaries:    boundaries,
		whitelist:     wl,
		positions:     positions,
		violations:    violations,
		results:       results,
		geometryPaths: geometryPaths,
		runs:          make(map[string]*engine.Run),
	}
}

// exemptFunc captures one whitelist snapshot for a whole run
func (s *ClassificationService) exemptFunc() engine.ExemptFunc {
	snap := s.whitelist.Current()
	return func(sample models.VesselSample) bool {
		return snap.IsExempt(sample.RegistryID)
	}
}

// Classify runs one synchronous batch against the current boundary and
// whitelist snapshots. No persistence; results go to the caller only.
func (s *ClassificationService) Classify(ctx context.Context, samples []models.VesselSample) ([]models.ClassificationResult, []models.Diagnostic, error) {
	var diags []models.Diagnostic
	onDiag := func(d models.Diagnostic) {
		if d.Level == "error" {
			metrics.RuleFailuresTotal.Inc()
		}
		diags = append(diags, d)
	}

	start := time.Now()
	results, err := s.orchestrator.ProcessAll(ctx, samples, s.boundaries.Current(), s.exemptFunc(), nil, onDiag)
	if err != nil {
		metrics.BatchRunsTotal.WithLabelValues(string(models.BatchFailed)).Inc()
		return nil, diags, err
	}

	metrics.BatchRunsTotal.WithLabelValues(string(models.BatchCompleted)).Inc()
	metrics.BatchDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	observeResults(results)

	return results, diags, nil
}

// StartRun offloads one batch to a background goroutine and registers the
// run handle for status polling
func (s *ClassificationService) StartRun(ctx context.Context, samples []models.VesselSample) *engine.Run {
	run := s.orchestrator.Start(ctx, samples, s.boundaries.Current(), s.exemptFunc())

	s.mu.Lock()
	s.pruneRunsLocked()
	s.runs[run.ID.String()] = run
	s.mu.Unlock()

	go func() {
		<-run.Done()
		status := run.Status()
		metrics.BatchRunsTotal.WithLabelValues(string(status.State)).Inc()
		if status.FinishedAt != nil {
			metrics.BatchDurationMs.Observe(float64(status.FinishedAt.Sub(status.StartedAt).Milliseconds()))
		}
		observeResults(run.Results())
	}()

	return run
}

// Run returns a registered async run by id
func (s *ClassificationService) Run(id string) (*engine.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	return run, ok
}

func (s *ClassificationService) pruneRunsLocked() {
	cutoff := time.Now().Add(-runRetention)
	for id, run := range s.runs {
		status := run.Status()
		if status.FinishedAt != nil && status.FinishedAt.Before(cutoff) {
			delete(s.runs, id)
		}
	}
}

// IngestCycle processes one polling cycle: persist the raw positions,
// classify them, persist the detected violations and refresh the result
// cache. Called by the ingestion scheduler.
func (s *ClassificationService) IngestCycle(ctx context.Context, samples []models.VesselSample) error {
	if err := s.positions.InsertBatch(samples); err != nil {
		return fmt.Errorf("failed to persist positions: %w", err)
	}

	results, diags, err := s.Classify(ctx, samples)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}
	for _, d := range diags {
		log.Printf("[Ingest] %s: %s", d.Level, d.Message)
	}

	if err := s.violations.InsertResults(results); err != nil {
		return fmt.Errorf("failed to persist violations: %w", err)
	}

	if err := s.results.StoreResults(ctx, results); err != nil {
		// Cache is an accelerator, not a source of truth
		log.Printf("[Ingest] Result cache write failed: %v", err)
	}

	return nil
}

// LatestClassified reclassifies the most recent stored position of every
// vessel against the current boundary snapshot, and derives the aggregate
// zone counters the map overlays consume
func (s *ClassificationService) LatestClassified(ctx context.Context) ([]models.ClassificationResult, models.ZoneCounters, error) {
	positions, err := s.positions.GetLatest()
	if err != nil {
		return nil, models.ZoneCounters{}, err
	}

	samples := make([]models.VesselSample, 0, len(positions))
	for i := range positions {
		samples = append(samples, positions[i].Sample())
	}

	results, _, err := s.Classify(ctx, samples)
	if err != nil {
		return nil, models.ZoneCounters{}, err
	}

	idx := s.boundaries.Current()
	counters := models.ZoneCounters{Classified: len(results)}
	for i := range results {
		pos := results[i].Sample.Position
		if idx.IsInside(pos, boundary.SetPark) {
			counters.InPark++
		}
		if idx.IsInside(pos, boundary.SetBufferZone) {
			counters.InBuffer++
		}
		if results[i].MaxSeverity == models.SeverityCritical {
			counters.Critical++
		}
	}

	return results, counters, nil
}

// CachedResult returns the cached latest classification for one vessel,
// or nil on a miss or when caching is disabled
func (s *ClassificationService) CachedResult(ctx context.Context, registryID string) (*models.ClassificationResult, error) {
	return s.results.GetResult(ctx, registryID)
}

// GetPositions returns filtered position history
func (s *ClassificationService) GetPositions(filter models.PositionFilter) (*models.PositionsResponse, error) {
	return s.positions.GetPositions(filter)
}

// GetViolations returns filtered violation history
func (s *ClassificationService) GetViolations(filter models.ViolationFilter) ([]models.ViolationRecord, int64, error) {
	return s.violations.GetViolations(filter)
}

// GetViolationSummary aggregates stored violations
func (s *ClassificationService) GetViolationSummary(startTime, endTime int64) (*models.ViolationSummary, error) {
	return s.violations.GetSummary(startTime, endTime)
}

// ReloadBoundaries rebuilds the boundary index from the configured files
// and swaps it in. In-flight runs keep their old snapshot.
func (s *ClassificationService) ReloadBoundaries() ([]models.Diagnostic, error) {
	idx, diags := boundary.LoadIndex(s.geometryPaths)
	s.boundaries.Swap(idx)
	for _, d := range diags {
		log.Printf("[Boundary] %s: %s", d.Level, d.Message)
	}
	return diags, nil
}

// BoundaryStatus summarizes the loaded geometry sets
func (s *ClassificationService) BoundaryStatus() ([]boundary.SetStatus, *time.Time) {
	return s.boundaries.Status()
}

func observeResults(results []models.ClassificationResult) {
	metrics.VesselsClassifiedTotal.Add(float64(len(results)))
	for i := range results {
		for _, v := range results[i].Violations {
			metrics.ViolationsTotal.WithLabelValues(string(v.Type), string(v.Severity)).Inc()
		}
	}
}
