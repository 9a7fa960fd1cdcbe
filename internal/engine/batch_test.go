package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/callmeahab/vessel-tracker-sub000/internal/boundary"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

func makeSamples(n int) []models.VesselSample {
	samples := make([]models.VesselSample, n)
	for i := range samples {
		samples[i] = models.VesselSample{
			RegistryID: fmt.Sprintf("HR-%04d", i),
			Position:   models.Coordinate{Lon: 16.05, Lat: 43.05},
			SpeedKnots: 3.0,
			ObservedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return samples
}

func TestProcessAllProgressAndOrder(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), DefaultChunkSize)
	samples := makeSamples(137)

	var events []models.BatchProgress
	results, err := o.ProcessAll(context.Background(), samples, vegetationIndex(), nil, func(p models.BatchProgress) {
		events = append(events, p)
	}, nil)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}

	if len(results) != 137 {
		t.Fatalf("got %d results, want 137", len(results))
	}
	for i, r := range results {
		if want := fmt.Sprintf("HR-%04d", i); r.Sample.RegistryID != want {
			t.Fatalf("result %d out of order: got %s, want %s", i, r.Sample.RegistryID, want)
		}
	}

	// 137 samples at chunk 25: 6 chunk-boundary events
	if len(events) != 6 {
		t.Fatalf("got %d progress events, want 6: %+v", len(events), events)
	}
	for i, p := range events {
		if p.Total != 137 {
			t.Errorf("event %d total = %d, want 137", i, p.Total)
		}
		if i > 0 && p.Processed <= events[i-1].Processed {
			t.Errorf("processed not strictly increasing at event %d: %d then %d", i, events[i-1].Processed, p.Processed)
		}
		if i > 0 && p.Percent < events[i-1].Percent {
			t.Errorf("percent decreased at event %d", i)
		}
		if p.Percent > 100 {
			t.Errorf("event %d percent = %d, exceeds 100", i, p.Percent)
		}
	}
	final := events[len(events)-1]
	if final.Processed != 137 || final.Total != 137 || final.Percent != 100 {
		t.Errorf("final event = %+v, want 137/137/100", final)
	}
}

func TestProcessAllNilIndex(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), 0)

	_, err := o.ProcessAll(context.Background(), makeSamples(3), nil, nil, nil, nil)
	if err != ErrNoBoundaryIndex {
		t.Fatalf("err = %v, want ErrNoBoundaryIndex", err)
	}
}

func TestProcessAllEmptyInput(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), DefaultChunkSize)

	var events []models.BatchProgress
	results, err := o.ProcessAll(context.Background(), nil, boundary.NewIndex(), nil, func(p models.BatchProgress) {
		events = append(events, p)
	}, nil)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if len(events) != 1 || events[0].Percent != 100 || events[0].Processed != 0 || events[0].Total != 0 {
		t.Errorf("events = %+v, want one 0/0/100 event", events)
	}
}

func TestProcessAllCancellation(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.ProcessAll(ctx, makeSamples(50), boundary.NewIndex(), nil, nil, nil)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestProcessAllPoisonedSample(t *testing.T) {
	// One rule panics for HR-0042 only; every other sample must classify
	c := NewClassifier(DefaultThresholds())
	c.rules = append(c.rules, Rule{
		Name: "poison",
		Eval: func(s models.VesselSample, idx *boundary.Index, th Thresholds) *models.Violation {
			if s.RegistryID == "HR-0042" {
				panic("corrupt track data")
			}
			return nil
		},
	})
	o := NewOrchestrator(c, DefaultChunkSize)

	var diags []models.Diagnostic
	results, err := o.ProcessAll(context.Background(), makeSamples(137), vegetationIndex(), nil, nil, func(d models.Diagnostic) {
		diags = append(diags, d)
	})
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}

	if len(results) != 137 {
		t.Fatalf("got %d results, want all 137 despite the poisoned sample", len(results))
	}

	var ruleErrors []models.Diagnostic
	for _, d := range diags {
		if d.Level == "error" {
			ruleErrors = append(ruleErrors, d)
		}
	}
	if len(ruleErrors) != 1 || ruleErrors[0].RegistryID != "HR-0042" || ruleErrors[0].Rule != "poison" {
		t.Fatalf("rule-error diagnostics = %+v, want exactly one for HR-0042", ruleErrors)
	}
}

func TestProcessAllExemptFunc(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), DefaultChunkSize)
	samples := makeSamples(4)

	results, err := o.ProcessAll(context.Background(), samples, vegetationIndex(), func(s models.VesselSample) bool {
		return s.RegistryID == "HR-0002"
	}, nil, nil)
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}

	for i, r := range results {
		want := i == 2
		if r.IsExempt != want {
			t.Errorf("result %d exempt = %v, want %v", i, r.IsExempt, want)
		}
	}
}

func TestProcessAllMissingSetWarnings(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), DefaultChunkSize)

	var warnings int
	_, err := o.ProcessAll(context.Background(), makeSamples(1), boundary.NewIndex(), nil, nil, func(d models.Diagnostic) {
		if d.Level == "warning" {
			warnings++
		}
	})
	if err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	// park, buffer_zone and vegetation_beds are all absent
	if warnings != 3 {
		t.Errorf("got %d warnings, want 3", warnings)
	}
}

func TestRunLifecycle(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), DefaultChunkSize)
	samples := makeSamples(60)

	run := o.Start(context.Background(), samples, vegetationIndex(), nil)
	if run.ID.String() == "" {
		t.Fatal("run should have an ID")
	}

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish in time")
	}

	status := run.Status()
	if status.State != models.BatchCompleted {
		t.Fatalf("state = %s, want completed (err %q)", status.State, status.Error)
	}
	if status.Progress.Processed != 60 || status.Progress.Percent != 100 {
		t.Errorf("final progress = %+v, want 60/60/100", status.Progress)
	}
	if status.FinishedAt == nil {
		t.Error("completed run should record a finish time")
	}

	results := run.Results()
	if len(results) != 60 {
		t.Fatalf("got %d results, want 60", len(results))
	}

	// Events channel is closed after completion; buffered events drain in order
	last := -1
	for p := range run.Events() {
		if p.Processed <= last {
			t.Errorf("event processed %d not increasing past %d", p.Processed, last)
		}
		last = p.Processed
	}
}

func TestRunFailsWithoutIndex(t *testing.T) {
	o := NewOrchestrator(NewClassifier(DefaultThresholds()), DefaultChunkSize)

	run := o.Start(context.Background(), makeSamples(5), nil, nil)
	<-run.Done()

	status := run.Status()
	if status.State != models.BatchFailed {
		t.Fatalf("state = %s, want failed", status.State)
	}
	if status.Error == "" {
		t.Error("failed run should expose its error")
	}
	if run.Results() != nil {
		t.Error("failed run must not expose results")
	}
}
