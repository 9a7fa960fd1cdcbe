package ingest

import (
	"context"
	"log"
	"time"

	"github.com/callmeahab/vessel-tracker-sub000/internal/metrics"
	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
)

// Scheduler polls the position provider on a fixed interval and hands each
// cycle to the classification service. Cycle errors are logged and the loop
// keeps running; a failing upstream never stops monitoring.
type Scheduler struct {
	provider PositionProvider
	service  *service.ClassificationService
	interval time.Duration
}

// NewScheduler creates a scheduler
func NewScheduler(provider PositionProvider, svc *service.ClassificationService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{provider: provider, service: svc, interval: interval}
}

// Start runs the polling loop in a background goroutine until the context
// is cancelled. The first cycle runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		log.Printf("[Ingest] Scheduler started, interval %s", s.interval)
		s.cycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Printf("[Ingest] Scheduler stopped")
				return
			case <-ticker.C:
				s.cycle(ctx)
			}
		}
	}()
}

func (s *Scheduler) cycle(ctx context.Context) {
	samples, err := s.provider.FetchCurrent(ctx)
	if err != nil {
		metrics.IngestCyclesTotal.WithLabelValues("fetch_error").Inc()
		log.Printf("[Ingest] Fetch failed: %v", err)
		return
	}

	if len(samples) == 0 {
		metrics.IngestCyclesTotal.WithLabelValues("empty").Inc()
		return
	}

	if err := s.service.IngestCycle(ctx, samples); err != nil {
		metrics.IngestCyclesTotal.WithLabelValues("error").Inc()
		log.Printf("[Ingest] Cycle failed: %v", err)
		return
	}

	metrics.IngestCyclesTotal.WithLabelValues("ok").Inc()
	log.Printf("[Ingest] Cycle completed: %d vessels", len(samples))
}
