package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
)

// PositionProvider supplies the current vessel positions. The engine never
// talks to the upstream API directly; anything that can produce samples
// (live API, replay file, test fixture) can stand in here.
type PositionProvider interface {
	FetchCurrent(ctx context.Context) ([]models.VesselSample, error)
}

// wireSample is the upstream position payload shape
type wireSample struct {
	RegistryID string   `json:"registryId"`
	Name       string   `json:"name"`
	Lon        float64  `json:"lon"`
	Lat        float64  `json:"lat"`
	SpeedKnots float64  `json:"speedKnots"`
	CourseDeg  *float64 `json:"courseDeg"`
	ObservedAt int64    `json:"observedAt"`
}

// HTTPProvider fetches positions from a JSON HTTP endpoint
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a provider for the given endpoint
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCurrent performs one GET and decodes the position array
func (p *HTTPProvider) FetchCurrent(ctx context.Context) ([]models.VesselSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build position request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("position request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("position API returned status %d", resp.StatusCode)
	}

	var wire []wireSample
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode position payload: %w", err)
	}

	samples := make([]models.VesselSample, 0, len(wire))
	for _, w := range wire {
		observed := time.Now()
		if w.ObservedAt > 0 {
			observed = time.Unix(w.ObservedAt, 0)
		}
		samples = append(samples, models.VesselSample{
			RegistryID: w.RegistryID,
			Name:       w.Name,
			Position:   models.Coordinate{Lon: w.Lon, Lat: w.Lat},
			SpeedKnots: w.SpeedKnots,
			CourseDeg:  w.CourseDeg,
			ObservedAt: observed,
		})
	}

	return samples, nil
}
