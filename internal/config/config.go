package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/callmeahab/vessel-tracker-sub000/internal/engine"
)

// Config holds the service configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	// Geometry set name -> GeoJSON file path. Empty paths mean the set is
	// unavailable and related rules degrade to no-violation.
	GeometryPaths map[string]string

	Thresholds engine.Thresholds
	ChunkSize  int

	// Ingestion scheduler; disabled when PositionAPIURL is empty
	PositionAPIURL string
	PollInterval   time.Duration

	WhitelistRefreshInterval time.Duration

	// Optional redis result cache; disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
}

// Load reads configuration from .env (if present) and the environment
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[Config] Loaded .env file")
	}

	th := engine.DefaultThresholds()
	th.AnchoringSpeedKnots = envFloat("ANCHORING_SPEED_KNOTS", th.AnchoringSpeedKnots)
	th.SpeedLimitKnots = envFloat("SPEED_LIMIT_KNOTS", th.SpeedLimitKnots)
	th.BufferZoneMeters = envFloat("BUFFER_ZONE_METERS", th.BufferZoneMeters)
	th.ShoreProximityMeters = envFloat("SHORE_PROXIMITY_METERS", th.ShoreProximityMeters)

	return &Config{
		Port:      envString("PORT", ":8080"),
		DBPath:    envString("DB_PATH", "./data/vessels.db"),
		JWTSecret: envString("JWT_SECRET", "change-me-in-production"),
		GeometryPaths: map[string]string{
			"park":            os.Getenv("PARK_GEOJSON"),
			"buffer_zone":     os.Getenv("BUFFER_ZONE_GEOJSON"),
			"vegetation_beds": os.Getenv("VEGETATION_BEDS_GEOJSON"),
			"shoreline":       os.Getenv("SHORELINE_GEOJSON"),
		},
		Thresholds:               th,
		ChunkSize:                envInt("BATCH_CHUNK_SIZE", engine.DefaultChunkSize),
		PositionAPIURL:           os.Getenv("POSITION_API_URL"),
		PollInterval:             envDuration("POLL_INTERVAL", 60*time.Second),
		WhitelistRefreshInterval: envDuration("WHITELIST_REFRESH_INTERVAL", 5*time.Minute),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		CacheTTL:                 envDuration("CACHE_TTL", 10*time.Minute),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[Config] Invalid %s=%q, using %d", key, v, fallback)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[Config] Invalid %s=%q, using %g", key, v, fallback)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.Printf("[Config] Invalid %s=%q, using %s", key, v, fallback)
	}
	return fallback
}
