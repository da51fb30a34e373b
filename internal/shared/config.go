package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv   string
	LogLevel string
	OutDir   string

	// places provider
	PlacesKey      string
	PlacesBase     string
	RegionCode     string
	LocationBias   string // "lat,lng,radius_m"
	RequestTimeout time.Duration
	PlacesRPS      int
	MaxAttempts    int
	Workers        int

	// read path
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
}

// Load reads the environment, after an optional .env in the working
// directory. Values already set in the environment win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		OutDir:         env("OUT_DIR", "./out"),
		PlacesKey:      strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		PlacesBase:     env("PLACES_BASE_URL", "https://places.googleapis.com/v1"),
		RegionCode:     env("REGION_CODE", "SG"),
		LocationBias:   env("LOCATION_BIAS", ""),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		PlacesRPS:      atoi("PLACES_RPS", 5),
		MaxAttempts:    atoi("PLACES_MAX_ATTEMPTS", 3),
		Workers:        atoi("RESOLVE_WORKERS", 4),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("not an integer, using default")
	}
	return def
}
