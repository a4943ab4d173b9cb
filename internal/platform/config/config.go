package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	Data            DataConfig
	Log             LogConfig
	Redis           RedisConfig
	ViewCacheTTL    time.Duration
}

// DataConfig locates the source files.
type DataConfig struct {
	Path    string
	GeoPath string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// RedisConfig configures the optional shared view cache. An empty URL keeps
// the cache in process memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultViewCacheTTL bounds how long a rendered chart or workbook is reused.
var DefaultViewCacheTTL = 10 * time.Minute

// LoadDotEnv reads a .env file into the environment when one exists. Variables
// already set win over the file.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		d, err := envDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	integer := func(key string, def int) int {
		n, err := envInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := Server{
		Addr:            envString("POVERTYMAP_ADDR", ":8080"),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Data: DataConfig{
			Path:    envString("POVERTYMAP_DATA_PATH", "data/poverty_tunisia.csv"),
			GeoPath: envString("POVERTYMAP_GEO_PATH", "geo/tunisia_governorates.geojson"),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		ViewCacheTTL: duration("VIEW_CACHE_TTL", DefaultViewCacheTTL),
	}
	if err := errors.Join(errs...); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
