package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Routing  RoutingConfig  `yaml:"routing"`
	Planner  PlannerConfig  `yaml:"planner"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

// DatabaseConfig selects Postgres when URL is set and SQLite at Path otherwise.
type DatabaseConfig struct {
	Path     string `yaml:"path" env:"DB_PATH"`
	URL      string `yaml:"url" env:"DATABASE_URL"`
	SeedPath string `yaml:"seed_path" env:"SEED_PATH"`
}

type CacheConfig struct {
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	RouteTTL time.Duration `yaml:"route_ttl" env:"ROUTE_CACHE_TTL"`
}

type RoutingConfig struct {
	Provider    string        `yaml:"provider" env:"ROUTING_PROVIDER"`
	ORSAPIKey   string        `yaml:"ors_api_key" env:"ORS_API_KEY"`
	OSRMBaseURL string        `yaml:"osrm_base_url" env:"OSRM_BASE_URL"`
	Mode        string        `yaml:"mode" env:"ROUTING_MODE"`
	RatePerSec  float64       `yaml:"rate_per_sec" env:"ROUTING_RATE_PER_SEC"`
	MaxAttempts int           `yaml:"max_attempts" env:"ROUTING_MAX_ATTEMPTS"`
	Timeout     time.Duration `yaml:"timeout" env:"ROUTING_TIMEOUT"`
}

type PlannerConfig struct {
	MaxIters     int           `yaml:"max_iters" env:"PLANNER_MAX_ITERS"`
	SolveTimeout time.Duration `yaml:"solve_timeout" env:"PLANNER_SOLVE_TIMEOUT"`
	MaxNodes     int           `yaml:"max_nodes" env:"PLANNER_MAX_NODES"`
	Selection    string        `yaml:"selection" env:"PLANNER_SELECTION"`
}

const (
	ProviderOSRM = "osrm"
	ProviderORS  = "ors"
	ProviderNone = "none"
)

// Load reads the optional YAML file named by CONFIG_FILE (default
// config.yaml), overlays environment variables (including a .env file),
// applies defaults and validates the result. A missing default file is not
// an error; a missing CONFIG_FILE is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configFile := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	explicit := configFile != ""
	if !explicit {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config from environment: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Get returns the environment value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) applyEnv() error {
	envString(&c.Server.Port, "PORT")
	envString(&c.Database.Path, "DB_PATH")
	envString(&c.Database.URL, "DATABASE_URL")
	envString(&c.Database.SeedPath, "SEED_PATH")
	envString(&c.Cache.RedisURL, "REDIS_URL")
	envString(&c.Routing.Provider, "ROUTING_PROVIDER")
	envString(&c.Routing.ORSAPIKey, "ORS_API_KEY")
	envString(&c.Routing.OSRMBaseURL, "OSRM_BASE_URL")
	envString(&c.Routing.Mode, "ROUTING_MODE")
	envString(&c.Planner.Selection, "PLANNER_SELECTION")

	return errors.Join(
		envDuration(&c.Cache.RouteTTL, "ROUTE_CACHE_TTL"),
		envFloat(&c.Routing.RatePerSec, "ROUTING_RATE_PER_SEC"),
		envInt(&c.Routing.MaxAttempts, "ROUTING_MAX_ATTEMPTS"),
		envDuration(&c.Routing.Timeout, "ROUTING_TIMEOUT"),
		envInt(&c.Planner.MaxIters, "PLANNER_MAX_ITERS"),
		envDuration(&c.Planner.SolveTimeout, "PLANNER_SOLVE_TIMEOUT"),
		envInt(&c.Planner.MaxNodes, "PLANNER_MAX_NODES"),
	)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/app.db"
	}
	if c.Database.SeedPath == "" {
		c.Database.SeedPath = "data/seeds/sights.json"
	}
	if c.Cache.RouteTTL == 0 {
		c.Cache.RouteTTL = 7 * 24 * time.Hour
	}

	c.Routing.Provider = strings.ToLower(strings.TrimSpace(c.Routing.Provider))
	if c.Routing.Provider == "" {
		c.Routing.Provider = ProviderOSRM
	}
	if c.Routing.Mode == "" {
		c.Routing.Mode = "walking"
	}
	if c.Routing.RatePerSec == 0 {
		c.Routing.RatePerSec = 1 // public OSRM usage policy
	}
	if c.Routing.MaxAttempts == 0 {
		c.Routing.MaxAttempts = 4
	}
	if c.Routing.Timeout == 0 {
		c.Routing.Timeout = 20 * time.Second
	}

	if c.Planner.MaxIters == 0 {
		c.Planner.MaxIters = 4
	}
	if c.Planner.SolveTimeout == 0 {
		c.Planner.SolveTimeout = 10 * time.Second
	}
	if c.Planner.MaxNodes == 0 {
		c.Planner.MaxNodes = 20000
	}
	c.Planner.Selection = strings.ToLower(strings.TrimSpace(c.Planner.Selection))
	if c.Planner.Selection == "" {
		c.Planner.Selection = "shortest"
	}
}

func (c *Config) validate() error {
	switch c.Routing.Provider {
	case ProviderOSRM, ProviderNone:
	case ProviderORS:
		if strings.TrimSpace(c.Routing.ORSAPIKey) == "" {
			return fmt.Errorf("ORS API key is required for the ors provider (set ORS_API_KEY or routing.ors_api_key)")
		}
	default:
		return fmt.Errorf("unknown routing provider %q (want osrm, ors or none)", c.Routing.Provider)
	}

	if _, err := domain.ParseTravelMode(c.Routing.Mode); err != nil {
		return err
	}
	if c.Routing.RatePerSec < 0 {
		return fmt.Errorf("routing rate must not be negative, got %v", c.Routing.RatePerSec)
	}
	if c.Routing.MaxAttempts < 1 {
		return fmt.Errorf("routing max attempts must be at least 1, got %d", c.Routing.MaxAttempts)
	}
	if c.Routing.Timeout < 0 || c.Planner.SolveTimeout < 0 || c.Cache.RouteTTL < 0 {
		return errors.New("timeouts and TTLs must not be negative")
	}
	if c.Planner.MaxIters < 1 {
		return fmt.Errorf("planner max iters must be at least 1, got %d", c.Planner.MaxIters)
	}
	if c.Planner.MaxNodes < 1 {
		return fmt.Errorf("planner max nodes must be at least 1, got %d", c.Planner.MaxNodes)
	}

	switch c.Planner.Selection {
	case "shortest", "fastest", "aware", "iterative":
	default:
		return fmt.Errorf("unknown selection policy %q", c.Planner.Selection)
	}
	return nil
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func envInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(dst *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
