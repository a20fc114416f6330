// Package config loads the pipecanvas configuration from a YAML file and
// PIPECANVAS_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given.
const DefaultFile = "pipecanvas.yaml"

const envPrefix = "PIPECANVAS_"

// Config is the full runtime configuration.
type Config struct {
	Addr       string        `yaml:"addr"`
	Origins    []string      `yaml:"origins"`
	Store      string        `yaml:"store"`
	Redis      RedisConfig   `yaml:"redis"`
	KindsFile  string        `yaml:"kinds_file"`
	KindsDir   string        `yaml:"kinds_dir"`
	LogLevel   string        `yaml:"log_level"`
	LogFormat  string        `yaml:"log_format"`
	BackendURL string        `yaml:"backend_url"`
	LockTTL    time.Duration `yaml:"lock_ttl"`
}

// RedisConfig selects the shared graph-state store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:       ":8000",
		Origins:    []string{"http://localhost:3000"},
		Store:      StoreMemory,
		Redis:      RedisConfig{Addr: "localhost:6379", Prefix: "pipecanvas:"},
		LogLevel:   "info",
		LogFormat:  "text",
		BackendURL: "http://localhost:8000",
		LockTTL:    5 * time.Second,
	}
}

// Load reads path (DefaultFile when empty) over the defaults and then
// applies environment overrides. A missing default file is not an error;
// a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (supported: memory, redis)", c.Store)
	}
	if c.Store == StoreRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis store requires redis.addr")
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(envPrefix + key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = d
		return nil
	}

	str("ADDR", &c.Addr)
	str("STORE", &c.Store)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("REDIS_PREFIX", &c.Redis.Prefix)
	str("KINDS_FILE", &c.KindsFile)
	str("KINDS_DIR", &c.KindsDir)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("BACKEND_URL", &c.BackendURL)

	if v, ok := lookup(envPrefix + "ORIGINS"); ok {
		c.Origins = splitList(v)
	}
	if v, ok := lookup(envPrefix + "REDIS_DB"); ok {
		var db int
		if _, err := fmt.Sscanf(v, "%d", &db); err != nil {
			return fmt.Errorf("invalid %sREDIS_DB: %w", envPrefix, err)
		}
		c.Redis.DB = db
	}
	if err := dur("REDIS_TTL", &c.Redis.TTL); err != nil {
		return err
	}
	return dur("LOCK_TTL", &c.LockTTL)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
