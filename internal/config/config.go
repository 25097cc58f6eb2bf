// Package config loads the runtime settings of the events service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime settings of the service.
type Config struct {
	Port          string `yaml:"port"`
	DBPath        string `yaml:"db_path"`
	OverridesPath string `yaml:"overrides_path"`
	Env           string `yaml:"env"`
	MaxUploadMB   int    `yaml:"max_upload_mb"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:          "8084",
		DBPath:        "data/events.db",
		OverridesPath: "data/overrides.db",
		Env:           "production",
		MaxUploadMB:   32,
	}
}

// Development reports whether the service runs in development mode.
func (cfg Config) Development() bool {
	return strings.EqualFold(cfg.Env, "development")
}

// MaxUploadBytes is the multipart memory limit in bytes.
func (cfg Config) MaxUploadBytes() int64 {
	return int64(cfg.MaxUploadMB) << 20
}

// Load builds the configuration from defaults, the YAML file named by
// EVENTS_CONFIG, the dotenv files given (a missing file is ignored) and the
// process environment, each overriding the previous one.
func Load(dotenvFiles ...string) (Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("EVENTS_CONFIG")); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("EVENTS_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("EVENTS_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("EVENTS_OVERRIDES_PATH"); v != "" {
		cfg.OverridesPath = v
	}
	if v := os.Getenv("EVENTS_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("EVENTS_MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("EVENTS_MAX_UPLOAD_MB inválido %q: %w", v, err)
		}
		cfg.MaxUploadMB = n
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) loadYAML(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (cfg Config) validate() error {
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("port is required")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return fmt.Errorf("invalid port %q", cfg.Port)
	}
	if cfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload must be positive, got %d", cfg.MaxUploadMB)
	}
	return nil
}
