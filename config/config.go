/*
Package config loads server configuration.

PURPOSE:
  Merges three configuration sources, lowest precedence first:
  1. config.yaml (path overridable via CONFIG_PATH)
  2. environment variables (a .env file is loaded first if present)
  3. command-line flags, applied by cmd/server on top of the result

  Attendance RULES are not configured here — they live in the store and
  are managed over the API. This package only covers process-level
  settings.
*/
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds process-level settings.
type Config struct {
	Port         int    `yaml:"port"`
	DBPath       string `yaml:"db_path"`
	EvalSchedule string `yaml:"eval_schedule"` // cron expression, empty disables
	Timezone     string `yaml:"timezone"`

	// Location is resolved from Timezone; UTC when unset or invalid.
	Location *time.Location `yaml:"-"`
}

// Load reads .env, the YAML file, and env overrides.
func Load() (Config, error) {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port:   8080,
		DBPath: "attendance.db",
	}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values.
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.EvalSchedule, "EVAL_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverrideInt(&cfg.Port, "PORT")

	cfg.Location = time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
