package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the EKG engine service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Mapper    MapperConfig    `yaml:"mapper"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// KnowledgeConfig controls clinical knowledge pack loading for the assembler.
type KnowledgeConfig struct {
	Path string `yaml:"path"`
}

// IngestConfig sets acquisition defaults used when input metadata is silent.
type IngestConfig struct {
	SamplingRate    float64 `yaml:"samplingRate"`
	DurationSeconds float64 `yaml:"durationSeconds"`
	DefaultLead     string  `yaml:"defaultLead"`
}

// MapperConfig controls the electrophysiology mapper. A zero seed means the
// chaotic-rhythm generator is seeded from the wall clock.
type MapperConfig struct {
	Seed int64 `yaml:"seed"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EKG_ENGINE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if cfg.Ingest.SamplingRate <= 0 {
		return nil, fmt.Errorf("ingest sampling rate must be positive, got %f", cfg.Ingest.SamplingRate)
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Knowledge: KnowledgeConfig{
			Path: "configs/knowledge/default.yaml",
		},
		Ingest: IngestConfig{
			SamplingRate:    250,
			DurationSeconds: 10,
			DefaultLead:     "II",
		},
		Mapper: MapperConfig{Seed: 0},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EKG_ENGINE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("EKG_ENGINE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("EKG_ENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EKG_ENGINE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("EKG_ENGINE_KNOWLEDGE_PATH"); v != "" {
		cfg.Knowledge.Path = v
	}
	if v := os.Getenv("EKG_ENGINE_SAMPLING_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ingest.SamplingRate = rate
		}
	}
	if v := os.Getenv("EKG_ENGINE_DURATION_SECONDS"); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ingest.DurationSeconds = d
		}
	}
	if v := os.Getenv("EKG_ENGINE_DEFAULT_LEAD"); v != "" {
		cfg.Ingest.DefaultLead = v
	}
	if v := os.Getenv("EKG_ENGINE_MAPPER_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Mapper.Seed = seed
		}
	}
	if v := os.Getenv("EKG_ENGINE_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
}
