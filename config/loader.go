package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort           = 16181
	DefaultIntervalMS     = 1000
	DefaultClockTopic     = "current-time"
	DefaultLocationsTopic = "truck-locations"
	DefaultCodespace      = "TRUCKS"
)

// Config is the global application configuration
var Config AppConfig

// searchPaths are tried in order when no explicit path is given
var searchPaths = []string{"config.yml", "./configs/config.yml"}

// LoadAppConfig loads and validates the application configuration.
// An empty path falls back to config.yml and ./configs/config.yml.
func LoadAppConfig(path string) error {
	paths := searchPaths
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	cfg, err := Parse(data)
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}

// Parse decodes, validates and defaults a YAML document
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	if cfg.Clock.Source == "kafka" && len(cfg.Kafka.Brokers) == 0 {
		return nil, errors.New("clock source kafka requires kafka.brokers")
	}
	if cfg.HeartBeat.StartTime != "" && cfg.HeartBeat.EndTime != "" {
		start, end, err := cfg.HeartBeat.Window()
		if err != nil {
			return nil, err
		}
		if !end.After(start) {
			return nil, fmt.Errorf("heartbeat endTime %s must be after startTime %s", cfg.HeartBeat.EndTime, cfg.HeartBeat.StartTime)
		}
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Simulation.Interpolation == "" {
		cfg.Simulation.Interpolation = "inverted"
	}
	if cfg.HeartBeat.IntervalMS == 0 {
		cfg.HeartBeat.IntervalMS = DefaultIntervalMS
	}
	if cfg.HeartBeat.Speedup == 0 {
		cfg.HeartBeat.Speedup = 1
	}
	if cfg.Clock.Source == "" {
		cfg.Clock.Source = "local"
	}
	if cfg.Kafka.ClockTopic == "" {
		cfg.Kafka.ClockTopic = DefaultClockTopic
	}
	if cfg.Kafka.LocationsTopic == "" {
		cfg.Kafka.LocationsTopic = DefaultLocationsTopic
	}
	if cfg.Siri.Codespace == "" {
		cfg.Siri.Codespace = DefaultCodespace
	}
}
