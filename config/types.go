package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// LoggingConfig selects the log level and output format
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// SimulationConfig points at the precomputed truck paths
type SimulationConfig struct {
	Enabled       bool   `yaml:"enabled"`
	PathsFile     string `yaml:"pathsFile" validate:"required_if=Enabled true"`
	Interpolation string `yaml:"interpolation" validate:"omitempty,oneof=inverted linear"`
}

// GTFSConfig contains truck GTFS static data configuration.
// StaticPath may be a directory of .txt tables, a local zip or an http(s) zip URL.
type GTFSConfig struct {
	StaticPath     string `yaml:"staticPath" validate:"required"`
	IndexCachePath string `yaml:"indexCachePath"`
}

// HeartBeatConfig drives the in-process clock
type HeartBeatConfig struct {
	Enabled    bool    `yaml:"enabled"`
	IntervalMS int     `yaml:"intervalMS" validate:"gte=0"`
	Speedup    float64 `yaml:"speedup" validate:"gte=0"`
	StartTime  string  `yaml:"startTime" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime    string  `yaml:"endTime" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ClockConfig selects where simulation ticks come from
type ClockConfig struct {
	Source string `yaml:"source" validate:"omitempty,oneof=local kafka"` // local|kafka
}

// KafkaConfig contains broker settings for the clock and location topics
type KafkaConfig struct {
	Brokers        []string `yaml:"brokers" validate:"omitempty,dive,hostname_port"`
	ClockTopic     string   `yaml:"clockTopic"`
	LocationsTopic string   `yaml:"locationsTopic"`
	GroupID        string   `yaml:"groupID"`
}

// SiriConfig contains SIRI output settings
type SiriConfig struct {
	Codespace  string `yaml:"codespace"`
	ValidForMS int    `yaml:"validForMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	GTFS       GTFSConfig       `yaml:"gtfs"`
	HeartBeat  HeartBeatConfig  `yaml:"heartbeat"`
	Clock      ClockConfig      `yaml:"clock"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Siri       SiriConfig       `yaml:"siri"`
}
