package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tower-survival/server/internal/telemetry"
	"tower-survival/server/logging"
)

// Environment variables that override file values.
const (
	EnvPort              = "PORT"
	EnvSavePath          = "SAVE_PATH"
	EnvTickIntervalMS    = "TICK_INTERVAL_MS"
	EnvSimSeed           = "SIM_SEED"
	EnvEnableDebugRoutes = "ENABLE_DEBUG_ROUTES"
	EnvLogJSONPath       = "LOG_JSON_PATH"
)

// Config is the process configuration for the server binary.
type Config struct {
	Addr            string        `yaml:"addr"`
	TickInterval    time.Duration `yaml:"tickInterval"`
	Seed            string        `yaml:"seed"`
	SavePath        string        `yaml:"savePath"`
	SaveDebounce    time.Duration `yaml:"saveDebounce"`
	SaveInterval    time.Duration `yaml:"saveInterval"`
	WatchSave       bool          `yaml:"watchSave"`
	ClientDir       string        `yaml:"clientDir"`
	DebugRoutes     bool          `yaml:"debugRoutes"`
	CommandCapacity int           `yaml:"commandCapacity"`
	Logging         LoggingConfig `yaml:"logging"`
}

// LoggingConfig is the file form of logging.Config.
type LoggingConfig struct {
	Sinks           []string          `yaml:"sinks"`
	BufferSize      int               `yaml:"bufferSize"`
	MinimumSeverity string            `yaml:"minimumSeverity"`
	JSONPath        string            `yaml:"jsonPath"`
	FlushInterval   time.Duration     `yaml:"flushInterval"`
	Fields          map[string]string `yaml:"fields"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Addr:            ":3000",
		TickInterval:    16 * time.Millisecond,
		Seed:            "tower-survival",
		SavePath:        "save.json",
		SaveDebounce:    300 * time.Millisecond,
		SaveInterval:    10 * time.Second,
		WatchSave:       true,
		CommandCapacity: 256,
		Logging: LoggingConfig{
			Sinks:           []string{logging.SinkConsole},
			BufferSize:      1024,
			MinimumSeverity: logging.SeverityInfo.String(),
			FlushInterval:   time.Second,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

// ApplyEnv overlays environment overrides. Invalid values are logged and
// ignored.
func (c Config) ApplyEnv(lookup func(string) (string, bool), logger telemetry.Logger) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	if raw, ok := lookup(EnvPort); ok && raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port < 65536 {
			c.Addr = ":" + strconv.Itoa(port)
		} else {
			logger.Printf("invalid %s=%q", EnvPort, raw)
		}
	}
	if raw, ok := lookup(EnvSavePath); ok && raw != "" {
		c.SavePath = raw
	}
	if raw, ok := lookup(EnvTickIntervalMS); ok && raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			c.TickInterval = time.Duration(ms) * time.Millisecond
		} else {
			logger.Printf("invalid %s=%q: must be a positive integer", EnvTickIntervalMS, raw)
		}
	}
	if raw, ok := lookup(EnvSimSeed); ok && raw != "" {
		c.Seed = raw
	}
	if raw, ok := lookup(EnvEnableDebugRoutes); ok && raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			c.DebugRoutes = value
		} else {
			logger.Printf("invalid %s=%q: %v", EnvEnableDebugRoutes, raw, err)
		}
	}
	if raw, ok := lookup(EnvLogJSONPath); ok && raw != "" {
		c.Logging.JSONPath = raw
		if !containsSink(c.Logging.Sinks, logging.SinkJSON) {
			c.Logging.Sinks = append(c.Logging.Sinks, logging.SinkJSON)
		}
	}
	return c
}

// RouterConfig converts the file form into a router configuration.
func (c Config) RouterConfig() logging.Config {
	out := logging.DefaultConfig()
	if len(c.Logging.Sinks) > 0 {
		out.EnabledSinks = append([]string(nil), c.Logging.Sinks...)
	}
	if c.Logging.BufferSize > 0 {
		out.BufferSize = c.Logging.BufferSize
	}
	if severity, ok := logging.ParseSeverity(c.Logging.MinimumSeverity); ok {
		out.MinimumSeverity = severity
	}
	if c.Logging.JSONPath != "" {
		out.JSON.FilePath = c.Logging.JSONPath
	}
	if c.Logging.FlushInterval > 0 {
		out.JSON.FlushInterval = c.Logging.FlushInterval
	}
	if len(c.Logging.Fields) > 0 {
		out.Fields = make(map[string]any, len(c.Logging.Fields))
		for k, v := range c.Logging.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

func (c Config) normalized() Config {
	def := Default()
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = def.Addr
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.Seed == "" {
		c.Seed = def.Seed
	}
	if c.SavePath == "" {
		c.SavePath = def.SavePath
	}
	if c.SaveDebounce <= 0 {
		c.SaveDebounce = def.SaveDebounce
	}
	if c.SaveInterval <= 0 {
		c.SaveInterval = def.SaveInterval
	}
	if c.CommandCapacity <= 0 {
		c.CommandCapacity = def.CommandCapacity
	}
	return c
}

func containsSink(sinks []string, name string) bool {
	for _, s := range sinks {
		if s == name {
			return true
		}
	}
	return false
}
