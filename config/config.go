// Package config loads and validates the flowd server configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flowd-io/flowd/logging"
)

const (
	defaultListenAddr      = ":8080"
	defaultShutdownTimeout = 5 * time.Second

	defaultPaceDelay = 100 * time.Millisecond
	defaultQueueSize = 128

	defaultMetricsPrefix = "flowd"
	defaultJobName       = "flowd"
	defaultPushInterval  = 30 * time.Second
)

// Config is the complete application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Engine     EngineConfig     `yaml:"engine"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    logging.Config   `yaml:"logging"`
	Schedules  []ScheduleConfig `yaml:"schedules"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig holds execution engine settings.
type EngineConfig struct {
	// PaceDelay is the delay inserted between consecutive tasks of one
	// execution.
	PaceDelay time.Duration `yaml:"pace_delay"`
	// QueueSize is the capacity of the engine's command queue.
	QueueSize int `yaml:"queue_size"`
}

// MonitoringConfig holds metrics push settings. Push is disabled when
// VictoriaMetricsURL is empty.
type MonitoringConfig struct {
	VictoriaMetricsURL string        `yaml:"victoriametrics_url"`
	MetricsPrefix      string        `yaml:"metrics_prefix"`
	JobName            string        `yaml:"jobname"`
	PushInterval       time.Duration `yaml:"push_interval"`
}

// ScheduleConfig submits a workflow on a cron schedule.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron spec.
	Cron string `yaml:"cron"`
	// WorkflowID names the workflow to submit.
	WorkflowID string `yaml:"workflow_id"`
	// Inputs is the input payload for each scheduled submission.
	Inputs map[string]any `yaml:"inputs"`
}

// Load reads, parses and validates a configuration file, applying defaults
// for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = defaultListenAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Engine.PaceDelay == 0 {
		c.Engine.PaceDelay = defaultPaceDelay
	}
	if c.Engine.QueueSize == 0 {
		c.Engine.QueueSize = defaultQueueSize
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
	if c.Monitoring.PushInterval == 0 {
		c.Monitoring.PushInterval = defaultPushInterval
	}
}

func (c *Config) validate() error {
	if c.Engine.QueueSize < 0 {
		return fmt.Errorf("engine.queue_size must be positive, got %d", c.Engine.QueueSize)
	}
	if c.Engine.PaceDelay < 0 {
		return fmt.Errorf("engine.pace_delay must not be negative, got %s", c.Engine.PaceDelay)
	}
	for i, sched := range c.Schedules {
		if sched.Cron == "" {
			return fmt.Errorf("schedules[%d]: cron spec is required", i)
		}
		if sched.WorkflowID == "" {
			return fmt.Errorf("schedules[%d]: workflow_id is required", i)
		}
	}
	return nil
}
