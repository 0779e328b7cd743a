package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid defaults",
			cfg:     *Default(),
			wantErr: false,
		},
		{
			name: "valid with schedule",
			cfg: Config{
				Schedules: []ScheduleConfig{{Cron: "0 6 * * *", WorkflowID: "analytics-report"}},
			},
			wantErr: false,
		},
		{
			name: "schedule missing cron",
			cfg: Config{
				Schedules: []ScheduleConfig{{WorkflowID: "analytics-report"}},
			},
			wantErr: true,
		},
		{
			name: "schedule missing workflow id",
			cfg: Config{
				Schedules: []ScheduleConfig{{Cron: "0 6 * * *"}},
			},
			wantErr: true,
		},
		{
			name:    "negative queue size",
			cfg:     Config{Engine: EngineConfig{QueueSize: -1}},
			wantErr: true,
		},
		{
			name:    "negative pace delay",
			cfg:     Config{Engine: EngineConfig{PaceDelay: -time.Second}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.PaceDelay)
	assert.Equal(t, 128, cfg.Engine.QueueSize)
	assert.Equal(t, "flowd", cfg.Monitoring.MetricsPrefix)
	assert.Equal(t, "flowd", cfg.Monitoring.JobName)
	assert.Equal(t, 30*time.Second, cfg.Monitoring.PushInterval)
	assert.Empty(t, cfg.Monitoring.VictoriaMetricsURL)
	assert.Empty(t, cfg.Schedules)
}

func TestLoad(t *testing.T) {
	content := `server:
  listen_addr: ":9090"
engine:
  pace_delay: 10ms
  queue_size: 64
monitoring:
  victoriametrics_url: http://vm:8428
  push_interval: 15s
logging:
  level: debug
  format: text
schedules:
  - cron: "0 6 * * *"
    workflow_id: analytics-report
    inputs:
      report_type: daily
`
	path := filepath.Join(t.TempDir(), "flowd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, 10*time.Millisecond, cfg.Engine.PaceDelay)
	assert.Equal(t, 64, cfg.Engine.QueueSize)
	assert.Equal(t, "http://vm:8428", cfg.Monitoring.VictoriaMetricsURL)
	assert.Equal(t, 15*time.Second, cfg.Monitoring.PushInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	// Unset fields pick up defaults.
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "flowd", cfg.Monitoring.MetricsPrefix)

	require.Len(t, cfg.Schedules, 1)
	assert.Equal(t, "0 6 * * *", cfg.Schedules[0].Cron)
	assert.Equal(t, "analytics-report", cfg.Schedules[0].WorkflowID)
	assert.Equal(t, "daily", cfg.Schedules[0].Inputs["report_type"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sched.yaml")
	content := "schedules:\n  - workflow_id: data-processing\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
