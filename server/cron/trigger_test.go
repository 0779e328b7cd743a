package cron

import (
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowd-io/flowd/workflow"
)

// mockSubmitter is a test implementation of Submitter.
type mockSubmitter struct {
	submitCount atomic.Int32
	submitErr   error
	workflowID  string
	inputs      map[string]any
}

func (m *mockSubmitter) ExecuteWorkflow(workflowID string, inputs map[string]any) (*workflow.Execution, error) {
	m.submitCount.Add(1)
	m.workflowID = workflowID
	m.inputs = inputs
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return workflow.NewExecution(workflowID, inputs), nil
}

func TestNewTrigger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{
			name:    "valid spec - daily at 6am",
			spec:    "0 6 * * *",
			wantErr: false,
		},
		{
			name:    "valid spec - every hour",
			spec:    "0 * * * *",
			wantErr: false,
		},
		{
			name:    "valid spec - every minute",
			spec:    "* * * * *",
			wantErr: false,
		},
		{
			name:    "invalid spec - empty",
			spec:    "",
			wantErr: true,
		},
		{
			name:    "invalid spec - wrong format",
			spec:    "not a cron spec",
			wantErr: true,
		},
		{
			name:    "invalid spec - too few fields",
			spec:    "0 6 *",
			wantErr: true,
		},
		{
			name:    "invalid spec - invalid value",
			spec:    "60 6 * * *",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger, err := NewTrigger(tt.spec, "analytics-report", nil, &mockSubmitter{}, logger)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCronSpec)
				assert.Nil(t, trigger)
			} else {
				require.NoError(t, err)
				require.NotNil(t, trigger)
			}
		})
	}
}

func TestTrigger_NextRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	trigger, err := NewTrigger("* * * * *", "analytics-report", nil, &mockSubmitter{}, logger)
	require.NoError(t, err)

	next := trigger.NextRun()
	assert.True(t, next.After(time.Now()))
	assert.True(t, next.Before(time.Now().Add(time.Minute+time.Second)))
}

func TestTrigger_Submit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	submitter := &mockSubmitter{}

	trigger, err := NewTrigger("* * * * *", "data-processing", map[string]any{"source": "db"}, submitter, logger)
	require.NoError(t, err)

	trigger.submit()

	assert.Equal(t, int32(1), submitter.submitCount.Load())
	assert.Equal(t, "data-processing", submitter.workflowID)
	assert.Equal(t, "db", submitter.inputs["source"])
}

func TestTrigger_SubmitError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	submitter := &mockSubmitter{submitErr: errors.New("queue full")}

	trigger, err := NewTrigger("* * * * *", "data-processing", nil, submitter, logger)
	require.NoError(t, err)

	// An error from the submitter is logged, not fatal.
	trigger.submit()

	assert.Equal(t, int32(1), submitter.submitCount.Load())
}
