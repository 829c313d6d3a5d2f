package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RunStatus
		want   string
	}{
		{RunStatusRunning, "running"},
		{RunStatusComplete, "complete"},
		{RunStatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestConversionPathValues(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "text", string(PathText))
	assert.Equal(t, "ocr", string(PathOCR))
}

func TestRun_JSONOmitsEmptyResultAndError(t *testing.T) {
	t.Parallel()

	run := Run{
		ID:         "run-1",
		Conversion: Conversion{Input: "in.pdf", Output: "out.txt", Args: []string{"in.pdf", "out.txt"}},
		Status:     RunStatusRunning,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(run)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "result")
	assert.NotContains(t, m, "error")
	assert.Equal(t, "running", m["status"])
	assert.Equal(t, "in.pdf", m["conversion"].(map[string]any)["input"])
}
