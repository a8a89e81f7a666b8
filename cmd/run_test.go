package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/frontbundle/internal/bundler"
)

func decodeLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogRebuild_Success(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	logRebuild(log, "rebuild", &bundler.Result{
		RunID:    "run-1",
		Status:   bundler.StatusCompleted,
		Files:    4,
		Duration: 2 * time.Second,
	}, nil)

	entry := decodeLog(t, &buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "rebuild finished", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "completed", entry["status"])
	assert.EqualValues(t, 4, entry["files"])
	assert.EqualValues(t, 2*time.Second, entry["duration"])
}

func TestLogRebuild_Failure(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	logRebuild(log, "initial bundle", nil, errors.New("frontend build failed"))

	entry := decodeLog(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "initial bundle failed, watching for changes", entry["msg"])
	assert.Equal(t, "frontend build failed", entry["error"])
}
