package logger

import (
	"os"
	"path/filepath"
	"testing"

	"szexam/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.log")
	require.NoError(t, Initialize(config.LoggerConfig{Env: "production", Level: "debug", File: path}))

	Get().Debug("hello from test")
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestNew_BadFile(t *testing.T) {
	_, err := New(config.LoggerConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
