package providers

import (
	"os"
	"path/filepath"
	"testing"

	"ctad/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggerConfig(dir string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof(TypeApp, "test message")
	logger.Infof(TypeServe, "serve message")
	logger.Warnf(TypeSweep, "sweep message")

	for _, name := range []string{"app.log", "serve.log", "admin.log", "sweep.log"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoErrorf(t, err, "expected %s to exist", name)
	}
}

func TestNewLogProvider_WritesToChannelFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	logger.Infof(TypeSweep, "sweep ran")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "sweep.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sweep ran")
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := loggerConfig(t.TempDir())
	conf.Logger.Level = "verbose"

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := loggerConfig("/nonexistent/directory/path")

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
