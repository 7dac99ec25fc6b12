package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	data := "logging:\n  level: " + level + "\nauth:\n  jwtSecret: \"" + testSecret + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestNewConfigWatcherValidation(t *testing.T) {
	_, err := NewConfigWatcher(&WatcherConfig{OnChange: func(_, _ *Config) {}})
	assert.ErrorIs(t, err, ErrMissingConfigFile)

	_, err = NewConfigWatcher(&WatcherConfig{FilePath: "kimlik.yaml"})
	assert.ErrorIs(t, err, ErrMissingOnChange)

	_, err = NewConfigWatcher(&WatcherConfig{
		FilePath: filepath.Join(t.TempDir(), "missing.yaml"),
		OnChange: func(_, _ *Config) {},
	})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestConfigWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kimlik.yaml")
	writeConfig(t, path, "info")

	changes := make(chan *Config, 4)
	w, err := NewConfigWatcher(&WatcherConfig{
		FilePath: path,
		Debounce: 20 * time.Millisecond,
		OnChange: func(_, newCfg *Config) { changes <- newCfg },
	})
	require.NoError(t, err)
	assert.Equal(t, "info", w.GetCurrentConfig().Logging.Level)

	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())

	writeConfig(t, path, "debug")

	select {
	case cfg := <-changes:
		assert.Equal(t, "debug", cfg.Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
	assert.Equal(t, "debug", w.GetCurrentConfig().Logging.Level)
}

func TestConfigWatcherIgnoresInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kimlik.yaml")
	writeConfig(t, path, "info")

	errs := make(chan error, 4)
	w, err := NewConfigWatcher(&WatcherConfig{
		FilePath: path,
		Debounce: 20 * time.Millisecond,
		OnChange: func(_, _ *Config) { t.Error("invalid config applied") },
		OnError:  func(err error) { errs <- err },
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeConfig(t, path, "loud")

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "logging.level")
	case <-time.After(5 * time.Second):
		t.Fatal("validation error not reported")
	}
	assert.Equal(t, "info", w.GetCurrentConfig().Logging.Level)
}

func TestConfigWatcherStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kimlik.yaml")
	writeConfig(t, path, "info")

	w, err := NewConfigWatcher(&WatcherConfig{FilePath: path, OnChange: func(_, _ *Config) {}})
	require.NoError(t, err)

	w.Stop()
	require.NoError(t, w.Start())
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
}
