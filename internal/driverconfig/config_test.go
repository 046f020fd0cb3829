package driverconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, "nmea", cfg.Mode)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gnssdrv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: /dev/ttyUSB0\nbaud: 38400\nmode: ubx\nrate_hz: 10\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
	assert.Equal(t, 38400, cfg.Baud)
	assert.Equal(t, "ubx", cfg.Mode)
	assert.Equal(t, 10, cfg.RateHz)
}
