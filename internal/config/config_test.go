package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
node:
  id: thermistor-node
  group: lab
mqtt:
  broker: tcp://broker:1883
http:
  addr: ":8080"
store:
  backend: redis
  redis_addr: redis:6379
  redis_db: 2
log:
  level: debug
  format: console
sensors:
  iio_device: /sys/bus/iio/devices/iio:device1
  gpio_chip: gpiochip4
poll: 50ms
status_interval: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "thermistor-node", cfg.Node.ID)
	assert.Equal(t, "lab", cfg.Node.Group)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, StoreRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2, cfg.Store.RedisDB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/sys/bus/iio/devices/iio:device1", cfg.Sensors.IIODevice)
	assert.Equal(t, "gpiochip4", cfg.Sensors.GPIOChip)
	assert.Equal(t, 50*time.Millisecond, cfg.Poll)
	assert.Equal(t, time.Minute, cfg.StatusInterval)
	assert.Equal(t, "soundandvision:thermistor-node:nv", cfg.RedisHash())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "node:\n  id: a\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Node.Group)
	assert.Equal(t, StoreFile, cfg.Store.Backend)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll)
	assert.Equal(t, 15*time.Minute, cfg.StatusInterval)
	assert.Equal(t, "gpiochip0", cfg.Sensors.GPIOChip)
	assert.Empty(t, cfg.HTTP.Addr)
}

func TestLoadZeroStatusIntervalDisables(t *testing.T) {
	path := writeConfig(t, "node:\n  id: a\nstatus_interval: 0s\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.StatusInterval)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Node.ID)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: eeprom\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "eeprom")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "poll: [1, 2]\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Poll = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StatusInterval = -time.Second
	assert.Error(t, cfg.Validate())
}
