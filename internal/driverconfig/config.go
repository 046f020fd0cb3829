// Package driverconfig loads the cmd/gnssdrv demo's YAML configuration with
// spf13/viper. WatchReload can also watch the file (via viper's fsnotify
// integration) and hand each re-read Config to a callback; cmd/gnssdrv does
// not call it, and the demo does not apply MaxRetries. The core
// library itself never reads a config file; this package exists only for the
// CLI demo.
package driverconfig

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config describes one receiver session for the demo CLI.
type Config struct {
	Port       string `mapstructure:"port"`
	Baud       int    `mapstructure:"baud"`
	Mode       string `mapstructure:"mode"` // "nmea", "mediatek", "ubx"
	RateHz     int    `mapstructure:"rate_hz"`
	MaxRetries int    `mapstructure:"max_retries"`
	LogLevel   string `mapstructure:"log_level"`

	NtripURL        string `mapstructure:"ntrip_url"`
	NtripUsername   string `mapstructure:"ntrip_username"`
	NtripPassword   string `mapstructure:"ntrip_password"`
	NtripMountpoint string `mapstructure:"ntrip_mountpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "")
	v.SetDefault("baud", 9600)
	v.SetDefault("mode", "nmea")
	v.SetDefault("rate_hz", 5)
	v.SetDefault("max_retries", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("ntrip_url", "")
	v.SetDefault("ntrip_username", "")
	v.SetDefault("ntrip_password", "")
	v.SetDefault("ntrip_mountpoint", "")
}

// Load reads configPath (or ./gnssdrv.yaml / ./configs/gnssdrv.yaml if
// empty), falling back to defaults for anything the file omits (or for
// everything when the file does not exist), and overlays GNSSDRV_-prefixed
// environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gnssdrv")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("driverconfig: read config: %w", err)
		}
	}

	v.SetEnvPrefix("GNSSDRV")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("driverconfig: unmarshal config: %w", err)
	}
	return &cfg, nil
}

// WatchReload re-unmarshals the config on every on-disk change and invokes
// onChange with the freshly loaded value; parse errors on a broken file are
// reported via onError instead of crashing the watch.
func WatchReload(configPath string, onChange func(*Config), onError func(error)) {
	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gnssdrv")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			if onError != nil {
				onError(fmt.Errorf("driverconfig: reload: %w", err))
			}
			return
		}
		if onChange != nil {
			onChange(&cfg)
		}
	})
	v.WatchConfig()
}
