// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads intergastat settings from defaults, an optional
// YAML file, INTERGASTAT_* environment variables and bound command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. INTERGASTAT_SERIAL_PORT
const EnvPrefix = "INTERGASTAT"

// Config is the complete runtime configuration
type Config struct {
	Serial    SerialConfig    `mapstructure:"serial"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Poll      PollConfig      `mapstructure:"poll"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	API       APIConfig       `mapstructure:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Simulate  bool            `mapstructure:"simulate"`
}

// SerialConfig describes the PC interface serial link
type SerialConfig struct {
	Port    string        `mapstructure:"port"`
	Baud    int           `mapstructure:"baud"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WebSocketConfig describes a remote byte bridge in front of the serial link
type WebSocketConfig struct {
	URL         string `mapstructure:"url"`
	Username    string `mapstructure:"username"`
	NoSSLVerify bool   `mapstructure:"no_ssl_verify"`
}

// PollConfig controls the fixed-delay poll loop
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// MQTTConfig describes the telemetry sink
type MQTTConfig struct {
	Broker      string        `mapstructure:"broker"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	ClientID    string        `mapstructure:"client_id"`
	TopicPrefix string        `mapstructure:"topic_prefix"`
	QoS         int           `mapstructure:"qos"`
	Retain      bool          `mapstructure:"retain"`
	Encoding    string        `mapstructure:"encoding"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// APIConfig describes the read-only HTTP API
type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig selects the log level
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyAMA0")
	v.SetDefault("serial.baud", 9600)
	v.SetDefault("serial.timeout", 2*time.Second)
	v.SetDefault("websocket.url", "")
	v.SetDefault("websocket.username", "")
	v.SetDefault("websocket.no_ssl_verify", false)
	v.SetDefault("poll.interval", 10*time.Second)
	v.SetDefault("mqtt.broker", "tcp://homeassistant.local:1883")
	// Unmarshal only sees env vars for keys viper already knows
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.topic_prefix", "intergas")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("mqtt.retain", true)
	v.SetDefault("mqtt.encoding", "json")
	v.SetDefault("mqtt.timeout", 5*time.Second)
	v.SetDefault("api.addr", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("simulate", false)
}

// Load reads configuration into a Config. An empty path searches the
// working directory and ~/.config/intergastat for intergastat.yaml; a
// missing file is not an error unless path was given explicitly.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("intergastat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/intergastat")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command
func (c Config) Validate() error {
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("invalid serial.baud: %d", c.Serial.Baud)
	}
	if c.Serial.Timeout <= 0 {
		return fmt.Errorf("invalid serial.timeout: %s", c.Serial.Timeout)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("invalid poll.interval: %s", c.Poll.Interval)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid mqtt.qos: %d (valid 0-2)", c.MQTT.QoS)
	}
	switch c.MQTT.Encoding {
	case "json", "cbor":
	default:
		return fmt.Errorf("invalid mqtt.encoding: %q (use json or cbor)", c.MQTT.Encoding)
	}
	if c.WebSocket.URL != "" && !strings.HasPrefix(c.WebSocket.URL, "ws://") && !strings.HasPrefix(c.WebSocket.URL, "wss://") {
		return fmt.Errorf("unsupported websocket.url scheme: %s (use ws:// or wss://)", c.WebSocket.URL)
	}
	return nil
}
