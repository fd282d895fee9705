// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Thermoquad/intergastat/pkg/config"
	"github.com/Thermoquad/intergastat/pkg/logger"
)

var (
	configFile string

	v   = viper.New()
	cfg config.Config
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "intergastat",
	Short: "Intergas boiler PC interface monitor",
	Long: `Intergastat - A CLI tool for reading and monitoring Intergas boilers through
the controller's PC interface.

Each poll sends the status query to the controller, decodes the 32-byte reply
and reports temperatures, pressure, fan data, flag registers and the
operating state.

Connection modes:
  Serial:    --port /dev/ttyAMA0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]
  Simulated: --simulate

Settings may also come from a YAML file (--config) or INTERGASTAT_* environment
variables, e.g. INTERGASTAT_SERIAL_PORT or INTERGASTAT_MQTT_BROKER.

For WebSocket authentication, the password is read from the INTERGAS_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configFile, "config", "", "Config file (default ./intergastat.yaml)")

	// Serial connection flags
	flags.StringP("port", "p", "/dev/ttyAMA0", "Serial port device")
	flags.IntP("baud", "b", 9600, "Baud rate (serial only)")
	flags.Duration("timeout", pcTimeoutDefault, "Reply timeout per query")

	// WebSocket connection flags
	flags.StringP("url", "u", "", "WebSocket URL (ws:// or wss://)")
	flags.String("username", "", "Username for HTTP Basic auth")
	flags.Bool("no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	flags.Bool("simulate", false, "Use a simulated boiler instead of a real link")
	flags.Duration("interval", pollIntervalDefault, "Delay between polls")
	flags.String("log-level", logger.InfoLevel, "Log level (debug, info, warn, error)")

	bindFlags(flags, map[string]string{
		"serial.port":             "port",
		"serial.baud":             "baud",
		"serial.timeout":          "timeout",
		"websocket.url":           "url",
		"websocket.username":      "username",
		"websocket.no_ssl_verify": "no-ssl-verify",
		"simulate":                "simulate",
		"poll.interval":           "interval",
		"logging.level":           "log-level",
	})
}

// bindFlags binds config keys to flags so an explicitly set flag wins over
// the config file and environment
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// loadConfig resolves the configuration before any command runs
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	log = logger.New(cfg.Logging.Level)
	log.Debugw("configuration loaded", "config_file", v.ConfigFileUsed())
	return nil
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = log.Sync() }()
	return rootCmd.Execute()
}
