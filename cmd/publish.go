// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/intergastat/pkg/pcinterface"
	"github.com/Thermoquad/intergastat/pkg/publisher"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Poll the boiler and publish readings to MQTT",
	Long: `Poll the controller on a fixed interval and publish every decoded reading
to an MQTT broker.

Topics (prefix from mqtt.topic_prefix, default "intergas"):
  <prefix>/state          full reading, JSON or CBOR (mqtt.encoding)
  <prefix>/status         operating state label
  <prefix>/<reading>      each reading, e.g. intergas/flow
  <prefix>/flags/<flag>   each flag as ON or OFF
  <prefix>/availability   online, or offline when the publisher goes away

The broker password is read from mqtt.password, usually supplied as
INTERGASTAT_MQTT_PASSWORD.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	flags := publishCmd.Flags()
	flags.String("broker", "", "MQTT broker URL (e.g. tcp://localhost:1883)")
	flags.String("topic-prefix", "", "MQTT topic prefix")
	flags.String("encoding", "", "State payload encoding (json, cbor)")
	bindFlags(flags, map[string]string{
		"mqtt.broker":       "broker",
		"mqtt.topic_prefix": "topic-prefix",
		"mqtt.encoding":     "encoding",
	})
}

func runPublish(cmd *cobra.Command, args []string) error {
	client, connInfo, err := OpenClient()
	if err != nil {
		return err
	}
	defer client.Close()

	pub, err := publisher.Connect(cfg.MQTT, log.Named("mqtt"))
	if err != nil {
		return err
	}
	defer pub.Close()

	log.Infow("publishing boiler readings",
		"connection", connInfo,
		"broker", cfg.MQTT.Broker,
		"prefix", cfg.MQTT.TopicPrefix,
		"encoding", cfg.MQTT.Encoding)

	ctx, cancel := signalContext()
	defer cancel()

	poller := pcinterface.NewPoller(client, cfg.Poll.Interval, log.Named("poll"))
	err = poller.Run(ctx, func(r pcinterface.Reading) {
		if !r.OK() {
			return
		}
		if err := pub.Publish(r.Telemetry); err != nil {
			log.Errorw("publish failed", "error", err)
		}
	})

	poller.Stats().CalculateRates()
	fmt.Print(poller.Stats().String())
	return err
}
