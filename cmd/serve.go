// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Thermoquad/intergastat/pkg/api"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
	"github.com/Thermoquad/intergastat/pkg/publisher"
)

var (
	serveMQTT bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the boiler and serve readings over HTTP",
	Long: `Poll the controller on a fixed interval and expose the latest reading
through a read-only HTTP API.

Endpoints:
  GET /healthz              liveness and whether a reading exists
  GET /api/v1/telemetry     latest reading (404 until the first poll succeeds)
  GET /api/v1/statistics    poll counters and rates
  GET /api/v1/stream        WebSocket pushing every new reading as JSON

With --mqtt the readings are also published as by the publish command.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("listen", "", "HTTP listen address (default :8080)")
	flags.BoolVar(&serveMQTT, "mqtt", false, "Also publish readings to MQTT")
	bindFlags(flags, map[string]string{
		"api.addr": "listen",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	client, connInfo, err := OpenClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var pub *publisher.Publisher
	if serveMQTT {
		pub, err = publisher.Connect(cfg.MQTT, log.Named("mqtt"))
		if err != nil {
			return err
		}
		defer pub.Close()
	}

	ctx, cancel := signalContext()
	defer cancel()

	poller := pcinterface.NewPoller(client, cfg.Poll.Interval, log.Named("poll"))
	store := api.NewStore(poller.Stats())
	router := api.NewHandler(store, log.Named("api")).InitRoutes()

	log.Infow("serving boiler readings", "connection", connInfo, "listen", cfg.API.Addr)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- api.Serve(ctx, cfg.API.Addr, router)
		// Stop polling if the listener fails
		cancel()
	}()

	pollErr := poller.Run(ctx, func(r pcinterface.Reading) {
		store.Update(r)
		if pub != nil && r.OK() {
			if err := pub.Publish(r.Telemetry); err != nil {
				log.Errorw("publish failed", "error", err)
			}
		}
	})

	if err := <-serveErr; err != nil {
		return err
	}
	return pollErr
}
