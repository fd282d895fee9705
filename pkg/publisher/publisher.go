// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package publisher forwards decoded boiler telemetry to an MQTT broker.
package publisher

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Thermoquad/intergastat/pkg/config"
	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/logger"
)

// Payload encodings for the state topic
const (
	EncodingJSON = "json"
	EncodingCBOR = "cbor"
)

// Availability payloads
const (
	Online  = "online"
	Offline = "offline"
)

// ErrPublishTimeout is returned when the broker does not acknowledge in time
var ErrPublishTimeout = errors.New("publish timed out")

// Broker is the subset of mqtt.Client used for publishing
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Options controls topics and delivery
type Options struct {
	TopicPrefix string
	QoS         byte
	Retain      bool
	Encoding    string
	Timeout     time.Duration
}

// OptionsFromConfig extracts publishing options from the MQTT config
func OptionsFromConfig(c config.MQTTConfig) Options {
	return Options{
		TopicPrefix: c.TopicPrefix,
		QoS:         byte(c.QoS),
		Retain:      c.Retain,
		Encoding:    c.Encoding,
		Timeout:     c.Timeout,
	}
}

// Publisher writes telemetry to topics under a common prefix:
//
//	<prefix>/state          full record (JSON or CBOR)
//	<prefix>/status         status label
//	<prefix>/<field>        each scalar reading
//	<prefix>/flags/<flag>   each flag as ON or OFF
//	<prefix>/availability   online, or offline via the last will
type Publisher struct {
	client Broker
	opts   Options
	log    *logger.Logger
}

// New wraps an already connected broker client
func New(client Broker, opts Options, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Encoding == "" {
		opts.Encoding = EncodingJSON
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &Publisher{client: client, opts: opts, log: log}
}

// ClientID returns c.ClientID, or a fresh intergastat-<uuid> if unset
func ClientID(c config.MQTTConfig) string {
	if c.ClientID != "" {
		return c.ClientID
	}
	return "intergastat-" + uuid.NewString()
}

// Connect dials the broker described by c and announces availability
func Connect(c config.MQTTConfig, log *logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := OptionsFromConfig(c)
	availability := opts.TopicPrefix + "/availability"

	clientOpts := mqtt.NewClientOptions()
	clientOpts.AddBroker(c.Broker)
	clientOpts.SetClientID(ClientID(c))
	clientOpts.SetAutoReconnect(true)
	clientOpts.SetConnectTimeout(opts.Timeout)
	clientOpts.SetWill(availability, Offline, opts.QoS, true)
	if c.Username != "" && c.Password != "" {
		clientOpts.SetUsername(c.Username)
		clientOpts.SetPassword(c.Password)
	}

	clientOpts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Infow("connected to MQTT broker", "broker", c.Broker)
		// Re-announce after every reconnect
		client.Publish(availability, opts.QoS, true, Online)
	})
	clientOpts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("MQTT connection lost", "error", err)
	})

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(opts.Timeout) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", c.Broker, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", c.Broker, err)
	}

	return New(client, opts, log), nil
}

func (p *Publisher) topic(name string) string {
	return p.opts.TopicPrefix + "/" + name
}

func (p *Publisher) send(topic string, payload interface{}) error {
	token := p.client.Publish(topic, p.opts.QoS, p.opts.Retain, payload)
	if !token.WaitTimeout(p.opts.Timeout) {
		return fmt.Errorf("%s: %w", topic, ErrPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", topic, err)
	}
	return nil
}

// StatePayload encodes the full record in the configured encoding
func (p *Publisher) StatePayload(t intergas.Telemetry) ([]byte, error) {
	switch p.opts.Encoding {
	case EncodingJSON:
		return json.Marshal(t)
	case EncodingCBOR:
		return t.MarshalCBOR()
	default:
		return nil, fmt.Errorf("unsupported encoding: %q", p.opts.Encoding)
	}
}

// Publish sends one reading to all topics. Every topic is attempted; the
// returned error joins all failures.
func (p *Publisher) Publish(t intergas.Telemetry) error {
	state, err := p.StatePayload(t)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	var errs []error
	if err := p.send(p.topic("state"), state); err != nil {
		errs = append(errs, err)
	}
	if err := p.send(p.topic("status"), t.StatusLabel()); err != nil {
		errs = append(errs, err)
	}
	for _, f := range t.Fields() {
		if err := p.send(p.topic(f.Name), strconv.FormatFloat(f.Value, 'f', 2, 64)); err != nil {
			errs = append(errs, err)
		}
	}
	p.publishFlags(t.PrimaryFlags().Bits(), intergas.PrimaryFlagNames, &errs)
	p.publishFlags(t.SecondaryFlags().Bits(), intergas.SecondaryFlagNames, &errs)

	if len(errs) > 0 {
		p.log.Warnw("publish incomplete", "failed_topics", len(errs))
		return fmt.Errorf("failed to publish telemetry: %w", errors.Join(errs...))
	}
	p.log.Debugw("telemetry published", "prefix", p.opts.TopicPrefix)
	return nil
}

func (p *Publisher) publishFlags(bits [8]bool, names [8]string, errs *[]error) {
	for i, set := range bits {
		payload := "OFF"
		if set {
			payload = "ON"
		}
		if err := p.send(p.topic("flags/"+names[i]), payload); err != nil {
			*errs = append(*errs, err)
		}
	}
}

// Close marks the publisher offline and disconnects
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		if err := p.send(p.topic("availability"), Offline); err != nil {
			p.log.Warnw("failed to publish availability", "error", err)
		}
		p.client.Disconnect(250)
	}
}
