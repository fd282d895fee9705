// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package publisher

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/intergastat/pkg/config"
	"github.com/Thermoquad/intergastat/pkg/intergas"
)

// fakeToken is an already completed token
type fakeToken struct {
	err     error
	pending bool
}

func (t *fakeToken) Wait() bool                     { return !t.pending }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.pending }
func (t *fakeToken) Done() <-chan struct{}          { return closedChan }
func (t *fakeToken) Error() error                   { return t.err }

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// MockBroker records publishes
type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(mqtt.Token)
}

func (m *MockBroker) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockBroker) Disconnect(quiesce uint) {
	m.Called(quiesce)
}

func sampleTelemetry(t *testing.T, withSensor bool) intergas.Telemetry {
	t.Helper()
	var fields intergas.RawFields
	fields.Readings[1] = intergas.RawReading{Low: 0x10, High: 0x19}
	fields.Readings[6] = intergas.RawReading{Low: 150, High: 0}
	fields.DisplayCode = intergas.DisplayDHW
	fields.PrimaryFlags = intergas.PrimaryFlags{Pump: true}
	fields.SecondaryFlags = intergas.SecondaryFlags{PressureSensorPresent: withSensor}
	tel, err := intergas.DecodeFrame(intergas.EncodeFrame(fields))
	require.NoError(t, err)
	return tel
}

// topicCount is state + status + 12 readings + 16 flags
const topicCount = 2 + 12 + 16

func TestPublish_AllTopics(t *testing.T) {
	broker := new(MockBroker)
	broker.On("Publish", mock.Anything, byte(1), true, mock.Anything).Return(&fakeToken{})

	p := New(broker, Options{TopicPrefix: "home/boiler", QoS: 1, Retain: true}, nil)
	require.NoError(t, p.Publish(sampleTelemetry(t, true)))

	broker.AssertNumberOfCalls(t, "Publish", topicCount)
	broker.AssertCalled(t, "Publish", "home/boiler/status", byte(1), true, "Domestic hot water")
	broker.AssertCalled(t, "Publish", "home/boiler/flow", byte(1), true, "66.41")
	broker.AssertCalled(t, "Publish", "home/boiler/ch_pressure", byte(1), true, "1.50")
	broker.AssertCalled(t, "Publish", "home/boiler/flags/pump", byte(1), true, "ON")
	broker.AssertCalled(t, "Publish", "home/boiler/flags/gas_valve", byte(1), true, "OFF")
}

func TestPublish_SentinelWithoutSensor(t *testing.T) {
	broker := new(MockBroker)
	broker.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{})

	p := New(broker, Options{TopicPrefix: "boiler"}, nil)
	require.NoError(t, p.Publish(sampleTelemetry(t, false)))

	broker.AssertCalled(t, "Publish", "boiler/ch_pressure", byte(0), false, "-35.00")
}

func TestPublish_JSONState(t *testing.T) {
	broker := new(MockBroker)
	var state []byte
	broker.On("Publish", "boiler/state", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { state = args.Get(3).([]byte) }).
		Return(&fakeToken{})
	broker.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{})

	p := New(broker, Options{TopicPrefix: "boiler"}, nil)
	require.NoError(t, p.Publish(sampleTelemetry(t, true)))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(state, &record))
	assert.Equal(t, 66.41, record["flow"])
	assert.Equal(t, "Domestic hot water", record["status_label"])
}

func TestPublish_CBORState(t *testing.T) {
	broker := new(MockBroker)
	var state []byte
	broker.On("Publish", "boiler/state", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { state = args.Get(3).([]byte) }).
		Return(&fakeToken{})
	broker.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{})

	p := New(broker, Options{TopicPrefix: "boiler", Encoding: EncodingCBOR}, nil)
	require.NoError(t, p.Publish(sampleTelemetry(t, true)))

	record, err := intergas.ParseCBORRecord(state)
	require.NoError(t, err)
	assert.Equal(t, 66.41, record.Flow)
	assert.Equal(t, uint8(intergas.DisplayDHW), record.DisplayCode)
}

func TestPublish_ErrorsJoined(t *testing.T) {
	broker := new(MockBroker)
	brokerErr := errors.New("not authorised")
	broker.On("Publish", "boiler/status", mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{err: brokerErr})
	broker.On("Publish", "boiler/fan_pwm", mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{pending: true})
	broker.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{})

	p := New(broker, Options{TopicPrefix: "boiler"}, nil)
	err := p.Publish(sampleTelemetry(t, true))
	require.Error(t, err)

	assert.ErrorIs(t, err, brokerErr)
	assert.ErrorIs(t, err, ErrPublishTimeout)
	assert.True(t, strings.Contains(err.Error(), "boiler/fan_pwm"))

	// Failures do not stop the remaining topics
	broker.AssertNumberOfCalls(t, "Publish", topicCount)
}

func TestPublish_UnsupportedEncoding(t *testing.T) {
	broker := new(MockBroker)
	p := New(broker, Options{TopicPrefix: "boiler", Encoding: "xml"}, nil)

	err := p.Publish(sampleTelemetry(t, true))
	require.Error(t, err)
	broker.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClose(t *testing.T) {
	broker := new(MockBroker)
	broker.On("IsConnected").Return(true)
	broker.On("Publish", "boiler/availability", byte(0), false, Offline).Return(&fakeToken{})
	broker.On("Disconnect", uint(250)).Return()

	New(broker, Options{TopicPrefix: "boiler"}, nil).Close()
	broker.AssertExpectations(t)
}

func TestClose_NotConnected(t *testing.T) {
	broker := new(MockBroker)
	broker.On("IsConnected").Return(false)

	New(broker, Options{TopicPrefix: "boiler"}, nil).Close()
	broker.AssertNotCalled(t, "Disconnect", mock.Anything)
}

func TestClientID(t *testing.T) {
	assert.Equal(t, "fixed", ClientID(config.MQTTConfig{ClientID: "fixed"}))

	a := ClientID(config.MQTTConfig{})
	b := ClientID(config.MQTTConfig{})
	assert.True(t, strings.HasPrefix(a, "intergastat-"))
	assert.NotEqual(t, a, b)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.MQTTConfig{
		TopicPrefix: "intergas",
		QoS:         2,
		Retain:      true,
		Encoding:    "cbor",
		Timeout:     time.Second,
	})
	assert.Equal(t, Options{TopicPrefix: "intergas", QoS: 2, Retain: true, Encoding: "cbor", Timeout: time.Second}, opts)
}
