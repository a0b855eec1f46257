package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/openrover/drivectl/drive"
)

// MQTT topics. The UI publishes button presses to the events topic; the
// controller publishes state snapshots to the state topic.
const (
	eventsTopic = "drivectl/ui/events"
	stateTopic  = "drivectl/state"
)

// MQTTConfig represents the MQTT bridge configuration.
type MQTTConfig struct {
	Broker   string `help:"MQTT broker URL, e.g. tcp://localhost:1883; empty disables the bridge" default:"" env:"DRIVECTL_MQTT_BROKER"`
	ClientID string `help:"MQTT client identifier" default:"drivectl" env:"DRIVECTL_MQTT_CLIENT_ID"`
}

// MQTTBridge subscribes to remote UI events and republishes drive snapshots.
type MQTTBridge struct {
	cfg    MQTTConfig
	logger *slog.Logger
	client mqtt.Client
	events chan<- drive.Adjustment
}

// ConnectMQTT dials the broker and subscribes to the UI event topic, feeding
// decoded adjustments into events. Returns nil (no bridge) when no broker is
// configured.
func ConnectMQTT(cfg MQTTConfig, logger *slog.Logger, events chan<- drive.Adjustment) (*MQTTBridge, error) {
	if cfg.Broker == "" {
		return nil, nil
	}

	b := &MQTTBridge{cfg: cfg, logger: logger, events: events}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(c mqtt.Client) {
		logger.Info("connected to MQTT broker", "broker", cfg.Broker)
		if token := c.Subscribe(eventsTopic, 0, b.handleEvent); token.Wait() && token.Error() != nil {
			logger.Error("failed to subscribe to UI events", "error", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "error", err)
	}

	b.client = mqtt.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return b, nil
}

// Publish sends a snapshot to the state topic. Fire and forget.
func (b *MQTTBridge) Publish(snap drive.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	b.client.Publish(stateTopic, 0, false, payload)
}

// Close disconnects from the broker.
func (b *MQTTBridge) Close() {
	b.client.Disconnect(250)
}

func (b *MQTTBridge) handleEvent(_ mqtt.Client, msg mqtt.Message) {
	var adj drive.Adjustment
	if err := json.Unmarshal(msg.Payload(), &adj); err != nil {
		b.logger.Warn("discarding malformed UI event", "error", err)
		return
	}

	// The control loop debounces; here we only guard against a stuck
	// publisher flooding the queue.
	select {
	case b.events <- adj:
	default:
		b.logger.Debug("UI event queue full, dropping", "setting", adj.Setting)
	}
}
