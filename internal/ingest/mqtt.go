package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"casque-hud/internal/telemetry"
)

// MQTTConfig describes the broker connection.
type MQTTConfig struct {
	Broker         string
	ClientID       string
	Prefix         string
	QoS            byte
	ConnectTimeout time.Duration
	RetryInterval  time.Duration
}

// DefaultMQTTConfig targets the backpack access point broker.
func DefaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:         "tcp://192.168.4.1:1883",
		ClientID:       "casque-hud",
		QoS:            0,
		ConnectTimeout: 5 * time.Second,
		RetryInterval:  2 * time.Second,
	}
}

// MQTTConfigFromMap populates the config from a string map (flag-style key/value pairs).
func MQTTConfigFromMap(cfg map[string]string) MQTTConfig {
	c := DefaultMQTTConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["broker"]; ok && v != "" {
		c.Broker = v
	}
	if v, ok := cfg["client_id"]; ok && v != "" {
		c.ClientID = v
	}
	if v, ok := cfg["prefix"]; ok {
		c.Prefix = v
	}
	if v, ok := cfg["qos"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 2 {
			c.QoS = byte(parsed)
		}
	}
	if v, ok := cfg["connect_timeout"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.ConnectTimeout = parsed
		}
	}
	if v, ok := cfg["retry_interval"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.RetryInterval = parsed
		}
	}
	return c
}

// MQTTSource subscribes to the topic table on an MQTT broker.
type MQTTSource struct {
	cfg    MQTTConfig
	router *Router
	log    *slog.Logger
}

// NewMQTT returns an MQTT source for cfg using the default topic table.
func NewMQTT(cfg MQTTConfig) *MQTTSource {
	return &MQTTSource{
		cfg:    cfg,
		router: NewRouter(cfg.Prefix, DefaultRoutes()),
		log:    slog.Default().With("source", "mqtt", "broker", cfg.Broker),
	}
}

// Name implements Source.
func (s *MQTTSource) Name() string { return "mqtt" }

// Run connects, subscribes and keeps the store updated until ctx is done.
// The client reconnects on its own; lost_connection tracks the link state.
func (s *MQTTSource) Run(ctx context.Context, store *telemetry.Store) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(s.cfg.RetryInterval).
		SetConnectTimeout(s.cfg.ConnectTimeout).
		SetOnConnectHandler(s.onConnect(store)).
		SetConnectionLostHandler(s.onConnectionLost(store))

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-ctx.Done():
		client.Disconnect(250)
		return nil
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("ingest: mqtt connect %s: %w", s.cfg.Broker, err)
	}

	<-ctx.Done()
	client.Disconnect(250)
	s.log.Info("disconnected")
	return nil
}

// onConnect resubscribes after every (re)connect; subscriptions do not
// survive a clean session.
func (s *MQTTSource) onConnect(store *telemetry.Store) mqtt.OnConnectHandler {
	return func(c mqtt.Client) {
		filters := make(map[string]byte)
		for _, t := range s.router.Topics() {
			filters[t] = s.cfg.QoS
		}
		token := c.SubscribeMultiple(filters, s.onMessage(store))
		if !token.WaitTimeout(s.cfg.ConnectTimeout) {
			s.log.Warn("subscribe timed out", "topics", len(filters))
			return
		}
		if err := token.Error(); err != nil {
			s.log.Error("subscribe failed", "err", err)
			return
		}
		store.SetLostConnection(false)
		s.log.Info("connected", "topics", len(filters))
	}
}

func (s *MQTTSource) onConnectionLost(store *telemetry.Store) mqtt.ConnectionLostHandler {
	return func(_ mqtt.Client, err error) {
		store.SetLostConnection(true)
		s.log.Warn("connection lost", "err", err)
	}
}

func (s *MQTTSource) onMessage(store *telemetry.Store) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		if err := s.router.Handle(store, m.Topic(), m.Payload()); err != nil {
			s.log.Warn("dropped message", "topic", m.Topic(), "err", err)
		}
	}
}

func init() {
	Register("mqtt", func(cfg map[string]string) Source {
		return NewMQTT(MQTTConfigFromMap(cfg))
	})
}
