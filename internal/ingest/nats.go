package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"casque-hud/internal/telemetry"
)

// NATSConfig describes the NATS server connection.
type NATSConfig struct {
	URL           string
	Name          string
	Prefix        string
	ReconnectWait time.Duration
}

// DefaultNATSConfig targets a local server.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Name:          "casque-hud",
		ReconnectWait: 2 * time.Second,
	}
}

// NATSConfigFromMap populates the config from a string map (flag-style key/value pairs).
func NATSConfigFromMap(cfg map[string]string) NATSConfig {
	c := DefaultNATSConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["url"]; ok && v != "" {
		c.URL = v
	}
	if v, ok := cfg["name"]; ok && v != "" {
		c.Name = v
	}
	if v, ok := cfg["prefix"]; ok {
		c.Prefix = v
	}
	if v, ok := cfg["reconnect_wait"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.ReconnectWait = parsed
		}
	}
	return c
}

// NATSSource subscribes to the topic table on NATS, with "/" in topic names
// replaced by ".".
type NATSSource struct {
	cfg    NATSConfig
	router *Router
	log    *slog.Logger
}

// NewNATS returns a NATS source for cfg using the default topic table.
func NewNATS(cfg NATSConfig) *NATSSource {
	routes := DefaultRoutes()
	prefix := strings.Trim(cfg.Prefix, "/.")
	for i := range routes {
		topic := routes[i].Topic
		if prefix != "" {
			topic = prefix + "/" + topic
		}
		routes[i].Topic = Subject(topic)
	}
	return &NATSSource{
		cfg:    cfg,
		router: NewRouter("", routes),
		log:    slog.Default().With("source", "nats", "url", cfg.URL),
	}
}

// Name implements Source.
func (s *NATSSource) Name() string { return "nats" }

// Run connects, subscribes and keeps the store updated until ctx is done.
func (s *NATSSource) Run(ctx context.Context, store *telemetry.Store) error {
	opts := []nats.Option{
		nats.Name(s.cfg.Name),
		nats.ReconnectWait(s.cfg.ReconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			store.SetLostConnection(true)
			s.log.Warn("disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			store.SetLostConnection(false)
			s.log.Info("reconnected", "server", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			s.log.Info("connection closed")
		}),
	}
	nc, err := nats.Connect(s.cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("ingest: nats connect %s: %w", s.cfg.URL, err)
	}

	handler := s.onMessage(store)
	for _, subject := range s.router.Topics() {
		if _, err := nc.Subscribe(subject, handler); err != nil {
			nc.Close()
			return fmt.Errorf("ingest: nats subscribe %s: %w", subject, err)
		}
	}
	store.SetLostConnection(false)
	s.log.Info("connected", "subjects", len(s.router.Topics()))

	<-ctx.Done()
	if err := nc.Drain(); err != nil {
		nc.Close()
	}
	return nil
}

func (s *NATSSource) onMessage(store *telemetry.Store) nats.MsgHandler {
	return func(m *nats.Msg) {
		if err := s.router.Handle(store, m.Subject, m.Data); err != nil {
			s.log.Warn("dropped message", "subject", m.Subject, "err", err)
		}
	}
}

func init() {
	Register("nats", func(cfg map[string]string) Source {
		return NewNATS(NATSConfigFromMap(cfg))
	})
}
